// Package keeper persists fills, positions and capital snapshots to a local
// sqlite database. It registers as a strategy so the trader's callback
// fan-out drives persistence without the order path knowing about storage.
package keeper

import (
	"database/sql"
	"fmt"
	"log"
	"strconv"
	"time"

	_ "modernc.org/sqlite"

	"github.com/yourusername/fasttrader/pkg/dtp"
)

// Keeper owns one sqlite handle. 成交按 fill_exchange_id 去重追加，持仓按
// 交易日整体替换，资金快照只追加。
type Keeper struct {
	db *sql.DB
}

// Open opens or creates the database and ensures the schema.
func Open(path string) (*Keeper, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("keeper: open %s: %w", path, err)
	}
	// 单写入方，WAL 足够
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("keeper: set journal mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA synchronous=NORMAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("keeper: set synchronous: %w", err)
	}

	k := &Keeper{db: db}
	if err := k.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return k, nil
}

func (k *Keeper) ensureSchema() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS trades (
			fill_exchange_id  TEXT PRIMARY KEY,
			account_no        TEXT NOT NULL,
			order_exchange_id TEXT,
			order_original_id TEXT,
			exchange          INTEGER,
			code              TEXT,
			fill_price        TEXT,
			fill_quantity     INTEGER,
			fill_time         TEXT,
			created_at        TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS positions (
			trading_day    TEXT NOT NULL,
			account_no     TEXT NOT NULL,
			exchange       INTEGER,
			code           TEXT NOT NULL,
			balance        INTEGER,
			available      INTEGER,
			buy_quantity   INTEGER,
			sell_quantity  INTEGER,
			cost           TEXT,
			PRIMARY KEY (trading_day, account_no, code)
		)`,
		`CREATE TABLE IF NOT EXISTS capital (
			account_no TEXT NOT NULL,
			balance    TEXT,
			available  TEXT,
			freeze     TEXT,
			total      TEXT,
			created_at TEXT NOT NULL
		)`,
	}
	for _, stmt := range stmts {
		if _, err := k.db.Exec(stmt); err != nil {
			return fmt.Errorf("keeper: ensure schema: %w", err)
		}
	}
	return nil
}

// Name implements the strategy contract.
func (k *Keeper) Name() string { return "keeper" }

// Close closes the database handle.
func (k *Keeper) Close() error { return k.db.Close() }

// OnTrade appends one fill. 只接受 fill_exchange_id 大于已存最大值的记录，
// 重放旧回报不会产生重复行。
func (k *Keeper) OnTrade(report *dtp.FillReport) {
	if err := k.SaveTrade(report); err != nil {
		log.Printf("[Keeper] save trade fill_exchange_id=%s: %v", report.FillExchangeID, err)
	}
}

// SaveTrade inserts a fill if it is newer than everything stored.
func (k *Keeper) SaveTrade(report *dtp.FillReport) error {
	if report.FillExchangeID == "" {
		return fmt.Errorf("keeper: fill report without fill_exchange_id")
	}

	maxStored, err := k.maxFillExchangeID(report.AccountNo)
	if err != nil {
		return err
	}
	if maxStored != "" && !fillIDGreater(report.FillExchangeID, maxStored) {
		return nil // 已入库或乱序旧回报
	}

	_, err = k.db.Exec(
		`INSERT INTO trades (fill_exchange_id, account_no, order_exchange_id,
			order_original_id, exchange, code, fill_price, fill_quantity,
			fill_time, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		report.FillExchangeID, report.AccountNo, report.OrderExchangeID,
		report.OrderOriginalID, report.Exchange, report.Code,
		report.FillPrice, report.FillQuantity, report.FillTime,
		time.Now().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("keeper: insert trade: %w", err)
	}
	return nil
}

func (k *Keeper) maxFillExchangeID(accountNo string) (string, error) {
	// 交易所成交编号是数字字符串，按数值比较
	var id sql.NullString
	err := k.db.QueryRow(
		`SELECT fill_exchange_id FROM trades WHERE account_no = ?
		 ORDER BY CAST(fill_exchange_id AS INTEGER) DESC LIMIT 1`,
		accountNo,
	).Scan(&id)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("keeper: query max fill id: %w", err)
	}
	return id.String, nil
}

// fillIDGreater compares two exchange fill ids numerically, falling back to
// string order for non-numeric ids.
func fillIDGreater(a, b string) bool {
	ai, aerr := strconv.ParseInt(a, 10, 64)
	bi, berr := strconv.ParseInt(b, 10, 64)
	if aerr == nil && berr == nil {
		return ai > bi
	}
	return a > b
}

// OnPositionQuery replaces the day's positions with the queried snapshot.
func (k *Keeper) OnPositionQuery(rsp *dtp.QueryPositionRsp) {
	if err := k.SavePositions(rsp); err != nil {
		log.Printf("[Keeper] save positions account=%s: %v", rsp.AccountNo, err)
	}
}

// SavePositions full-replaces the account's positions for today.
func (k *Keeper) SavePositions(rsp *dtp.QueryPositionRsp) error {
	tradingDay := time.Now().Format("20060102")

	tx, err := k.db.Begin()
	if err != nil {
		return fmt.Errorf("keeper: begin positions tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`DELETE FROM positions WHERE trading_day = ? AND account_no = ?`,
		tradingDay, rsp.AccountNo,
	); err != nil {
		return fmt.Errorf("keeper: clear positions: %w", err)
	}
	for _, item := range rsp.PositionList {
		if _, err := tx.Exec(
			`INSERT INTO positions (trading_day, account_no, exchange, code,
				balance, available, buy_quantity, sell_quantity, cost)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			tradingDay, rsp.AccountNo, item.Exchange, item.Code,
			item.Balance, item.AvailableQuantity,
			item.BuyQuantity, item.SellQuantity, item.CostPrice,
		); err != nil {
			return fmt.Errorf("keeper: insert position %s: %w", item.Code, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("keeper: commit positions: %w", err)
	}
	return nil
}

// OnCapitalQuery appends one capital snapshot.
func (k *Keeper) OnCapitalQuery(rsp *dtp.QueryCapitalRsp) {
	if err := k.SaveCapital(rsp); err != nil {
		log.Printf("[Keeper] save capital account=%s: %v", rsp.AccountNo, err)
	}
}

// SaveCapital appends the snapshot with a timestamp.
func (k *Keeper) SaveCapital(rsp *dtp.QueryCapitalRsp) error {
	_, err := k.db.Exec(
		`INSERT INTO capital (account_no, balance, available, freeze, total, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rsp.AccountNo, rsp.Balance, rsp.Available, rsp.Freeze, rsp.Total,
		time.Now().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("keeper: insert capital: %w", err)
	}
	return nil
}

// TradeCount reports how many fills are stored for the account.
func (k *Keeper) TradeCount(accountNo string) (int, error) {
	var n int
	err := k.db.QueryRow(
		`SELECT COUNT(*) FROM trades WHERE account_no = ?`, accountNo,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("keeper: count trades: %w", err)
	}
	return n, nil
}

// Positions returns today's stored position codes for the account.
func (k *Keeper) Positions(accountNo string) ([]string, error) {
	tradingDay := time.Now().Format("20060102")
	rows, err := k.db.Query(
		`SELECT code FROM positions WHERE trading_day = ? AND account_no = ? ORDER BY code`,
		tradingDay, accountNo,
	)
	if err != nil {
		return nil, fmt.Errorf("keeper: query positions: %w", err)
	}
	defer rows.Close()

	var codes []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, err
		}
		codes = append(codes, code)
	}
	return codes, rows.Err()
}
