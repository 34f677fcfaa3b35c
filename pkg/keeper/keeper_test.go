package keeper

import (
	"path/filepath"
	"testing"

	"github.com/yourusername/fasttrader/pkg/dtp"
)

func openTestKeeper(t *testing.T) *Keeper {
	t.Helper()
	k, err := Open(filepath.Join(t.TempDir(), "keeper.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { k.Close() })
	return k
}

func fill(id string, qty int64) *dtp.FillReport {
	return &dtp.FillReport{
		AccountNo:       "A1",
		OrderOriginalID: "61000001",
		OrderExchangeID: "80001",
		FillExchangeID:  id,
		Exchange:        dtp.ExchangeSHA,
		Code:            "601398",
		FillPrice:       "5.27",
		FillQuantity:    qty,
		FillTime:        "09:30:01",
	}
}

// TestSaveTradeAppendOnly checks fills only append with increasing
// exchange ids; replays and older ids are ignored.
func TestSaveTradeAppendOnly(t *testing.T) {
	k := openTestKeeper(t)

	if err := k.SaveTrade(fill("100", 100)); err != nil {
		t.Fatal(err)
	}
	if err := k.SaveTrade(fill("101", 200)); err != nil {
		t.Fatal(err)
	}
	// 重放同一笔
	if err := k.SaveTrade(fill("101", 200)); err != nil {
		t.Fatal(err)
	}
	// 乱序旧成交
	if err := k.SaveTrade(fill("99", 50)); err != nil {
		t.Fatal(err)
	}

	n, err := k.TradeCount("A1")
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("trade count = %d, expected 2", n)
	}
}

// TestSaveTradeNumericCompare checks "9" < "100" numerically even though
// it sorts after as a string.
func TestSaveTradeNumericCompare(t *testing.T) {
	k := openTestKeeper(t)

	if err := k.SaveTrade(fill("9", 100)); err != nil {
		t.Fatal(err)
	}
	if err := k.SaveTrade(fill("100", 200)); err != nil {
		t.Fatal(err)
	}

	n, err := k.TradeCount("A1")
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("trade count = %d, expected 2", n)
	}
}

// TestSaveTradeRequiresFillID checks the dedup key invariant.
func TestSaveTradeRequiresFillID(t *testing.T) {
	k := openTestKeeper(t)

	report := fill("", 100)
	if err := k.SaveTrade(report); err == nil {
		t.Error("expected error for fill without fill_exchange_id")
	}
}

// TestSavePositionsFullReplace checks the day's snapshot fully replaces
// the previous one.
func TestSavePositionsFullReplace(t *testing.T) {
	k := openTestKeeper(t)

	first := &dtp.QueryPositionRsp{
		AccountNo: "A1",
		PositionList: []*dtp.QueryPositionItem{
			{Code: "601398", Exchange: dtp.ExchangeSHA, Balance: 1000, AvailableQuantity: 1000},
			{Code: "000001", Exchange: dtp.ExchangeSZA, Balance: 500, AvailableQuantity: 500},
		},
	}
	if err := k.SavePositions(first); err != nil {
		t.Fatal(err)
	}

	second := &dtp.QueryPositionRsp{
		AccountNo: "A1",
		PositionList: []*dtp.QueryPositionItem{
			{Code: "600519", Exchange: dtp.ExchangeSHA, Balance: 100, AvailableQuantity: 100},
		},
	}
	if err := k.SavePositions(second); err != nil {
		t.Fatal(err)
	}

	codes, err := k.Positions("A1")
	if err != nil {
		t.Fatal(err)
	}
	if len(codes) != 1 || codes[0] != "600519" {
		t.Errorf("positions = %v, expected [600519]", codes)
	}
}

// TestSaveCapitalAppends checks snapshots accumulate.
func TestSaveCapitalAppends(t *testing.T) {
	k := openTestKeeper(t)

	for i := 0; i < 3; i++ {
		err := k.SaveCapital(&dtp.QueryCapitalRsp{
			AccountNo: "A1",
			Balance:   "100000.00",
			Available: "80000.00",
			Freeze:    "20000.00",
			Total:     "100000.00",
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	var n int
	if err := k.db.QueryRow(`SELECT COUNT(*) FROM capital WHERE account_no = 'A1'`).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("capital snapshots = %d, expected 3", n)
	}
}
