package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/yourusername/fasttrader/pkg/broker"
	"github.com/yourusername/fasttrader/pkg/config"
	"github.com/yourusername/fasttrader/pkg/idgen"
	"github.com/yourusername/fasttrader/pkg/keeper"
	"github.com/yourusername/fasttrader/pkg/mail"
	"github.com/yourusername/fasttrader/pkg/trade"
)

const (
	appName    = "FastTrader"
	appVersion = "1.0.0"
)

var (
	configFile = flag.String("config", "./config/trader.yaml", "Configuration file path")
	version    = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Parse()

	if *version {
		fmt.Printf("%s version %s\n", appName, appVersion)
		os.Exit(0)
	}

	log.Printf("[Main] Loading configuration from: %s", *configFile)
	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		log.Fatalf("[Main] Failed to load config: %v", err)
	}

	// 委托编号池：本进程槽位内每个策略拿到互不重叠的号段
	pool := idgen.NewPool(cfg.IDPool.MaxInt, cfg.IDPool.MaxTraders, cfg.IDPool.MaxStrategiesPerTrader)
	if r, err := pool.StrategyRange(cfg.IDPool.TraderID, 0); err != nil {
		log.Fatalf("[Main] Failed to partition id pool: %v", err)
	} else {
		log.Printf("[Main] Order id range for strategy 0: %s", r)
	}

	transport, err := broker.NewNATSTransport(broker.TransportConfig{
		Addr:         cfg.Channels.NATSAddr,
		Account:      cfg.Account.AccountNo,
		SyncSubject:  cfg.Channels.SyncSubject,
		AsyncSubject: cfg.Channels.AsyncSubject,
		RspSubject:   cfg.Channels.RspSubject,
		RiskSubject:  cfg.Channels.RiskSubject,
	})
	if err != nil {
		log.Fatalf("[Main] Failed to connect counter channels: %v", err)
	}
	defer transport.Close()

	dispatcher := mail.NewDispatcher(cfg.Dispatcher.QueueSize)
	b := broker.New(dispatcher, transport)
	trader := trade.New(dispatcher, b)
	if err := trader.Bind(); err != nil {
		log.Fatalf("[Main] Failed to bind handlers: %v", err)
	}

	// 本地落库作为一个策略挂到回调链上
	kp, err := keeper.Open(cfg.Keeper.DBPath)
	if err != nil {
		log.Fatalf("[Main] Failed to open keeper db: %v", err)
	}
	defer kp.Close()
	trader.AddStrategy(kp)

	b.Start()
	defer b.Stop()

	payload, err := trader.Login(cfg.Account.AccountNo, cfg.Account.Password)
	if err != nil {
		log.Fatalf("[Main] Login failed: %v", err)
	}
	if !trader.Logined() {
		log.Fatalf("[Main] Login rejected: code=%d %s",
			payload.Header.Code, payload.Header.Message)
	}

	log.Println("[Main] Trader is running. Press Ctrl+C to stop...")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Printf("[Main] Received signal: %v", sig)

	if err := trader.Logout(); err != nil {
		log.Printf("[Main] Logout failed: %v", err)
	}
	dispatcher.Close()
	log.Println("[Main] Trader stopped")
}
