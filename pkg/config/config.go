package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the complete configuration for the trading client
type Config struct {
	Account    AccountConfig    `yaml:"account"`
	Channels   ChannelsConfig   `yaml:"channels"`
	IDPool     IDPoolConfig     `yaml:"id_pool"`
	Dispatcher DispatcherConfig `yaml:"dispatcher"`
	Keeper     KeeperConfig     `yaml:"keeper"`
	Manager    ManagerConfig    `yaml:"manager"`
}

// AccountConfig 资金账号配置
type AccountConfig struct {
	AccountNo string `yaml:"account_no"` // 资金账号
	Password  string `yaml:"password"`   // 密码
}

// ChannelsConfig 柜台四个通道的 NATS 地址与主题
type ChannelsConfig struct {
	NATSAddr     string `yaml:"nats_addr"`     // NATS 服务器地址
	SyncSubject  string `yaml:"sync_channel"`  // 同步查询通道主题
	AsyncSubject string `yaml:"async_channel"` // 异步委托通道主题
	RspSubject   string `yaml:"rsp_channel"`   // 回报订阅主题前缀
	RiskSubject  string `yaml:"risk_channel"`  // 风控订阅主题前缀
}

// IDPoolConfig 委托编号池配置
type IDPoolConfig struct {
	MaxInt                 int64 `yaml:"max_int"`                   // 号段上界
	MaxTraders             int   `yaml:"max_traders"`               // 交易进程槽位数
	MaxStrategiesPerTrader int   `yaml:"max_strategies_per_trader"` // 每进程策略槽位数
	TraderID               int   `yaml:"trader_id"`                 // 本进程槽位
}

// DispatcherConfig 信件分发配置
type DispatcherConfig struct {
	QueueSize int `yaml:"queue_size"` // 收件箱/发件箱容量
}

// KeeperConfig 本地持久化配置
type KeeperConfig struct {
	DBPath string `yaml:"db_path"` // sqlite 数据库文件路径
}

// ManagerConfig 策略管理服务配置
type ManagerConfig struct {
	Addr string `yaml:"addr"` // gRPC 地址，留空则不连接
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(filepath string) (*Config, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate validates the configuration and fills defaults
func (c *Config) Validate() error {
	if c.Account.AccountNo == "" {
		return fmt.Errorf("account.account_no is required")
	}

	if c.Channels.NATSAddr == "" {
		c.Channels.NATSAddr = "nats://127.0.0.1:4222"
	}
	if c.Channels.SyncSubject == "" {
		c.Channels.SyncSubject = "counter.sync"
	}
	if c.Channels.AsyncSubject == "" {
		c.Channels.AsyncSubject = "counter.async"
	}
	if c.Channels.RspSubject == "" {
		c.Channels.RspSubject = "counter.rsp"
	}
	if c.Channels.RiskSubject == "" {
		c.Channels.RiskSubject = "counter.risk"
	}

	// 编号池默认值与原系统保持一致
	if c.IDPool.MaxInt == 0 {
		c.IDPool.MaxInt = 2_000_000_000
	}
	if c.IDPool.MaxTraders == 0 {
		c.IDPool.MaxTraders = 10
	}
	if c.IDPool.MaxStrategiesPerTrader == 0 {
		c.IDPool.MaxStrategiesPerTrader = 100
	}
	if c.IDPool.TraderID < 0 || c.IDPool.TraderID >= c.IDPool.MaxTraders {
		return fmt.Errorf("id_pool.trader_id must be in [0, %d)", c.IDPool.MaxTraders)
	}

	if c.Dispatcher.QueueSize == 0 {
		c.Dispatcher.QueueSize = 1024
	}

	if c.Keeper.DBPath == "" {
		c.Keeper.DBPath = "fasttrader.db"
	}

	return nil
}
