// Package manage is the client side of the strategy-supervision manager:
// one generic control RPC carrying an api name plus keyword arguments.
package manage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/encoding"
)

const codecName = "json"

// jsonCodec 管理通道消息量很小，直接走 JSON，省去代码生成
type jsonCodec struct{}

func (jsonCodec) Marshal(v interface{}) ([]byte, error)      { return json.Marshal(v) }
func (jsonCodec) Unmarshal(data []byte, v interface{}) error { return json.Unmarshal(data, v) }
func (jsonCodec) Name() string                               { return codecName }

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

// Request is one control call: api name plus keyword arguments.
type Request struct {
	ApiName string                 `json:"api_name"`
	Kwargs  map[string]interface{} `json:"kwargs,omitempty"`
}

// Reply carries either the result mapping or an error string.
type Reply struct {
	Ret   map[string]interface{} `json:"ret,omitempty"`
	Error string                 `json:"error,omitempty"`
}

const callMethod = "/fasttrader.Manager/Call"

// DefaultCallTimeout bounds one control RPC.
const DefaultCallTimeout = 10 * time.Second

// Client talks to the manager over gRPC.
type Client struct {
	conn *grpc.ClientConn
}

// Dial connects to the manager address.
func Dial(addr string) (*Client, error) {
	conn, err := grpc.NewClient(addr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(codecName)),
	)
	if err != nil {
		return nil, fmt.Errorf("manage: dial %s: %w", addr, err)
	}
	return &Client{conn: conn}, nil
}

// NewClientFromConn wraps an existing connection, 测试用。
func NewClientFromConn(conn *grpc.ClientConn) *Client {
	return &Client{conn: conn}
}

func (c *Client) Close() error { return c.conn.Close() }

// Call invokes one manager api. A non-empty reply error becomes a Go error.
func (c *Client) Call(ctx context.Context, apiName string, kwargs map[string]interface{}) (map[string]interface{}, error) {
	req := &Request{ApiName: apiName, Kwargs: kwargs}
	reply := new(Reply)
	if err := c.conn.Invoke(ctx, callMethod, req, reply,
		grpc.CallContentSubtype(codecName)); err != nil {
		return nil, fmt.Errorf("manage: call %s: %w", apiName, err)
	}
	if reply.Error != "" {
		return nil, fmt.Errorf("manage: %s: %s", apiName, reply.Error)
	}
	return reply.Ret, nil
}

// ---- convenience wrappers over the manager's api surface ----

func (c *Client) StartStrategy(ctx context.Context, strategyID int) error {
	_, err := c.Call(ctx, "start_strategy", map[string]interface{}{"strategy_id": strategyID})
	return err
}

func (c *Client) StopStrategy(ctx context.Context, strategyID int) error {
	_, err := c.Call(ctx, "stop_strategy", map[string]interface{}{"strategy_id": strategyID})
	return err
}

func (c *Client) Positions(ctx context.Context, strategyID int) (map[string]interface{}, error) {
	return c.Call(ctx, "get_positions", map[string]interface{}{"strategy_id": strategyID})
}

func (c *Client) Orders(ctx context.Context, strategyID int) (map[string]interface{}, error) {
	return c.Call(ctx, "get_orders", map[string]interface{}{"strategy_id": strategyID})
}

func (c *Client) Trades(ctx context.Context, strategyID int) (map[string]interface{}, error) {
	return c.Call(ctx, "get_trades", map[string]interface{}{"strategy_id": strategyID})
}

func (c *Client) UpdateSettings(ctx context.Context, settings map[string]interface{}) error {
	_, err := c.Call(ctx, "update_settings", settings)
	return err
}
