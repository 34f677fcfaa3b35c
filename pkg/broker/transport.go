package broker

import (
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
)

// ErrNoMessage is returned by a non-blocking receive when nothing is
// pending. The sync poll loop treats it as "keep waiting".
var ErrNoMessage = errors.New("broker: no message available")

// Transport owns the four counter endpoints. Each endpoint has exactly one
// reader and one writer role; the broker never shares a role between
// goroutines.
//
//   - 同步查询通道：阻塞式请求/应答（登录、登出、各类查询）
//   - 异步委托通道：报单/撤单/批量报单，只发不等
//   - 回报订阅通道：柜台应答与回报推送
//   - 风控订阅通道：合规/风控推送
type Transport interface {
	// SendRequest writes one two-part frame to the sync query channel.
	SendRequest(frame []byte) error
	// RecvResponse polls the sync query channel without blocking.
	RecvResponse() ([]byte, error)
	// SendOrder writes one two-part frame to the async order channel.
	SendOrder(frame []byte) error
	// RecvReport blocks up to timeout for a counter report frame.
	RecvReport(timeout time.Duration) ([]byte, error)
	// RecvRisk blocks up to timeout for a compliance push frame.
	RecvRisk(timeout time.Duration) ([]byte, error)

	Close() error
}

// TransportConfig 四个通道的 NATS 主题
type TransportConfig struct {
	Addr         string // NATS 服务器地址
	Account      string // 订阅主题按账号区分
	SyncSubject  string
	AsyncSubject string
	RspSubject   string
	RiskSubject  string
}

// natsTransport implements Transport over one NATS connection. The sync
// channel uses a private reply inbox so responses come back on a dedicated
// subscription, mirroring a blocking request-reply socket.
type natsTransport struct {
	conn      *nats.Conn
	syncSubj  string
	asyncSubj string
	replyTo   string

	respSub   *nats.Subscription
	reportSub *nats.Subscription
	riskSub   *nats.Subscription
}

// NewNATSTransport connects the four endpoints.
func NewNATSTransport(cfg TransportConfig) (Transport, error) {
	conn, err := nats.Connect(cfg.Addr,
		nats.MaxReconnects(10),
		nats.ReconnectWait(time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("broker: connect %s: %w", cfg.Addr, err)
	}

	t := &natsTransport{
		conn:      conn,
		syncSubj:  cfg.SyncSubject,
		asyncSubj: cfg.AsyncSubject,
		replyTo:   nats.NewInbox(),
	}

	if t.respSub, err = conn.SubscribeSync(t.replyTo); err != nil {
		conn.Close()
		return nil, fmt.Errorf("broker: subscribe reply inbox: %w", err)
	}
	// 回报与风控推送按账号订阅
	reportSubj := cfg.RspSubject + "." + cfg.Account
	if t.reportSub, err = conn.SubscribeSync(reportSubj); err != nil {
		conn.Close()
		return nil, fmt.Errorf("broker: subscribe %s: %w", reportSubj, err)
	}
	riskSubj := cfg.RiskSubject + "." + cfg.Account
	if t.riskSub, err = conn.SubscribeSync(riskSubj); err != nil {
		conn.Close()
		return nil, fmt.Errorf("broker: subscribe %s: %w", riskSubj, err)
	}

	return t, nil
}

func (t *natsTransport) SendRequest(frame []byte) error {
	return t.conn.PublishMsg(&nats.Msg{
		Subject: t.syncSubj,
		Reply:   t.replyTo,
		Data:    frame,
	})
}

func (t *natsTransport) RecvResponse() ([]byte, error) {
	msg, err := t.respSub.NextMsg(time.Millisecond)
	if err != nil {
		if errors.Is(err, nats.ErrTimeout) {
			return nil, ErrNoMessage
		}
		return nil, err
	}
	return msg.Data, nil
}

func (t *natsTransport) SendOrder(frame []byte) error {
	return t.conn.Publish(t.asyncSubj, frame)
}

func (t *natsTransport) RecvReport(timeout time.Duration) ([]byte, error) {
	return nextData(t.reportSub, timeout)
}

func (t *natsTransport) RecvRisk(timeout time.Duration) ([]byte, error) {
	return nextData(t.riskSub, timeout)
}

func nextData(sub *nats.Subscription, timeout time.Duration) ([]byte, error) {
	msg, err := sub.NextMsg(timeout)
	if err != nil {
		if errors.Is(err, nats.ErrTimeout) {
			return nil, ErrNoMessage
		}
		return nil, err
	}
	return msg.Data, nil
}

func (t *natsTransport) Close() error {
	t.conn.Close()
	return nil
}
