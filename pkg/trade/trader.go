// Package trade presents one authenticated façade over the counter protocol
// and fans incoming reports out to registered strategies.
package trade

import (
	"fmt"
	"log"
	"math/rand"
	"strconv"
	"sync"

	"github.com/yourusername/fasttrader/pkg/broker"
	"github.com/yourusername/fasttrader/pkg/dtp"
	"github.com/yourusername/fasttrader/pkg/mail"
)

// Trader owns the session state (account, token) and the strategy registry.
// 状态机：未登录 -> 登录中 -> 已登录 -> 已登出。token 在收到成功的登录
// 应答之前始终为空。
type Trader struct {
	dispatcher *mail.Dispatcher
	broker     *broker.Broker

	mu         sync.RWMutex
	account    string
	token      string
	logined    bool
	strategies []Strategy
}

// New wires a trader to its dispatcher and broker. Bind must be called
// before any request is issued.
func New(dispatcher *mail.Dispatcher, b *broker.Broker) *Trader {
	return &Trader{
		dispatcher: dispatcher,
		broker:     b,
	}
}

// Bind registers every known api id with the dispatcher: responses fan out
// through onResponse, requests are served by the broker channel that the
// protocol assigns to each api.
func (t *Trader) Bind() error {
	for _, apiID := range dtp.RspAPIIDs {
		key := fmt.Sprintf("%d_%s", apiID, mail.TypeResponse)
		if err := t.dispatcher.Bind(key, t.onResponse, false); err != nil {
			return err
		}
	}
	for apiID, kind := range dtp.ReqAPIKinds {
		key := fmt.Sprintf("%d_%s", apiID, mail.TypeRequest)
		handler := t.broker.HandleSyncRequest
		if kind == dtp.AsyncRequest {
			handler = t.broker.HandleAsyncRequest
		}
		if err := t.dispatcher.Bind(key, handler, false); err != nil {
			return err
		}
	}
	return nil
}

// AddStrategy registers a strategy. 回调按注册顺序送达。
func (t *Trader) AddStrategy(s Strategy) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.strategies = append(t.strategies, s)
}

func (t *Trader) Account() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.account
}

func (t *Trader) Token() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.token
}

func (t *Trader) Logined() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.logined
}

// ---- session ----

// Login sends the login request on the sync channel and blocks for the
// response. On success the token is retained and the trader becomes
// authenticated; on a non-success status the failure is logged and the
// caller inspects the returned payload. 超时返回错误。
func (t *Trader) Login(account, password string) (*dtp.Payload, error) {
	t.mu.Lock()
	t.account = account
	t.mu.Unlock()

	m, err := mail.NewRequest(dtp.LoginAccountRequest, generateRequestID(), true,
		map[string]interface{}{
			"account":  account,
			"password": password,
		})
	if err != nil {
		return nil, err
	}
	rsp, err := t.dispatcher.Put(m)
	if err != nil {
		return nil, err
	}
	if rsp == nil || rsp.Payload() == nil {
		return nil, fmt.Errorf("trade: login account=%s: no response within timeout", account)
	}

	payload := rsp.Payload()
	if payload.Header.Code == dtp.ResponseCodeOK {
		body, ok := payload.Body.(*dtp.LoginAccountRsp)
		if !ok || body.Token == "" {
			return payload, fmt.Errorf("trade: login account=%s: response carries no token", account)
		}
		t.mu.Lock()
		t.token = body.Token
		t.logined = true
		t.mu.Unlock()
		log.Printf("[Trader] 登录成功 <%s> %s", account, payload.Header.Message)
	} else {
		log.Printf("[Trader] 登录失败 <%s> code=%d %s",
			account, payload.Header.Code, payload.Header.Message)
	}
	return payload, nil
}

// Logout sends the logout request. The session becomes unauthenticated
// regardless of what the counter answers.
func (t *Trader) Logout() error {
	t.mu.Lock()
	account, token := t.account, t.token
	t.token = ""
	t.logined = false
	t.mu.Unlock()

	m, err := mail.NewRequest(dtp.LogoutAccountRequest, generateRequestID(), false,
		map[string]interface{}{
			"account": account,
			"token":   token,
		})
	if err != nil {
		return err
	}
	_, err = t.dispatcher.Put(m)
	return err
}

// ---- orders ----
// 报单接口不等待登录完成：调用方负责先 Login。没有 token 的请求会被
// broker 在异步通道上拒绝。

// SendOrder places a single order. 委托号由调用方从 id 池领取。
func (t *Trader) SendOrder(orderOriginalID string, exchange int32, code, price string,
	quantity int64, orderSide, orderType int32) error {

	order := Order{
		Exchange:  exchange,
		Code:      code,
		Price:     price,
		Quantity:  quantity,
		OrderSide: orderSide,
		OrderType: orderType,
	}.normalized()

	fields := t.orderFields(order)
	fields["order_original_id"] = orderOriginalID

	m, err := mail.NewRequest(dtp.PlaceOrderRequest, generateRequestID(), false, fields)
	if err != nil {
		return err
	}
	if _, err := t.dispatcher.Put(m); err != nil {
		return err
	}
	log.Printf("[Trader] 报单委托 account=%s, code=%s, price=%s, quantity=%d, order_side=%d, order_type=%d",
		t.Account(), order.Code, order.Price, order.Quantity, order.OrderSide, order.OrderType)
	return nil
}

// PlaceOrder places one order from an Order value. 未指定委托号时临时生成
// 一个；多进程部署下调用方应改用 SendOrder 并从 idgen 池领号。
func (t *Trader) PlaceOrder(order Order) error {
	order = order.normalized()
	fields := t.orderFields(order)
	if order.OriginalID != "" {
		fields["order_original_id"] = order.OriginalID
	} else {
		fields["order_original_id"] = GenerateOriginalID()
	}

	m, err := mail.NewRequest(dtp.PlaceOrderRequest, generateRequestID(), false, fields)
	if err != nil {
		return err
	}
	_, err = t.dispatcher.Put(m)
	return err
}

// PlaceOrderBatch places a batch of orders in one request.
func (t *Trader) PlaceOrderBatch(orders []Order) error {
	list := make([]map[string]interface{}, 0, len(orders))
	for _, order := range orders {
		order = order.normalized()
		fields := t.orderFields(order)
		if order.OriginalID != "" {
			fields["order_original_id"] = order.OriginalID
		} else {
			fields["order_original_id"] = GenerateOriginalID()
		}
		list = append(list, fields)
	}
	m, err := mail.NewRequest(dtp.PlaceBatchRequest, generateRequestID(), false,
		map[string]interface{}{
			"account":    t.Account(),
			"token":      t.Token(),
			"order_list": list,
		})
	if err != nil {
		return err
	}
	if _, err := t.dispatcher.Put(m); err != nil {
		return err
	}
	log.Printf("[Trader] 批量委托 account=%s, count=%d", t.Account(), len(orders))
	return nil
}

// CancelOrder cancels by exchange order id.
func (t *Trader) CancelOrder(exchange int32, orderExchangeID string) error {
	m, err := mail.NewRequest(dtp.CancelOrderRequest, generateRequestID(), false,
		map[string]interface{}{
			"account":           t.Account(),
			"token":             t.Token(),
			"exchange":          int(exchange),
			"order_exchange_id": orderExchangeID,
		})
	if err != nil {
		return err
	}
	_, err = t.dispatcher.Put(m)
	return err
}

func (t *Trader) orderFields(order Order) map[string]interface{} {
	return map[string]interface{}{
		"account":    t.Account(),
		"token":      t.Token(),
		"exchange":   int(order.Exchange),
		"code":       order.Code,
		"price":      order.Price,
		"quantity":   order.Quantity,
		"order_side": int(order.OrderSide),
		"order_type": int(order.OrderType),
	}
}

// ---- queries ----
// sync=true 时阻塞到应答或超时并直接返回 payload；sync=false 时立即返回，
// 结果经回调链路送达策略。

func (t *Trader) QueryOrders(sync bool) (*dtp.Payload, error) {
	return t.query(dtp.QueryOrdersRequest, sync)
}

func (t *Trader) QueryTrades(sync bool) (*dtp.Payload, error) {
	return t.query(dtp.QueryFillsRequest, sync)
}

func (t *Trader) QueryPositions(sync bool) (*dtp.Payload, error) {
	return t.query(dtp.QueryPositionRequest, sync)
}

func (t *Trader) QueryCapital(sync bool) (*dtp.Payload, error) {
	return t.query(dtp.QueryCapitalRequest, sync)
}

func (t *Trader) QueryRation(sync bool) (*dtp.Payload, error) {
	return t.query(dtp.QueryRationRequest, sync)
}

func (t *Trader) query(apiID int32, sync bool) (*dtp.Payload, error) {
	m, err := mail.NewRequest(apiID, generateRequestID(), sync,
		map[string]interface{}{
			"account": t.Account(),
			"token":   t.Token(),
		})
	if err != nil {
		return nil, err
	}
	rsp, err := t.dispatcher.Put(m)
	if err != nil {
		return nil, err
	}
	if rsp == nil {
		return nil, nil
	}
	return rsp.Payload(), nil
}

// ---- fan-out ----

// onResponse is the single dispatcher handler for every response api id.
// Login/logout responses update the trader's own state; everything else is
// fanned out to each registered strategy that implements the matching
// callback, in registration order.
func (t *Trader) onResponse(m *mail.Mail) (*mail.Mail, error) {
	payload := m.Payload()
	if payload == nil || payload.Header == nil {
		return nil, fmt.Errorf("trade: response api_id=%d without payload", m.ApiID())
	}

	switch m.ApiID() {
	case dtp.LoginAccountResponse:
		t.onLogin(payload)
	case dtp.LogoutAccountResponse:
		t.onLogout(payload)
	default:
		t.fanOut(m.ApiID(), payload.Body)
	}
	return nil, nil
}

// onLogin handles the login response on the asynchronous path (sync logins
// never reach the dispatcher).
func (t *Trader) onLogin(payload *dtp.Payload) {
	if payload.Header.Code != dtp.ResponseCodeOK {
		log.Printf("[Trader] 登录失败 <%s> code=%d %s",
			t.Account(), payload.Header.Code, payload.Header.Message)
		return
	}
	body, ok := payload.Body.(*dtp.LoginAccountRsp)
	if !ok {
		log.Printf("[Trader] 登录应答缺少消息体 <%s>", t.Account())
		return
	}
	t.mu.Lock()
	t.token = body.Token
	t.logined = true
	t.mu.Unlock()
	log.Printf("[Trader] 登入账户 %s", t.Account())
}

func (t *Trader) onLogout(payload *dtp.Payload) {
	t.mu.Lock()
	t.token = ""
	t.logined = false
	t.mu.Unlock()
	log.Printf("[Trader] 登出账户 %s %s", t.Account(), payload.Header.Message)
}

// fanOut delivers one decoded report to every strategy implementing the
// callback for this api id. A strategy without the capability is skipped
// silently.
func (t *Trader) fanOut(apiID int32, body dtp.Message) {
	t.mu.RLock()
	strategies := make([]Strategy, len(t.strategies))
	copy(strategies, t.strategies)
	t.mu.RUnlock()

	switch apiID {
	case dtp.PlacedReportAPI:
		report, ok := body.(*dtp.PlacedReport)
		if !ok {
			return
		}
		for _, s := range strategies {
			if h, ok := s.(OrderReportHandler); ok {
				h.OnOrder(report)
			}
		}
	case dtp.FillReportAPI:
		report, ok := body.(*dtp.FillReport)
		if !ok {
			return
		}
		for _, s := range strategies {
			if h, ok := s.(TradeReportHandler); ok {
				h.OnTrade(report)
			}
		}
	case dtp.CancellationReportAPI:
		report, ok := body.(*dtp.CancellationReport)
		if !ok {
			return
		}
		for _, s := range strategies {
			if h, ok := s.(CancellationReportHandler); ok {
				h.OnOrderCancelation(report)
			}
		}
	case dtp.CancelResponseAPI:
		rsp, ok := body.(*dtp.CancelOrderRsp)
		if !ok {
			return
		}
		for _, s := range strategies {
			if h, ok := s.(CancelSubmissionHandler); ok {
				h.OnOrderCancelationSubmission(rsp)
			}
		}
	case dtp.PlaceBatchResponseAPI:
		rsp, ok := body.(*dtp.PlaceBatchOrderRsp)
		if !ok {
			return
		}
		for _, s := range strategies {
			if h, ok := s.(BatchSubmissionHandler); ok {
				h.OnBatchOrderSubmission(rsp)
			}
		}
	case dtp.QueryOrdersResponse:
		rsp, ok := body.(*dtp.QueryOrdersRsp)
		if !ok {
			return
		}
		for _, s := range strategies {
			if h, ok := s.(OrderQueryHandler); ok {
				h.OnOrderQuery(rsp)
			}
		}
	case dtp.QueryFillsResponse:
		rsp, ok := body.(*dtp.QueryFillsRsp)
		if !ok {
			return
		}
		for _, s := range strategies {
			if h, ok := s.(TradeQueryHandler); ok {
				h.OnTradeQuery(rsp)
			}
		}
	case dtp.QueryPositionResponse:
		rsp, ok := body.(*dtp.QueryPositionRsp)
		if !ok {
			return
		}
		for _, s := range strategies {
			if h, ok := s.(PositionQueryHandler); ok {
				h.OnPositionQuery(rsp)
			}
		}
	case dtp.QueryCapitalResponse:
		rsp, ok := body.(*dtp.QueryCapitalRsp)
		if !ok {
			return
		}
		for _, s := range strategies {
			if h, ok := s.(CapitalQueryHandler); ok {
				h.OnCapitalQuery(rsp)
			}
		}
	case dtp.QueryRationResponse:
		rsp, ok := body.(*dtp.QueryRationRsp)
		if !ok {
			return
		}
		for _, s := range strategies {
			if h, ok := s.(RationQueryHandler); ok {
				h.OnRationQuery(rsp)
			}
		}
	default:
		log.Printf("[Trader] 未知应答 api_id=%d", apiID)
	}
}

// ---- id helpers ----

// generateRequestID 请求编号，柜台侧用于关联应答
func generateRequestID() string {
	return strconv.Itoa(11000000 + rand.Intn(900000))
}

// GenerateOriginalID 委托原始编号，简单随机版；生产环境应改用 idgen 池
// 领取分区号段，避免多进程冲突。
func GenerateOriginalID() string {
	return strconv.Itoa(61000000 + rand.Intn(900000))
}
