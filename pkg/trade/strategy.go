package trade

import "github.com/yourusername/fasttrader/pkg/dtp"

// Strategy is the minimal contract a registered strategy must satisfy.
// Report callbacks are optional capability interfaces below: the trader
// checks each one per api id at fan-out time, so a strategy only implements
// the callbacks it cares about.
// （与策略引擎里 PositionInitializer 的用法一致：能力接口按需断言。）
type Strategy interface {
	Name() string
}

// OrderReportHandler 委托确认回报回调
type OrderReportHandler interface {
	OnOrder(report *dtp.PlacedReport)
}

// TradeReportHandler 成交回报回调
type TradeReportHandler interface {
	OnTrade(report *dtp.FillReport)
}

// CancellationReportHandler 撤单回报回调
type CancellationReportHandler interface {
	OnOrderCancelation(report *dtp.CancellationReport)
}

// CancelSubmissionHandler 撤单提交应答回调
type CancelSubmissionHandler interface {
	OnOrderCancelationSubmission(rsp *dtp.CancelOrderRsp)
}

// BatchSubmissionHandler 批量报单提交应答回调
type BatchSubmissionHandler interface {
	OnBatchOrderSubmission(rsp *dtp.PlaceBatchOrderRsp)
}

// OrderQueryHandler 订单查询应答回调
type OrderQueryHandler interface {
	OnOrderQuery(rsp *dtp.QueryOrdersRsp)
}

// TradeQueryHandler 成交查询应答回调
type TradeQueryHandler interface {
	OnTradeQuery(rsp *dtp.QueryFillsRsp)
}

// PositionQueryHandler 持仓查询应答回调
type PositionQueryHandler interface {
	OnPositionQuery(rsp *dtp.QueryPositionRsp)
}

// CapitalQueryHandler 资金查询应答回调
type CapitalQueryHandler interface {
	OnCapitalQuery(rsp *dtp.QueryCapitalRsp)
}

// RationQueryHandler 配售权益查询应答回调
type RationQueryHandler interface {
	OnRationQuery(rsp *dtp.QueryRationRsp)
}

// Order is a request-construction helper for PlaceOrder / PlaceOrderBatch.
// 零值字段在发送前归一化：默认上海A股、买入、限价。
type Order struct {
	OriginalID string // 留空则发送时生成
	Exchange   int32
	Code       string
	Price      string // decimal as string, 避免传输中的浮点误差
	Quantity   int64
	OrderSide  int32
	OrderType  int32
}

func (o Order) normalized() Order {
	if o.Exchange == 0 {
		o.Exchange = dtp.ExchangeSHA
	}
	if o.OrderSide == 0 {
		o.OrderSide = dtp.OrderSideBuy
	}
	if o.OrderType == 0 {
		o.OrderType = dtp.OrderTypeLimit
	}
	return o
}
