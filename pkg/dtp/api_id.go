package dtp

// 柜台协议 API 编号
// Request ids start with 10, response ids with 11, push report ids with 20.
const (
	LoginAccountRequest   int32 = 10001001
	LoginAccountResponse  int32 = 11001001
	LogoutAccountRequest  int32 = 10001002
	LogoutAccountResponse int32 = 11001002

	QueryOrdersRequest    int32 = 10003001
	QueryOrdersResponse   int32 = 11003001
	QueryFillsRequest     int32 = 10003002
	QueryFillsResponse    int32 = 11003002
	QueryCapitalRequest   int32 = 10003003
	QueryCapitalResponse  int32 = 11003003
	QueryPositionRequest  int32 = 10003004
	QueryPositionResponse int32 = 11003004
	QueryRationRequest    int32 = 10005001
	QueryRationResponse   int32 = 11005001

	PlaceOrderRequest     int32 = 10002001
	CancelOrderRequest    int32 = 10002002
	PlaceBatchRequest     int32 = 10002003
	CancelResponseAPI     int32 = 11002002
	PlaceBatchResponseAPI int32 = 11002003

	PlacedReportAPI       int32 = 20001001
	FillReportAPI         int32 = 20001002
	CancellationReportAPI int32 = 20001003
)

// RequestKind 区分请求走同步通道还是异步通道
type RequestKind int

const (
	SyncRequest RequestKind = iota
	AsyncRequest
)

// ReqAPIKinds maps every request api id to the broker channel that serves it.
// 登录/登出与各类查询走同步查询通道，委托/撤单走异步委托通道。
var ReqAPIKinds = map[int32]RequestKind{
	LoginAccountRequest:  SyncRequest,
	LogoutAccountRequest: SyncRequest,
	QueryOrdersRequest:   SyncRequest,
	QueryFillsRequest:    SyncRequest,
	QueryCapitalRequest:  SyncRequest,
	QueryPositionRequest: SyncRequest,
	QueryRationRequest:   SyncRequest,
	PlaceOrderRequest:    AsyncRequest,
	CancelOrderRequest:   AsyncRequest,
	PlaceBatchRequest:    AsyncRequest,
}

// RspAPIIDs lists every response / report api id the trader fans out.
var RspAPIIDs = []int32{
	LoginAccountResponse,
	LogoutAccountResponse,
	QueryOrdersResponse,
	QueryFillsResponse,
	QueryCapitalResponse,
	QueryPositionResponse,
	QueryRationResponse,
	PlacedReportAPI,
	FillReportAPI,
	CancellationReportAPI,
	CancelResponseAPI,
	PlaceBatchResponseAPI,
}

// 响应码
const (
	ResponseCodeOK int32 = 0
)

// 交易所编号
const (
	ExchangeSHA int32 = 1 // 上海A股
	ExchangeSZA int32 = 2 // 深圳A股
)

// 买卖方向
const (
	OrderSideBuy  int32 = 1
	OrderSideSell int32 = 2
)

// 订单类型
const (
	OrderTypeLimit  int32 = 1
	OrderTypeMarket int32 = 2
)
