package dtp

import "fmt"

// ErrUnknownAPI reports an api id with no registered body type.
var ErrUnknownAPI = fmt.Errorf("dtp: unknown api id")

// bodyFactories 静态表：API 编号 -> 消息体构造函数
// 收到应答/回报时由 header 中的 api_id 在此表解析出消息体类型。
var bodyFactories = map[int32]func() Message{
	LoginAccountRequest:   func() Message { return new(LoginAccountBody) },
	LoginAccountResponse:  func() Message { return new(LoginAccountRsp) },
	LogoutAccountRequest:  func() Message { return new(LogoutAccountBody) },
	LogoutAccountResponse: func() Message { return new(LogoutAccountRsp) },

	QueryOrdersRequest:    func() Message { return new(QueryRequestBody) },
	QueryOrdersResponse:   func() Message { return new(QueryOrdersRsp) },
	QueryFillsRequest:     func() Message { return new(QueryRequestBody) },
	QueryFillsResponse:    func() Message { return new(QueryFillsRsp) },
	QueryCapitalRequest:   func() Message { return new(QueryRequestBody) },
	QueryCapitalResponse:  func() Message { return new(QueryCapitalRsp) },
	QueryPositionRequest:  func() Message { return new(QueryRequestBody) },
	QueryPositionResponse: func() Message { return new(QueryPositionRsp) },
	QueryRationRequest:    func() Message { return new(QueryRequestBody) },
	QueryRationResponse:   func() Message { return new(QueryRationRsp) },

	PlaceOrderRequest:     func() Message { return new(PlaceOrderBody) },
	CancelOrderRequest:    func() Message { return new(CancelOrderBody) },
	PlaceBatchRequest:     func() Message { return new(PlaceBatchOrderBody) },
	CancelResponseAPI:     func() Message { return new(CancelOrderRsp) },
	PlaceBatchResponseAPI: func() Message { return new(PlaceBatchOrderRsp) },

	PlacedReportAPI:       func() Message { return new(PlacedReport) },
	FillReportAPI:         func() Message { return new(FillReport) },
	CancellationReportAPI: func() Message { return new(CancellationReport) },
}

// NewBody returns a zero-valued message body for the given api id.
func NewBody(apiID int32) (Message, error) {
	factory, ok := bodyFactories[apiID]
	if !ok {
		return nil, fmt.Errorf("%w %d", ErrUnknownAPI, apiID)
	}
	return factory(), nil
}

// DecodeBody resolves the body type for apiID and decodes data into it.
func DecodeBody(apiID int32, data []byte) (Message, error) {
	body, err := NewBody(apiID)
	if err != nil {
		return nil, err
	}
	if err := body.Unmarshal(data); err != nil {
		return nil, fmt.Errorf("dtp: decode body api_id=%d: %w", apiID, err)
	}
	return body, nil
}

// NewRequestBody builds a request body from loosely-typed caller fields.
// 白名单过滤：只接受协议认识的字段，其余字段静默丢弃；account 映射为
// account_no。order_list 中的每一项按同样的规则递归构造。
func NewRequestBody(apiID int32, fields map[string]interface{}) (Message, error) {
	switch apiID {
	case LoginAccountRequest:
		return &LoginAccountBody{
			AccountNo: fieldString(fields, "account"),
			Password:  fieldString(fields, "password"),
		}, nil

	case LogoutAccountRequest:
		return &LogoutAccountBody{
			AccountNo: fieldString(fields, "account"),
		}, nil

	case QueryOrdersRequest, QueryFillsRequest, QueryCapitalRequest,
		QueryPositionRequest, QueryRationRequest:
		return &QueryRequestBody{
			AccountNo: fieldString(fields, "account"),
		}, nil

	case PlaceOrderRequest:
		return placeOrderFromFields(fields), nil

	case CancelOrderRequest:
		return &CancelOrderBody{
			AccountNo:       fieldString(fields, "account"),
			Exchange:        fieldInt32(fields, "exchange"),
			OrderExchangeID: fieldString(fields, "order_exchange_id"),
		}, nil

	case PlaceBatchRequest:
		body := &PlaceBatchOrderBody{
			AccountNo: fieldString(fields, "account"),
		}
		list, _ := fields["order_list"].([]map[string]interface{})
		for _, item := range list {
			body.OrderList = append(body.OrderList, placeOrderFromFields(item))
		}
		return body, nil
	}

	return nil, fmt.Errorf("%w %d (not a request)", ErrUnknownAPI, apiID)
}

func placeOrderFromFields(fields map[string]interface{}) *PlaceOrderBody {
	return &PlaceOrderBody{
		AccountNo:       fieldString(fields, "account"),
		OrderOriginalID: fieldString(fields, "order_original_id"),
		Exchange:        fieldInt32(fields, "exchange"),
		Code:            fieldString(fields, "code"),
		Price:           fieldString(fields, "price"),
		Quantity:        fieldInt64(fields, "quantity"),
		OrderSide:       fieldInt32(fields, "order_side"),
		OrderType:       fieldInt32(fields, "order_type"),
	}
}

func fieldString(fields map[string]interface{}, key string) string {
	v, _ := fields[key].(string)
	return v
}

func fieldInt32(fields map[string]interface{}, key string) int32 {
	switch v := fields[key].(type) {
	case int32:
		return v
	case int:
		return int32(v)
	case int64:
		return int32(v)
	}
	return 0
}

func fieldInt64(fields map[string]interface{}, key string) int64 {
	switch v := fields[key].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case int32:
		return int64(v)
	}
	return 0
}
