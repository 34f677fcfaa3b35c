package dtp

import (
	"errors"
	"testing"

	"google.golang.org/protobuf/encoding/protowire"
)

// TestHeaderRoundTrip checks request and response headers survive the wire.
func TestHeaderRoundTrip(t *testing.T) {
	req := &RequestHeader{
		RequestID: "11000001",
		ApiID:     LoginAccountRequest,
		Token:     "T1",
	}
	data, err := req.Marshal()
	if err != nil {
		t.Fatal(err)
	}
	var got RequestHeader
	if err := got.Unmarshal(data); err != nil {
		t.Fatal(err)
	}
	if got != *req {
		t.Errorf("request header round trip: got %+v, expected %+v", got, *req)
	}

	rsp := &ResponseHeader{
		RequestID: "11000001",
		ApiID:     LoginAccountResponse,
		Code:      1,
		Message:   "password mismatch",
	}
	data, err = rsp.Marshal()
	if err != nil {
		t.Fatal(err)
	}
	var gotRsp ResponseHeader
	if err := gotRsp.Unmarshal(data); err != nil {
		t.Fatal(err)
	}
	if gotRsp != *rsp {
		t.Errorf("response header round trip: got %+v, expected %+v", gotRsp, *rsp)
	}
}

// TestPlaceBatchRoundTrip checks the nested order list survives the wire.
func TestPlaceBatchRoundTrip(t *testing.T) {
	body := &PlaceBatchOrderBody{
		AccountNo: "021000062436",
		OrderList: []*PlaceOrderBody{
			{AccountNo: "021000062436", OrderOriginalID: "61000001", Exchange: ExchangeSHA,
				Code: "601398", Price: "5.27", Quantity: 1000, OrderSide: OrderSideBuy, OrderType: OrderTypeLimit},
			{AccountNo: "021000062436", OrderOriginalID: "61000002", Exchange: ExchangeSZA,
				Code: "000001", Price: "11.80", Quantity: 500, OrderSide: OrderSideSell, OrderType: OrderTypeLimit},
		},
	}
	data, err := body.Marshal()
	if err != nil {
		t.Fatal(err)
	}

	var got PlaceBatchOrderBody
	if err := got.Unmarshal(data); err != nil {
		t.Fatal(err)
	}
	if got.AccountNo != body.AccountNo {
		t.Errorf("account = %s", got.AccountNo)
	}
	if len(got.OrderList) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(got.OrderList))
	}
	for i, order := range got.OrderList {
		if *order != *body.OrderList[i] {
			t.Errorf("order %d: got %+v, expected %+v", i, *order, *body.OrderList[i])
		}
	}
}

// TestUnmarshalSkipsUnknownFields checks a body with extra fields from a
// newer counter version still decodes.
func TestUnmarshalSkipsUnknownFields(t *testing.T) {
	body := &LoginAccountRsp{Token: "T1"}
	data, err := body.Marshal()
	if err != nil {
		t.Fatal(err)
	}
	// 追加一个未知字段 99
	data = protowire.AppendTag(data, 99, protowire.BytesType)
	data = protowire.AppendBytes(data, []byte("future"))

	var got LoginAccountRsp
	if err := got.Unmarshal(data); err != nil {
		t.Fatal(err)
	}
	if got.Token != "T1" {
		t.Errorf("token = %q", got.Token)
	}
}

// TestUnmarshalRejectsGarbage checks malformed bytes come back as an error
// rather than a partial message.
func TestUnmarshalRejectsGarbage(t *testing.T) {
	var got FillReport
	if err := got.Unmarshal([]byte{0x0a, 0xff, 0x01, 0x02}); err == nil {
		t.Error("expected error for truncated field")
	}
}

// TestDecodeBodyUnknownAPI checks the registry rejects unknown api ids.
func TestDecodeBodyUnknownAPI(t *testing.T) {
	if _, err := DecodeBody(99999999, nil); !errors.Is(err, ErrUnknownAPI) {
		t.Fatalf("expected ErrUnknownAPI, got %v", err)
	}
}

// TestDecodeBodyResolvesByAPIID checks each report api id maps to its own
// body type.
func TestDecodeBodyResolvesByAPIID(t *testing.T) {
	fill := &FillReport{AccountNo: "A1", FillExchangeID: "12345", Code: "601398"}
	data, err := fill.Marshal()
	if err != nil {
		t.Fatal(err)
	}

	body, err := DecodeBody(FillReportAPI, data)
	if err != nil {
		t.Fatal(err)
	}
	got, ok := body.(*FillReport)
	if !ok {
		t.Fatalf("expected *FillReport, got %T", body)
	}
	if got.FillExchangeID != "12345" {
		t.Errorf("fill exchange id = %s", got.FillExchangeID)
	}
}

// TestNewRequestBodyWhitelist checks only protocol fields reach the body
// and account maps to account_no.
func TestNewRequestBodyWhitelist(t *testing.T) {
	body, err := NewRequestBody(PlaceOrderRequest, map[string]interface{}{
		"account":           "021000062436",
		"order_original_id": "61000001",
		"exchange":          1,
		"code":              "601398",
		"price":             "5.27",
		"quantity":          int64(1000),
		"order_side":        1,
		"order_type":        1,
		"token":             "T1",       // 头部字段，不进消息体
		"strategy_note":     "momentum", // 协议不认识，丢弃
	})
	if err != nil {
		t.Fatal(err)
	}

	order, ok := body.(*PlaceOrderBody)
	if !ok {
		t.Fatalf("expected *PlaceOrderBody, got %T", body)
	}
	want := PlaceOrderBody{
		AccountNo:       "021000062436",
		OrderOriginalID: "61000001",
		Exchange:        1,
		Code:            "601398",
		Price:           "5.27",
		Quantity:        1000,
		OrderSide:       1,
		OrderType:       1,
	}
	if *order != want {
		t.Errorf("got %+v, expected %+v", *order, want)
	}

	// 非白名单字段编码后也不应出现在字节流里
	data, err := order.Marshal()
	if err != nil {
		t.Fatal(err)
	}
	var decoded PlaceOrderBody
	if err := decoded.Unmarshal(data); err != nil {
		t.Fatal(err)
	}
	if decoded != want {
		t.Errorf("wire round trip: got %+v", decoded)
	}
}

// TestNewRequestBodyBatchRecursion checks order_list items get the same
// whitelist treatment.
func TestNewRequestBodyBatchRecursion(t *testing.T) {
	body, err := NewRequestBody(PlaceBatchRequest, map[string]interface{}{
		"account": "A1",
		"order_list": []map[string]interface{}{
			{"account": "A1", "code": "601398", "price": "5.27", "quantity": 100, "junk": true},
			{"account": "A1", "code": "000001", "price": "11.80", "quantity": 200},
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	batch, ok := body.(*PlaceBatchOrderBody)
	if !ok {
		t.Fatalf("expected *PlaceBatchOrderBody, got %T", body)
	}
	if len(batch.OrderList) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(batch.OrderList))
	}
	if batch.OrderList[0].Code != "601398" || batch.OrderList[0].Quantity != 100 {
		t.Errorf("first order: %+v", *batch.OrderList[0])
	}
	if batch.OrderList[1].Code != "000001" || batch.OrderList[1].Quantity != 200 {
		t.Errorf("second order: %+v", *batch.OrderList[1])
	}
}

// TestNewRequestBodyRejectsResponseAPI checks response ids are not valid
// request bodies.
func TestNewRequestBodyRejectsResponseAPI(t *testing.T) {
	if _, err := NewRequestBody(LoginAccountResponse, nil); !errors.Is(err, ErrUnknownAPI) {
		t.Fatalf("expected ErrUnknownAPI, got %v", err)
	}
}
