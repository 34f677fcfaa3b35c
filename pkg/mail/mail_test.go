package mail

import (
	"testing"

	"github.com/yourusername/fasttrader/pkg/dtp"
)

// TestNewRequestRoutingKey checks handler id construction and token
// extraction from the request fields.
func TestNewRequestRoutingKey(t *testing.T) {
	m, err := NewRequest(dtp.PlaceOrderRequest, "11000001", false, map[string]interface{}{
		"account": "021000062436",
		"token":   "T1",
		"code":    "601398",
	})
	if err != nil {
		t.Fatal(err)
	}

	if m.HandlerID() != "10002001_req" {
		t.Errorf("handler id = %s, expected 10002001_req", m.HandlerID())
	}
	if m.ApiType() != TypeRequest {
		t.Errorf("api type = %s", m.ApiType())
	}
	if m.Token() != "T1" {
		t.Errorf("token = %q, expected T1", m.Token())
	}
	if m.RequestID() != "11000001" {
		t.Errorf("request id = %q", m.RequestID())
	}
}

// TestNewRequestRequiresRequestID checks the request id invariant.
func TestNewRequestRequiresRequestID(t *testing.T) {
	if _, err := NewRequest(dtp.LoginAccountRequest, "", true, nil); err == nil {
		t.Fatal("expected error for empty request id")
	}
}

// TestRequestFieldsCopied checks mutating the source map after
// construction does not leak into the mail.
func TestRequestFieldsCopied(t *testing.T) {
	src := map[string]interface{}{"account": "A1"}
	m, err := NewRequest(dtp.QueryOrdersRequest, "11000002", true, src)
	if err != nil {
		t.Fatal(err)
	}

	src["account"] = "A2"
	if v, _ := m.Field("account"); v != "A1" {
		t.Errorf("field account = %v, expected A1", v)
	}

	// Fields() 返回副本，改它也不影响原信件
	cp := m.Fields()
	cp["account"] = "A3"
	if v, _ := m.Field("account"); v != "A1" {
		t.Errorf("field account mutated through copy: %v", v)
	}
}

// TestNewResponseTakesHeaderMetadata checks ret code and request id come
// from the decoded payload header.
func TestNewResponseTakesHeaderMetadata(t *testing.T) {
	payload := &dtp.Payload{
		Header: &dtp.ResponseHeader{
			RequestID: "11000003",
			ApiID:     dtp.LoginAccountResponse,
			Code:      1,
			Message:   "password mismatch",
		},
		Body: &dtp.LoginAccountRsp{},
	}
	m := NewResponse(dtp.LoginAccountResponse, payload, false)

	if m.HandlerID() != "11001001_rsp" {
		t.Errorf("handler id = %s", m.HandlerID())
	}
	if m.RetCode() != 1 {
		t.Errorf("ret code = %d, expected 1", m.RetCode())
	}
	if m.RequestID() != "11000003" {
		t.Errorf("request id = %q", m.RequestID())
	}
}
