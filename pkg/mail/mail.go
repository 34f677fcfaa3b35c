// Package mail carries the internal routed unit of work: a request on its
// way to the counter, or a decoded response / push report on its way back.
package mail

import (
	"fmt"

	"github.com/yourusername/fasttrader/pkg/dtp"
)

// API 方向后缀，handler_id = "{api_id}_{api_type}"
const (
	TypeRequest  = "req"
	TypeResponse = "rsp"
)

// Mail is immutable after construction. Routing metadata is fixed by the
// constructor and the free-form request fields are copied in, so a mail can
// be handed between goroutines without further synchronization.
type Mail struct {
	apiID     int32
	apiType   string
	handlerID string
	sync      bool
	retCode   int32
	requestID string
	token     string
	payload   *dtp.Payload
	fields    map[string]interface{}
}

// NewRequest builds an outbound request envelope. 请求必须带调用方生成的
// request_id，用于柜台侧关联应答。
func NewRequest(apiID int32, requestID string, sync bool, fields map[string]interface{}) (*Mail, error) {
	if requestID == "" {
		return nil, fmt.Errorf("mail: request api_id=%d missing request_id", apiID)
	}
	m := &Mail{
		apiID:     apiID,
		apiType:   TypeRequest,
		handlerID: fmt.Sprintf("%d_%s", apiID, TypeRequest),
		sync:      sync,
		requestID: requestID,
		fields:    make(map[string]interface{}, len(fields)),
	}
	for k, v := range fields {
		m.fields[k] = v
	}
	if token, ok := fields["token"].(string); ok {
		m.token = token
	}
	return m, nil
}

// NewResponse builds an inbound response/report envelope around a decoded
// payload.
func NewResponse(apiID int32, payload *dtp.Payload, sync bool) *Mail {
	m := &Mail{
		apiID:     apiID,
		apiType:   TypeResponse,
		handlerID: fmt.Sprintf("%d_%s", apiID, TypeResponse),
		sync:      sync,
		payload:   payload,
	}
	if payload != nil && payload.Header != nil {
		m.retCode = payload.Header.Code
		m.requestID = payload.Header.RequestID
	}
	return m
}

func (m *Mail) ApiID() int32      { return m.apiID }
func (m *Mail) ApiType() string   { return m.apiType }
func (m *Mail) HandlerID() string { return m.handlerID }
func (m *Mail) Sync() bool        { return m.sync }
func (m *Mail) RetCode() int32    { return m.retCode }
func (m *Mail) RequestID() string { return m.requestID }
func (m *Mail) Token() string     { return m.token }

// Payload returns the decoded payload, nil for requests.
func (m *Mail) Payload() *dtp.Payload { return m.payload }

// Field returns one request field by name.
func (m *Mail) Field(key string) (interface{}, bool) {
	v, ok := m.fields[key]
	return v, ok
}

// Fields returns a copy of the request fields, keeping the mail itself
// immutable.
func (m *Mail) Fields() map[string]interface{} {
	out := make(map[string]interface{}, len(m.fields))
	for k, v := range m.fields {
		out[k] = v
	}
	return out
}

func (m *Mail) String() string {
	return fmt.Sprintf("Mail{api_id=%d, type=%s, sync=%v, request_id=%s}",
		m.apiID, m.apiType, m.sync, m.requestID)
}
