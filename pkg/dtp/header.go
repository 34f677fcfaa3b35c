package dtp

// RequestHeader 请求头：请求编号、API 编号与会话令牌
type RequestHeader struct {
	RequestID string
	ApiID     int32
	Token     string
}

func (h *RequestHeader) Marshal() ([]byte, error) {
	var b []byte
	b = appendString(b, 1, h.RequestID)
	b = appendInt32(b, 2, h.ApiID)
	b = appendString(b, 3, h.Token)
	return b, nil
}

func (h *RequestHeader) Unmarshal(data []byte) error {
	d := decoder{data: data}
	for {
		num, ok := d.next()
		if !ok {
			break
		}
		switch num {
		case 1:
			h.RequestID = d.str()
		case 2:
			h.ApiID = d.i32()
		case 3:
			h.Token = d.str()
		default:
			d.skip(num)
		}
	}
	return d.err
}

// ResponseHeader 应答头：请求编号、API 编号、状态码与提示信息
type ResponseHeader struct {
	RequestID string
	ApiID     int32
	Code      int32
	Message   string
}

func (h *ResponseHeader) Marshal() ([]byte, error) {
	var b []byte
	b = appendString(b, 1, h.RequestID)
	b = appendInt32(b, 2, h.ApiID)
	b = appendInt32(b, 3, h.Code)
	b = appendString(b, 4, h.Message)
	return b, nil
}

func (h *ResponseHeader) Unmarshal(data []byte) error {
	d := decoder{data: data}
	for {
		num, ok := d.next()
		if !ok {
			break
		}
		switch num {
		case 1:
			h.RequestID = d.str()
		case 2:
			h.ApiID = d.i32()
		case 3:
			h.Code = d.i32()
		case 4:
			h.Message = d.str()
		default:
			d.skip(num)
		}
	}
	return d.err
}

// ReportHeader 回报头，字段布局与应答头一致
// 推送回报没有对应的原始请求时 RequestID 为空。
type ReportHeader = ResponseHeader

// Payload pairs one decoded header with its body. Constructed fresh per
// call or response and never shared across goroutines after handoff.
type Payload struct {
	Header *ResponseHeader
	Body   Message
}
