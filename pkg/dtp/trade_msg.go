package dtp

// LoginAccountBody 登录请求
type LoginAccountBody struct {
	AccountNo string
	Password  string
}

func (m *LoginAccountBody) Marshal() ([]byte, error) {
	var b []byte
	b = appendString(b, 1, m.AccountNo)
	b = appendString(b, 2, m.Password)
	return b, nil
}

func (m *LoginAccountBody) Unmarshal(data []byte) error {
	d := decoder{data: data}
	for {
		num, ok := d.next()
		if !ok {
			break
		}
		switch num {
		case 1:
			m.AccountNo = d.str()
		case 2:
			m.Password = d.str()
		default:
			d.skip(num)
		}
	}
	return d.err
}

// LoginAccountRsp 登录应答，token 为空表示登录失败
type LoginAccountRsp struct {
	Token string
}

func (m *LoginAccountRsp) Marshal() ([]byte, error) {
	var b []byte
	b = appendString(b, 1, m.Token)
	return b, nil
}

func (m *LoginAccountRsp) Unmarshal(data []byte) error {
	d := decoder{data: data}
	for {
		num, ok := d.next()
		if !ok {
			break
		}
		switch num {
		case 1:
			m.Token = d.str()
		default:
			d.skip(num)
		}
	}
	return d.err
}

// LogoutAccountBody 登出请求
type LogoutAccountBody struct {
	AccountNo string
}

func (m *LogoutAccountBody) Marshal() ([]byte, error) {
	var b []byte
	b = appendString(b, 1, m.AccountNo)
	return b, nil
}

func (m *LogoutAccountBody) Unmarshal(data []byte) error {
	d := decoder{data: data}
	for {
		num, ok := d.next()
		if !ok {
			break
		}
		switch num {
		case 1:
			m.AccountNo = d.str()
		default:
			d.skip(num)
		}
	}
	return d.err
}

// LogoutAccountRsp 登出应答
type LogoutAccountRsp struct {
	AccountNo string
}

func (m *LogoutAccountRsp) Marshal() ([]byte, error) {
	var b []byte
	b = appendString(b, 1, m.AccountNo)
	return b, nil
}

func (m *LogoutAccountRsp) Unmarshal(data []byte) error {
	d := decoder{data: data}
	for {
		num, ok := d.next()
		if !ok {
			break
		}
		switch num {
		case 1:
			m.AccountNo = d.str()
		default:
			d.skip(num)
		}
	}
	return d.err
}

// PlaceOrderBody 单笔报单委托
// 价格以字符串传输，避免浮点数在线路上丢失精度。
type PlaceOrderBody struct {
	AccountNo       string
	OrderOriginalID string
	Exchange        int32
	Code            string
	Price           string
	Quantity        int64
	OrderSide       int32
	OrderType       int32
}

func (m *PlaceOrderBody) Marshal() ([]byte, error) {
	var b []byte
	b = appendString(b, 1, m.AccountNo)
	b = appendString(b, 2, m.OrderOriginalID)
	b = appendInt32(b, 3, m.Exchange)
	b = appendString(b, 4, m.Code)
	b = appendString(b, 5, m.Price)
	b = appendInt64(b, 6, m.Quantity)
	b = appendInt32(b, 7, m.OrderSide)
	b = appendInt32(b, 8, m.OrderType)
	return b, nil
}

func (m *PlaceOrderBody) Unmarshal(data []byte) error {
	d := decoder{data: data}
	for {
		num, ok := d.next()
		if !ok {
			break
		}
		switch num {
		case 1:
			m.AccountNo = d.str()
		case 2:
			m.OrderOriginalID = d.str()
		case 3:
			m.Exchange = d.i32()
		case 4:
			m.Code = d.str()
		case 5:
			m.Price = d.str()
		case 6:
			m.Quantity = d.i64()
		case 7:
			m.OrderSide = d.i32()
		case 8:
			m.OrderType = d.i32()
		default:
			d.skip(num)
		}
	}
	return d.err
}

// CancelOrderBody 撤单请求，按交易所委托号定位原始委托
type CancelOrderBody struct {
	AccountNo       string
	Exchange        int32
	OrderExchangeID string
}

func (m *CancelOrderBody) Marshal() ([]byte, error) {
	var b []byte
	b = appendString(b, 1, m.AccountNo)
	b = appendInt32(b, 2, m.Exchange)
	b = appendString(b, 3, m.OrderExchangeID)
	return b, nil
}

func (m *CancelOrderBody) Unmarshal(data []byte) error {
	d := decoder{data: data}
	for {
		num, ok := d.next()
		if !ok {
			break
		}
		switch num {
		case 1:
			m.AccountNo = d.str()
		case 2:
			m.Exchange = d.i32()
		case 3:
			m.OrderExchangeID = d.str()
		default:
			d.skip(num)
		}
	}
	return d.err
}

// CancelOrderRsp 撤单提交应答
type CancelOrderRsp struct {
	AccountNo       string
	OrderExchangeID string
}

func (m *CancelOrderRsp) Marshal() ([]byte, error) {
	var b []byte
	b = appendString(b, 1, m.AccountNo)
	b = appendString(b, 2, m.OrderExchangeID)
	return b, nil
}

func (m *CancelOrderRsp) Unmarshal(data []byte) error {
	d := decoder{data: data}
	for {
		num, ok := d.next()
		if !ok {
			break
		}
		switch num {
		case 1:
			m.AccountNo = d.str()
		case 2:
			m.OrderExchangeID = d.str()
		default:
			d.skip(num)
		}
	}
	return d.err
}

// PlaceBatchOrderBody 批量报单，order_list 中每项为一笔独立委托
type PlaceBatchOrderBody struct {
	AccountNo string
	OrderList []*PlaceOrderBody
}

func (m *PlaceBatchOrderBody) Marshal() ([]byte, error) {
	var b []byte
	var err error
	b = appendString(b, 1, m.AccountNo)
	for _, item := range m.OrderList {
		if b, err = appendMessage(b, 2, item); err != nil {
			return nil, err
		}
	}
	return b, nil
}

func (m *PlaceBatchOrderBody) Unmarshal(data []byte) error {
	d := decoder{data: data}
	for {
		num, ok := d.next()
		if !ok {
			break
		}
		switch num {
		case 1:
			m.AccountNo = d.str()
		case 2:
			item := new(PlaceOrderBody)
			d.sub(item)
			if d.err == nil {
				m.OrderList = append(m.OrderList, item)
			}
		default:
			d.skip(num)
		}
	}
	return d.err
}

// PlaceBatchOrderRsp 批量报单提交应答
type PlaceBatchOrderRsp struct {
	AccountNo   string
	PlacedCount int32
}

func (m *PlaceBatchOrderRsp) Marshal() ([]byte, error) {
	var b []byte
	b = appendString(b, 1, m.AccountNo)
	b = appendInt32(b, 2, m.PlacedCount)
	return b, nil
}

func (m *PlaceBatchOrderRsp) Unmarshal(data []byte) error {
	d := decoder{data: data}
	for {
		num, ok := d.next()
		if !ok {
			break
		}
		switch num {
		case 1:
			m.AccountNo = d.str()
		case 2:
			m.PlacedCount = d.i32()
		default:
			d.skip(num)
		}
	}
	return d.err
}

// PlacedReport 委托确认回报
type PlacedReport struct {
	AccountNo       string
	OrderOriginalID string
	OrderExchangeID string
	Exchange        int32
	Code            string
	Price           string
	Quantity        int64
	OrderSide       int32
	Status          int32
	PlacedTime      string
}

func (m *PlacedReport) Marshal() ([]byte, error) {
	var b []byte
	b = appendString(b, 1, m.AccountNo)
	b = appendString(b, 2, m.OrderOriginalID)
	b = appendString(b, 3, m.OrderExchangeID)
	b = appendInt32(b, 4, m.Exchange)
	b = appendString(b, 5, m.Code)
	b = appendString(b, 6, m.Price)
	b = appendInt64(b, 7, m.Quantity)
	b = appendInt32(b, 8, m.OrderSide)
	b = appendInt32(b, 9, m.Status)
	b = appendString(b, 10, m.PlacedTime)
	return b, nil
}

func (m *PlacedReport) Unmarshal(data []byte) error {
	d := decoder{data: data}
	for {
		num, ok := d.next()
		if !ok {
			break
		}
		switch num {
		case 1:
			m.AccountNo = d.str()
		case 2:
			m.OrderOriginalID = d.str()
		case 3:
			m.OrderExchangeID = d.str()
		case 4:
			m.Exchange = d.i32()
		case 5:
			m.Code = d.str()
		case 6:
			m.Price = d.str()
		case 7:
			m.Quantity = d.i64()
		case 8:
			m.OrderSide = d.i32()
		case 9:
			m.Status = d.i32()
		case 10:
			m.PlacedTime = d.str()
		default:
			d.skip(num)
		}
	}
	return d.err
}

// FillReport 成交回报
// FillExchangeID 由交易所单调递增，落库时用作去重键。
type FillReport struct {
	AccountNo       string
	OrderOriginalID string
	OrderExchangeID string
	FillExchangeID  string
	Exchange        int32
	Code            string
	FillPrice       string
	FillQuantity    int64
	FillTime        string
}

func (m *FillReport) Marshal() ([]byte, error) {
	var b []byte
	b = appendString(b, 1, m.AccountNo)
	b = appendString(b, 2, m.OrderOriginalID)
	b = appendString(b, 3, m.OrderExchangeID)
	b = appendString(b, 4, m.FillExchangeID)
	b = appendInt32(b, 5, m.Exchange)
	b = appendString(b, 6, m.Code)
	b = appendString(b, 7, m.FillPrice)
	b = appendInt64(b, 8, m.FillQuantity)
	b = appendString(b, 9, m.FillTime)
	return b, nil
}

func (m *FillReport) Unmarshal(data []byte) error {
	d := decoder{data: data}
	for {
		num, ok := d.next()
		if !ok {
			break
		}
		switch num {
		case 1:
			m.AccountNo = d.str()
		case 2:
			m.OrderOriginalID = d.str()
		case 3:
			m.OrderExchangeID = d.str()
		case 4:
			m.FillExchangeID = d.str()
		case 5:
			m.Exchange = d.i32()
		case 6:
			m.Code = d.str()
		case 7:
			m.FillPrice = d.str()
		case 8:
			m.FillQuantity = d.i64()
		case 9:
			m.FillTime = d.str()
		default:
			d.skip(num)
		}
	}
	return d.err
}

// CancellationReport 撤单回报
type CancellationReport struct {
	AccountNo         string
	OrderOriginalID   string
	OrderExchangeID   string
	Exchange          int32
	Code              string
	CancelledQuantity int64
	Status            int32
}

func (m *CancellationReport) Marshal() ([]byte, error) {
	var b []byte
	b = appendString(b, 1, m.AccountNo)
	b = appendString(b, 2, m.OrderOriginalID)
	b = appendString(b, 3, m.OrderExchangeID)
	b = appendInt32(b, 4, m.Exchange)
	b = appendString(b, 5, m.Code)
	b = appendInt64(b, 6, m.CancelledQuantity)
	b = appendInt32(b, 7, m.Status)
	return b, nil
}

func (m *CancellationReport) Unmarshal(data []byte) error {
	d := decoder{data: data}
	for {
		num, ok := d.next()
		if !ok {
			break
		}
		switch num {
		case 1:
			m.AccountNo = d.str()
		case 2:
			m.OrderOriginalID = d.str()
		case 3:
			m.OrderExchangeID = d.str()
		case 4:
			m.Exchange = d.i32()
		case 5:
			m.Code = d.str()
		case 6:
			m.CancelledQuantity = d.i64()
		case 7:
			m.Status = d.i32()
		default:
			d.skip(num)
		}
	}
	return d.err
}
