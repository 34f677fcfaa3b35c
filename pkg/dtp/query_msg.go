package dtp

// QueryRequestBody 查询请求体，订单/成交/资金/持仓/配售查询共用同一布局
type QueryRequestBody struct {
	AccountNo string
}

func (m *QueryRequestBody) Marshal() ([]byte, error) {
	var b []byte
	b = appendString(b, 1, m.AccountNo)
	return b, nil
}

func (m *QueryRequestBody) Unmarshal(data []byte) error {
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

// QueryOrderItem 订单查询结果中的一笔委托
type QueryOrderItem struct {
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

func (m *QueryOrderItem) Marshal() ([]byte, error) {
	var b []byte
	b = appendString(b, 1, m.OrderOriginalID)
	b = appendString(b, 2, m.OrderExchangeID)
	b = appendInt32(b, 3, m.Exchange)
	b = appendString(b, 4, m.Code)
	b = appendString(b, 5, m.Price)
	b = appendInt64(b, 6, m.Quantity)
	b = appendInt32(b, 7, m.OrderSide)
	b = appendInt32(b, 8, m.Status)
	b = appendString(b, 9, m.PlacedTime)
	return b, nil
}

func (m *QueryOrderItem) Unmarshal(data []byte) error {
	d := decoder{data: data}
	for {
		num, ok := d.next()
		if !ok {
			break
		}
		switch num {
		case 1:
			m.OrderOriginalID = d.str()
		case 2:
			m.OrderExchangeID = d.str()
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
			m.Status = d.i32()
		case 9:
			m.PlacedTime = d.str()
		default:
			d.skip(num)
		}
	}
	return d.err
}

// QueryOrdersRsp 订单查询应答
type QueryOrdersRsp struct {
	AccountNo  string
	TotalCount int32
	OrderList  []*QueryOrderItem
}

func (m *QueryOrdersRsp) Marshal() ([]byte, error) {
	var b []byte
	var err error
	b = appendString(b, 1, m.AccountNo)
	b = appendInt32(b, 2, m.TotalCount)
	for _, item := range m.OrderList {
		if b, err = appendMessage(b, 3, item); err != nil {
			return nil, err
		}
	}
	return b, nil
}

func (m *QueryOrdersRsp) Unmarshal(data []byte) error {
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
			m.TotalCount = d.i32()
		case 3:
			item := new(QueryOrderItem)
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

// QueryFillItem 成交查询结果中的一笔成交
type QueryFillItem struct {
	FillExchangeID  string
	OrderExchangeID string
	Exchange        int32
	Code            string
	FillPrice       string
	FillQuantity    int64
	FillTime        string
}

func (m *QueryFillItem) Marshal() ([]byte, error) {
	var b []byte
	b = appendString(b, 1, m.FillExchangeID)
	b = appendString(b, 2, m.OrderExchangeID)
	b = appendInt32(b, 3, m.Exchange)
	b = appendString(b, 4, m.Code)
	b = appendString(b, 5, m.FillPrice)
	b = appendInt64(b, 6, m.FillQuantity)
	b = appendString(b, 7, m.FillTime)
	return b, nil
}

func (m *QueryFillItem) Unmarshal(data []byte) error {
	d := decoder{data: data}
	for {
		num, ok := d.next()
		if !ok {
			break
		}
		switch num {
		case 1:
			m.FillExchangeID = d.str()
		case 2:
			m.OrderExchangeID = d.str()
		case 3:
			m.Exchange = d.i32()
		case 4:
			m.Code = d.str()
		case 5:
			m.FillPrice = d.str()
		case 6:
			m.FillQuantity = d.i64()
		case 7:
			m.FillTime = d.str()
		default:
			d.skip(num)
		}
	}
	return d.err
}

// QueryFillsRsp 成交查询应答
type QueryFillsRsp struct {
	AccountNo  string
	TotalCount int32
	FillList   []*QueryFillItem
}

func (m *QueryFillsRsp) Marshal() ([]byte, error) {
	var b []byte
	var err error
	b = appendString(b, 1, m.AccountNo)
	b = appendInt32(b, 2, m.TotalCount)
	for _, item := range m.FillList {
		if b, err = appendMessage(b, 3, item); err != nil {
			return nil, err
		}
	}
	return b, nil
}

func (m *QueryFillsRsp) Unmarshal(data []byte) error {
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
			m.TotalCount = d.i32()
		case 3:
			item := new(QueryFillItem)
			d.sub(item)
			if d.err == nil {
				m.FillList = append(m.FillList, item)
			}
		default:
			d.skip(num)
		}
	}
	return d.err
}

// QueryCapitalRsp 资金查询应答，金额均为十进制字符串
type QueryCapitalRsp struct {
	AccountNo string
	Balance   string
	Available string
	Freeze    string
	Total     string
}

func (m *QueryCapitalRsp) Marshal() ([]byte, error) {
	var b []byte
	b = appendString(b, 1, m.AccountNo)
	b = appendString(b, 2, m.Balance)
	b = appendString(b, 3, m.Available)
	b = appendString(b, 4, m.Freeze)
	b = appendString(b, 5, m.Total)
	return b, nil
}

func (m *QueryCapitalRsp) Unmarshal(data []byte) error {
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
			m.Balance = d.str()
		case 3:
			m.Available = d.str()
		case 4:
			m.Freeze = d.str()
		case 5:
			m.Total = d.str()
		default:
			d.skip(num)
		}
	}
	return d.err
}

// QueryPositionItem 持仓查询结果中的一个标的
type QueryPositionItem struct {
	Code              string
	Exchange          int32
	Balance           int64
	AvailableQuantity int64
	FreezeQuantity    int64
	BuyQuantity       int64
	SellQuantity      int64
	CostPrice         string
}

func (m *QueryPositionItem) Marshal() ([]byte, error) {
	var b []byte
	b = appendString(b, 1, m.Code)
	b = appendInt32(b, 2, m.Exchange)
	b = appendInt64(b, 3, m.Balance)
	b = appendInt64(b, 4, m.AvailableQuantity)
	b = appendInt64(b, 5, m.FreezeQuantity)
	b = appendInt64(b, 6, m.BuyQuantity)
	b = appendInt64(b, 7, m.SellQuantity)
	b = appendString(b, 8, m.CostPrice)
	return b, nil
}

func (m *QueryPositionItem) Unmarshal(data []byte) error {
	d := decoder{data: data}
	for {
		num, ok := d.next()
		if !ok {
			break
		}
		switch num {
		case 1:
			m.Code = d.str()
		case 2:
			m.Exchange = d.i32()
		case 3:
			m.Balance = d.i64()
		case 4:
			m.AvailableQuantity = d.i64()
		case 5:
			m.FreezeQuantity = d.i64()
		case 6:
			m.BuyQuantity = d.i64()
		case 7:
			m.SellQuantity = d.i64()
		case 8:
			m.CostPrice = d.str()
		default:
			d.skip(num)
		}
	}
	return d.err
}

// QueryPositionRsp 持仓查询应答
type QueryPositionRsp struct {
	AccountNo    string
	TotalCount   int32
	PositionList []*QueryPositionItem
}

func (m *QueryPositionRsp) Marshal() ([]byte, error) {
	var b []byte
	var err error
	b = appendString(b, 1, m.AccountNo)
	b = appendInt32(b, 2, m.TotalCount)
	for _, item := range m.PositionList {
		if b, err = appendMessage(b, 3, item); err != nil {
			return nil, err
		}
	}
	return b, nil
}

func (m *QueryPositionRsp) Unmarshal(data []byte) error {
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
			m.TotalCount = d.i32()
		case 3:
			item := new(QueryPositionItem)
			d.sub(item)
			if d.err == nil {
				m.PositionList = append(m.PositionList, item)
			}
		default:
			d.skip(num)
		}
	}
	return d.err
}

// QueryRationItem 配售权益查询结果中的一项
type QueryRationItem struct {
	Code     string
	Exchange int32
	Quantity int64
}

func (m *QueryRationItem) Marshal() ([]byte, error) {
	var b []byte
	b = appendString(b, 1, m.Code)
	b = appendInt32(b, 2, m.Exchange)
	b = appendInt64(b, 3, m.Quantity)
	return b, nil
}

func (m *QueryRationItem) Unmarshal(data []byte) error {
	d := decoder{data: data}
	for {
		num, ok := d.next()
		if !ok {
			break
		}
		switch num {
		case 1:
			m.Code = d.str()
		case 2:
			m.Exchange = d.i32()
		case 3:
			m.Quantity = d.i64()
		default:
			d.skip(num)
		}
	}
	return d.err
}

// QueryRationRsp 配售权益查询应答
type QueryRationRsp struct {
	AccountNo  string
	RationList []*QueryRationItem
}

func (m *QueryRationRsp) Marshal() ([]byte, error) {
	var b []byte
	var err error
	b = appendString(b, 1, m.AccountNo)
	for _, item := range m.RationList {
		if b, err = appendMessage(b, 2, item); err != nil {
			return nil, err
		}
	}
	return b, nil
}

func (m *QueryRationRsp) Unmarshal(data []byte) error {
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
			item := new(QueryRationItem)
			d.sub(item)
			if d.err == nil {
				m.RationList = append(m.RationList, item)
			}
		default:
			d.skip(num)
		}
	}
	return d.err
}
