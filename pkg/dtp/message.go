package dtp

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// Message is a wire-encodable counter protocol message.
// Header and body are always encoded independently.
type Message interface {
	Marshal() ([]byte, error)
	Unmarshal(data []byte) error
}

// ---- encode helpers ----
// proto3 语义：零值字段不上线

func appendString(b []byte, num protowire.Number, s string) []byte {
	if s == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, s)
}

func appendInt32(b []byte, num protowire.Number, v int32) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, uint64(int64(v)))
}

func appendInt64(b []byte, num protowire.Number, v int64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, uint64(v))
}

func appendMessage(b []byte, num protowire.Number, m Message) ([]byte, error) {
	sub, err := m.Marshal()
	if err != nil {
		return nil, err
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, sub), nil
}

// ---- decode helpers ----

// decoder walks the top-level fields of one wire-encoded message.
// Unknown fields are skipped, mirroring protobuf compatibility rules.
type decoder struct {
	data []byte
	typ  protowire.Type
	err  error
}

func (d *decoder) next() (protowire.Number, bool) {
	if d.err != nil || len(d.data) == 0 {
		return 0, false
	}
	num, typ, n := protowire.ConsumeTag(d.data)
	if n < 0 {
		d.err = protowire.ParseError(n)
		return 0, false
	}
	d.data = d.data[n:]
	d.typ = typ
	return num, true
}

func (d *decoder) skip(num protowire.Number) {
	if d.err != nil {
		return
	}
	n := protowire.ConsumeFieldValue(num, d.typ, d.data)
	if n < 0 {
		d.err = protowire.ParseError(n)
		return
	}
	d.data = d.data[n:]
}

func (d *decoder) str() string {
	if d.err != nil {
		return ""
	}
	if d.typ != protowire.BytesType {
		d.err = fmt.Errorf("dtp: expected length-delimited field, got wire type %d", d.typ)
		return ""
	}
	v, n := protowire.ConsumeString(d.data)
	if n < 0 {
		d.err = protowire.ParseError(n)
		return ""
	}
	d.data = d.data[n:]
	return v
}

func (d *decoder) bytes() []byte {
	if d.err != nil {
		return nil
	}
	if d.typ != protowire.BytesType {
		d.err = fmt.Errorf("dtp: expected length-delimited field, got wire type %d", d.typ)
		return nil
	}
	v, n := protowire.ConsumeBytes(d.data)
	if n < 0 {
		d.err = protowire.ParseError(n)
		return nil
	}
	d.data = d.data[n:]
	return v
}

func (d *decoder) varint() uint64 {
	if d.err != nil {
		return 0
	}
	if d.typ != protowire.VarintType {
		d.err = fmt.Errorf("dtp: expected varint field, got wire type %d", d.typ)
		return 0
	}
	v, n := protowire.ConsumeVarint(d.data)
	if n < 0 {
		d.err = protowire.ParseError(n)
		return 0
	}
	d.data = d.data[n:]
	return v
}

func (d *decoder) i32() int32 { return int32(d.varint()) }

func (d *decoder) i64() int64 { return int64(d.varint()) }

func (d *decoder) sub(m Message) {
	raw := d.bytes()
	if d.err != nil {
		return
	}
	if err := m.Unmarshal(raw); err != nil {
		d.err = err
	}
}
