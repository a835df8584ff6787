package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind identifies which variant a Value holds.
type Kind uint8

const (
	KindText Kind = iota
	KindNumber
	KindList
	// KindBool and KindNull only occur as elements of a decoded JSON array.
	KindBool
	KindNull
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	case KindList:
		return "list"
	case KindBool:
		return "bool"
	case KindNull:
		return "null"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Value is one typed test value. The zero Value is the empty text.
type Value struct {
	kind Kind
	text string
	num  float64
	b    bool
	list []Value
}

func Text(s string) Value { return Value{kind: KindText, text: s} }

func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

func Null() Value { return Value{kind: KindNull} }

func List(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{kind: KindList, list: items}
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) Str() (string, bool) { return v.text, v.kind == KindText }

func (v Value) Float() (float64, bool) { return v.num, v.kind == KindNumber }

func (v Value) Items() ([]Value, bool) { return v.list, v.kind == KindList }

func (v Value) Truth() (bool, bool) { return v.b, v.kind == KindBool }

// Equal reports deep equality. go-cmp picks this method up automatically.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindText:
		return v.text == o.text
	case KindNumber:
		return v.num == o.num
	case KindBool:
		return v.b == o.b
	case KindNull:
		return true
	case KindList:
		if len(v.list) != len(o.list) {
			return false
		}
		for i := range v.list {
			if !v.list[i].Equal(o.list[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// String renders the value in the legacy textual encoding. Text is always
// double-quoted; lists use the compact JSON form.
func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindNull:
		return "null"
	case KindList:
		parts := make([]string, len(v.list))
		for i, item := range v.list {
			if s, ok := item.Str(); ok {
				b, _ := json.Marshal(s)
				parts[i] = string(b)
				continue
			}
			parts[i] = item.String()
		}
		return "[" + strings.Join(parts, ",") + "]"
	default:
		return `"` + v.text + `"`
	}
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindText:
		return json.Marshal(v.text)
	case KindNumber:
		if math.IsNaN(v.num) || math.IsInf(v.num, 0) {
			return nil, fmt.Errorf("unsupported number %v", v.num)
		}
		return json.Marshal(v.num)
	case KindBool:
		return json.Marshal(v.b)
	case KindNull:
		return []byte("null"), nil
	case KindList:
		var buf bytes.Buffer
		buf.WriteByte('[')
		for i, item := range v.list {
			if i > 0 {
				buf.WriteByte(',')
			}
			b, err := item.MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf.Write(b)
		}
		buf.WriteByte(']')
		return buf.Bytes(), nil
	}
	return nil, fmt.Errorf("unknown value kind %s", v.kind)
}

func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	decoded, err := fromJSON(raw)
	if err != nil {
		return err
	}
	*v = decoded
	return nil
}

func fromJSON(raw any) (Value, error) {
	switch x := raw.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(x), nil
	case float64:
		return Number(x), nil
	case string:
		return Text(x), nil
	case []any:
		items := make([]Value, 0, len(x))
		for _, elem := range x {
			item, err := fromJSON(elem)
			if err != nil {
				return Value{}, err
			}
			items = append(items, item)
		}
		return List(items...), nil
	case map[string]any:
		return Value{}, fmt.Errorf("json objects are not supported as test values")
	}
	return Value{}, fmt.Errorf("unsupported json type %T", raw)
}
