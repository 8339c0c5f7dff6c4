package codec

import (
	"bytes"
	"math"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/lk2023060901/binpack-go/internal/json"
)

// Values 为 unpack 的有序结果，保持键首次写入的顺序。
//
// 值的类型：a/A 为 []byte，h/H 为 string，1/2/4 字节整数为 int64，8 字节整数为 uint64，d/f 为 float64。
type Values struct {
	m *orderedmap.OrderedMap[Key, any]
}

func NewValues() *Values {
	return &Values{m: orderedmap.New[Key, any]()}
}

// Set 写入一个值，已存在的键保持原位置，值被覆盖。
func (v *Values) Set(k Key, val any) {
	v.m.Set(k.canonical(), val)
}

func (v *Values) Get(k Key) (any, bool) {
	return v.m.Get(k.canonical())
}

// Index 返回位置键 i 对应的值。
func (v *Values) Index(i int) (any, bool) {
	return v.m.Get(IndexKey(i))
}

// Named 返回命名键对应的值。
func (v *Values) Named(name string) (any, bool) {
	return v.m.Get(NameKey(name))
}

func (v *Values) Len() int {
	return v.m.Len()
}

// Keys 按顺序返回全部键。
func (v *Values) Keys() []Key {
	keys := make([]Key, 0, v.m.Len())
	for pair := v.m.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Range 按顺序遍历，f 返回 false 时停止。
func (v *Values) Range(f func(k Key, val any) bool) {
	for pair := v.m.Oldest(); pair != nil; pair = pair.Next() {
		if !f(pair.Key, pair.Value) {
			return
		}
	}
}

// MarshalJSON 按键顺序输出 JSON 对象，[]byte 值按 base64 编码。
// NaN 与 ±Inf 无法用 JSON 数字表示，分别输出为字符串 "NaN"、"Inf"、"-Inf"。
func (v *Values) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for pair := v.m.Oldest(); pair != nil; pair = pair.Next() {
		if buf.Len() > 1 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(pair.Key.String())
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(jsonValue(pair.Value))
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func jsonValue(val any) any {
	var f float64
	switch x := val.(type) {
	case float64:
		f = x
	case float32:
		f = float64(x)
	default:
		return val
	}
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Inf"
	case math.IsInf(f, -1):
		return "-Inf"
	default:
		return val
	}
}
