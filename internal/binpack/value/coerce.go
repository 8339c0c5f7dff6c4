// Package value 负责把 pack 的输入参数转换为整数位、浮点数或字节序列。
//
// 转换失败不会中断调用：返回零值以及一个可恢复的 merr.ErrPackValueCoercion，
// 由调用方作为告警上报。
package value

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cast"

	"github.com/lk2023060901/binpack-go/pkg/util/merr"
)

const (
	targetInt    = "int"
	targetFloat  = "float"
	targetString = "string"
)

// ToBits 将 v 转换为待写出的 64 位整数位模式。
//
// 有符号整数按二进制补码保留，超出 int64 的 uint64 原样保留。字符串取其开头的十进制数值部分，
// 例如 "12abc" 得到 12 并附带告警，"abc" 得到 0 并附带告警。
func ToBits(v any) (uint64, error) {
	switch x := v.(type) {
	case nil:
		return 0, nil
	case bool:
		if x {
			return 1, nil
		}
		return 0, nil
	case int:
		return uint64(int64(x)), nil
	case int8:
		return uint64(int64(x)), nil
	case int16:
		return uint64(int64(x)), nil
	case int32:
		return uint64(int64(x)), nil
	case int64:
		return uint64(x), nil
	case uint:
		return uint64(x), nil
	case uint8:
		return uint64(x), nil
	case uint16:
		return uint64(x), nil
	case uint32:
		return uint64(x), nil
	case uint64:
		return x, nil
	case float32:
		return floatBits(v, float64(x))
	case float64:
		return floatBits(v, x)
	case json.Number:
		return stringBits(v, string(x))
	case string:
		return stringBits(v, x)
	case []byte:
		return stringBits(v, string(x))
	}

	i, err := cast.ToInt64E(v)
	if err != nil {
		return 0, merr.WrapErrPackValueCoercion(v, targetInt, err)
	}
	return uint64(i), nil
}

// ToFloat64 将 v 转换为浮点数。
func ToFloat64(v any) (float64, error) {
	switch x := v.(type) {
	case nil:
		return 0, nil
	case bool:
		if x {
			return 1, nil
		}
		return 0, nil
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case uint64:
		return float64(x), nil
	case json.Number:
		return stringFloat(v, string(x))
	case string:
		return stringFloat(v, x)
	case []byte:
		return stringFloat(v, string(x))
	}

	f, err := cast.ToFloat64E(v)
	if err != nil {
		return 0, merr.WrapErrPackValueCoercion(v, targetFloat, err)
	}
	return f, nil
}

// ToBytes 将 v 转换为字节序列，[]byte 不复制。
func ToBytes(v any) ([]byte, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case []byte:
		return x, nil
	case string:
		return []byte(x), nil
	case json.Number:
		return []byte(x), nil
	case bool:
		if x {
			return []byte("1"), nil
		}
		return nil, nil
	case float64:
		return []byte(strconv.FormatFloat(x, 'g', -1, 64)), nil
	case float32:
		return []byte(strconv.FormatFloat(float64(x), 'g', -1, 32)), nil
	}

	s, err := cast.ToStringE(v)
	if err != nil {
		return nil, merr.WrapErrPackValueCoercion(v, targetString, err)
	}
	return []byte(s), nil
}

// ToString 与 ToBytes 相同，但返回字符串。
func ToString(v any) (string, error) {
	if s, ok := v.(string); ok {
		return s, nil
	}
	b, err := ToBytes(v)
	return string(b), err
}

func stringBits(v any, s string) (uint64, error) {
	prefix, isFloat, clean := numericPrefix(s)
	if prefix == "" {
		return 0, merr.WrapErrPackValueCoercion(v, targetInt, errors.Newf("%q is not numeric", s))
	}

	var (
		bits uint64
		err  error
	)
	if !isFloat {
		if i, perr := strconv.ParseInt(prefix, 10, 64); perr == nil {
			bits = uint64(i)
		} else if u, perr := strconv.ParseUint(strings.TrimPrefix(prefix, "+"), 10, 64); perr == nil {
			bits = u
		} else {
			isFloat = true
		}
	}
	if isFloat {
		f, _ := strconv.ParseFloat(prefix, 64)
		bits, err = floatBits(v, f)
	}
	if err == nil && !clean {
		err = merr.WrapErrPackValueCoercion(v, targetInt, errors.Newf("%q has trailing data", s))
	}
	return bits, err
}

func stringFloat(v any, s string) (float64, error) {
	prefix, _, clean := numericPrefix(s)
	if prefix == "" {
		return 0, merr.WrapErrPackValueCoercion(v, targetFloat, errors.Newf("%q is not numeric", s))
	}
	// 前缀已经校验过格式，只可能出现溢出，此时 ParseFloat 返回 ±Inf。
	f, _ := strconv.ParseFloat(prefix, 64)
	if !clean {
		return f, merr.WrapErrPackValueCoercion(v, targetFloat, errors.Newf("%q has trailing data", s))
	}
	return f, nil
}

func floatBits(v any, f float64) (uint64, error) {
	switch {
	case math.IsNaN(f) || math.IsInf(f, 0):
		return 0, merr.WrapErrPackValueCoercion(v, targetInt, errors.Newf("%v is not finite", f))
	case f >= math.MinInt64 && f < math.MaxInt64:
		return uint64(int64(f)), nil
	case f >= 0 && f < math.MaxUint64:
		return uint64(f), nil
	default:
		return 0, merr.WrapErrPackValueCoercion(v, targetInt, errors.Newf("%v overflows 64 bits", f))
	}
}

// numericPrefix 返回 s 开头的十进制数值文本，是否包含小数或指数部分，以及其后是否只剩空白。
func numericPrefix(s string) (string, bool, bool) {
	s = strings.TrimLeft(s, " \t\n\r\v\f")
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}
	isFloat := false
	if i < len(s) && s[i] == '.' {
		j := i + 1
		frac := 0
		for j < len(s) && isDigit(s[j]) {
			j++
			frac++
		}
		if digits+frac > 0 {
			i = j
			digits += frac
			isFloat = true
		}
	}
	if digits == 0 {
		return "", false, false
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		k := j
		for k < len(s) && isDigit(s[k]) {
			k++
		}
		if k > j {
			i = k
			isFloat = true
		}
	}
	clean := strings.TrimRight(s[i:], " \t\n\r\v\f") == ""
	return s[:i], isFloat, clean
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}
