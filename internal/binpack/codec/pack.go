package codec

import (
	"context"
	"encoding/binary"
	"math"

	"github.com/lk2023060901/binpack-go/internal/binpack/format"
	"github.com/lk2023060901/binpack-go/internal/binpack/value"
	"github.com/lk2023060901/binpack-go/pkg/metrics"
	"github.com/lk2023060901/binpack-go/pkg/util/merr"
)

// Pack 按程序依次消费 args 并返回拼接后的字节。
func Pack(ctx context.Context, prog *format.Program, args []any, opts Options) ([]byte, error) {
	r := newRun(ctx, metrics.PackLabel, opts)
	buf, err := r.pack(prog, args)
	r.done(len(buf), err)
	return buf, err
}

func (r *run) pack(prog *format.Program, args []any) ([]byte, error) {
	if err := r.check(prog, format.Pack); err != nil {
		return nil, err
	}

	var (
		buf  []byte
		next int
		err  error
	)
	for i := 0; i < prog.Len(); i++ {
		if err := r.ctx.Err(); err != nil {
			return buf, err
		}
		seg := prog.At(i)
		buf, next, err = PackSegment(seg, buf, args, next, r.warner(i, seg))
		if err != nil {
			return buf, err
		}
	}
	return buf, nil
}

// PackSegment 执行单个段的 pack：从 args[next] 开始消费参数，追加到 buf，
// 返回新的 buf 与下一个未消费参数的下标。
func PackSegment(seg format.Segment, buf []byte, args []any, next int, warn WarnFunc) ([]byte, int, error) {
	switch seg.Kind {
	case format.KindNulBlock, format.KindSpaceBlock:
		return packBlock(seg, buf, args, next, warn)
	case format.KindHexLow, format.KindHexHigh:
		return packHex(seg, buf, args, next, warn)
	case format.KindIntBE, format.KindIntLE, format.KindDouble, format.KindFloat:
		return packNumeric(seg, buf, args, next, warn)
	case format.KindNullFill:
		n, err := fillCount(seg, warn)
		if err != nil {
			return buf, next, err
		}
		return appendPad(buf, 0, n), next, nil
	case format.KindPosition:
		n, err := fillCount(seg, warn)
		if err != nil {
			return buf, next, err
		}
		if len(buf) < n {
			buf = appendPad(buf, 0, n-len(buf))
		}
		return buf, next, nil
	default:
		return buf, next, merr.WrapErrServiceInternal("unexpected segment kind " + seg.Kind.String())
	}
}

func packBlock(seg format.Segment, buf []byte, args []any, next int, warn WarnFunc) ([]byte, int, error) {
	if next >= len(args) {
		return buf, next, warn(merr.WrapErrPackNotEnoughArgs(seg.Code, next))
	}
	data, err := value.ToBytes(args[next])
	next++
	if err := warn(err); err != nil {
		return buf, next, err
	}

	if seg.Repeat.Wildcard() {
		return append(buf, data...), next, nil
	}
	n := seg.Repeat.Count()
	if len(data) >= n {
		return append(buf, data[:n]...), next, nil
	}
	buf = append(buf, data...)
	return appendPad(buf, seg.Kind.Pad(), n-len(data)), next, nil
}

func packHex(seg format.Segment, buf []byte, args []any, next int, warn WarnFunc) ([]byte, int, error) {
	if next >= len(args) {
		return buf, next, warn(merr.WrapErrPackNotEnoughArgs(seg.Code, next))
	}
	s, err := value.ToString(args[next])
	next++
	if err := warn(err); err != nil {
		return buf, next, err
	}

	n := len(s)
	if !seg.Repeat.Wildcard() {
		if n < seg.Repeat.Count() {
			return buf, next, warn(merr.WrapErrPackShortHexString(n, seg.Repeat.Count()))
		}
		n = seg.Repeat.Count()
	}

	digit := func(c byte) (byte, error) {
		d, ok := hexDigit(c)
		if !ok {
			return 0, warn(merr.WrapErrPackInvalidHexDigit(rune(c)))
		}
		return d, nil
	}
	for j := 0; j+1 < n; j += 2 {
		first, err := digit(s[j])
		if err != nil {
			return buf, next, err
		}
		second, err := digit(s[j+1])
		if err != nil {
			return buf, next, err
		}
		if seg.Kind == format.KindHexHigh {
			buf = append(buf, first<<4|second)
		} else {
			buf = append(buf, second<<4|first)
		}
	}
	if n%2 == 1 {
		last, err := digit(s[n-1])
		if err != nil {
			return buf, next, err
		}
		if seg.Kind == format.KindHexHigh {
			last <<= 4
		}
		buf = append(buf, last)
	}
	return buf, next, nil
}

func packNumeric(seg format.Segment, buf []byte, args []any, next int, warn WarnFunc) ([]byte, int, error) {
	wildcard := seg.Repeat.Wildcard()
	for j := 0; wildcard || j < seg.Repeat.Count(); j++ {
		if next >= len(args) {
			if wildcard {
				return buf, next, nil
			}
			return buf, next, warn(merr.WrapErrPackNotEnoughArgs(seg.Code, next))
		}
		arg := args[next]
		next++

		switch seg.Kind {
		case format.KindDouble, format.KindFloat:
			f, err := value.ToFloat64(arg)
			if err := warn(err); err != nil {
				return buf, next, err
			}
			if seg.Kind == format.KindDouble {
				buf = binary.BigEndian.AppendUint64(buf, math.Float64bits(f))
			} else {
				buf = binary.BigEndian.AppendUint32(buf, math.Float32bits(float32(f)))
			}
		default:
			bits, err := value.ToBits(arg)
			if err := warn(err); err != nil {
				return buf, next, err
			}
			buf = appendInt(buf, seg.Kind, seg.Width, bits)
		}
	}
	return buf, next, nil
}

// appendInt 按字节序写出 bits 的低 width 个字节。
func appendInt(buf []byte, kind format.Kind, width int, bits uint64) []byte {
	var order binary.AppendByteOrder = binary.BigEndian
	if kind == format.KindIntLE {
		order = binary.LittleEndian
	}
	switch width {
	case 1:
		return append(buf, byte(bits))
	case 2:
		return order.AppendUint16(buf, uint16(bits))
	case 4:
		return order.AppendUint32(buf, uint32(bits))
	default:
		return order.AppendUint64(buf, bits)
	}
}

// fillCount 返回 x 与 @ 的长度，通配重复没有确定长度，按 0 处理并告警。
func fillCount(seg format.Segment, warn WarnFunc) (int, error) {
	if seg.Repeat.Wildcard() {
		return 0, warn(merr.WrapErrWildcardIgnored(seg.Code))
	}
	return seg.Repeat.Count(), nil
}

func appendPad(buf []byte, pad byte, n int) []byte {
	for ; n > 0; n-- {
		buf = append(buf, pad)
	}
	return buf
}

func hexDigit(c byte) (byte, bool) {
	switch {
	case '0' <= c && c <= '9':
		return c - '0', true
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10, true
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
