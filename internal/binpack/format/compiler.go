package format

import (
	"github.com/samber/lo"

	"github.com/lk2023060901/binpack-go/pkg/util/merr"
	"github.com/lk2023060901/binpack-go/pkg/util/typeutil"
)

// codeSpec 描述一个类型字符在两个方向上的编译结果。
type codeSpec struct {
	kind   Kind
	width  int
	signed bool
}

var codeSpecs = map[byte]codeSpec{
	'a': {kind: KindNulBlock},
	'A': {kind: KindSpaceBlock},
	'h': {kind: KindHexLow},
	'H': {kind: KindHexHigh},
	'c': {kind: KindIntBE, width: 1, signed: true},
	'C': {kind: KindIntBE, width: 1},
	's': {kind: KindIntBE, width: 2, signed: true},
	'n': {kind: KindIntBE, width: 2},
	'S': {kind: KindIntBE, width: 2},
	'v': {kind: KindIntLE, width: 2},
	'l': {kind: KindIntBE, width: 4, signed: true},
	'N': {kind: KindIntBE, width: 4},
	'L': {kind: KindIntBE, width: 4},
	'V': {kind: KindIntLE, width: 4},
	'i': {kind: KindIntBE, width: 8},
	'I': {kind: KindIntBE, width: 8},
	'd': {kind: KindDouble, width: 8},
	'f': {kind: KindFloat, width: 4},
	'x': {kind: KindNullFill},
	'@': {kind: KindPosition},
}

// Codes 为全部可识别的类型字符。
var Codes = typeutil.NewSet(lo.Keys(codeSpecs)...)

// Compile 将格式串编译为 Program，永不失败。
//
// 无法识别的字符连同紧随其后的重复次数（unpack 模式下还有字段名）被丢弃，
// 并记录在 Program.Dropped 中；超出 MaxRepeat 的重复次数被截断。
func Compile(format string, mode Mode) *Program {
	p := &Program{format: format, mode: mode}

	for i := 0; i < len(format); {
		offset := i
		code := format[i]
		i++

		repeat, next, overflow := scanRepeat(format, i)
		i = next
		if overflow {
			p.issues = append(p.issues, merr.WrapErrFormatRepeatTooLarge(code, offset, MaxRepeat))
		}

		var name string
		if mode == Unpack {
			name, i = scanName(format, i)
		}

		if !Codes.Contain(code) {
			p.dropped = append(p.dropped, DroppedCode{Offset: offset, Code: code, Text: format[offset:i]})
			p.issues = append(p.issues, merr.WrapErrFormatUnknownCode(code, offset))
			continue
		}

		spec := codeSpecs[code]
		seg := Segment{
			Code:   code,
			Kind:   spec.kind,
			Repeat: repeat,
			Name:   name,
			Width:  spec.width,
		}
		// pack 方向只写原始字节，不区分有无符号。
		if mode == Unpack {
			seg.Signed = spec.signed
		}
		p.segments = append(p.segments, seg)
	}
	return p
}

// CompileStrict 与 Compile 相同，但在存在被丢弃字符或被截断的重复次数时返回错误。
func CompileStrict(format string, mode Mode) (*Program, error) {
	p := Compile(format, mode)
	if err := p.Strict(); err != nil {
		return p, err
	}
	return p, nil
}

// scanRepeat 从 i 开始读取重复次数，返回重复次数、下一个读取位置以及是否发生截断。
func scanRepeat(format string, i int) (Repeat, int, bool) {
	start := i
	count := 0
	overflow := false
	for i < len(format) && isDigit(format[i]) {
		if !overflow {
			count = count*10 + int(format[i]-'0')
			if count > MaxRepeat {
				count = MaxRepeat
				overflow = true
			}
		}
		i++
	}
	if i > start {
		return Repeat(count), i, overflow
	}
	if i < len(format) && format[i] == '*' {
		return ConsumeRemaining, i + 1, false
	}
	return 1, i, false
}

// scanName 读取字段名直到下一个 '/' 或格式串结尾，'/' 本身被消费。
func scanName(format string, i int) (string, int) {
	start := i
	for i < len(format) && format[i] != '/' {
		i++
	}
	name := format[start:i]
	if i < len(format) {
		i++
	}
	return name, i
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}
