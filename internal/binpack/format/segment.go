package format

import (
	"strconv"
	"strings"
)

// Mode 表示格式串的编译方向。
type Mode int8

const (
	Pack Mode = iota
	Unpack
)

func (m Mode) String() string {
	switch m {
	case Pack:
		return "pack"
	case Unpack:
		return "unpack"
	default:
		return "mode(" + strconv.Itoa(int(m)) + ")"
	}
}

// Kind 为段的种类标签，编解码按 Kind 分派。
type Kind int8

const (
	KindInvalid    Kind = iota
	KindNulBlock        // a
	KindSpaceBlock      // A
	KindHexLow          // h，低半字节在前
	KindHexHigh         // H，高半字节在前
	KindIntBE
	KindIntLE
	KindDouble
	KindFloat
	KindNullFill // x
	KindPosition // @
)

var kindNames = map[Kind]string{
	KindInvalid:    "invalid",
	KindNulBlock:   "nul-block",
	KindSpaceBlock: "space-block",
	KindHexLow:     "hex-low",
	KindHexHigh:    "hex-high",
	KindIntBE:      "int-be",
	KindIntLE:      "int-le",
	KindDouble:     "double",
	KindFloat:      "float",
	KindNullFill:   "null-fill",
	KindPosition:   "position",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// IsBlock 表示该种类的段整体消费一个参数（a/A/h/H）。
func (k Kind) IsBlock() bool {
	switch k {
	case KindNulBlock, KindSpaceBlock, KindHexLow, KindHexHigh:
		return true
	}
	return false
}

// IsNumeric 表示该种类的段每次重复消费一个参数。
func (k Kind) IsNumeric() bool {
	switch k {
	case KindIntBE, KindIntLE, KindDouble, KindFloat:
		return true
	}
	return false
}

// Pad 返回块类段的填充字节。
func (k Kind) Pad() byte {
	if k == KindSpaceBlock {
		return ' '
	}
	return 0
}

// Repeat 为段的重复次数，ConsumeRemaining 表示“消费剩余全部”。
type Repeat int

const ConsumeRemaining Repeat = -1

// MaxRepeat 为单个段允许的最大重复次数，超出的部分会被截断。
const MaxRepeat = 1 << 24

func (r Repeat) Wildcard() bool {
	return r == ConsumeRemaining
}

// Count 返回固定重复次数，通配时返回 0。
func (r Repeat) Count() int {
	if r < 0 {
		return 0
	}
	return int(r)
}

func (r Repeat) String() string {
	if r.Wildcard() {
		return "*"
	}
	return strconv.Itoa(int(r))
}

// Segment 是格式串编译后的一个不可变单元。
type Segment struct {
	// Code 为格式串中的原始类型字符。
	Code   byte
	Kind   Kind
	Repeat Repeat
	// Name 只在 unpack 模式下有意义，为空时使用位置序号作为键。
	Name string
	// Width 为数值类段每次重复占用的字节数。
	Width int
	// Signed 只对 unpack 的整数段生效。
	Signed bool
}

// String 以规范形式输出段，例如 "N2", "a*", "Cflag"。
func (s Segment) String() string {
	var sb strings.Builder
	sb.WriteByte(s.Code)
	if s.Repeat != 1 || (s.Name != "" && (s.Name[0] == '*' || isDigit(s.Name[0]))) {
		sb.WriteString(s.Repeat.String())
	}
	sb.WriteString(s.Name)
	return sb.String()
}
