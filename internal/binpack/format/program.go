package format

import (
	"strings"

	"github.com/lk2023060901/binpack-go/pkg/util/merr"
)

// DroppedCode 记录编译时被丢弃的一段格式串。
type DroppedCode struct {
	// Offset 为类型字符在格式串中的字节偏移。
	Offset int
	Code   byte
	// Text 为被丢弃的完整文本，包含重复次数和字段名。
	Text string
}

// Program 是格式串编译后的不可变段序列，可在多个调用方之间共享。
type Program struct {
	format   string
	mode     Mode
	segments []Segment
	dropped  []DroppedCode
	issues   []error
}

func (p *Program) Format() string {
	return p.format
}

func (p *Program) Mode() Mode {
	return p.mode
}

func (p *Program) Len() int {
	return len(p.segments)
}

// At 返回第 i 个段的副本。
func (p *Program) At(i int) Segment {
	return p.segments[i]
}

// Segments 返回段序列的副本。
func (p *Program) Segments() []Segment {
	segs := make([]Segment, len(p.segments))
	copy(segs, p.segments)
	return segs
}

// Dropped 返回编译时被丢弃的格式串片段。
func (p *Program) Dropped() []DroppedCode {
	dropped := make([]DroppedCode, len(p.dropped))
	copy(dropped, p.dropped)
	return dropped
}

// Issues 返回编译过程中发现的全部问题，均为宽松模式下被忽略的可诊断错误。
func (p *Program) Issues() []error {
	issues := make([]error, len(p.issues))
	copy(issues, p.issues)
	return issues
}

// Strict 在严格模式下检查编译结果，没有问题时返回 nil。
func (p *Program) Strict() error {
	return merr.Combine(p.issues...)
}

// String 以规范形式输出程序，unpack 模式下段之间以 '/' 分隔。
func (p *Program) String() string {
	parts := make([]string, 0, len(p.segments))
	for _, seg := range p.segments {
		parts = append(parts, seg.String())
	}
	if p.mode == Unpack {
		return strings.Join(parts, "/")
	}
	return strings.Join(parts, "")
}
