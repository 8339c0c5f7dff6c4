// Package codec 按编译好的 format.Program 执行 pack 与 unpack。
//
// 两个方向都是输入与程序的纯函数：程序不可变，游标只属于一次调用。
// 可恢复的问题作为告警交给 Warner 后继续执行；严格模式下第一个告警即终止调用，
// 已经产出的字节或值随错误一并返回。
package codec

import (
	"context"

	"github.com/lk2023060901/binpack-go/internal/binpack/format"
	"github.com/lk2023060901/binpack-go/pkg/metrics"
	"github.com/lk2023060901/binpack-go/pkg/util/merr"
)

// Options 控制单次编解码的行为。
type Options struct {
	// Strict 为 true 时，编译问题与执行告警都作为错误返回。
	Strict bool
	// Warner 接收告警，为 nil 时使用 LogWarner。
	Warner Warner
}

// WarnFunc 上报一个告警，返回非 nil 时当前段必须立即停止并返回该错误。
type WarnFunc func(err error) error

// run 记录一次调用的公共状态：告警计数与监控上报。
type run struct {
	ctx      context.Context
	op       string
	opts     Options
	warnings int
}

func newRun(ctx context.Context, op string, opts Options) *run {
	if opts.Warner == nil {
		opts.Warner = LogWarner{}
	}
	return &run{ctx: ctx, op: op, opts: opts}
}

// check 在执行前校验程序的方向以及严格模式下的编译问题。
func (r *run) check(prog *format.Program, want format.Mode) error {
	if prog == nil {
		return merr.WrapErrParameterMissing("program")
	}
	if prog.Mode() != want {
		return merr.WrapErrParameterInvalid(want.String(), prog.Mode().String(), "program compiled for another mode")
	}
	if r.opts.Strict {
		return prog.Strict()
	}
	return nil
}

func (r *run) warner(index int, seg format.Segment) WarnFunc {
	return func(err error) error {
		if err == nil {
			return nil
		}
		r.warnings++
		metrics.CodecWarnings.WithLabelValues(r.op, merr.CodeName(err)).Inc()
		r.opts.Warner.Warn(r.ctx, Warning{Op: r.op, Segment: index, Code: seg.Code, Err: err})
		if r.opts.Strict {
			return err
		}
		return nil
	}
}

func (r *run) done(n int, err error) {
	status := metrics.SuccessLabel
	switch {
	case err != nil:
		status = metrics.FailLabel
	case r.warnings > 0:
		status = metrics.WarningLabel
	}
	metrics.CodecOperations.WithLabelValues(r.op, status).Inc()
	metrics.CodecBytes.WithLabelValues(r.op).Observe(float64(n))
}
