// Package binpack 提供格式串驱动的二进制 pack/unpack。
//
// 格式串由类型字符、可选的重复次数（数字或 '*'）以及 unpack 时可选的字段名组成，
// 字段之间以 '/' 分隔，例如 pack 使用 "nA5x2N*"，unpack 使用 "nlen/A5name/x2/N*ids"。
//
//	a A   定长字节块，分别以 NUL、空格填充
//	h H   十六进制串，分别为低半字节在前、高半字节在前
//	c C   1 字节整数（unpack 时 c 有符号）
//	s n S 2 字节大端整数（unpack 时 s 有符号）
//	v     2 字节小端整数
//	l N L 4 字节大端整数（unpack 时 l 有符号）
//	V     4 字节小端整数
//	i I   8 字节大端整数
//	d f   大端 IEEE-754 双精度、单精度浮点数
//	x     pack 时填充 NUL，unpack 时跳过
//	@     pack 时以 NUL 填充到绝对位置，unpack 不支持
package binpack

import (
	"bytes"
	"context"
	"io"
	"runtime"

	"github.com/lk2023060901/binpack-go/internal/binpack/cache"
	"github.com/lk2023060901/binpack-go/internal/binpack/codec"
	"github.com/lk2023060901/binpack-go/internal/binpack/format"
	"github.com/lk2023060901/binpack-go/pkg/log"
	"github.com/lk2023060901/binpack-go/pkg/metrics"
	"github.com/lk2023060901/binpack-go/pkg/util/conc"
	"github.com/lk2023060901/binpack-go/pkg/util/merr"
)

type (
	Mode         = format.Mode
	Program      = format.Program
	Segment      = format.Segment
	DroppedCode  = format.DroppedCode
	ProgramCache = cache.ProgramCache
	Values       = codec.Values
	Key          = codec.Key
	Warning      = codec.Warning
	Warner       = codec.Warner
	WarnerFunc   = codec.WarnerFunc
	Warnings     = codec.Warnings
)

const (
	ModePack   = format.Pack
	ModeUnpack = format.Unpack
)

// Codec 持有编译缓存与解码协程池，可被多个 goroutine 共享。
type Codec struct {
	log.Binder

	cache     ProgramCache
	cacheSize int
	strict    bool
	warner    Warner
	workers   int
	pool      *conc.Pool[*Values]
}

// New 创建 Codec，默认使用容量为 cache.DefaultSize 的 LRU 缓存。
func New(opts ...Option) (*Codec, error) {
	c := &Codec{
		cacheSize: cache.DefaultSize,
		workers:   runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.cache == nil {
		lru, err := cache.NewLRU(c.cacheSize)
		if err != nil {
			return nil, err
		}
		c.cache = lru
	}
	if c.workers <= 0 {
		return nil, merr.WrapErrParameterInvalidRange(1, 1<<16, c.workers, "workers")
	}
	c.pool = conc.NewPool[*Values](c.workers, conc.WithName("binpack-unpack"), conc.WithConcealPanic(true))
	return c, nil
}

// Compile 编译格式串，结果来自缓存。严格模式下存在未知字符时返回错误。
func (c *Codec) Compile(f string, mode Mode) (*Program, error) {
	prog := c.cache.GetOrCompile(f, mode, format.Compile)
	if c.strict {
		if err := prog.Strict(); err != nil {
			return prog, err
		}
	}
	return prog, nil
}

// Pack 按格式串依次消费 args 并返回编码后的字节。
func (c *Codec) Pack(ctx context.Context, f string, args ...any) ([]byte, error) {
	ctx = c.withLogger(ctx, metrics.PackLabel, f)
	prog := c.cache.GetOrCompile(f, ModePack, format.Compile)
	return codec.Pack(ctx, prog, args, c.options())
}

// Unpack 按格式串从 r 读取并解码。读取按段进行，不会越过格式串需要的字节。
func (c *Codec) Unpack(ctx context.Context, f string, r io.Reader) (*Values, error) {
	ctx = c.withLogger(ctx, metrics.UnpackLabel, f)
	prog := c.cache.GetOrCompile(f, ModeUnpack, format.Compile)
	return codec.Unpack(ctx, prog, r, c.options())
}

func (c *Codec) UnpackBytes(ctx context.Context, f string, data []byte) (*Values, error) {
	return c.Unpack(ctx, f, bytes.NewReader(data))
}

// UnpackRecords 在协程池中并发解码多条独立记录，结果与 records 顺序一致。
// 解码失败的记录对应位置为 nil，返回按顺序遇到的第一个错误。
func (c *Codec) UnpackRecords(ctx context.Context, f string, records [][]byte) ([]*Values, error) {
	ctx = c.withLogger(ctx, metrics.UnpackLabel, f)
	prog := c.cache.GetOrCompile(f, ModeUnpack, format.Compile)
	opts := c.options()

	futures := make([]*conc.Future[*Values], 0, len(records))
	for _, record := range records {
		record := record
		futures = append(futures, c.pool.Submit(func() (*Values, error) {
			return codec.Unpack(ctx, prog, bytes.NewReader(record), opts)
		}))
	}

	err := conc.AwaitAll(futures...)
	results := make([]*Values, len(futures))
	for i, future := range futures {
		if future.OK() {
			results[i] = future.Value()
		}
	}
	return results, err
}

// Close 释放协程池。
func (c *Codec) Close() {
	c.pool.Release()
}

func (c *Codec) options() codec.Options {
	return codec.Options{Strict: c.strict, Warner: c.warner}
}

// withLogger 在 ctx 未携带 Logger 时绑定 Codec 的 Logger，并附加操作与格式串字段。
func (c *Codec) withLogger(ctx context.Context, op, f string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if _, ok := ctx.Value(log.CtxLogKey).(*log.MLogger); !ok {
		ctx = context.WithValue(ctx, log.CtxLogKey, c.Logger())
	}
	return log.WithOperation(ctx, op, f)
}

// Pack 使用宽松模式编码，不缓存编译结果。
func Pack(f string, args ...any) ([]byte, error) {
	return codec.Pack(context.Background(), format.Compile(f, ModePack), args, codec.Options{})
}

// Unpack 使用宽松模式解码，不缓存编译结果。
func Unpack(f string, r io.Reader) (*Values, error) {
	return codec.Unpack(context.Background(), format.Compile(f, ModeUnpack), r, codec.Options{})
}

func UnpackBytes(f string, data []byte) (*Values, error) {
	return Unpack(f, bytes.NewReader(data))
}

// Explain 返回格式串编译后的段列表与被丢弃的片段，用于诊断。
func Explain(f string, mode Mode) ([]Segment, []DroppedCode) {
	prog := format.Compile(f, mode)
	return prog.Segments(), prog.Dropped()
}
