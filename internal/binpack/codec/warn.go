package codec

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/lk2023060901/binpack-go/pkg/log"
	"github.com/lk2023060901/binpack-go/pkg/util/merr"
)

// Warning 为一次可恢复的编解码告警。
type Warning struct {
	Op      string
	Segment int
	Code    byte
	Err     error
}

// Warner 接收编解码过程中的可恢复告警。
type Warner interface {
	Warn(ctx context.Context, w Warning)
}

type WarnerFunc func(ctx context.Context, w Warning)

func (f WarnerFunc) Warn(ctx context.Context, w Warning) {
	f(ctx, w)
}

// LogWarner 将告警以限流方式写入 ctx 上的 Logger。
type LogWarner struct{}

func (LogWarner) Warn(ctx context.Context, w Warning) {
	log.Ctx(ctx).RatedWarn(1, "binpack segment warning",
		log.FieldOperation(w.Op),
		log.FieldSegment(w.Segment),
		log.FieldCode(merr.CodeName(w.Err)),
		zap.String("type", string(w.Code)),
		zap.Error(w.Err))
}

// Warnings 收集告警，可并发使用。
type Warnings struct {
	mu    sync.Mutex
	items []Warning
}

func (c *Warnings) Warn(_ context.Context, w Warning) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append(c.items, w)
}

// List 返回已收集告警的副本。
func (c *Warnings) List() []Warning {
	c.mu.Lock()
	defer c.mu.Unlock()
	items := make([]Warning, len(c.items))
	copy(items, c.items)
	return items
}

func (c *Warnings) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Err 将全部告警合并为一个错误，没有告警时返回 nil。
func (c *Warnings) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	errs := make([]error, 0, len(c.items))
	for _, w := range c.items {
		errs = append(errs, w.Err)
	}
	return merr.Combine(errs...)
}

// Tee 将告警依次转发给多个 Warner。
func Tee(warners ...Warner) Warner {
	return WarnerFunc(func(ctx context.Context, w Warning) {
		for _, warner := range warners {
			if warner != nil {
				warner.Warn(ctx, w)
			}
		}
	})
}
