package binpack

import (
	"github.com/lk2023060901/binpack-go/internal/binpack/cache"
	"github.com/lk2023060901/binpack-go/pkg/log"
)

// Option 用于配置 Codec。
type Option func(c *Codec)

// WithCache 指定编译结果缓存，传入 nil 表示不缓存。
func WithCache(pc ProgramCache) Option {
	return func(c *Codec) {
		if pc == nil {
			pc = cache.Nop{}
		}
		c.cache = pc
	}
}

// WithCacheSize 使用指定容量的 LRU 缓存，size 必须为正数。
func WithCacheSize(size int) Option {
	return func(c *Codec) {
		c.cacheSize = size
	}
}

// WithStrict 开启严格模式：未知格式字符与任何告警都会终止调用。
func WithStrict(strict bool) Option {
	return func(c *Codec) {
		c.strict = strict
	}
}

// WithWarner 指定告警接收者，默认写入日志。
func WithWarner(w Warner) Option {
	return func(c *Codec) {
		c.warner = w
	}
}

// WithLogger 为 Codec 绑定 Logger。
func WithLogger(l *log.MLogger) Option {
	return func(c *Codec) {
		c.SetLogger(l)
	}
}

// WithWorkers 指定 UnpackRecords 的并发数。
func WithWorkers(n int) Option {
	return func(c *Codec) {
		c.workers = n
	}
}
