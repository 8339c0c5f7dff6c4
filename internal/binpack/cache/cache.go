// Package cache 提供格式串编译结果的缓存。
//
// 编译是确定性的纯函数，因此缓存只需保证并发安全，同一个键并发编译时只执行一次。
package cache

import (
	"math"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/lk2023060901/binpack-go/internal/binpack/format"
	"github.com/lk2023060901/binpack-go/pkg/metrics"
	"github.com/lk2023060901/binpack-go/pkg/util/merr"
)

// DefaultSize 为默认缓存条目数。
const DefaultSize = 1024

type CompileFunc func(f string, mode format.Mode) *format.Program

// ProgramCache 按 (格式串, 方向) 缓存编译结果。
type ProgramCache interface {
	GetOrCompile(f string, mode format.Mode, compile CompileFunc) *format.Program
	Len() int
	Purge()
}

type key struct {
	format string
	mode   format.Mode
}

func (k key) String() string {
	return k.mode.String() + "\x00" + k.format
}

// LRU 是基于 golang-lru 的 ProgramCache 实现，可并发使用。
type LRU struct {
	cache *lru.Cache[key, *format.Program]
	group singleflight.Group
}

var _ ProgramCache = (*LRU)(nil)

func NewLRU(size int) (*LRU, error) {
	if size <= 0 {
		return nil, merr.WrapErrParameterInvalidRange(1, math.MaxInt32, size, "program cache size")
	}
	c, err := lru.New[key, *format.Program](size)
	if err != nil {
		return nil, err
	}
	return &LRU{cache: c}, nil
}

func (c *LRU) GetOrCompile(f string, mode format.Mode, compile CompileFunc) *format.Program {
	k := key{format: f, mode: mode}
	if p, ok := c.cache.Get(k); ok {
		metrics.ProgramCacheRequests.WithLabelValues(metrics.HitLabel).Inc()
		return p
	}
	metrics.ProgramCacheRequests.WithLabelValues(metrics.MissLabel).Inc()

	v, _, _ := c.group.Do(k.String(), func() (any, error) {
		if p, ok := c.cache.Get(k); ok {
			return p, nil
		}
		p := compile(f, mode)
		c.cache.Add(k, p)
		metrics.ProgramCacheEntries.Set(float64(c.cache.Len()))
		return p, nil
	})
	return v.(*format.Program)
}

func (c *LRU) Len() int {
	return c.cache.Len()
}

func (c *LRU) Purge() {
	c.cache.Purge()
	metrics.ProgramCacheEntries.Set(0)
}

// Nop 不做缓存，每次都重新编译。
type Nop struct{}

var _ ProgramCache = Nop{}

func (Nop) GetOrCompile(f string, mode format.Mode, compile CompileFunc) *format.Program {
	return compile(f, mode)
}

func (Nop) Len() int { return 0 }

func (Nop) Purge() {}
