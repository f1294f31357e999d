package service

import (
	"ai_authoring_backend/internal/util"
	"context"
	"math"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"
)

// Simulator 没有真实后端的页面动作共用的人工延迟和随机源
type Simulator struct {
	delay atomic.Int64

	mu  sync.Mutex
	rng *rand.Rand
}

// NewSimulator rng 为 nil 时按当前时间取种子
func NewSimulator(delay time.Duration, rng *rand.Rand) *Simulator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	s := &Simulator{rng: rng}
	s.SetDelay(delay)
	return s
}

func (s *Simulator) SetDelay(d time.Duration) {
	if d < 0 {
		d = 0
	}
	s.delay.Store(int64(d))
}

func (s *Simulator) Delay() time.Duration {
	return time.Duration(s.delay.Load())
}

func (s *Simulator) Wait(ctx context.Context) error {
	return util.Sleep(ctx, s.Delay())
}

func (s *Simulator) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(n)
}

// Between 返回 [lo, hi] 区间内保留一位小数的值
func (s *Simulator) Between(lo, hi float64) float64 {
	s.mu.Lock()
	v := lo + s.rng.Float64()*(hi-lo)
	s.mu.Unlock()
	v = math.Round(v*10) / 10
	return math.Min(math.Max(v, math.Ceil(lo*10-1e-9)/10), math.Floor(hi*10+1e-9)/10)
}
