package service

import (
	"ai_authoring_backend/internal/util"
	"ai_authoring_backend/pkg/logger"
	"ai_authoring_backend/pkg/monitoring"
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

type FlowState string

const (
	FlowIdle       FlowState = "idle"
	FlowSubmitting FlowState = "submitting"
	FlowSuccess    FlowState = "success"
)

// FlowSnapshot 页面状态快照，失败后状态回到 idle 并保留 Error
type FlowSnapshot[T any] struct {
	State     FlowState `json:"state"`
	Result    *T        `json:"result,omitempty"`
	Error     string    `json:"error,omitempty"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Flow 单个页面实例的提交状态机：idle → submitting → success，失败回到 idle
type Flow[T any] struct {
	mu        sync.Mutex
	state     FlowState
	result    *T
	err       string
	updatedAt time.Time
}

func NewFlow[T any]() *Flow[T] {
	return &Flow[T]{state: FlowIdle, updatedAt: time.Now()}
}

// Begin 同步进入 submitting，已在提交中时拒绝
func (f *Flow[T]) Begin() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == FlowSubmitting {
		return util.ErrSubmissionInProgress
	}
	f.state = FlowSubmitting
	f.err = ""
	f.updatedAt = time.Now()
	return nil
}

// Succeed 整体替换结果，不与上一次结果合并
func (f *Flow[T]) Succeed(result T) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = FlowSuccess
	f.result = &result
	f.err = ""
	f.updatedAt = time.Now()
}

// Fail 回到 idle 并记录错误，上一次成功的结果保持不变
func (f *Flow[T]) Fail(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = FlowIdle
	if err != nil {
		f.err = err.Error()
	}
	f.updatedAt = time.Now()
}

func (f *Flow[T]) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = FlowIdle
	f.result = nil
	f.err = ""
	f.updatedAt = time.Now()
}

func (f *Flow[T]) Result() (T, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var zero T
	if f.result == nil {
		return zero, false
	}
	return *f.result, true
}

// Update 在锁内修改当前结果，没有结果时返回 false
func (f *Flow[T]) Update(fn func(*T) error) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.result == nil {
		return false, nil
	}
	if err := fn(f.result); err != nil {
		return true, err
	}
	f.updatedAt = time.Now()
	return true, nil
}

func (f *Flow[T]) Snapshot() FlowSnapshot[T] {
	f.mu.Lock()
	defer f.mu.Unlock()
	snap := FlowSnapshot[T]{State: f.state, Error: f.err, UpdatedAt: f.updatedAt}
	if f.result != nil {
		r := *f.result
		snap.Result = &r
	}
	return snap
}

func (f *Flow[T]) State() FlowState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// runFlow 包装一次页面提交：Begin、执行、按结果 Succeed 或 Fail，并记录日志和指标
func runFlow[T any](ctx context.Context, f *Flow[T], page, action, sid string, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	if err := f.Begin(); err != nil {
		monitoring.ObservePageAction(page, action, "rejected")
		return zero, err
	}

	result, err := fn(ctx)
	if err != nil {
		f.Fail(err)
		monitoring.ObservePageAction(page, action, "failure")
		logger.Log.Warn("Page action failed",
			zap.String("page", page), zap.String("action", action),
			zap.String("session", sid), zap.Error(err))
		return zero, err
	}

	f.Succeed(result)
	monitoring.ObservePageAction(page, action, "success")
	logger.Log.Info("Page action completed",
		zap.String("page", page), zap.String("action", action), zap.String("session", sid))
	return result, nil
}

// PageRegistry 按会话保存页面实例
type PageRegistry[P any] struct {
	mu      sync.Mutex
	newPage func() *P
	pages   map[string]*pageEntry[P]
}

type pageEntry[P any] struct {
	page     *P
	lastSeen time.Time
}

func NewPageRegistry[P any](newPage func() *P) *PageRegistry[P] {
	return &PageRegistry[P]{newPage: newPage, pages: make(map[string]*pageEntry[P])}
}

// Get 返回会话的页面实例，不存在时创建
func (r *PageRegistry[P]) Get(sid string) *P {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.pages[sid]
	if !ok {
		e = &pageEntry[P]{page: r.newPage()}
		r.pages[sid] = e
	}
	e.lastSeen = time.Now()
	return e.page
}

func (r *PageRegistry[P]) Peek(sid string) (*P, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.pages[sid]
	if !ok {
		return nil, false
	}
	return e.page, true
}

func (r *PageRegistry[P]) Drop(sid string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.pages, sid)
}

// Sweep 清理超过 maxIdle 未访问的页面实例，返回清理数量
func (r *PageRegistry[P]) Sweep(maxIdle time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	cutoff := time.Now().Add(-maxIdle)
	n := 0
	for sid, e := range r.pages {
		if e.lastSeen.Before(cutoff) {
			delete(r.pages, sid)
			n++
		}
	}
	return n
}

func (r *PageRegistry[P]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pages)
}

// Sweeper 后台清理任务使用
type Sweeper interface {
	Sweep(maxIdle time.Duration) int
	Drop(sid string)
}
