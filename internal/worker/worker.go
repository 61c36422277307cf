package worker

import (
	"log/slog"
	"sync"

	"recipe-app/internal/logger"
)

// Task 為背景執行的工作；回傳的錯誤只會被記錄
type Task func() error

// Pool 以固定數量的 goroutine 執行背景工作，例如清除被取代的圖片檔
type Pool interface {
	Submit(name string, t Task) bool
	Stop()
}

// NewPool 建立 n 個 worker，queue 為等待中工作的上限。n<=0 時使用 1
func NewPool(n, queue int) Pool {
	if n <= 0 {
		n = 1
	}
	if queue < 0 {
		queue = 0
	}
	p := &pool{jobs: make(chan job, queue)}
	p.wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer p.wg.Done()
			for j := range p.jobs {
				p.exec(j)
			}
		}()
	}
	return p
}

type job struct {
	name string
	task Task
}

type pool struct {
	mu      sync.RWMutex
	stopped bool
	jobs    chan job
	wg      sync.WaitGroup
}

// Submit 在 Stop 之後回傳 false 且不執行工作
func (p *pool) Submit(name string, t Task) bool {
	if t == nil {
		return false
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.stopped {
		return false
	}
	p.jobs <- job{name: name, task: t}
	return true
}

// Stop 等待已送出的工作全部完成；可重複呼叫
func (p *pool) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	close(p.jobs)
	p.mu.Unlock()
	p.wg.Wait()
}

func (p *pool) exec(j job) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("background task panicked", slog.String("task", j.name), slog.Any("panic", r))
		}
	}()
	if err := j.task(); err != nil {
		slog.Warn("background task failed", slog.String("task", j.name), logger.Err(err))
	}
}
