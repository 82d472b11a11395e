/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-02-02 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-02-03 15:40:00
 * @FilePath: \locust4j\runtime\pool.go
 * @Description: worker 池（每次 spawn 重建）
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package runtime

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/stephen-harris/locust4j/logger"
	"github.com/stephen-harris/locust4j/types"
)

// WorkerPool 一代 worker 池。每收到一次 spawn 命令都会先销毁旧池再新建，
// 池句柄从不跨代共享。每个 worker 槽位是一个独立协程，执行一次 Task.Run，
// 任务内部自行循环直到池上下文取消。
type WorkerPool struct {
	generationID string
	ctx          context.Context
	cancel       context.CancelFunc
	wg           sync.WaitGroup
	stopTimeout  time.Duration
	workerSeq    int64
	logger       logger.ILogger
}

// NewWorkerPool 创建 worker 池，ctx 为 Runner 根上下文，agent 退出时连带取消
func NewWorkerPool(ctx context.Context, generationID string, stopTimeout time.Duration, log logger.ILogger) *WorkerPool {
	poolCtx, cancel := context.WithCancel(ctx)
	return &WorkerPool{
		generationID: generationID,
		ctx:          poolCtx,
		cancel:       cancel,
		stopTimeout:  stopTimeout,
		logger:       log,
	}
}

// Submit 提交一个 worker 槽位执行任务
func (p *WorkerPool) Submit(task types.Task) {
	seq := atomic.AddInt64(&p.workerSeq, 1)
	workerName := fmt.Sprintf("locust4j-worker#%d", seq-1)

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				p.logger.ErrorKV("Worker panicked",
					"worker", workerName,
					"task", task.Name(),
					"panic", r)
			}
		}()
		task.Run(p.ctx)
	}()
}

// Stop 取消所有 worker 并在限定时间内等待退出。
// 超时后放弃残留 worker（记录警告），这是有界等待而非无泄漏保证。
// 返回是否在限定时间内全部退出。
func (p *WorkerPool) Stop() bool {
	p.cancel()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.DebugKV("Worker pool stopped", "generation", p.generationID)
		return true
	case <-time.After(p.stopTimeout):
		p.logger.WarnKV("Worker pool stop timed out, abandoning stragglers",
			"generation", p.generationID,
			"timeout", p.stopTimeout)
		return false
	}
}

// Size 已提交的 worker 槽位数
func (p *WorkerPool) Size() int {
	return int(atomic.LoadInt64(&p.workerSeq))
}
