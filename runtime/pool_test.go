/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-02-05 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-02-05 11:20:00
 * @FilePath: \locust4j\runtime\pool_test.go
 * @Description: worker 池测试
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package runtime

import (
	"context"
	"testing"
	"time"

	"github.com/stephen-harris/locust4j/logger"
	"github.com/stretchr/testify/assert"
)

// stubbornTask 不响应取消的任务，用于验证有界等待
type stubbornTask struct{}

func (t *stubbornTask) Name() string    { return "stubborn" }
func (t *stubbornTask) Weight() float64 { return 1 }

func (t *stubbornTask) Run(ctx context.Context) {
	time.Sleep(3 * time.Second)
}

// panicTask 启动即 panic 的任务
type panicTask struct{}

func (t *panicTask) Name() string    { return "panic" }
func (t *panicTask) Weight() float64 { return 1 }

func (t *panicTask) Run(ctx context.Context) {
	panic("boom")
}

// TestWorkerPoolStopsWorkers 测试协作任务在宽限期内全部退出
func TestWorkerPoolStopsWorkers(t *testing.T) {
	pool := NewWorkerPool(context.Background(), "gen-1", 500*time.Millisecond, logger.Default)
	task := &mockTask{name: "t", weight: 1}

	for i := 0; i < 3; i++ {
		pool.Submit(task)
	}
	assert.Equal(t, 3, pool.Size())

	assert.Eventually(t, func() bool {
		return task.activeCount() == 3
	}, 2*time.Second, 10*time.Millisecond)

	assert.True(t, pool.Stop())
	assert.Equal(t, int64(0), task.activeCount())
}

// TestWorkerPoolAbandonsStragglers 测试超时后放弃残留 worker 并立即返回
func TestWorkerPoolAbandonsStragglers(t *testing.T) {
	pool := NewWorkerPool(context.Background(), "gen-2", 100*time.Millisecond, logger.Default)
	pool.Submit(&stubbornTask{})

	start := time.Now()
	assert.False(t, pool.Stop())
	assert.Less(t, time.Since(start), time.Second)
}

// TestWorkerPoolRecoversPanic 测试 worker panic 不影响池的关停
func TestWorkerPoolRecoversPanic(t *testing.T) {
	pool := NewWorkerPool(context.Background(), "gen-3", 500*time.Millisecond, logger.Default)
	pool.Submit(&panicTask{})
	pool.Submit(&mockTask{name: "t", weight: 1})

	assert.True(t, pool.Stop())
}

// TestWorkerPoolParentCancel 测试父上下文取消连带停掉所有 worker
func TestWorkerPoolParentCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	pool := NewWorkerPool(ctx, "gen-4", 500*time.Millisecond, logger.Default)
	task := &mockTask{name: "t", weight: 1}
	pool.Submit(task)

	assert.Eventually(t, func() bool {
		return task.activeCount() == 1
	}, 2*time.Second, 10*time.Millisecond)

	cancel()

	assert.Eventually(t, func() bool {
		return task.activeCount() == 0
	}, 2*time.Second, 10*time.Millisecond)
}
