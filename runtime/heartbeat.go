/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-02-02 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-02-04 18:25:00
 * @FilePath: \locust4j\runtime\heartbeat.go
 * @Description: 心跳循环
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package runtime

import (
	"context"
	"fmt"

	"github.com/kamalyes/go-toolbox/pkg/syncx"
)

// startHeartbeat 启动心跳周期任务。每个 tick 采样 CPU 使用率与当前
// 状态名，非阻塞写入出站队列；队列满时丢弃本次采样并记录错误，
// 心跳投递是尽力而为的，绝不反压定时器。
func (r *Runner) startHeartbeat(ctx context.Context) {
	task := syncx.NewPeriodicTask("heartbeat", r.cfg.HeartbeatInterval, func(taskCtx context.Context) error {
		if r.IsHeartbeatStopped() {
			return nil
		}
		return r.offerHeartbeat()
	}).SetOnError(func(name string, err error) {
		r.logger.ErrorKV("Heartbeat error", "error", err)
	})

	r.heartbeatTask.AddTask(task)
	r.heartbeatTask.StartWithContext(ctx)
}

// offerHeartbeat 构造一次心跳 payload 并尝试非阻塞入队
func (r *Runner) offerHeartbeat() error {
	data := map[string]interface{}{
		"state":             r.State().String(),
		"current_cpu_usage": r.monitor.CPUPercent(),
	}

	select {
	case r.queues.MessageToRunner() <- data:
		return nil
	default:
		return fmt.Errorf("failed to insert heartbeat message to the queue, queue is full")
	}
}
