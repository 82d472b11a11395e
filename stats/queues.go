/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-02-02 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-02-03 14:10:00
 * @FilePath: \locust4j\stats\queues.go
 * @Description: 统计子系统边界队列
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package stats

import (
	"github.com/stephen-harris/locust4j/logger"
)

// Queues 统计子系统对 Runner 暴露的边界。
// 聚合逻辑（成功/失败计数、分位数计算）不在本仓库范围内，
// Runner 只消费出站 payload 队列，并在 spawn 开始时发出清零信号。
type Queues interface {
	// MessageToRunner 出站 payload 队列：统计子系统写入 stats 快照，
	// 心跳循环写入 heartbeat 采样，由 Runner 的发送循环统一消费。
	MessageToRunner() chan map[string]interface{}

	// ClearStats 非阻塞发出"清空累计统计"信号（spawn 开始时调用）
	ClearStats()

	// WakeMeUp 唤醒统计聚合器（spawn 开始时调用）
	WakeMeUp()
}

// ChannelQueues Queues 的默认通道实现，供嵌入方与测试使用
type ChannelQueues struct {
	messageToRunner chan map[string]interface{}
	clearStats      chan bool
	wakeup          chan bool
	logger          logger.ILogger
}

// NewQueues 创建默认边界队列
func NewQueues(size int, log logger.ILogger) *ChannelQueues {
	return &ChannelQueues{
		messageToRunner: make(chan map[string]interface{}, size),
		clearStats:      make(chan bool, 1),
		wakeup:          make(chan bool, 1),
		logger:          log,
	}
}

// MessageToRunner 出站 payload 队列
func (q *ChannelQueues) MessageToRunner() chan map[string]interface{} {
	return q.messageToRunner
}

// ClearStats 非阻塞发出清零信号，信号已挂起时直接忽略
func (q *ChannelQueues) ClearStats() {
	select {
	case q.clearStats <- true:
	default:
	}
}

// WakeMeUp 非阻塞唤醒聚合器
func (q *ChannelQueues) WakeMeUp() {
	select {
	case q.wakeup <- true:
	default:
	}
}

// ClearStatsChan 聚合器侧消费的清零信号队列
func (q *ChannelQueues) ClearStatsChan() <-chan bool {
	return q.clearStats
}

// WakeupChan 聚合器侧消费的唤醒信号队列
func (q *ChannelQueues) WakeupChan() <-chan bool {
	return q.wakeup
}
