/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-02-02 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-02-03 15:40:00
 * @FilePath: \locust4j\runtime\monitor.go
 * @Description: 资源监控器（心跳 CPU 采样）
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package runtime

import (
	"context"
	"time"

	"github.com/kamalyes/go-toolbox/pkg/syncx"
	"github.com/kamalyes/go-toolbox/pkg/units"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/stephen-harris/locust4j/logger"
)

// ResourceMonitor 资源监控器。后台周期采样并缓存 CPU/内存指标，
// 心跳循环读取缓存值，tick 永远不会被采样窗口阻塞。
type ResourceMonitor struct {
	mu         *syncx.RWLock
	logger     logger.ILogger
	interval   time.Duration
	cpuPercent float64
	memPercent float64
	memUsed    uint64
}

// NewResourceMonitor 创建资源监控器
func NewResourceMonitor(log logger.ILogger, interval time.Duration) *ResourceMonitor {
	return &ResourceMonitor{
		mu:       syncx.NewRWLock(),
		logger:   log,
		interval: interval,
	}
}

// Start 启动周期采样，直到 ctx 取消
func (rm *ResourceMonitor) Start(ctx context.Context) {
	// 启动时先采一次，避免首个心跳读到零值
	rm.Sample()

	ticker := time.NewTicker(rm.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rm.Sample()
			rm.logger.DebugKV("Resource usage updated",
				"cpu_percent", rm.CPUPercent(),
				"memory_used", units.FormatBytes(rm.MemoryUsed()))
		}
	}
}

// Sample 采样一次 CPU 与内存使用情况
func (rm *ResourceMonitor) Sample() {
	// interval=0 返回自上次调用以来的平均使用率，不阻塞
	var cpuValue float64
	if cpuPercents, err := cpu.Percent(0, false); err == nil && len(cpuPercents) > 0 {
		cpuValue = cpuPercents[0]
	}

	var memValue float64
	var memUsed uint64
	if v, err := mem.VirtualMemory(); err == nil {
		memValue = v.UsedPercent
		memUsed = v.Used
	}

	syncx.WithLock(rm.mu, func() {
		rm.cpuPercent = cpuValue
		rm.memPercent = memValue
		rm.memUsed = memUsed
	})
}

// CPUPercent 最近一次采样的 CPU 使用率（0-100）
func (rm *ResourceMonitor) CPUPercent() float64 {
	return syncx.WithRLockReturnValue(rm.mu, func() float64 {
		return rm.cpuPercent
	})
}

// MemoryPercent 最近一次采样的内存使用率
func (rm *ResourceMonitor) MemoryPercent() float64 {
	return syncx.WithRLockReturnValue(rm.mu, func() float64 {
		return rm.memPercent
	})
}

// MemoryUsed 最近一次采样的已用内存字节数
func (rm *ResourceMonitor) MemoryUsed() uint64 {
	return syncx.WithRLockReturnValue(rm.mu, func() uint64 {
		return rm.memUsed
	})
}
