/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-02-02 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-02-03 09:30:00
 * @FilePath: \locust4j\config\config.go
 * @Description: Runner 配置结构体定义
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package config

import (
	"time"

	"github.com/kamalyes/go-toolbox/pkg/mathx"
)

// RunnerConfig Runner 配置
type RunnerConfig struct {
	// MasterURL Master 地址（ws:// 或 wss://，仅 WebSocket 桥接传输使用）
	MasterURL string `json:"master_url" yaml:"master_url"`

	// HeartbeatInterval 心跳间隔
	HeartbeatInterval time.Duration `json:"heartbeat_interval" yaml:"heartbeat_interval"`

	// StopTimeout worker 池停止的最长等待时间，超时后放弃残留 worker
	StopTimeout time.Duration `json:"stop_timeout" yaml:"stop_timeout"`

	// RecvErrorBackoff 接收循环出错后的退避间隔，0 表示立即重试（与参考实现一致）
	RecvErrorBackoff time.Duration `json:"recv_error_backoff" yaml:"recv_error_backoff"`

	// HandshakeTimeout WebSocket 握手超时
	HandshakeTimeout time.Duration `json:"handshake_timeout" yaml:"handshake_timeout"`

	// OutboundQueueSize 出站消息队列容量（stats/heartbeat 共用）
	OutboundQueueSize int `json:"outbound_queue_size" yaml:"outbound_queue_size"`

	// DisableHeartbeat 管理性关闭心跳
	DisableHeartbeat bool `json:"disable_heartbeat" yaml:"disable_heartbeat"`
}

// DefaultConfig 默认配置
func DefaultConfig() *RunnerConfig {
	return &RunnerConfig{
		HeartbeatInterval: time.Second,
		StopTimeout:       time.Second,
		RecvErrorBackoff:  0,
		HandshakeTimeout:  10 * time.Second,
		OutboundQueueSize: 100,
	}
}

// Normalize 填充零值字段为默认值
func (c *RunnerConfig) Normalize() *RunnerConfig {
	defaults := DefaultConfig()
	c.HeartbeatInterval = mathx.IfNotZero(c.HeartbeatInterval, defaults.HeartbeatInterval)
	c.StopTimeout = mathx.IfNotZero(c.StopTimeout, defaults.StopTimeout)
	c.HandshakeTimeout = mathx.IfNotZero(c.HandshakeTimeout, defaults.HandshakeTimeout)
	c.OutboundQueueSize = mathx.IfNotZero(c.OutboundQueueSize, defaults.OutboundQueueSize)
	return c
}
