/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-02-02 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-02-02 10:00:00
 * @FilePath: \locust4j\types\enums.go
 * @Description: 枚举类型定义
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package types

// RunnerState Runner 状态 | EN Runner State
type RunnerState string

const (
	RunnerStateReady    RunnerState = "ready"    // 就绪，可接受 spawn 命令 | EN Ready, can accept spawn commands
	RunnerStateSpawning RunnerState = "spawning" // 分配 worker 中（瞬态） | EN Allocating workers (transient)
	RunnerStateRunning  RunnerState = "running"  // 压测运行中 | EN Running
	RunnerStateStopped  RunnerState = "stopped"  // 已停止 | EN Stopped
)

// String 返回状态名称（心跳消息中的 state 字段直接使用该值）
func (s RunnerState) String() string {
	return string(s)
}

// MessageType 主从协议消息类型 | EN Master/worker protocol message type
type MessageType string

const (
	// 入站消息（来自 Master）
	MessageSpawn MessageType = "spawn" // 按用户类分配 worker | EN Spawn workers by user class
	MessageStop  MessageType = "stop"  // 停止所有 worker | EN Stop all workers
	MessageQuit  MessageType = "quit"  // 终止 agent | EN Terminate the agent

	// 出站消息（发往 Master）
	MessageClientReady      MessageType = "client_ready"      // agent 就绪
	MessageSpawning         MessageType = "spawning"          // 开始分配
	MessageSpawningComplete MessageType = "spawning_complete" // 分配完成
	MessageClientStopped    MessageType = "client_stopped"    // 已停止
	MessageStats            MessageType = "stats"             // 统计快照
	MessageHeartbeat        MessageType = "heartbeat"         // 心跳
)
