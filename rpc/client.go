/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-02-02 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-02-02 10:00:00
 * @FilePath: \locust4j\rpc\client.go
 * @Description: Master 传输客户端抽象
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package rpc

import (
	"github.com/stephen-harris/locust4j/types"
)

// Client Master 传输客户端。
// 线格式与连接管理由具体实现负责，核心只依赖该抽象。
// Send 失败视为非致命错误，由调用方记录日志；Recv 阻塞直到下一条消息到达。
type Client interface {
	// Send 发送一条消息到 Master
	Send(msg *types.Message) error

	// Recv 阻塞接收下一条来自 Master 的消息
	Recv() (*types.Message, error)

	// Close 关闭连接
	Close() error
}
