/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-02-02 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-02-03 11:20:00
 * @FilePath: \locust4j\rpc\websocket.go
 * @Description: WebSocket JSON 桥接客户端实现
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package rpc

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/stephen-harris/locust4j/config"
	"github.com/stephen-harris/locust4j/types"
)

// WebSocketClient WebSocket JSON 桥接客户端。
// 消息以 JSON 帧收发，适用于自建 Master 桥接服务与集成测试；
// 不实现 locust 原生 zmq 线格式。
type WebSocketClient struct {
	masterURL string
	conn      *websocket.Conn
	dialer    *websocket.Dialer
	headers   http.Header
	writeMu   sync.Mutex // gorilla 连接仅允许单写者
}

// NewWebSocketClient 创建 WebSocket 客户端
func NewWebSocketClient(cfg *config.RunnerConfig) (*WebSocketClient, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	u, err := url.Parse(cfg.MasterURL)
	if err != nil {
		return nil, fmt.Errorf("invalid master URL: %w", err)
	}

	// WebSocket URL 必须是 ws:// 或 wss://
	switch u.Scheme {
	case "ws", "wss":
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	default:
		return nil, fmt.Errorf("invalid websocket scheme: %s (expected ws or wss)", u.Scheme)
	}

	dialer := &websocket.Dialer{
		HandshakeTimeout: cfg.HandshakeTimeout,
		Proxy:            http.ProxyFromEnvironment,
	}

	return &WebSocketClient{
		masterURL: u.String(),
		dialer:    dialer,
		headers:   make(http.Header),
	}, nil
}

// Connect 建立 WebSocket 连接
func (c *WebSocketClient) Connect(ctx context.Context) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if c.conn != nil {
		return nil // 已连接
	}

	conn, _, err := c.dialer.DialContext(ctx, c.masterURL, c.headers)
	if err != nil {
		return fmt.Errorf("failed to dial master: %w", err)
	}

	c.conn = conn
	return nil
}

// Send 发送一条消息（JSON 帧）
func (c *WebSocketClient) Send(msg *types.Message) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if c.conn == nil {
		return fmt.Errorf("websocket not connected")
	}
	return c.conn.WriteJSON(msg)
}

// Recv 阻塞接收下一条消息（JSON 帧）。
// 仅允许单个接收协程调用。
func (c *WebSocketClient) Recv() (*types.Message, error) {
	if c.conn == nil {
		return nil, fmt.Errorf("websocket not connected")
	}

	msg := &types.Message{}
	if err := c.conn.ReadJSON(msg); err != nil {
		return nil, fmt.Errorf("failed to read message: %w", err)
	}
	return msg, nil
}

// Close 关闭连接
func (c *WebSocketClient) Close() error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}
