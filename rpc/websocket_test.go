/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-02-05 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-02-05 11:20:00
 * @FilePath: \locust4j\rpc\websocket_test.go
 * @Description: WebSocket 桥接客户端测试
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package rpc

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stephen-harris/locust4j/config"
	"github.com/stephen-harris/locust4j/types"
	"github.com/stretchr/testify/assert"
)

// newEchoServer 启动回显 WebSocket 服务端，收到什么帧回什么帧
func newEchoServer(t *testing.T) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			msgType, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			if err := conn.WriteMessage(msgType, data); err != nil {
				return
			}
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func testClientConfig(serverURL string) *config.RunnerConfig {
	cfg := config.DefaultConfig()
	cfg.MasterURL = serverURL
	cfg.HandshakeTimeout = 2 * time.Second
	return cfg
}

// TestWebSocketClientRoundTrip 测试 JSON 帧收发
func TestWebSocketClientRoundTrip(t *testing.T) {
	server := newEchoServer(t)

	// httptest 返回 http:// 地址，客户端应自动换算为 ws://
	client, err := NewWebSocketClient(testClientConfig(server.URL))
	assert.NoError(t, err)
	assert.NoError(t, client.Connect(context.Background()))
	defer client.Close()

	sent := types.NewMessage(types.MessageClientReady, map[string]interface{}{
		"version": "1.0",
	}, "-1", "node-1")
	assert.NoError(t, client.Send(sent))

	received, err := client.Recv()
	assert.NoError(t, err)
	assert.Equal(t, types.MessageClientReady, received.Type)
	assert.Equal(t, "-1", received.Extra)
	assert.Equal(t, "node-1", received.NodeID)
	assert.Equal(t, "1.0", received.Data["version"])
}

// TestWebSocketClientSchemeMapping 测试 URL scheme 换算与校验
func TestWebSocketClientSchemeMapping(t *testing.T) {
	cases := map[string]string{
		"ws://master:5557":   "ws://master:5557",
		"wss://master:443":   "wss://master:443",
		"http://master:8080": "ws://master:8080",
		"https://master":     "wss://master",
	}
	for input, expected := range cases {
		cfg := config.DefaultConfig()
		cfg.MasterURL = input
		client, err := NewWebSocketClient(cfg)
		assert.NoError(t, err, input)
		assert.Equal(t, expected, client.masterURL, input)
	}

	cfg := config.DefaultConfig()
	cfg.MasterURL = "tcp://master:5557"
	_, err := NewWebSocketClient(cfg)
	assert.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "scheme"))

	_, err = NewWebSocketClient(nil)
	assert.Error(t, err)
}

// TestWebSocketClientNotConnected 测试未连接时的错误
func TestWebSocketClientNotConnected(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.MasterURL = "ws://master:5557"
	client, err := NewWebSocketClient(cfg)
	assert.NoError(t, err)

	assert.Error(t, client.Send(types.NewMessage(types.MessageClientReady, nil, "", "node")))
	_, err = client.Recv()
	assert.Error(t, err)

	// 未连接时 Close 幂等
	assert.NoError(t, client.Close())
}

// TestWebSocketClientConnectIdempotent 测试重复 Connect 无副作用
func TestWebSocketClientConnectIdempotent(t *testing.T) {
	server := newEchoServer(t)

	client, err := NewWebSocketClient(testClientConfig(server.URL))
	assert.NoError(t, err)
	assert.NoError(t, client.Connect(context.Background()))
	assert.NoError(t, client.Connect(context.Background()))
	assert.NoError(t, client.Close())
}
