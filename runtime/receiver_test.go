/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-02-05 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-02-05 11:20:00
 * @FilePath: \locust4j\runtime\receiver_test.go
 * @Description: 接收循环测试
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package runtime

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stephen-harris/locust4j/types"
	"github.com/stretchr/testify/assert"
)

// flakyClient 前 failures 次 Recv 返回错误，之后从通道取消息
type flakyClient struct {
	*mockClient
	failures int64
}

func (c *flakyClient) Recv() (*types.Message, error) {
	if atomic.AddInt64(&c.failures, -1) >= 0 {
		return nil, fmt.Errorf("transient recv error")
	}
	return c.mockClient.Recv()
}

// TestReceiveLoopSurvivesTransientErrors 测试接收错误不终止循环
func TestReceiveLoopSurvivesTransientErrors(t *testing.T) {
	client := &flakyClient{mockClient: newMockClient(), failures: 3}
	cfg := testConfig()
	cfg.RecvErrorBackoff = 5 * time.Millisecond

	runner, err := NewRunner(RunnerOptions{
		Config: cfg,
		Client: client,
		Tasks:  []types.Task{&mockTask{name: "t", weight: 1}},
	})
	assert.NoError(t, err)
	assert.NoError(t, runner.Start(context.Background()))
	defer func() {
		runner.Stop()
		close(client.inbound)
	}()

	client.inbound <- spawnMessage(map[string]float64{"UserA": 1}, "")

	assert.Eventually(t, func() bool {
		return runner.State() == types.RunnerStateRunning
	}, 2*time.Second, 10*time.Millisecond)
}
