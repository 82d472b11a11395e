/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-02-02 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-02-04 18:25:00
 * @FilePath: \locust4j\runtime\sender.go
 * @Description: 出站消息发送循环
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package runtime

import (
	"context"

	"github.com/stephen-harris/locust4j/types"
)

// sendLoop 发送循环：统一消费统计子系统与心跳循环写入的出站队列。
// 心跳与 stats 在此串行发送，避免在传输层产生交错写竞争。
func (r *Runner) sendLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case data := <-r.queues.MessageToRunner():
			r.forward(data)
		}
	}
}

// forward 按 payload 类型转发：带 current_cpu_usage 标记的是心跳，
// 任何状态下都转发；stats 快照在 Ready/Stopped 状态下没有可报内容，
// 直接丢弃，否则附加实时 worker 数后发送。
func (r *Runner) forward(data map[string]interface{}) {
	if _, isHeartbeat := data["current_cpu_usage"]; isHeartbeat {
		if err := r.client.Send(types.NewMessage(types.MessageHeartbeat, data, "", r.nodeID)); err != nil {
			r.logger.ErrorKV("Error while sending a heartbeat message", "error", err)
		}
		return
	}

	state := r.State()
	if state == types.RunnerStateReady || state == types.RunnerStateStopped {
		return
	}

	data["user_count"] = r.ActiveWorkers()
	if err := r.client.Send(types.NewMessage(types.MessageStats, data, "", r.nodeID)); err != nil {
		r.logger.ErrorKV("Error while sending a stats message", "error", err)
	}
}
