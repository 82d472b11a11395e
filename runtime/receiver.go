/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-02-02 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-02-04 18:25:00
 * @FilePath: \locust4j\runtime\receiver.go
 * @Description: 入站消息接收循环
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package runtime

import (
	"context"
	"time"
)

// receiveLoop 接收循环：阻塞等待下一条 Master 消息并同步执行状态机分发。
// 传输错误只记录日志不中断循环；RecvErrorBackoff 大于 0 时在错误后
// 退避一段时间，避免传输持续故障时空转刷错误日志。
func (r *Runner) receiveLoop(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}

		msg, err := r.client.Recv()
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			r.logger.ErrorKV("Error while receiving a message", "error", err)
			if r.cfg.RecvErrorBackoff > 0 {
				select {
				case <-ctx.Done():
					return
				case <-time.After(r.cfg.RecvErrorBackoff):
				}
			}
			continue
		}
		if msg == nil {
			continue
		}

		r.onMessage(msg)
	}
}
