/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-02-02 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-02-02 10:00:00
 * @FilePath: \locust4j\limiter\limiter.go
 * @Description: 自适应限流器边界
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package limiter

// RateLimiter 任务吞吐限流器。
// 限流算法由嵌入方提供，核心只在状态进入 Running 后调用 Start，
// 在处理 stop 命令时调用 Stop。
type RateLimiter interface {
	Start()
	Stop()
}
