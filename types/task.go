/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-02-02 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-02-02 10:00:00
 * @FilePath: \locust4j\types\task.go
 * @Description: 压测任务契约定义
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package types

import "context"

// Task 压测任务（用户类）契约。
// 核心只读取权重与名称并按分配结果并行提交执行，从不解读任务结果。
// Run 需要自行循环发压，直到 ctx 被取消。
type Task interface {
	// Name 任务名称，仅用于日志与 worker 命名
	Name() string

	// Weight 相对权重，非负；全部为 0 时按任务数均分
	Weight() float64

	// Run 执行任务，内部循环直到 ctx 取消
	Run(ctx context.Context)
}
