/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-02-02 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-02-03 15:40:00
 * @FilePath: \locust4j\runtime\scheduler.go
 * @Description: 按权重分配 worker 的调度算法
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package runtime

import (
	"math"

	"github.com/stephen-harris/locust4j/types"
)

// AllocateWorkers 按权重计算各任务分配的 worker 数量，返回与 tasks 对齐的切片。
// 权重和为 0 时按任务数整除均分，余数 worker 被舍弃；
// 权重和大于 0 时对每个任务独立取 round(total * weight / sum)，
// 舍入采用四舍五入（half away from zero），与参考实现一致。
// 各任务独立舍入导致总和可能偏离 total，该偏差是接受的，不做修正。
func AllocateWorkers(total int, tasks []types.Task) []int {
	counts := make([]int, len(tasks))
	if len(tasks) == 0 || total <= 0 {
		return counts
	}

	weightSum := float64(0)
	for _, task := range tasks {
		weightSum += task.Weight()
	}

	for i, task := range tasks {
		if weightSum == 0 {
			counts[i] = total / len(tasks)
		} else {
			percent := task.Weight() / weightSum
			counts[i] = int(math.Round(float64(total) * percent))
		}
	}
	return counts
}

// SumAllocations 分配总数
func SumAllocations(counts []int) int {
	total := 0
	for _, c := range counts {
		total += c
	}
	return total
}
