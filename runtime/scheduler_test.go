/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-02-05 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-02-05 11:20:00
 * @FilePath: \locust4j\runtime\scheduler_test.go
 * @Description: worker 分配算法测试
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package runtime

import (
	"testing"

	"github.com/stephen-harris/locust4j/types"
	"github.com/stretchr/testify/assert"
)

func makeTasks(weights ...float64) []types.Task {
	tasks := make([]types.Task, len(weights))
	for i, w := range weights {
		tasks[i] = &mockTask{name: "task", weight: w}
	}
	return tasks
}

// TestAllocateWorkersWeighted 测试按权重比例分配
func TestAllocateWorkersWeighted(t *testing.T) {
	counts := AllocateWorkers(8, makeTasks(1, 3))
	assert.Equal(t, []int{2, 6}, counts)
	assert.Equal(t, 8, SumAllocations(counts))
}

// TestAllocateWorkersZeroWeights 测试全零权重退化为整除均分，余数舍弃
func TestAllocateWorkersZeroWeights(t *testing.T) {
	counts := AllocateWorkers(5, makeTasks(0, 0))
	assert.Equal(t, []int{2, 2}, counts)
	assert.Equal(t, 4, SumAllocations(counts))
}

// TestAllocateWorkersSingleTask 测试单任务独占全部 worker
func TestAllocateWorkersSingleTask(t *testing.T) {
	counts := AllocateWorkers(7, makeTasks(2))
	assert.Equal(t, []int{7}, counts)
}

// TestAllocateWorkersRounding 测试四舍五入（half away from zero）
func TestAllocateWorkersRounding(t *testing.T) {
	// 10 * 1/4 = 2.5 → 3, 10 * 3/4 = 7.5 → 8，总和允许溢出
	counts := AllocateWorkers(10, makeTasks(1, 3))
	assert.Equal(t, []int{3, 8}, counts)
	assert.Equal(t, 11, SumAllocations(counts))
}

// TestAllocateWorkersEdgeCases 测试空任务与非正总数
func TestAllocateWorkersEdgeCases(t *testing.T) {
	assert.Empty(t, AllocateWorkers(5, nil))
	assert.Equal(t, []int{0, 0}, AllocateWorkers(0, makeTasks(1, 1)))
	assert.Equal(t, []int{0, 0, 0}, AllocateWorkers(-3, makeTasks(1, 1, 1)))
}

// TestAllocateWorkersDriftBounded 测试独立舍入的总偏差不超过任务数
func TestAllocateWorkersDriftBounded(t *testing.T) {
	tasks := makeTasks(1, 2, 3, 5, 7)
	for total := 0; total <= 100; total++ {
		counts := AllocateWorkers(total, tasks)
		sum := SumAllocations(counts)

		drift := sum - total
		if drift < 0 {
			drift = -drift
		}
		assert.LessOrEqual(t, drift, len(tasks), "total=%d", total)

		for i, c := range counts {
			assert.GreaterOrEqual(t, c, 0, "total=%d task=%d", total, i)
		}
	}
}
