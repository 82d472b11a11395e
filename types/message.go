/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-02-02 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-02-02 10:00:00
 * @FilePath: \locust4j\types\message.go
 * @Description: 主从协议消息模型
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package types

// Message 主从协议消息，入站与出站共用同一结构
type Message struct {
	Type   MessageType            `json:"type"`
	Data   map[string]interface{} `json:"data,omitempty"`
	Extra  string                 `json:"extra,omitempty"` // 可选关联字符串
	NodeID string                 `json:"node_id"`
}

// NewMessage 创建消息
func NewMessage(msgType MessageType, data map[string]interface{}, extra string, nodeID string) *Message {
	return &Message{
		Type:   msgType,
		Data:   data,
		Extra:  extra,
		NodeID: nodeID,
	}
}

// UserClassesCount 用户类名 -> worker 数量映射，由 Master 下发并原样回传
type UserClassesCount map[string]int64

// TotalUsers 计算所有用户类的 worker 总数
func (u UserClassesCount) TotalUsers() int {
	total := int64(0)
	for _, count := range u {
		total += count
	}
	return int(total)
}

// ParseUserClassesCount 从消息 data 字段解析 user_classes_count。
// 反序列化来源不同时数值类型不固定，这里统一收敛为 int64。
func ParseUserClassesCount(raw interface{}) (UserClassesCount, bool) {
	switch m := raw.(type) {
	case UserClassesCount:
		return m, true
	case map[string]int64:
		return UserClassesCount(m), true
	case map[string]int:
		result := make(UserClassesCount, len(m))
		for k, v := range m {
			result[k] = int64(v)
		}
		return result, true
	case map[string]interface{}:
		result := make(UserClassesCount, len(m))
		for k, v := range m {
			n, ok := toInt64(v)
			if !ok {
				return nil, false
			}
			result[k] = n
		}
		return result, true
	default:
		return nil, false
	}
}

// toInt64 数值类型收敛
func toInt64(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint64:
		return int64(n), true
	case float64:
		return int64(n), true
	default:
		return 0, false
	}
}
