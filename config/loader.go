/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-02-02 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-02-03 09:30:00
 * @FilePath: \locust4j\config\loader.go
 * @Description: 配置加载器
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Loader 配置加载器
type Loader struct{}

// NewLoader 创建配置加载器
func NewLoader() *Loader {
	return &Loader{}
}

// LoadFromFile 从文件加载配置
func (l *Loader) LoadFromFile(path string) (*RunnerConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	// filepath.Ext 返回 ".yaml" / ".yml" / ".json"，去掉前缀点号
	ext := filepath.Ext(path)
	if len(ext) > 0 {
		ext = ext[1:]
	}
	return l.LoadFromBytes(data, ext)
}

// LoadFromBytes 从字节数据加载配置（支持 YAML 和 JSON）
func (l *Loader) LoadFromBytes(data []byte, format string) (*RunnerConfig, error) {
	config := DefaultConfig()

	switch format {
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("解析YAML配置失败: %w", err)
		}
	case "json":
		if err := json.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("解析JSON配置失败: %w", err)
		}
	default:
		return nil, fmt.Errorf("不支持的配置格式: %s (仅支持yaml/yml/json)", format)
	}

	return config.Normalize(), nil
}
