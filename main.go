/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-02-02 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-02-04 19:05:00
 * @FilePath: \locust4j\main.go
 * @Description: worker agent 冒烟入口（内置空载任务，验证主从链路）
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/stephen-harris/locust4j/bootstrap"
	"github.com/stephen-harris/locust4j/logger"
	"github.com/stephen-harris/locust4j/types"
)

var (
	configFile string
	masterURL  string
	logLevel   logger.LogLevelFlag
)

func init() {
	flag.StringVar(&configFile, "config", "", "配置文件路径 (yaml/json)")
	flag.StringVar(&masterURL, "master", "", "Master 地址 (ws:// 或 wss://)")
	logLevel.Level = logger.INFO
	flag.Var(&logLevel, "log-level", "日志级别 (debug/info/warn/error)")
}

// idleTask 空载任务：只睡眠，不产生请求，用于验证 spawn/stop/quit 链路
type idleTask struct{}

func (t *idleTask) Name() string    { return "idle" }
func (t *idleTask) Weight() float64 { return 1 }

func (t *idleTask) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-time.After(time.Second):
		}
	}
}

func main() {
	flag.Parse()

	log := logger.NewLogger(logger.DefaultConfig().WithLevel(logLevel.Level))
	logger.SetDefault(log)

	err := bootstrap.RunAgent(bootstrap.AgentOptions{
		ConfigFile: configFile,
		MasterURL:  masterURL,
		Tasks:      []types.Task{&idleTask{}},
		Logger:     log,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "agent 启动失败: %v\n", err)
		os.Exit(1)
	}
}
