/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-02-02 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-02-04 19:05:00
 * @FilePath: \locust4j\bootstrap\agent.go
 * @Description: Agent 模式启动器
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package bootstrap

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/kamalyes/go-toolbox/pkg/netx"
	"github.com/stephen-harris/locust4j/config"
	"github.com/stephen-harris/locust4j/limiter"
	"github.com/stephen-harris/locust4j/logger"
	"github.com/stephen-harris/locust4j/rpc"
	"github.com/stephen-harris/locust4j/runtime"
	"github.com/stephen-harris/locust4j/types"
)

// AgentOptions Agent 启动选项
type AgentOptions struct {
	ConfigFile  string
	MasterURL   string
	Tasks       []types.Task
	RateLimiter limiter.RateLimiter // 可选
	Logger      logger.ILogger
}

// RunAgent 运行 worker agent：连接 Master、启动 Runner，
// 直到收到系统信号或 Master 下发 quit 命令
func RunAgent(opts AgentOptions) error {
	log := opts.Logger
	if log == nil {
		log = logger.Default
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	if cfg.MasterURL == "" {
		return fmt.Errorf("agent 模式必须指定 Master 地址")
	}

	localIP, err := netx.GetPrivateIP()
	if err != nil {
		localIP = "127.0.0.1"
	}
	log.InfoKV("Starting worker agent", "master_url", cfg.MasterURL, "local_ip", localIP)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 建立到 Master 的 WebSocket 桥接连接
	client, err := rpc.NewWebSocketClient(cfg)
	if err != nil {
		return fmt.Errorf("创建传输客户端失败: %w", err)
	}
	if err := client.Connect(ctx); err != nil {
		return fmt.Errorf("连接 Master 失败: %w", err)
	}
	defer client.Close()

	// quit 命令与系统信号共用同一退出路径
	quitCh := make(chan struct{})
	var quitOnce sync.Once

	runner, err := runtime.NewRunner(runtime.RunnerOptions{
		Config:      cfg,
		Client:      client,
		Tasks:       opts.Tasks,
		RateLimiter: opts.RateLimiter,
		OnQuit: func() {
			quitOnce.Do(func() { close(quitCh) })
		},
		Logger: log,
	})
	if err != nil {
		return fmt.Errorf("创建 Runner 失败: %w", err)
	}

	if err := runner.Start(ctx); err != nil {
		return fmt.Errorf("启动 Runner 失败: %w", err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.InfoKV("Received signal, shutting down", "signal", sig.String())
		if err := runner.Stop(); err != nil {
			log.WarnKV("Failed to stop runner", "error", err)
		}
	case <-quitCh:
		log.InfoKV("Master ordered quit, agent terminated", "node_id", runner.NodeID())
	}

	return nil
}

// loadConfig 加载配置文件并应用命令行覆盖
func loadConfig(opts AgentOptions) (*config.RunnerConfig, error) {
	cfg := config.DefaultConfig()
	if opts.ConfigFile != "" {
		loaded, err := config.NewLoader().LoadFromFile(opts.ConfigFile)
		if err != nil {
			return nil, fmt.Errorf("加载配置失败: %w", err)
		}
		cfg = loaded
	}
	if opts.MasterURL != "" {
		cfg.MasterURL = opts.MasterURL
	}
	return cfg, nil
}
