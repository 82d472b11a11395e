/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-02-02 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-02-05 15:40:00
 * @FilePath: \locust4j\logger\logger.go
 * @Description: agent 日志入口，基于 go-logger
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package logger

import (
	"time"

	"github.com/kamalyes/go-logger"
)

// 仓库内统一从本包引用日志接口与配置类型
type (
	ILogger   = logger.ILogger
	LogConfig = logger.LogConfig
	LogLevel  = logger.LogLevel
)

// 日志级别
const (
	DEBUG = logger.DEBUG
	INFO  = logger.INFO
	WARN  = logger.WARN
	ERROR = logger.ERROR
)

var NewLogger = logger.NewLogger

// Default 全局默认 logger。未显式注入 logger 的组件
//（Runner、bootstrap）回退到该实例。
var Default ILogger = New()

// DefaultConfig agent 默认日志配置，出站日志统一带 LOCUST 前缀
func DefaultConfig() *LogConfig {
	return logger.DefaultConfig().
		WithPrefix("[LOCUST] ").
		WithShowCaller(false).
		WithColorful(true).
		WithTimeFormat(time.DateTime)
}

// New 按默认配置创建 logger
func New() *logger.Logger {
	return logger.NewLogger(DefaultConfig())
}

// SetDefault 替换全局默认 logger，后续创建的组件回退随之生效
func SetDefault(l ILogger) {
	Default = l
}

// LogLevelFlag 命令行日志级别参数（实现 flag.Value 接口）
type LogLevelFlag struct {
	Level LogLevel
}

// String 当前级别名称
func (f *LogLevelFlag) String() string {
	return f.Level.String()
}

// Set 从字符串解析日志级别
func (f *LogLevelFlag) Set(value string) error {
	level, err := logger.ParseLevel(value)
	if err != nil {
		return err
	}
	f.Level = level
	return nil
}
