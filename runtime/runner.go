/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-02-02 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-02-04 18:25:00
 * @FilePath: \locust4j\runtime\runner.go
 * @Description: Runner 状态机与消息处理
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package runtime

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/kamalyes/go-toolbox/pkg/idgen"
	"github.com/kamalyes/go-toolbox/pkg/osx"
	"github.com/kamalyes/go-toolbox/pkg/syncx"
	"github.com/stephen-harris/locust4j/config"
	"github.com/stephen-harris/locust4j/limiter"
	"github.com/stephen-harris/locust4j/logger"
	"github.com/stephen-harris/locust4j/rpc"
	"github.com/stephen-harris/locust4j/stats"
	"github.com/stephen-harris/locust4j/types"
)

// Runner 状态机：向 Master 注册自身，按命令启停压测任务，
// 并通过三个常驻循环（接收、发送、心跳）与 Master 保持通信。
// 所有状态转换都发生在接收循环的消息处理中，单写多读。
type Runner struct {
	nodeID string
	cfg    *config.RunnerConfig
	client rpc.Client
	tasks  []types.Task
	queues stats.Queues
	rateLimiter limiter.RateLimiter
	monitor     *ResourceMonitor
	logger      logger.ILogger

	// stateMachine 校验转换合法性，state 为其他循环读取的原子快照
	stateMachine *syncx.StateMachine[types.RunnerState]
	state        atomic.Value

	// numClients 当前 spawn 代已提交的 worker 槽位数
	numClients int64

	// remoteParams Master 下发的运行参数，只增不清，运行中任务可并发读取
	remoteParams *syncx.Map[string, interface{}]

	// userClassesCount 保存 spawn 消息中的映射，spawning_complete 原样回传。
	// 仅接收循环读写。
	userClassesCount types.UserClassesCount

	heartbeatStopped atomic.Bool
	running          *syncx.Bool
	heartbeatTask    *syncx.PeriodicTaskManager

	// pool 当前 spawn 代的 worker 池。接收循环重建，嵌入方调用 Stop
	// 时也会销毁，指针访问由 poolMu 保护
	poolMu sync.Mutex
	pool   *WorkerPool
	genID  *idgen.SnowflakeGenerator

	ctx    context.Context
	cancel context.CancelFunc
	onQuit func()
}

// RunnerOptions Runner 依赖注入选项
type RunnerOptions struct {
	Config      *config.RunnerConfig
	Client      rpc.Client
	Tasks       []types.Task
	Queues      stats.Queues        // 可选，缺省创建通道实现
	RateLimiter limiter.RateLimiter // 可选
	OnQuit      func()              // 可选，Master 下发 quit 后通知嵌入方退出
	Logger      logger.ILogger
}

// NewRunner 创建 Runner 实例
func NewRunner(opts RunnerOptions) (*Runner, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if opts.Client == nil {
		return nil, fmt.Errorf("rpc client cannot be nil")
	}
	if len(opts.Tasks) == 0 {
		return nil, fmt.Errorf("at least one task is required")
	}

	log := opts.Logger
	if log == nil {
		log = logger.Default
	}

	queues := opts.Queues
	if queues == nil {
		queues = stats.NewQueues(opts.Config.OutboundQueueSize, log)
	}

	r := &Runner{
		nodeID:        generateNodeID(),
		cfg:           opts.Config,
		client:        opts.Client,
		tasks:         opts.Tasks,
		queues:        queues,
		rateLimiter:   opts.RateLimiter,
		monitor:       NewResourceMonitor(log, opts.Config.HeartbeatInterval),
		logger:        log,
		stateMachine:  newRunnerStateMachine(),
		remoteParams:  syncx.NewMap[string, interface{}](),
		running:       syncx.NewBool(false),
		heartbeatTask: syncx.NewPeriodicTaskManager(),
		genID:         idgen.NewSnowflakeGenerator(1, 1),
		onQuit:        opts.OnQuit,
	}
	r.state.Store(types.RunnerStateReady)
	r.heartbeatStopped.Store(opts.Config.DisableHeartbeat)

	return r, nil
}

// newRunnerStateMachine 创建 Runner 状态机并配置允许的转换
func newRunnerStateMachine() *syncx.StateMachine[types.RunnerState] {
	sm := syncx.NewStateMachine(types.RunnerStateReady)

	sm.AllowTransition(types.RunnerStateReady, types.RunnerStateSpawning)
	sm.AllowTransition(types.RunnerStateSpawning, types.RunnerStateRunning)
	sm.AllowTransition(types.RunnerStateSpawning, types.RunnerStateStopped)
	sm.AllowTransition(types.RunnerStateRunning, types.RunnerStateSpawning)
	sm.AllowTransition(types.RunnerStateRunning, types.RunnerStateStopped)
	sm.AllowTransition(types.RunnerStateStopped, types.RunnerStateSpawning)
	sm.AllowTransition(types.RunnerStateStopped, types.RunnerStateReady)

	return sm
}

// generateNodeID 生成进程级稳定的节点标识
func generateNodeID() string {
	return fmt.Sprintf("%s_%s", osx.SafeGetHostName(), uuid.New().String())
}

// NodeID 节点标识，附加在每条出站消息上
func (r *Runner) NodeID() string {
	return r.nodeID
}

// State 当前状态的原子快照
func (r *Runner) State() types.RunnerState {
	return r.state.Load().(types.RunnerState)
}

// setState 执行一次状态转换。仅在接收循环的消息处理中调用。
func (r *Runner) setState(to types.RunnerState) {
	if err := r.stateMachine.TransitionTo(to); err != nil {
		r.logger.ErrorKV("Invalid runner state transition",
			"from", r.State(),
			"to", to,
			"error", err)
		return
	}
	r.state.Store(to)
}

// ActiveWorkers 最近一次 spawn 提交的 worker 槽位数
func (r *Runner) ActiveWorkers() int {
	return int(atomic.LoadInt64(&r.numClients))
}

// RemoteParams Master 下发的运行参数，任务可并发读取
func (r *Runner) RemoteParams() *syncx.Map[string, interface{}] {
	return r.remoteParams
}

// SetHeartbeatStopped 管理性开关心跳
func (r *Runner) SetHeartbeatStopped(stopped bool) {
	r.heartbeatStopped.Store(stopped)
}

// IsHeartbeatStopped 心跳是否被关闭
func (r *Runner) IsHeartbeatStopped() bool {
	return r.heartbeatStopped.Load()
}

// Start 上报就绪并启动接收、发送、心跳三个常驻循环
func (r *Runner) Start(ctx context.Context) error {
	if !r.running.CAS(false, true) {
		return fmt.Errorf("runner is already running")
	}

	ctx, cancel := context.WithCancel(ctx)
	r.ctx = ctx
	r.cancel = cancel

	// extra=-1 表示不带关联 ID 的注册
	if err := r.client.Send(types.NewMessage(types.MessageClientReady, nil, "-1", r.nodeID)); err != nil {
		r.logger.ErrorKV("Error while sending the ready message", "error", err)
	}

	go r.monitor.Start(ctx)
	go r.receiveLoop(ctx)
	go r.sendLoop(ctx)
	r.startHeartbeat(ctx)

	r.logger.InfoKV("Runner started", "node_id", r.nodeID, "tasks", len(r.tasks))
	return nil
}

// Stop 停止所有循环与当前 worker 池（嵌入方主动关停时调用）
func (r *Runner) Stop() error {
	if !r.running.CAS(true, false) {
		return fmt.Errorf("runner is not running")
	}

	r.cancel()
	r.stopWorkers()

	r.logger.InfoKV("Runner stopped", "node_id", r.nodeID)
	return nil
}

// onMessage 消息分发，接收循环串行调用，消息间不存在并发
func (r *Runner) onMessage(msg *types.Message) {
	switch msg.Type {
	case types.MessageSpawn, types.MessageStop, types.MessageQuit:
	default:
		r.logger.ErrorKV("Got unsupported message from master, ignored", "type", msg.Type)
		return
	}

	if msg.Type == types.MessageQuit {
		r.onQuitMessage()
		return
	}

	switch r.State() {
	case types.RunnerStateReady, types.RunnerStateStopped:
		if msg.Type == types.MessageSpawn {
			r.handleSpawn(msg, false)
		}
	case types.RunnerStateSpawning, types.RunnerStateRunning:
		if msg.Type == types.MessageSpawn {
			r.handleSpawn(msg, true)
		} else if msg.Type == types.MessageStop {
			r.handleStop()
		}
	}
}

// handleSpawn 处理一条 spawn 命令。先校验消息，再触碰现有 worker 池：
// 非法 spawn 原地作废，正在运行的 worker 与状态都不受影响。
// respawn 表示从 Spawning/Running 进入（Master 接管 ramp-up 节奏后会连发
// 多条 spawn），此时先停掉上一代 worker 池再重建，且不重复启动限流器。
func (r *Runner) handleSpawn(msg *types.Message, respawn bool) {
	ucc, ok := parseSpawnMessage(msg)
	if !ok {
		r.logger.WarnKV("Invalid spawn message without user_classes_count, ignored, "+
			"you may use a newer but incompatible version of the master", "node_id", r.nodeID)
		return
	}

	if respawn {
		r.stopWorkers()
	}

	r.setState(types.RunnerStateSpawning)
	r.onSpawnMessage(msg, ucc)

	if !respawn && r.rateLimiter != nil {
		r.rateLimiter.Start()
	}

	r.setState(types.RunnerStateRunning)
}

// parseSpawnMessage 校验 spawn 消息并解析 user_classes_count。
// 缺少该字段说明 Master 协议版本不兼容，消息作废。
func parseSpawnMessage(msg *types.Message) (types.UserClassesCount, bool) {
	if msg.Data == nil {
		return nil, false
	}
	raw, exists := msg.Data["user_classes_count"]
	if !exists {
		return nil, false
	}
	return types.ParseUserClassesCount(raw)
}

// onSpawnMessage 按命令分配 worker：先应答 spawning，清零统计并合并
// 运行参数，完成分配后应答 spawning_complete
func (r *Runner) onSpawnMessage(msg *types.Message, ucc types.UserClassesCount) {
	r.userClassesCount = ucc
	numUsers := ucc.TotalUsers()

	if err := r.client.Send(types.NewMessage(types.MessageSpawning, nil, "", r.nodeID)); err != nil {
		r.logger.ErrorKV("Error while sending a message about spawning", "error", err)
	}

	r.queues.ClearStats()
	r.queues.WakeMeUp()

	r.remoteParams.Store("user_classes_count", ucc)
	if host, exists := msg.Data["host"]; exists && host != nil {
		r.remoteParams.Store("host", fmt.Sprint(host))
	}

	r.startSpawning(numUsers)
	r.spawnComplete()
}

// startSpawning 重建 worker 池并按权重提交 worker
func (r *Runner) startSpawning(spawnCount int) {
	r.logger.DebugKV("Spawning clients", "count", spawnCount)

	atomic.StoreInt64(&r.numClients, 0)
	pool := NewWorkerPool(r.ctx, r.genID.GenerateRequestID(), r.cfg.StopTimeout, r.logger)
	r.poolMu.Lock()
	r.pool = pool
	r.poolMu.Unlock()

	counts := AllocateWorkers(spawnCount, r.tasks)
	for i, task := range r.tasks {
		r.logger.DebugKV("Allocating workers to task",
			"task", task.Name(),
			"amount", counts[i])
		for n := 0; n < counts[i]; n++ {
			atomic.AddInt64(&r.numClients, 1)
			pool.Submit(task)
		}
	}
}

// spawnComplete 应答分配完成，回传达成的 worker 数与原始用户类映射
func (r *Runner) spawnComplete() {
	data := map[string]interface{}{
		"count":              r.ActiveWorkers(),
		"user_classes_count": r.userClassesCount,
	}
	if err := r.client.Send(types.NewMessage(types.MessageSpawningComplete, data, "", r.nodeID)); err != nil {
		r.logger.ErrorKV("Error while sending a message about the completed spawn", "error", err)
	}
}

// handleStop 处理 stop 命令：停 worker 池、停限流器，
// 依次应答 client_stopped 与 client_ready 后回到 Ready
func (r *Runner) handleStop() {
	r.stopWorkers()

	if r.rateLimiter != nil {
		r.rateLimiter.Stop()
	}

	r.setState(types.RunnerStateStopped)
	r.logger.DebugKV("Recv stop message from master, all the workers are stopped", "node_id", r.nodeID)

	if err := r.client.Send(types.NewMessage(types.MessageClientStopped, nil, "", r.nodeID)); err != nil {
		r.logger.ErrorKV("Error while switching from the state stopped to ready", "error", err)
		return
	}
	if err := r.client.Send(types.NewMessage(types.MessageClientReady, nil, "", r.nodeID)); err != nil {
		r.logger.ErrorKV("Error while switching from the state stopped to ready", "error", err)
		return
	}
	r.setState(types.RunnerStateReady)
}

// stopWorkers 销毁当前 worker 池。摘除指针在锁内完成，
// 有界等待在锁外进行，避免 Stop 的宽限期阻塞其他调用方
func (r *Runner) stopWorkers() {
	r.poolMu.Lock()
	pool := r.pool
	r.pool = nil
	r.poolMu.Unlock()

	if pool == nil {
		return
	}
	pool.Stop()
}

// onQuitMessage 处理 quit 命令：发送告别消息后终止 agent。
// 不直接退出进程，通过取消根上下文与 OnQuit 回调通知嵌入方。
func (r *Runner) onQuitMessage() {
	r.logger.InfoKV("Got quit message from master, shutting down", "node_id", r.nodeID)

	if err := r.client.Send(types.NewMessage(types.MessageQuit, nil, "", r.nodeID)); err != nil {
		r.logger.ErrorKV("Error while sending a message about quitting", "error", err)
	}

	r.running.CAS(true, false)
	r.cancel()
	r.stopWorkers()

	if r.onQuit != nil {
		r.onQuit()
	}
}
