// Package scheduler 提供定时任务调度
package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/luochenwei/villa-booking-backend/internal/common/logger"
)

// Scheduler 定时任务调度器
type Scheduler struct {
	tasks  []*Task
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	log    *zap.Logger
}

// Task 定时任务
type Task struct {
	Name     string
	Interval time.Duration
	Handler  func(ctx context.Context) error
}

// NewScheduler 创建调度器
func NewScheduler() *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		tasks:  make([]*Task, 0),
		ctx:    ctx,
		cancel: cancel,
		log:    logger.GetLogger().Named("scheduler"),
	}
}

// AddTask 添加任务
func (s *Scheduler) AddTask(name string, interval time.Duration, handler func(ctx context.Context) error) {
	s.tasks = append(s.tasks, &Task{
		Name:     name,
		Interval: interval,
		Handler:  handler,
	})
}

// Start 启动调度器，每个任务独立协程运行
func (s *Scheduler) Start() {
	s.log.Info("调度器启动", zap.Int("tasks", len(s.tasks)))

	for _, task := range s.tasks {
		s.wg.Add(1)
		go s.runTask(task)
	}
}

// Stop 停止调度器并等待运行中的任务结束
func (s *Scheduler) Stop() {
	s.log.Info("调度器停止中")
	s.cancel()
	s.wg.Wait()
	s.log.Info("调度器已停止")
}

// runTask 运行单个任务，启动时立即执行一次
func (s *Scheduler) runTask(task *Task) {
	defer s.wg.Done()

	s.log.Info("任务启动",
		zap.String("task", task.Name),
		zap.Duration("interval", task.Interval),
	)

	ticker := time.NewTicker(task.Interval)
	defer ticker.Stop()

	s.executeTask(task)

	for {
		select {
		case <-s.ctx.Done():
			s.log.Info("任务退出", zap.String("task", task.Name))
			return
		case <-ticker.C:
			s.executeTask(task)
		}
	}
}

// executeTask 执行任务，单次执行最长 5 分钟
func (s *Scheduler) executeTask(task *Task) {
	ctx, cancel := context.WithTimeout(s.ctx, 5*time.Minute)
	defer cancel()

	start := time.Now()
	if err := task.Handler(ctx); err != nil {
		s.log.Error("任务执行失败",
			zap.String("task", task.Name),
			zap.Error(err),
		)
		return
	}
	s.log.Debug("任务执行完成",
		zap.String("task", task.Name),
		zap.Duration("elapsed", time.Since(start)),
	)
}
