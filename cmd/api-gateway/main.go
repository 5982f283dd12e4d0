// Package main 是应用程序入口
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/luochenwei/villa-booking-backend/internal/common/cache"
	"github.com/luochenwei/villa-booking-backend/internal/common/config"
	"github.com/luochenwei/villa-booking-backend/internal/common/database"
	"github.com/luochenwei/villa-booking-backend/internal/common/logger"
	"github.com/luochenwei/villa-booking-backend/internal/common/metrics"
	"github.com/luochenwei/villa-booking-backend/internal/models"
	"github.com/luochenwei/villa-booking-backend/internal/repository"
	"github.com/luochenwei/villa-booking-backend/internal/scheduler"
)

func main() {
	// 加载配置
	cfg, err := config.Load("")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化日志
	if err := logger.Init(&cfg.Logger); err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	log := logger.GetLogger()

	log.Info("Starting Villa Booking Backend",
		zap.String("version", "1.0.0"),
		zap.String("env", cfg.Server.Mode),
	)

	// 初始化数据库连接
	db, err := database.Init(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	log.Info("Database connected successfully")

	// 数据库迁移
	if err := migrate(db); err != nil {
		log.Fatal("Failed to migrate database", zap.Error(err))
	}

	// 初始化 Redis 连接
	redisClient, err := cache.Init(&cfg.Redis)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	log.Info("Redis connected successfully")

	// 初始化指标
	if cfg.Metrics.Enabled {
		metrics.Init("villa_booking")
	}

	// 设置 Gin 模式
	if cfg.IsRelease() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// 创建 Gin 引擎
	engine := gin.New()

	// 设置路由
	setupRouter(engine, cfg, log, db, redisClient)

	// 启动定时任务
	sched := scheduler.NewScheduler()
	taskHandler := scheduler.NewTaskHandler(
		repository.NewBookingRepository(db),
		&cfg.Business.Booking,
	)
	sched.AddTask("expire-stale-bookings",
		time.Duration(cfg.Business.Booking.ExpireCheckInterval)*time.Minute,
		taskHandler.ExpireStaleBookings,
	)
	sched.AddTask("complete-finished-bookings",
		time.Hour,
		taskHandler.CompleteFinishedBookings,
	)
	sched.Start()

	// 创建 HTTP 服务器
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// 在 goroutine 中启动服务器
	go func() {
		log.Info("HTTP server starting",
			zap.String("addr", srv.Addr),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	// 等待中断信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// 停止定时任务
	sched.Stop()

	// 创建超时上下文用于优雅关闭
	ctx, cancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	// 关闭 HTTP 服务器
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	// 关闭数据库连接
	sqlDB, _ := db.DB()
	if sqlDB != nil {
		sqlDB.Close()
	}

	log.Info("Server exited")
}

// migrate 执行数据库迁移
func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Tenant{},
		&models.PaymentConfiguration{},
		&models.Property{},
		&models.Period{},
		&models.BookingOption{},
		&models.PropertyBookingOption{},
		&models.Booking{},
	)
}
