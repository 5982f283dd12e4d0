// Package main 是应用程序入口
package main

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/luochenwei/villa-booking-backend/internal/common/config"
	"github.com/luochenwei/villa-booking-backend/internal/common/jwt"
	"github.com/luochenwei/villa-booking-backend/internal/common/metrics"
	bookingHandler "github.com/luochenwei/villa-booking-backend/internal/handler/booking"
	pricingHandler "github.com/luochenwei/villa-booking-backend/internal/handler/pricing"
	"github.com/luochenwei/villa-booking-backend/internal/middleware"
	"github.com/luochenwei/villa-booking-backend/internal/repository"
	bookingService "github.com/luochenwei/villa-booking-backend/internal/service/booking"
	pricingService "github.com/luochenwei/villa-booking-backend/internal/service/pricing"
)

// setupRouter 设置路由
func setupRouter(
	r *gin.Engine,
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	redisClient *redis.Client,
) {
	// 创建 JWT 管理器
	jwtManager := jwt.NewManager(&jwt.Config{
		Secret:            cfg.JWT.Secret,
		AccessExpireTime:  cfg.JWT.AccessTokenDuration(),
		RefreshExpireTime: cfg.JWT.RefreshTokenDuration(),
		Issuer:            cfg.JWT.Issuer,
	})

	// 初始化仓储
	propertyRepo := repository.NewPropertyRepository(db)
	periodRepo := repository.NewPeriodRepository(db)
	optionRepo := repository.NewOptionRepository(db)
	paymentConfigRepo := repository.NewPaymentConfigRepository(db)
	bookingRepo := repository.NewBookingRepository(db)

	// 初始化服务
	pricingSvc := pricingService.NewService(propertyRepo, periodRepo, optionRepo, paymentConfigRepo, nil)
	availabilitySvc := pricingService.NewAvailabilityService(bookingRepo)
	bookingSvc := bookingService.NewService(db, bookingRepo, pricingSvc,
		cfg.Business.Booking.ReferencePrefix)

	// 初始化处理器
	pricingH := pricingHandler.NewHandler(pricingSvc, availabilitySvc)
	bookingH := bookingHandler.NewHandler(bookingSvc)

	// 全局中间件
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.CORS(&middleware.CORSConfig{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		ExposeHeaders:    cfg.CORS.ExposedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           cfg.CORS.MaxAge,
	}))
	r.Use(middleware.AccessLog(logger))
	if cfg.Metrics.Enabled {
		r.Use(metrics.GetMetrics().Middleware())
	}

	// 健康检查（不需要认证）
	r.GET("/health", healthHandler)
	r.GET("/ping", pingHandler)
	r.GET("/ready", readyHandler(db, redisClient))

	// 指标端点
	if cfg.Metrics.Enabled {
		r.GET(cfg.Metrics.Path, metrics.Handler())
	}

	// Swagger 文档
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API v1 路由组（需要租户认证）
	v1 := r.Group("/api/v1")
	v1.Use(middleware.TenantAuth(jwtManager))
	if cfg.RateLimit.Enabled {
		v1.Use(middleware.TenantRateLimit(redisClient, cfg.RateLimit.RequestsPerMinute, time.Minute))
	}
	{
		// 报价与可用性
		pricing := v1.Group("/pricing")
		{
			pricing.POST("/quote", pricingH.Quote)
			pricing.GET("/availability", pricingH.CheckAvailability)
		}

		// 房源附加服务目录
		v1.GET("/properties/:id/options", pricingH.ListPropertyOptions)

		// 预订
		bookings := v1.Group("/bookings")
		{
			bookings.POST("", bookingH.Create)
			bookings.GET("", bookingH.List)
			bookings.GET("/:id", bookingH.Get)
			bookings.GET("/reference/:reference", bookingH.GetByReference)
			bookings.POST("/:id/confirm", bookingH.Confirm)
			bookings.POST("/:id/cancel", bookingH.Cancel)
		}
	}

	// 404 处理
	r.NoRoute(func(c *gin.Context) {
		c.JSON(404, gin.H{
			"code":    404,
			"message": "接口不存在",
		})
	})
}
