package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/luochenwei/villa-booking-backend/internal/common/config"
	"github.com/luochenwei/villa-booking-backend/internal/common/logger"
	"github.com/luochenwei/villa-booking-backend/internal/common/metrics"
	"github.com/luochenwei/villa-booking-backend/internal/repository"
)

// TaskHandler 任务处理器
type TaskHandler struct {
	bookingRepo *repository.BookingRepository
	cfg         *config.BookingConfig
	log         *zap.Logger
}

// NewTaskHandler 创建任务处理器
func NewTaskHandler(bookingRepo *repository.BookingRepository, cfg *config.BookingConfig) *TaskHandler {
	return &TaskHandler{
		bookingRepo: bookingRepo,
		cfg:         cfg,
		log:         logger.GetLogger().Named("tasks"),
	}
}

// ExpireStaleBookings 过期超出保留时长仍未确认的预订
// 释放被 PENDING 预订占用的日期，让别的客人可以预订
func (h *TaskHandler) ExpireStaleBookings(ctx context.Context) error {
	cutoff := time.Now().UTC().Add(-h.cfg.HoldDuration())

	bookings, err := h.bookingRepo.ListStalePending(ctx, cutoff, h.cfg.ExpireBatchSize)
	if err != nil {
		return err
	}
	if len(bookings) == 0 {
		return nil
	}

	h.log.Info("发现超时未确认的预订", zap.Int("count", len(bookings)))

	for _, booking := range bookings {
		if err := h.bookingRepo.MarkExpired(ctx, booking.ID); err != nil {
			h.log.Error("预订过期处理失败",
				logger.BookingRef(booking.Reference),
				zap.Error(err),
			)
			continue
		}
		metrics.GetMetrics().RecordBookingExpired()
		h.log.Info("预订已过期释放日期",
			logger.TenantID(booking.TenantID),
			logger.BookingRef(booking.Reference),
		)
	}

	return nil
}

// CompleteFinishedBookings 把退房日期已过的已确认预订标记为完成
func (h *TaskHandler) CompleteFinishedBookings(ctx context.Context) error {
	now := time.Now().UTC()

	bookings, err := h.bookingRepo.ListToComplete(ctx, now, h.cfg.ExpireBatchSize)
	if err != nil {
		return err
	}
	if len(bookings) == 0 {
		return nil
	}

	for _, booking := range bookings {
		if err := h.bookingRepo.MarkCompleted(ctx, booking.ID); err != nil {
			h.log.Error("预订完成处理失败",
				logger.BookingRef(booking.Reference),
				zap.Error(err),
			)
			continue
		}
		h.log.Info("预订已完成",
			logger.TenantID(booking.TenantID),
			logger.BookingRef(booking.Reference),
		)
	}

	return nil
}
