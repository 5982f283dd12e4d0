package pricing

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/luochenwei/villa-booking-backend/internal/common/cache"
	"github.com/luochenwei/villa-booking-backend/internal/common/errors"
	"github.com/luochenwei/villa-booking-backend/internal/common/metrics"
	"github.com/luochenwei/villa-booking-backend/internal/common/utils"
	"github.com/luochenwei/villa-booking-backend/internal/repository"
)

// 可用性提示缓存时长
// 只用于只读查询的降载，下单时必须在写入事务内重新校验冲突
const availabilityHintTTL = 30 * time.Second

// AvailabilityService 可用性检查服务
type AvailabilityService struct {
	bookingRepo *repository.BookingRepository
}

// NewAvailabilityService 创建可用性检查服务
func NewAvailabilityService(bookingRepo *repository.BookingRepository) *AvailabilityService {
	return &AvailabilityService{bookingRepo: bookingRepo}
}

// CheckAvailability 检查房源在指定区间是否可预订
// 以半开区间 [checkIn, checkOut) 判定，退房日当天允许新预订入住；
// 只有 PENDING/CONFIRMED 两种状态占用日期
func (s *AvailabilityService) CheckAvailability(ctx context.Context, tenantID, propertyID int64, checkIn, checkOut time.Time, excludeBookingID *int64) (bool, error) {
	checkIn = utils.DateOnly(checkIn)
	checkOut = utils.DateOnly(checkOut)

	if !checkOut.After(checkIn) {
		return false, errors.ErrInvalidDateRange.WithMessage("退房日期必须晚于入住日期")
	}

	// 排除指定预订的查询（改期场景）不走缓存
	useCache := excludeBookingID == nil && cache.GetClient() != nil
	key := availabilityHintKey(tenantID, propertyID, checkIn, checkOut)
	if useCache {
		if hint, err := cache.GetString(ctx, key); err == nil {
			metrics.GetMetrics().RecordCacheHit("availability")
			return hint == "1", nil
		}
		metrics.GetMetrics().RecordCacheMiss("availability")
	}

	count, err := s.bookingRepo.CountConflicting(ctx, tenantID, propertyID, checkIn, checkOut, excludeBookingID)
	if err != nil {
		return false, errors.ErrDatabaseError.WithError(err)
	}

	available := count == 0
	metrics.GetMetrics().RecordAvailabilityCheck(available)

	if useCache {
		hint := "0"
		if available {
			hint = "1"
		}
		// 写入失败不影响查询结果
		_ = cache.SetString(ctx, key, hint, availabilityHintTTL)
	}
	return available, nil
}

// availabilityHintKey 构建可用性提示缓存键
func availabilityHintKey(tenantID, propertyID int64, checkIn, checkOut time.Time) string {
	return cache.BuildKey(cache.KeyPrefixAvailability,
		strconv.FormatInt(tenantID, 10),
		strconv.FormatInt(propertyID, 10),
		fmt.Sprintf("%s_%s", checkIn.Format("2006-01-02"), checkOut.Format("2006-01-02")),
	)
}
