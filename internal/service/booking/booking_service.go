// Package booking 提供预订生命周期管理
package booking

import (
	"context"
	stderrors "errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/luochenwei/villa-booking-backend/internal/common/errors"
	"github.com/luochenwei/villa-booking-backend/internal/common/logger"
	"github.com/luochenwei/villa-booking-backend/internal/common/metrics"
	"github.com/luochenwei/villa-booking-backend/internal/common/utils"
	"github.com/luochenwei/villa-booking-backend/internal/models"
	"github.com/luochenwei/villa-booking-backend/internal/repository"
	"github.com/luochenwei/villa-booking-backend/internal/service/pricing"
)

// CreateRequest 创建预订请求
type CreateRequest struct {
	TenantID        int64                    `json:"-"`
	PropertyID      int64                    `json:"property_id" binding:"required"`
	CheckIn         time.Time                `json:"check_in" binding:"required" time_format:"2006-01-02"`
	CheckOut        time.Time                `json:"check_out" binding:"required" time_format:"2006-01-02"`
	Guests          int                      `json:"guests" binding:"required,min=1"`
	Adults          int                      `json:"adults" binding:"omitempty,min=0"`
	Children        int                      `json:"children" binding:"omitempty,min=0"`
	GuestName       string                   `json:"guest_name" binding:"required,max=100"`
	GuestEmail      string                   `json:"guest_email" binding:"required,email"`
	GuestPhone      *string                  `json:"guest_phone" binding:"omitempty,max=30"`
	Locale          string                   `json:"locale" binding:"omitempty,max=10"`
	Remark          *string                  `json:"remark" binding:"omitempty,max=255"`
	SelectedOptions []pricing.SelectedOption `json:"selected_options" binding:"omitempty,dive"`
}

// ListRequest 预订列表查询条件
type ListRequest struct {
	PropertyID int64      `form:"property_id"`
	Status     string     `form:"status"`
	Reference  string     `form:"reference"`
	StartDate  *time.Time `form:"start_date" time_format:"2006-01-02"`
	EndDate    *time.Time `form:"end_date" time_format:"2006-01-02"`
}

// Service 预订服务
type Service struct {
	db          *gorm.DB
	bookingRepo *repository.BookingRepository
	pricingSvc  *pricing.Service
	refPrefix   string
	log         *zap.Logger
}

// NewService 创建预订服务
func NewService(db *gorm.DB, bookingRepo *repository.BookingRepository, pricingSvc *pricing.Service, refPrefix string) *Service {
	if refPrefix == "" {
		refPrefix = "VB"
	}
	return &Service{
		db:          db,
		bookingRepo: bookingRepo,
		pricingSvc:  pricingSvc,
		refPrefix:   refPrefix,
		log:         logger.GetLogger().Named("booking"),
	}
}

// Create 创建预订
// 先在事务外完成报价，再在写入事务内重新校验日期冲突，
// 防止报价和落库之间被其他请求抢占同一区间
func (s *Service) Create(ctx context.Context, req *CreateRequest) (*models.Booking, error) {
	checkIn := utils.DateOnly(req.CheckIn)
	checkOut := utils.DateOnly(req.CheckOut)

	quote, err := s.pricingSvc.CalculatePrice(ctx, &pricing.Request{
		TenantID:        req.TenantID,
		PropertyID:      req.PropertyID,
		CheckIn:         checkIn,
		CheckOut:        checkOut,
		Guests:          req.Guests,
		Adults:          req.Adults,
		Children:        req.Children,
		Locale:          req.Locale,
		SelectedOptions: req.SelectedOptions,
	})
	if err != nil {
		return nil, err
	}

	var tenant models.Tenant
	if err := s.db.WithContext(ctx).First(&tenant, req.TenantID).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrTenantNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	adults := req.Adults
	if adults <= 0 {
		adults = req.Guests
	}

	booking := &models.Booking{
		TenantID:   req.TenantID,
		PropertyID: req.PropertyID,
		Status:     models.BookingStatusPending,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		Nights:     quote.Nights,
		Guests:     req.Guests,
		Adults:     adults,
		Children:   req.Children,
		GuestName:  req.GuestName,
		GuestEmail: req.GuestEmail,
		GuestPhone: req.GuestPhone,
		Remark:     req.Remark,

		TotalAccommodation: quote.TotalAccommodation,
		LongStayDiscount:   quote.LongStayDiscount,
		CleaningFee:        quote.CleaningFee,
		OptionsTotal:       quote.OptionsTotal,
		Subtotal:           quote.Subtotal,
		TouristTax:         quote.TouristTax,
		Total:              quote.Total,
		DepositAmount:      quote.DepositAmount,
		Currency:           tenant.Currency,
		SelectedOptions:    optionsSnapshot(quote.SelectedOptions),
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := s.bookingRepo.WithTx(tx)

		conflicts, err := txRepo.CountConflicting(ctx, req.TenantID, req.PropertyID, checkIn, checkOut, nil)
		if err != nil {
			return errors.ErrDatabaseError.WithError(err)
		}
		if conflicts > 0 {
			return errors.ErrDatesUnavailable
		}

		now := time.Now().UTC()
		seq, err := txRepo.CountInMonth(ctx, now)
		if err != nil {
			return errors.ErrDatabaseError.WithError(err)
		}
		booking.Reference = utils.FormatBookingReference(s.refPrefix, now, seq+1)

		return txRepo.Create(ctx, booking)
	})
	if err != nil {
		if errors.IsAppError(err) {
			return nil, err
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	metrics.GetMetrics().RecordBooking(models.BookingStatusPending)
	s.log.Info("预订创建成功",
		logger.TenantID(req.TenantID),
		logger.PropertyID(req.PropertyID),
		logger.BookingRef(booking.Reference),
		logger.Nights(booking.Nights),
		zap.Float64("total", booking.Total),
	)
	return booking, nil
}

// optionsSnapshot 把报价行项目转成落库快照
func optionsSnapshot(items []pricing.OptionLineItem) models.JSON {
	if len(items) == 0 {
		return nil
	}
	list := make([]interface{}, 0, len(items))
	for _, item := range items {
		list = append(list, map[string]interface{}{
			"option_id":   item.OptionID,
			"name":        item.Name,
			"quantity":    item.Quantity,
			"unit_price":  item.UnitPrice,
			"total_price": item.TotalPrice,
		})
	}
	return models.JSON{"items": list}
}

// GetByID 获取预订详情
func (s *Service) GetByID(ctx context.Context, tenantID, id int64) (*models.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrBookingNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return booking, nil
}

// GetByReference 根据预订编号获取预订
func (s *Service) GetByReference(ctx context.Context, tenantID int64, reference string) (*models.Booking, error) {
	booking, err := s.bookingRepo.GetByReference(ctx, tenantID, reference)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrBookingNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return booking, nil
}

// List 获取预订列表
func (s *Service) List(ctx context.Context, tenantID int64, page *utils.Pagination, req *ListRequest) ([]*models.Booking, int64, error) {
	filters := map[string]interface{}{}
	if req != nil {
		filters["property_id"] = req.PropertyID
		filters["status"] = req.Status
		filters["reference"] = req.Reference
		if req.StartDate != nil {
			filters["start_date"] = utils.DateOnly(*req.StartDate)
		}
		if req.EndDate != nil {
			filters["end_date"] = utils.DateOnly(*req.EndDate)
		}
	}

	bookings, total, err := s.bookingRepo.List(ctx, tenantID, page.GetOffset(), page.GetLimit(), filters)
	if err != nil {
		return nil, 0, errors.ErrDatabaseError.WithError(err)
	}
	return bookings, total, nil
}

// Confirm 确认预订
// 只有待确认状态可以确认，重复确认返回状态错误
func (s *Service) Confirm(ctx context.Context, tenantID, id int64) (*models.Booking, error) {
	booking, err := s.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if booking.Status != models.BookingStatusPending {
		return nil, errors.ErrBookingStatusError.
			WithMessagef("当前状态 %s 不允许确认", booking.Status)
	}

	now := time.Now().UTC()
	err = s.bookingRepo.UpdateFields(ctx, booking.ID, map[string]interface{}{
		"status":       models.BookingStatusConfirmed,
		"confirmed_at": now,
	})
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	booking.Status = models.BookingStatusConfirmed
	booking.ConfirmedAt = &now
	metrics.GetMetrics().RecordBooking(models.BookingStatusConfirmed)
	s.log.Info("预订已确认",
		logger.TenantID(tenantID),
		logger.BookingRef(booking.Reference),
	)
	return booking, nil
}

// Cancel 取消预订
// 待确认和已确认的预订可以取消并释放占用日期
func (s *Service) Cancel(ctx context.Context, tenantID, id int64, reason *string) (*models.Booking, error) {
	booking, err := s.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if !booking.IsCancellable() {
		return nil, errors.ErrBookingCannotCancel.
			WithMessagef("当前状态 %s 不允许取消", booking.Status)
	}

	now := time.Now().UTC()
	fields := map[string]interface{}{
		"status":       models.BookingStatusCancelled,
		"cancelled_at": now,
	}
	if reason != nil {
		fields["cancel_reason"] = *reason
	}
	if err := s.bookingRepo.UpdateFields(ctx, booking.ID, fields); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	booking.Status = models.BookingStatusCancelled
	booking.CancelledAt = &now
	booking.CancelReason = reason
	metrics.GetMetrics().RecordBooking(models.BookingStatusCancelled)
	s.log.Info("预订已取消",
		logger.TenantID(tenantID),
		logger.BookingRef(booking.Reference),
	)
	return booking, nil
}
