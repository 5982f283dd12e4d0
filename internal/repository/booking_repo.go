// Package repository 提供数据访问层
package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/luochenwei/villa-booking-backend/internal/models"
)

// BookingRepository 预订仓储
type BookingRepository struct {
	db *gorm.DB
}

// NewBookingRepository 创建预订仓储
func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// WithTx 返回使用指定事务的仓储副本
func (r *BookingRepository) WithTx(tx *gorm.DB) *BookingRepository {
	return &BookingRepository{db: tx}
}

// Create 创建预订
func (r *BookingRepository) Create(ctx context.Context, booking *models.Booking) error {
	return r.db.WithContext(ctx).Create(booking).Error
}

// GetByID 根据 ID 获取预订（租户隔离）
func (r *BookingRepository) GetByID(ctx context.Context, tenantID, id int64) (*models.Booking, error) {
	var booking models.Booking
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		First(&booking, id).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// GetByReference 根据预订编号获取预订
func (r *BookingRepository) GetByReference(ctx context.Context, tenantID int64, reference string) (*models.Booking, error) {
	var booking models.Booking
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Where("reference = ?", reference).
		First(&booking).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// Update 更新预订
func (r *BookingRepository) Update(ctx context.Context, booking *models.Booking) error {
	return r.db.WithContext(ctx).Save(booking).Error
}

// UpdateFields 更新指定字段
func (r *BookingRepository) UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&models.Booking{}).Where("id = ?", id).Updates(fields).Error
}

// List 获取预订列表
func (r *BookingRepository) List(ctx context.Context, tenantID int64, offset, limit int, filters map[string]interface{}) ([]*models.Booking, int64, error) {
	var bookings []*models.Booking
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Booking{}).
		Where("tenant_id = ?", tenantID)

	// 应用过滤条件
	if propertyID, ok := filters["property_id"].(int64); ok && propertyID > 0 {
		query = query.Where("property_id = ?", propertyID)
	}
	if status, ok := filters["status"].(string); ok && status != "" {
		query = query.Where("status = ?", status)
	}
	if reference, ok := filters["reference"].(string); ok && reference != "" {
		query = query.Where("reference LIKE ?", "%"+reference+"%")
	}
	if startDate, ok := filters["start_date"].(time.Time); ok {
		query = query.Where("check_in >= ?", startDate)
	}
	if endDate, ok := filters["end_date"].(time.Time); ok {
		query = query.Where("check_in <= ?", endDate)
	}

	// 统计总数
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// 查询列表
	if err := query.
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&bookings).Error; err != nil {
		return nil, 0, err
	}

	return bookings, total, nil
}

// CountConflicting 统计与指定区间冲突的占用日期预订数
// 区间按半开区间 [checkIn, checkOut) 判定重叠：checkIn < 已有退房 且 checkOut > 已有入住
// excludeBookingID 非空时排除该预订（改期场景下不把自身算作冲突）
func (r *BookingRepository) CountConflicting(ctx context.Context, tenantID, propertyID int64, checkIn, checkOut time.Time, excludeBookingID *int64) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.Booking{}).
		Where("tenant_id = ?", tenantID).
		Where("property_id = ?", propertyID).
		Where("status IN ?", models.BlockingStatuses).
		Where("check_in < ? AND check_out > ?", checkOut, checkIn)
	if excludeBookingID != nil {
		query = query.Where("id <> ?", *excludeBookingID)
	}
	err := query.Count(&count).Error
	return count, err
}

// CountInMonth 统计指定月份创建的预订数（预订编号月内序号）
func (r *BookingRepository) CountInMonth(ctx context.Context, t time.Time) (int64, error) {
	monthStart := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, 0)
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Booking{}).
		Where("created_at >= ? AND created_at < ?", monthStart, monthEnd).
		Count(&count).Error
	return count, err
}

// ListStalePending 获取超过保留时长仍未确认的预订
func (r *BookingRepository) ListStalePending(ctx context.Context, cutoff time.Time, limit int) ([]*models.Booking, error) {
	var bookings []*models.Booking
	err := r.db.WithContext(ctx).
		Where("status = ?", models.BookingStatusPending).
		Where("created_at < ?", cutoff).
		Limit(limit).
		Find(&bookings).Error
	return bookings, err
}

// MarkExpired 标记预订过期
func (r *BookingRepository) MarkExpired(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Model(&models.Booking{}).
		Where("id = ?", id).
		Where("status = ?", models.BookingStatusPending).
		Update("status", models.BookingStatusExpired).Error
}

// ListToComplete 获取退房日期已过的在住预订
func (r *BookingRepository) ListToComplete(ctx context.Context, now time.Time, limit int) ([]*models.Booking, error) {
	var bookings []*models.Booking
	err := r.db.WithContext(ctx).
		Where("status = ?", models.BookingStatusConfirmed).
		Where("check_out <= ?", now).
		Limit(limit).
		Find(&bookings).Error
	return bookings, err
}

// MarkCompleted 标记预订完成
func (r *BookingRepository) MarkCompleted(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Model(&models.Booking{}).
		Where("id = ?", id).
		Where("status = ?", models.BookingStatusConfirmed).
		Update("status", models.BookingStatusCompleted).Error
}
