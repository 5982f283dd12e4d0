// Package repository 提供数据访问层
package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/luochenwei/villa-booking-backend/internal/models"
)

// PeriodRepository 价格期仓储
type PeriodRepository struct {
	db *gorm.DB
}

// NewPeriodRepository 创建价格期仓储
func NewPeriodRepository(db *gorm.DB) *PeriodRepository {
	return &PeriodRepository{db: db}
}

// Create 创建价格期
func (r *PeriodRepository) Create(ctx context.Context, period *models.Period) error {
	return r.db.WithContext(ctx).Create(period).Error
}

// GetByID 根据 ID 获取价格期（租户隔离）
func (r *PeriodRepository) GetByID(ctx context.Context, tenantID, id int64) (*models.Period, error) {
	var period models.Period
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		First(&period, id).Error
	if err != nil {
		return nil, err
	}
	return &period, nil
}

// ListOverlapping 获取与入住区间有交集的生效价格期
// 返回房源专属和租户全局两类，按房源专属优先、优先级降序、ID 升序排列
func (r *PeriodRepository) ListOverlapping(ctx context.Context, tenantID, propertyID int64, checkIn, checkOut time.Time) ([]*models.Period, error) {
	var periods []*models.Period
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Where("property_id = ? OR property_id IS NULL", propertyID).
		Where("is_active = ?", true).
		Where("start_date < ? AND end_date >= ?", checkOut, checkIn).
		Order("property_id DESC NULLS LAST").
		Order("priority DESC").
		Order("id ASC").
		Find(&periods).Error
	return periods, err
}

// ListByProperty 获取房源可见的全部生效价格期
func (r *PeriodRepository) ListByProperty(ctx context.Context, tenantID, propertyID int64) ([]*models.Period, error) {
	var periods []*models.Period
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Where("property_id = ? OR property_id IS NULL", propertyID).
		Where("is_active = ?", true).
		Order("start_date ASC").
		Find(&periods).Error
	return periods, err
}
