// Package repository 提供数据访问层
package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/luochenwei/villa-booking-backend/internal/models"
)

// OptionRepository 附加服务仓储
type OptionRepository struct {
	db *gorm.DB
}

// NewOptionRepository 创建附加服务仓储
func NewOptionRepository(db *gorm.DB) *OptionRepository {
	return &OptionRepository{db: db}
}

// GetByID 根据 ID 获取附加服务（租户隔离）
func (r *OptionRepository) GetByID(ctx context.Context, tenantID, id int64) (*models.BookingOption, error) {
	var option models.BookingOption
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		First(&option, id).Error
	if err != nil {
		return nil, err
	}
	return &option, nil
}

// ListByIDs 批量获取附加服务（租户隔离）
func (r *OptionRepository) ListByIDs(ctx context.Context, tenantID int64, ids []int64) ([]*models.BookingOption, error) {
	var options []*models.BookingOption
	if len(ids) == 0 {
		return options, nil
	}
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Where("id IN ?", ids).
		Find(&options).Error
	return options, err
}

// ListActiveByTenant 获取租户的生效附加服务目录
func (r *OptionRepository) ListActiveByTenant(ctx context.Context, tenantID int64) ([]*models.BookingOption, error) {
	var options []*models.BookingOption
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Where("is_active = ?", true).
		Order("id ASC").
		Find(&options).Error
	return options, err
}

// GetPropertyOverride 获取房源级覆盖配置，未配置返回 nil
func (r *OptionRepository) GetPropertyOverride(ctx context.Context, propertyID, optionID int64) (*models.PropertyBookingOption, error) {
	var override models.PropertyBookingOption
	err := r.db.WithContext(ctx).
		Where("property_id = ?", propertyID).
		Where("option_id = ?", optionID).
		First(&override).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &override, nil
}

// ListPropertyOverrides 获取房源的全部覆盖配置
func (r *OptionRepository) ListPropertyOverrides(ctx context.Context, propertyID int64) ([]*models.PropertyBookingOption, error) {
	var overrides []*models.PropertyBookingOption
	err := r.db.WithContext(ctx).
		Where("property_id = ?", propertyID).
		Find(&overrides).Error
	return overrides, err
}
