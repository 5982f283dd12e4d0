// Package repository 提供数据访问层
package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/luochenwei/villa-booking-backend/internal/models"
)

// PropertyRepository 房源仓储
type PropertyRepository struct {
	db *gorm.DB
}

// NewPropertyRepository 创建房源仓储
func NewPropertyRepository(db *gorm.DB) *PropertyRepository {
	return &PropertyRepository{db: db}
}

// GetByID 根据 ID 获取房源（租户隔离）
func (r *PropertyRepository) GetByID(ctx context.Context, tenantID, id int64) (*models.Property, error) {
	var property models.Property
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		First(&property, id).Error
	if err != nil {
		return nil, err
	}
	return &property, nil
}

// GetPublishedByID 根据 ID 获取已发布房源
func (r *PropertyRepository) GetPublishedByID(ctx context.Context, tenantID, id int64) (*models.Property, error) {
	var property models.Property
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Where("status = ?", models.PropertyStatusPublished).
		First(&property, id).Error
	if err != nil {
		return nil, err
	}
	return &property, nil
}

// List 获取租户的房源列表
func (r *PropertyRepository) List(ctx context.Context, tenantID int64, offset, limit int) ([]*models.Property, int64, error) {
	var properties []*models.Property
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Property{}).
		Where("tenant_id = ?", tenantID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&properties).Error; err != nil {
		return nil, 0, err
	}

	return properties, total, nil
}
