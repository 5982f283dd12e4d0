// Package repository 提供数据访问层
package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/luochenwei/villa-booking-backend/internal/models"
)

// PaymentConfigRepository 支付配置仓储
type PaymentConfigRepository struct {
	db *gorm.DB
}

// NewPaymentConfigRepository 创建支付配置仓储
func NewPaymentConfigRepository(db *gorm.DB) *PaymentConfigRepository {
	return &PaymentConfigRepository{db: db}
}

// GetByTenant 获取租户的支付配置，未配置返回 nil
func (r *PaymentConfigRepository) GetByTenant(ctx context.Context, tenantID int64) (*models.PaymentConfiguration, error) {
	var cfg models.PaymentConfiguration
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		First(&cfg).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &cfg, nil
}

// Upsert 创建或更新租户的支付配置
func (r *PaymentConfigRepository) Upsert(ctx context.Context, cfg *models.PaymentConfiguration) error {
	existing, err := r.GetByTenant(ctx, cfg.TenantID)
	if err != nil {
		return err
	}
	if existing != nil {
		cfg.ID = existing.ID
	}
	return r.db.WithContext(ctx).Save(cfg).Error
}
