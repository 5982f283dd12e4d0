package models

import (
	"time"
)

// Property 房源模型
type Property struct {
	ID             int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	TenantID       int64     `gorm:"index;not null" json:"tenant_id"`
	Name           string    `gorm:"type:varchar(100);not null" json:"name"`
	PropertyType   string    `gorm:"type:varchar(30);not null;default:'VILLA'" json:"property_type"`
	MaxGuests      int       `gorm:"not null;default:2" json:"max_guests"`
	Bedrooms       *int      `json:"bedrooms,omitempty"`
	BasePrice      float64   `gorm:"type:decimal(10,2);not null" json:"base_price"`
	WeekendPremium float64   `gorm:"type:decimal(10,2);not null;default:0" json:"weekend_premium"`
	CleaningFee    float64   `gorm:"type:decimal(10,2);not null;default:0" json:"cleaning_fee"`
	MinNights      int       `gorm:"not null;default:1" json:"min_nights"`
	City           *string   `gorm:"type:varchar(50)" json:"city,omitempty"`
	Country        *string   `gorm:"type:varchar(50)" json:"country,omitempty"`
	Description    JSON      `gorm:"type:jsonb" json:"description,omitempty"`
	Status         int8      `gorm:"type:smallint;not null;default:1" json:"status"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// 关联
	Tenant  *Tenant  `gorm:"foreignKey:TenantID" json:"tenant,omitempty"`
	Periods []Period `gorm:"foreignKey:PropertyID" json:"periods,omitempty"`
}

// TableName 表名
func (Property) TableName() string {
	return "properties"
}

// PropertyStatus 房源状态
const (
	PropertyStatusDraft     = 0 // 草稿
	PropertyStatusPublished = 1 // 已发布
	PropertyStatusArchived  = 2 // 已下架
)

// PropertyType 房源类型
const (
	PropertyTypeVilla     = "VILLA"
	PropertyTypeApartment = "APARTMENT"
	PropertyTypeHouse     = "HOUSE"
	PropertyTypeStudio    = "STUDIO"
)

// Period 价格期模型
// PropertyID 为空表示租户级全局价格期，对该租户所有房源生效
type Period struct {
	ID             int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	TenantID       int64      `gorm:"index;not null" json:"tenant_id"`
	PropertyID     *int64     `gorm:"index" json:"property_id,omitempty"`
	Name           string     `gorm:"type:varchar(100);not null" json:"name"`
	StartDate      time.Time  `gorm:"type:date;not null;index" json:"start_date"`
	EndDate        time.Time  `gorm:"type:date;not null;index" json:"end_date"`
	BasePrice      float64    `gorm:"type:decimal(10,2);not null" json:"base_price"`
	WeekendPremium *float64   `gorm:"type:decimal(10,2)" json:"weekend_premium,omitempty"`
	MinNights      *int       `json:"min_nights,omitempty"`
	Priority       int        `gorm:"not null;default:0" json:"priority"`
	IsActive       bool       `gorm:"not null;default:true" json:"is_active"`
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	// 关联
	Property *Property `gorm:"foreignKey:PropertyID" json:"property,omitempty"`
}

// TableName 表名
func (Period) TableName() string {
	return "periods"
}

// IsGlobal 是否为租户级全局价格期
func (p *Period) IsGlobal() bool {
	return p.PropertyID == nil
}

// Covers 判断价格期是否覆盖指定日期（首尾均含）
func (p *Period) Covers(date time.Time) bool {
	return !date.Before(p.StartDate) && !date.After(p.EndDate)
}
