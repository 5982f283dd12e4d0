package models

import (
	"time"
)

// Tenant 租户模型
type Tenant struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"type:varchar(100);not null" json:"name"`
	Email     string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"email"`
	Currency  string    `gorm:"type:varchar(3);not null;default:'EUR'" json:"currency"`
	Status    int8      `gorm:"type:smallint;not null;default:1" json:"status"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// 关联
	Properties []Property `gorm:"foreignKey:TenantID" json:"properties,omitempty"`
}

// TableName 表名
func (Tenant) TableName() string {
	return "tenants"
}

// TenantStatus 租户状态
const (
	TenantStatusDisabled = 0 // 禁用
	TenantStatusActive   = 1 // 正常
)

// PaymentConfiguration 支付配置模型
// 每个租户至多一条，承载旅游税与押金的计算参数
type PaymentConfiguration struct {
	ID                  int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	TenantID            int64     `gorm:"uniqueIndex;not null" json:"tenant_id"`
	TouristTaxEnabled   bool      `gorm:"not null;default:false" json:"tourist_tax_enabled"`
	TouristTaxType      string    `gorm:"type:varchar(40)" json:"tourist_tax_type"`
	TouristTaxAmount    float64   `gorm:"type:decimal(10,2);not null;default:0" json:"tourist_tax_amount"`
	TouristTaxRate      float64   `gorm:"type:decimal(6,3);not null;default:0" json:"tourist_tax_rate"`
	TouristTaxMaxNights *int      `json:"tourist_tax_max_nights,omitempty"`
	TouristTaxTiers     JSON      `gorm:"type:jsonb" json:"tourist_tax_tiers,omitempty"`
	DepositType         string    `gorm:"type:varchar(20)" json:"deposit_type"`
	DepositValue        float64   `gorm:"type:decimal(10,2);not null;default:0" json:"deposit_value"`
	CreatedAt           time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// 关联
	Tenant *Tenant `gorm:"foreignKey:TenantID" json:"tenant,omitempty"`
}

// TableName 表名
func (PaymentConfiguration) TableName() string {
	return "payment_configurations"
}

// TouristTaxType 旅游税计算方式
const (
	TouristTaxPerPersonPerNight         = "PER_PERSON_PER_NIGHT"
	TouristTaxPercentageOfAccommodation = "PERCENTAGE_OF_ACCOMMODATION"
	TouristTaxFixedPerStay              = "FIXED_PER_STAY"
	TouristTaxTieredByPropertyType      = "TIERED_BY_PROPERTY_TYPE"
)

// DepositType 押金计算方式
const (
	DepositTypeFixed      = "FIXED"
	DepositTypePercentage = "PERCENTAGE"
)
