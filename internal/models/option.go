package models

import (
	"time"
)

// BookingOption 附加服务模型（租户级目录）
// Name/Description 为多语言 JSON，如 {"fr": "Ménage", "en": "Cleaning"}
type BookingOption struct {
	ID            int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	TenantID      int64     `gorm:"index;not null" json:"tenant_id"`
	Name          JSON      `gorm:"type:jsonb;not null" json:"name"`
	Description   JSON      `gorm:"type:jsonb" json:"description,omitempty"`
	PricingType   string    `gorm:"type:varchar(20);not null;default:'PER_UNIT'" json:"pricing_type"`
	PricingPeriod string    `gorm:"type:varchar(20);not null;default:'PER_STAY'" json:"pricing_period"`
	Price         float64   `gorm:"type:decimal(10,2);not null" json:"price"`
	MinGuests     *int      `json:"min_guests,omitempty"`
	MaxGuests     *int      `json:"max_guests,omitempty"`
	MinNights     *int      `json:"min_nights,omitempty"`
	IsActive      bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// 关联
	Tenant *Tenant `gorm:"foreignKey:TenantID" json:"tenant,omitempty"`
}

// TableName 表名
func (BookingOption) TableName() string {
	return "booking_options"
}

// OptionPricingType 计价主体
const (
	OptionPricingPerUnit   = "PER_UNIT"
	OptionPricingPerPerson = "PER_PERSON"
)

// OptionPricingPeriod 计价周期
const (
	OptionPeriodPerStay = "PER_STAY"
	OptionPeriodPerDay  = "PER_DAY"
)

// LocalizedName 按语言取名称，缺失时回退到 en，再缺失回退到 "Option"
func (o *BookingOption) LocalizedName(locale string) string {
	if name := o.Name.GetString(locale); name != "" {
		return name
	}
	if name := o.Name.GetString("en"); name != "" {
		return name
	}
	return "Option"
}

// PropertyBookingOption 房源级附加服务配置
// 房源可禁用目录中的服务，以 CustomPrice 覆盖单价，或限制可选数量
type PropertyBookingOption struct {
	ID                int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	PropertyID        int64     `gorm:"index:idx_property_option,unique;not null" json:"property_id"`
	OptionID          int64     `gorm:"index:idx_property_option,unique;not null" json:"option_id"`
	IsEnabled         bool      `gorm:"not null;default:true" json:"is_enabled"`
	CustomPrice       *float64  `gorm:"type:decimal(10,2)" json:"custom_price,omitempty"`
	CustomMinQuantity *int      `json:"custom_min_quantity,omitempty"`
	CustomMaxQuantity *int      `json:"custom_max_quantity,omitempty"`
	CreatedAt         time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// 关联
	Property *Property      `gorm:"foreignKey:PropertyID" json:"property,omitempty"`
	Option   *BookingOption `gorm:"foreignKey:OptionID" json:"option,omitempty"`
}

// TableName 表名
func (PropertyBookingOption) TableName() string {
	return "property_booking_options"
}
