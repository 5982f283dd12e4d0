package models

import (
	"time"
)

// Booking 预订模型
// 价格字段为下单时的快照，后续价格规则变更不影响已生成的预订
type Booking struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Reference  string    `gorm:"type:varchar(20);uniqueIndex;not null" json:"reference"`
	TenantID   int64     `gorm:"index;not null" json:"tenant_id"`
	PropertyID int64     `gorm:"index;not null" json:"property_id"`
	Status     string    `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`
	CheckIn    time.Time `gorm:"type:date;not null;index" json:"check_in"`
	CheckOut   time.Time `gorm:"type:date;not null;index" json:"check_out"`
	Nights     int       `gorm:"not null" json:"nights"`
	Guests     int       `gorm:"not null;default:1" json:"guests"`
	Adults     int       `gorm:"not null;default:1" json:"adults"`
	Children   int       `gorm:"not null;default:0" json:"children"`

	GuestName  string  `gorm:"type:varchar(100);not null" json:"guest_name"`
	GuestEmail string  `gorm:"type:varchar(100);not null" json:"guest_email"`
	GuestPhone *string `gorm:"type:varchar(30)" json:"guest_phone,omitempty"`

	// 价格快照
	TotalAccommodation float64 `gorm:"type:decimal(10,2);not null" json:"total_accommodation"`
	LongStayDiscount   float64 `gorm:"type:decimal(10,2);not null;default:0" json:"long_stay_discount"`
	CleaningFee        float64 `gorm:"type:decimal(10,2);not null;default:0" json:"cleaning_fee"`
	OptionsTotal       float64 `gorm:"type:decimal(10,2);not null;default:0" json:"options_total"`
	Subtotal           float64 `gorm:"type:decimal(10,2);not null" json:"subtotal"`
	TouristTax         float64 `gorm:"type:decimal(10,2);not null;default:0" json:"tourist_tax"`
	Total              float64 `gorm:"type:decimal(10,2);not null" json:"total"`
	DepositAmount      float64 `gorm:"type:decimal(10,2);not null;default:0" json:"deposit_amount"`
	Currency           string  `gorm:"type:varchar(3);not null;default:'EUR'" json:"currency"`
	SelectedOptions    JSON    `gorm:"type:jsonb" json:"selected_options,omitempty"`

	Remark       *string    `gorm:"type:varchar(255)" json:"remark,omitempty"`
	ConfirmedAt  *time.Time `json:"confirmed_at,omitempty"`
	CancelledAt  *time.Time `json:"cancelled_at,omitempty"`
	CancelReason *string    `gorm:"type:varchar(255)" json:"cancel_reason,omitempty"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	// 关联
	Tenant   *Tenant   `gorm:"foreignKey:TenantID" json:"tenant,omitempty"`
	Property *Property `gorm:"foreignKey:PropertyID" json:"property,omitempty"`
}

// TableName 表名
func (Booking) TableName() string {
	return "bookings"
}

// BookingStatus 预订状态
const (
	BookingStatusPending   = "PENDING"   // 待确认，占用日期
	BookingStatusConfirmed = "CONFIRMED" // 已确认，占用日期
	BookingStatusCancelled = "CANCELLED" // 已取消，释放日期
	BookingStatusCompleted = "COMPLETED" // 已完成
	BookingStatusExpired   = "EXPIRED"   // 超时未确认，释放日期
)

// BlockingStatuses 占用日期的预订状态
var BlockingStatuses = []string{BookingStatusPending, BookingStatusConfirmed}

// IsCancellable 是否允许取消
func (b *Booking) IsCancellable() bool {
	return b.Status == BookingStatusPending || b.Status == BookingStatusConfirmed
}
