// Package pricing 实现报价计算与可用性检查
package pricing

import (
	"time"
)

// SelectedOption 请求中勾选的附加服务
type SelectedOption struct {
	OptionID int64 `json:"option_id" binding:"required"`
	Quantity int   `json:"quantity" binding:"required,min=1"`
}

// Request 报价请求
type Request struct {
	TenantID        int64            `json:"-"`
	PropertyID      int64            `json:"property_id" binding:"required"`
	CheckIn         time.Time        `json:"check_in" binding:"required" time_format:"2006-01-02"`
	CheckOut        time.Time        `json:"check_out" binding:"required" time_format:"2006-01-02"`
	Guests          int              `json:"guests" binding:"required,min=1"`
	Adults          int              `json:"adults"`
	Children        int              `json:"children"`
	Locale          string           `json:"locale"`
	SelectedOptions []SelectedOption `json:"selected_options"`
}

// DayPrice 单晚价格明细
type DayPrice struct {
	Date           time.Time `json:"date"`
	BasePrice      float64   `json:"base_price"`
	WeekendPremium float64   `json:"weekend_premium"`
	FinalPrice     float64   `json:"final_price"`
	PeriodName     string    `json:"period_name,omitempty"`
}

// OptionLineItem 附加服务行项目
type OptionLineItem struct {
	OptionID   int64   `json:"option_id"`
	Name       string  `json:"name"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
	TotalPrice float64 `json:"total_price"`
}

// Result 报价结果
type Result struct {
	Nights               int              `json:"nights"`
	BasePrice            float64          `json:"base_price"`
	TotalAccommodation   float64          `json:"total_accommodation"`
	WeekendPremium       float64          `json:"weekend_premium"`
	SeasonalAdjustment   float64          `json:"seasonal_adjustment"`
	LongStayDiscount     float64          `json:"long_stay_discount"`
	CleaningFee          float64          `json:"cleaning_fee"`
	TouristTax           float64          `json:"tourist_tax"`
	OptionsTotal         float64          `json:"options_total"`
	DepositAmount        float64          `json:"deposit_amount"`
	Subtotal             float64          `json:"subtotal"`
	Total                float64          `json:"total"`
	AveragePricePerNight float64          `json:"average_price_per_night"`
	Breakdown            []DayPrice       `json:"breakdown"`
	SelectedOptions      []OptionLineItem `json:"selected_options,omitempty"`
}
