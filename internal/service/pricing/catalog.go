package pricing

import (
	"context"
	stderrors "errors"

	"gorm.io/gorm"

	"github.com/luochenwei/villa-booking-backend/internal/common/errors"
	"github.com/luochenwei/villa-booking-backend/internal/models"
)

// PropertyOptionView 房源可选附加服务视图
// 目录价与房源覆盖配置合并后的对外结果
type PropertyOptionView struct {
	OptionID      int64   `json:"option_id"`
	Name          string  `json:"name"`
	Description   string  `json:"description,omitempty"`
	PricingType   string  `json:"pricing_type"`
	PricingPeriod string  `json:"pricing_period"`
	UnitPrice     float64 `json:"unit_price"`
	MinGuests     *int    `json:"min_guests,omitempty"`
	MaxGuests     *int    `json:"max_guests,omitempty"`
	MinNights     *int    `json:"min_nights,omitempty"`
	MinQuantity   *int    `json:"min_quantity,omitempty"`
	MaxQuantity   *int    `json:"max_quantity,omitempty"`
}

// ListPropertyOptions 获取房源可选的附加服务列表
// 以租户目录为基础，应用房源级覆盖：被禁用的服务不返回，
// 覆盖价和数量限制直接体现在结果中
func (s *Service) ListPropertyOptions(ctx context.Context, tenantID, propertyID int64, locale string) ([]*PropertyOptionView, error) {
	property, err := s.propertyRepo.GetByID(ctx, tenantID, propertyID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrPropertyNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	options, err := s.optionRepo.ListActiveByTenant(ctx, tenantID)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	overrides, err := s.optionRepo.ListPropertyOverrides(ctx, property.ID)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	byOption := make(map[int64]*models.PropertyBookingOption, len(overrides))
	for _, o := range overrides {
		byOption[o.OptionID] = o
	}

	if locale == "" {
		locale = "en"
	}

	views := make([]*PropertyOptionView, 0, len(options))
	for _, option := range options {
		override := byOption[option.ID]
		if override != nil && !override.IsEnabled {
			continue
		}

		view := &PropertyOptionView{
			OptionID:      option.ID,
			Name:          option.LocalizedName(locale),
			Description:   localizedDescription(option, locale),
			PricingType:   option.PricingType,
			PricingPeriod: option.PricingPeriod,
			UnitPrice:     option.Price,
			MinGuests:     option.MinGuests,
			MaxGuests:     option.MaxGuests,
			MinNights:     option.MinNights,
		}
		if override != nil {
			if override.CustomPrice != nil {
				view.UnitPrice = *override.CustomPrice
			}
			view.MinQuantity = override.CustomMinQuantity
			view.MaxQuantity = override.CustomMaxQuantity
		}
		views = append(views, view)
	}

	return views, nil
}

// localizedDescription 按语言取描述，缺失时回退 en，没有描述返回空串
func localizedDescription(option *models.BookingOption, locale string) string {
	if option.Description == nil {
		return ""
	}
	if desc := option.Description.GetString(locale); desc != "" {
		return desc
	}
	return option.Description.GetString("en")
}
