package pricing

import (
	"context"
	stderrors "errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/luochenwei/villa-booking-backend/internal/common/errors"
	"github.com/luochenwei/villa-booking-backend/internal/common/logger"
	"github.com/luochenwei/villa-booking-backend/internal/common/metrics"
	"github.com/luochenwei/villa-booking-backend/internal/common/utils"
	"github.com/luochenwei/villa-booking-backend/internal/models"
	"github.com/luochenwei/villa-booking-backend/internal/repository"
)

// Service 报价服务
type Service struct {
	propertyRepo      *repository.PropertyRepository
	periodRepo        *repository.PeriodRepository
	optionRepo        *repository.OptionRepository
	paymentConfigRepo *repository.PaymentConfigRepository
	formulas          *Formulas
	log               *zap.Logger
}

// NewService 创建报价服务
func NewService(
	propertyRepo *repository.PropertyRepository,
	periodRepo *repository.PeriodRepository,
	optionRepo *repository.OptionRepository,
	paymentConfigRepo *repository.PaymentConfigRepository,
	formulas *Formulas,
) *Service {
	if formulas == nil {
		formulas = DefaultFormulas()
	}
	return &Service{
		propertyRepo:      propertyRepo,
		periodRepo:        periodRepo,
		optionRepo:        optionRepo,
		paymentConfigRepo: paymentConfigRepo,
		formulas:          formulas,
		log:               logger.GetLogger().Named("pricing"),
	}
}

// CalculatePrice 计算报价
// 校验与聚合顺序固定：房源 → 人数 → 晚数 → 价格期 → 逐晚聚合 → 最低入住 →
// 旅游税 → 附加服务 → 汇总 → 押金，任一步失败立即短路返回
func (s *Service) CalculatePrice(ctx context.Context, req *Request) (*Result, error) {
	start := time.Now()

	checkIn := utils.DateOnly(req.CheckIn)
	checkOut := utils.DateOnly(req.CheckOut)

	// 1. 加载房源
	property, err := s.propertyRepo.GetByID(ctx, req.TenantID, req.PropertyID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			s.recordQuote("property_not_found", start)
			return nil, errors.ErrPropertyNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	// 2. 人数校验
	if req.Guests > property.MaxGuests {
		s.recordQuote("guests_exceeded", start)
		return nil, errors.ErrGuestsExceedCapacity.
			WithMessagef("入住人数超过房源容量：最多 %d 人", property.MaxGuests)
	}

	// 3. 晚数校验
	nights := utils.NightsBetween(checkIn, checkOut)
	if nights < 1 {
		s.recordQuote("invalid_dates", start)
		return nil, errors.ErrInvalidDateRange.WithMessage("退房日期必须晚于入住日期")
	}

	// 4. 加载价格期
	periods, err := s.periodRepo.ListOverlapping(ctx, req.TenantID, property.ID, checkIn, checkOut)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	// 5. 逐晚聚合
	stay := aggregateStay(property, periods, checkIn, nights)

	// 6. 最低入住校验：取房源与区间内所有生效价格期中的最严格值
	// 与区间有交集即参与，被更高优先级价格期遮蔽的同样生效
	effectiveMin := property.MinNights
	for _, p := range periods {
		if p.MinNights != nil && *p.MinNights > effectiveMin {
			effectiveMin = *p.MinNights
		}
	}
	if nights < effectiveMin {
		s.recordQuote("min_stay_not_met", start)
		return nil, errors.ErrStayTooShort.
			WithMessagef("入住天数不足：该日期区间最少入住 %d 晚", effectiveMin)
	}

	discount := longStayDiscount(stay.totalAccommodation, nights)

	// 7. 支付配置与旅游税
	paymentConfig, err := s.paymentConfigRepo.GetByTenant(ctx, req.TenantID)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	adults := req.Adults
	if adults <= 0 {
		adults = req.Guests
	}
	children := req.Children
	if children < 0 {
		children = 0
	}
	touristTax := 0.0
	if paymentConfig != nil && paymentConfig.TouristTaxEnabled {
		touristTax = s.formulas.TouristTax(paymentConfig, property.PropertyType,
			adults, children, nights, stay.totalAccommodation)
	}

	// 8. 附加服务
	var lineItems []OptionLineItem
	optionsTotal := 0.0
	if len(req.SelectedOptions) > 0 {
		lineItems, optionsTotal, err = s.priceOptions(ctx, req, property, nights)
		if err != nil {
			return nil, err
		}
	}

	// 9. 汇总：住宿 − 长住折扣 + 清洁费 + 附加服务 = 小计；小计 + 旅游税 = 总价
	subtotal := stay.totalAccommodation - discount + property.CleaningFee + optionsTotal
	total := subtotal + touristTax

	// 10. 押金从最终总价计算
	deposit := 0.0
	if paymentConfig != nil {
		deposit = s.formulas.Deposit(paymentConfig, total)
	}

	result := &Result{
		Nights:               nights,
		BasePrice:            property.BasePrice,
		TotalAccommodation:   stay.totalAccommodation,
		WeekendPremium:       stay.totalWeekendPremium,
		SeasonalAdjustment:   stay.totalAccommodation - property.BasePrice*float64(nights),
		LongStayDiscount:     discount,
		CleaningFee:          property.CleaningFee,
		TouristTax:           touristTax,
		OptionsTotal:         optionsTotal,
		DepositAmount:        deposit,
		Subtotal:             subtotal,
		Total:                total,
		AveragePricePerNight: utils.Round2(total / float64(nights)),
		Breakdown:            stay.breakdown,
		SelectedOptions:      lineItems,
	}

	s.recordQuote("ok", start)
	s.log.Debug("报价计算完成",
		logger.TenantID(req.TenantID),
		logger.PropertyID(req.PropertyID),
		logger.Nights(nights),
		zap.Float64("total", total),
	)
	return result, nil
}

// priceOptions 计算附加服务行项目
// 不存在、停用、被房源禁用或不满足人数/晚数条件的服务静默跳过，不报错
func (s *Service) priceOptions(ctx context.Context, req *Request, property *models.Property, nights int) ([]OptionLineItem, float64, error) {
	ids := make([]int64, 0, len(req.SelectedOptions))
	for _, sel := range req.SelectedOptions {
		ids = append(ids, sel.OptionID)
	}

	options, err := s.optionRepo.ListByIDs(ctx, req.TenantID, ids)
	if err != nil {
		return nil, 0, errors.ErrDatabaseError.WithError(err)
	}
	byID := make(map[int64]*models.BookingOption, len(options))
	for _, o := range options {
		byID[o.ID] = o
	}

	locale := req.Locale
	if locale == "" {
		locale = "en"
	}

	var items []OptionLineItem
	total := 0.0

	for _, sel := range req.SelectedOptions {
		option, ok := byID[sel.OptionID]
		if !ok || !option.IsActive {
			continue
		}
		if sel.Quantity <= 0 {
			continue
		}

		override, err := s.optionRepo.GetPropertyOverride(ctx, property.ID, option.ID)
		if err != nil {
			return nil, 0, errors.ErrDatabaseError.WithError(err)
		}
		if override != nil && !override.IsEnabled {
			continue
		}

		// 人数与晚数门槛，不满足时跳过
		if option.MinGuests != nil && req.Guests < *option.MinGuests {
			continue
		}
		if option.MaxGuests != nil && req.Guests > *option.MaxGuests {
			continue
		}
		if option.MinNights != nil && nights < *option.MinNights {
			continue
		}

		quantity := sel.Quantity
		unitPrice := option.Price
		if override != nil {
			if override.CustomMinQuantity != nil && quantity < *override.CustomMinQuantity {
				quantity = *override.CustomMinQuantity
			}
			if override.CustomMaxQuantity != nil && quantity > *override.CustomMaxQuantity {
				quantity = *override.CustomMaxQuantity
			}
			if override.CustomPrice != nil {
				unitPrice = *override.CustomPrice
			}
		}

		linePrice := s.formulas.OptionPrice(unitPrice,
			option.PricingType, option.PricingPeriod, quantity, req.Guests, nights)

		items = append(items, OptionLineItem{
			OptionID:   option.ID,
			Name:       option.LocalizedName(locale),
			Quantity:   quantity,
			UnitPrice:  unitPrice,
			TotalPrice: linePrice,
		})
		total += linePrice
	}

	return items, total, nil
}

func (s *Service) recordQuote(result string, start time.Time) {
	metrics.GetMetrics().RecordQuote(result, time.Since(start))
}
