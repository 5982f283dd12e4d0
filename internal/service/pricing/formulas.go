package pricing

import (
	"github.com/luochenwei/villa-booking-backend/internal/common/utils"
	"github.com/luochenwei/villa-booking-backend/internal/models"
)

// OptionPriceFunc 附加服务行金额公式
// 单价与计价方式由目录配置决定，核心只负责注入参数
type OptionPriceFunc func(unitPrice float64, pricingType, pricingPeriod string, quantity, guests, nights int) float64

// TouristTaxFunc 旅游税公式
type TouristTaxFunc func(cfg *models.PaymentConfiguration, propertyType string, adults, children, nights int, totalAccommodation float64) float64

// DepositFunc 押金公式
type DepositFunc func(cfg *models.PaymentConfiguration, total float64) float64

// Formulas 注入的计价公式集合
// 三个公式都是纯函数，测试可整体替换
type Formulas struct {
	OptionPrice OptionPriceFunc
	TouristTax  TouristTaxFunc
	Deposit     DepositFunc
}

// DefaultFormulas 返回默认公式集合
func DefaultFormulas() *Formulas {
	return &Formulas{
		OptionPrice: defaultOptionPrice,
		TouristTax:  defaultTouristTax,
		Deposit:     defaultDeposit,
	}
}

// defaultOptionPrice 默认附加服务计价
// 按人计价乘以人数，按天计价乘以晚数，最后乘以数量
func defaultOptionPrice(unitPrice float64, pricingType, pricingPeriod string, quantity, guests, nights int) float64 {
	base := unitPrice
	if pricingType == models.OptionPricingPerPerson {
		base *= float64(guests)
	}
	if pricingPeriod == models.OptionPeriodPerDay {
		base *= float64(nights)
	}
	return utils.Round2(base * float64(quantity))
}

// defaultTouristTax 默认旅游税计算
// 按晚计税的方式受 TouristTaxMaxNights 封顶；儿童免税
func defaultTouristTax(cfg *models.PaymentConfiguration, propertyType string, adults, children, nights int, totalAccommodation float64) float64 {
	if cfg == nil || !cfg.TouristTaxEnabled {
		return 0
	}

	taxableNights := nights
	if cfg.TouristTaxMaxNights != nil && taxableNights > *cfg.TouristTaxMaxNights {
		taxableNights = *cfg.TouristTaxMaxNights
	}

	var tax float64
	switch cfg.TouristTaxType {
	case models.TouristTaxPerPersonPerNight:
		tax = cfg.TouristTaxAmount * float64(adults) * float64(taxableNights)
	case models.TouristTaxPercentageOfAccommodation:
		tax = totalAccommodation * cfg.TouristTaxRate / 100
	case models.TouristTaxFixedPerStay:
		tax = cfg.TouristTaxAmount
	case models.TouristTaxTieredByPropertyType:
		rate := cfg.TouristTaxAmount
		if cfg.TouristTaxTiers != nil {
			if v, ok := cfg.TouristTaxTiers[propertyType].(float64); ok {
				rate = v
			}
		}
		tax = rate * float64(adults) * float64(taxableNights)
	default:
		tax = 0
	}

	return utils.Round2(tax)
}

// defaultDeposit 默认押金计算
// PERCENTAGE 按最终总价的百分比，其余视为固定金额
func defaultDeposit(cfg *models.PaymentConfiguration, total float64) float64 {
	if cfg == nil {
		return 0
	}
	if cfg.DepositType == models.DepositTypePercentage {
		return utils.Round2(total * cfg.DepositValue / 100)
	}
	return cfg.DepositValue
}
