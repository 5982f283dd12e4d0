package pricing

import (
	"time"

	"github.com/luochenwei/villa-booking-backend/internal/common/utils"
	"github.com/luochenwei/villa-booking-backend/internal/models"
)

// stayTotals 住宿段聚合结果
type stayTotals struct {
	breakdown           []DayPrice
	totalAccommodation  float64
	totalWeekendPremium float64
}

// nightlyPrice 计算单晚价格
// 价格期命中时使用其基价；周末溢价只有在价格期显式设置时才覆盖，
// 未设置则沿用房源默认溢价
func nightlyPrice(property *models.Property, period *models.Period, date time.Time) DayPrice {
	basePrice := property.BasePrice
	premiumRate := property.WeekendPremium
	periodName := ""

	if period != nil {
		basePrice = period.BasePrice
		if period.WeekendPremium != nil {
			premiumRate = *period.WeekendPremium
		}
		periodName = period.Name
	}

	premium := 0.0
	if utils.IsWeekend(date) {
		premium = premiumRate
	}

	return DayPrice{
		Date:           date,
		BasePrice:      basePrice,
		WeekendPremium: premium,
		FinalPrice:     basePrice + premium,
		PeriodName:     periodName,
	}
}

// aggregateStay 逐晚聚合住宿价格
// 按半开区间遍历 [checkIn, checkOut)，退房当晚不计价；
// 保证 breakdown 长度等于晚数，FinalPrice 之和等于 totalAccommodation
func aggregateStay(property *models.Property, periods []*models.Period, checkIn time.Time, nights int) *stayTotals {
	totals := &stayTotals{
		breakdown: make([]DayPrice, 0, nights),
	}

	for i := 0; i < nights; i++ {
		date := checkIn.AddDate(0, 0, i)
		period := resolvePeriod(date, periods)
		day := nightlyPrice(property, period, date)

		totals.breakdown = append(totals.breakdown, day)
		totals.totalAccommodation += day.FinalPrice
		totals.totalWeekendPremium += day.WeekendPremium
	}

	return totals
}

// discountRate 长住折扣率
// 7 晚起 5%，28 晚起 10%，边界含当晚
func discountRate(nights int) float64 {
	switch {
	case nights >= 28:
		return 0.10
	case nights >= 7:
		return 0.05
	default:
		return 0
	}
}

// longStayDiscount 长住折扣金额，只在折扣额上做一次四舍五入
func longStayDiscount(totalAccommodation float64, nights int) float64 {
	rate := discountRate(nights)
	if rate == 0 {
		return 0
	}
	return utils.Round2(totalAccommodation * rate)
}
