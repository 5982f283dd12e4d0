package pricing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luochenwei/villa-booking-backend/internal/common/errors"
	"github.com/luochenwei/villa-booking-backend/internal/common/utils"
	"github.com/luochenwei/villa-booking-backend/internal/models"
	"github.com/luochenwei/villa-booking-backend/internal/repository"
)

// 2026-06-01 是周一，2026-06-06/07 是周六/周日

func TestCalculatePriceBasic(t *testing.T) {
	db := setupPricingTestDB(t)
	svc := newTestService(db)
	ctx := context.Background()

	tenant := createTenant(t, db)
	property := createProperty(t, db, tenant.ID) // 基价 100，周末溢价 20

	t.Run("三晚含两个周末晚", func(t *testing.T) {
		// 周五入住周一退房：周五/周六/周日三晚，其中两晚周末
		result, err := svc.CalculatePrice(ctx, &Request{
			TenantID:   tenant.ID,
			PropertyID: property.ID,
			CheckIn:    date(2026, 6, 5),
			CheckOut:   date(2026, 6, 8),
			Guests:     2,
		})
		require.NoError(t, err)

		assert.Equal(t, 3, result.Nights)
		assert.Equal(t, 100.0, result.BasePrice)
		assert.Equal(t, 340.0, result.TotalAccommodation) // 3×100 + 2×20
		assert.Equal(t, 40.0, result.WeekendPremium)
		assert.Equal(t, 0.0, result.LongStayDiscount) // 不足 7 晚
		assert.Equal(t, 340.0, result.Subtotal)
		assert.Equal(t, 340.0, result.Total)
		assert.Equal(t, 40.0, result.SeasonalAdjustment) // 340 − 100×3
		assert.Equal(t, utils.Round2(340.0/3), result.AveragePricePerNight)
	})

	t.Run("明细行数等于晚数且合计一致", func(t *testing.T) {
		result, err := svc.CalculatePrice(ctx, &Request{
			TenantID:   tenant.ID,
			PropertyID: property.ID,
			CheckIn:    date(2026, 6, 1),
			CheckOut:   date(2026, 6, 11),
			Guests:     2,
		})
		require.NoError(t, err)

		assert.Len(t, result.Breakdown, result.Nights)
		sum := 0.0
		for _, day := range result.Breakdown {
			sum += day.FinalPrice
		}
		assert.InDelta(t, result.TotalAccommodation, sum, 0.001)
	})

	t.Run("退房当晚不计价", func(t *testing.T) {
		// 周四入住周六退房：只计周四/周五两晚，周六不计
		result, err := svc.CalculatePrice(ctx, &Request{
			TenantID:   tenant.ID,
			PropertyID: property.ID,
			CheckIn:    date(2026, 6, 4),
			CheckOut:   date(2026, 6, 6),
			Guests:     2,
		})
		require.NoError(t, err)
		assert.Equal(t, 2, result.Nights)
		assert.Equal(t, 200.0, result.TotalAccommodation)
		assert.Equal(t, 0.0, result.WeekendPremium)
	})
}

func TestLongStayDiscountTiers(t *testing.T) {
	db := setupPricingTestDB(t)
	svc := newTestService(db)
	ctx := context.Background()

	tenant := createTenant(t, db)
	property := createProperty(t, db, tenant.ID)

	calc := func(nights int) *Result {
		result, err := svc.CalculatePrice(ctx, &Request{
			TenantID:   tenant.ID,
			PropertyID: property.ID,
			CheckIn:    date(2026, 6, 1),
			CheckOut:   date(2026, 6, 1+nights),
			Guests:     2,
		})
		require.NoError(t, err)
		return result
	}

	t.Run("十晚九五折", func(t *testing.T) {
		result := calc(10) // 6/1-6/11，周末两晚
		assert.Equal(t, 1040.0, result.TotalAccommodation)
		assert.Equal(t, utils.Round2(1040*0.05), result.LongStayDiscount)
		assert.Equal(t, 1040.0-52.0, result.Subtotal)
	})

	t.Run("三十晚九折", func(t *testing.T) {
		result := calc(30) // 6/1-7/1，周末八晚
		assert.Equal(t, 3160.0, result.TotalAccommodation)
		assert.Equal(t, utils.Round2(3160*0.10), result.LongStayDiscount)
	})

	t.Run("七晚和二十八晚为含边界档位", func(t *testing.T) {
		assert.Greater(t, calc(7).LongStayDiscount, 0.0)
		assert.Equal(t, 0.0, calc(6).LongStayDiscount)

		r28 := calc(28)
		assert.Equal(t, utils.Round2(r28.TotalAccommodation*0.10), r28.LongStayDiscount)
		r27 := calc(27)
		assert.Equal(t, utils.Round2(r27.TotalAccommodation*0.05), r27.LongStayDiscount)
	})
}

func TestCalculatePriceValidation(t *testing.T) {
	db := setupPricingTestDB(t)
	svc := newTestService(db)
	ctx := context.Background()

	tenant := createTenant(t, db)

	t.Run("房源不存在", func(t *testing.T) {
		_, err := svc.CalculatePrice(ctx, &Request{
			TenantID:   tenant.ID,
			PropertyID: 9999,
			CheckIn:    date(2026, 6, 1),
			CheckOut:   date(2026, 6, 5),
			Guests:     2,
		})
		require.Error(t, err)
		appErr := errors.GetAppError(err)
		assert.Equal(t, errors.ErrPropertyNotFound.Code, appErr.Code)
	})

	t.Run("跨租户不可见", func(t *testing.T) {
		other := &models.Tenant{Name: "别家", Email: "x@example.com", Currency: "EUR", Status: models.TenantStatusActive}
		require.NoError(t, db.Create(other).Error)
		property := createProperty(t, db, other.ID)

		_, err := svc.CalculatePrice(ctx, &Request{
			TenantID:   tenant.ID,
			PropertyID: property.ID,
			CheckIn:    date(2026, 6, 1),
			CheckOut:   date(2026, 6, 5),
			Guests:     2,
		})
		require.Error(t, err)
		assert.Equal(t, errors.ErrPropertyNotFound.Code, errors.GetAppError(err).Code)
	})

	t.Run("人数超限且消息含上限", func(t *testing.T) {
		property := createProperty(t, db, tenant.ID, withMaxGuests(4))
		_, err := svc.CalculatePrice(ctx, &Request{
			TenantID:   tenant.ID,
			PropertyID: property.ID,
			CheckIn:    date(2026, 6, 1),
			CheckOut:   date(2026, 6, 5),
			Guests:     6,
		})
		require.Error(t, err)
		appErr := errors.GetAppError(err)
		assert.Equal(t, errors.ErrGuestsExceedCapacity.Code, appErr.Code)
		assert.Contains(t, appErr.Message, "4")
	})

	t.Run("无效日期区间", func(t *testing.T) {
		property := createProperty(t, db, tenant.ID)
		_, err := svc.CalculatePrice(ctx, &Request{
			TenantID:   tenant.ID,
			PropertyID: property.ID,
			CheckIn:    date(2026, 6, 5),
			CheckOut:   date(2026, 6, 5),
			Guests:     2,
		})
		require.Error(t, err)
		assert.Equal(t, errors.ErrInvalidDateRange.Code, errors.GetAppError(err).Code)
	})

	t.Run("最低入住取最严格值且消息含晚数", func(t *testing.T) {
		property := createProperty(t, db, tenant.ID, withMinNights(3))
		createPeriod(t, db, tenant.ID, "高峰", date(2026, 6, 1), date(2026, 6, 30), 150,
			periodForProperty(property.ID), periodMinNights(5))

		_, err := svc.CalculatePrice(ctx, &Request{
			TenantID:   tenant.ID,
			PropertyID: property.ID,
			CheckIn:    date(2026, 6, 1),
			CheckOut:   date(2026, 6, 5), // 4 晚 < 价格期要求的 5 晚
			Guests:     2,
		})
		require.Error(t, err)
		appErr := errors.GetAppError(err)
		assert.Equal(t, errors.ErrStayTooShort.Code, appErr.Code)
		assert.Contains(t, appErr.Message, "5")
	})

	t.Run("被遮蔽价格期的最低入住同样生效", func(t *testing.T) {
		property := createProperty(t, db, tenant.ID)
		// 专属价格期覆盖所有晚的计价，但全局价格期的最低入住仍然生效
		createPeriod(t, db, tenant.ID, "本房源价", date(2026, 6, 1), date(2026, 6, 30), 120,
			periodForProperty(property.ID))
		createPeriod(t, db, tenant.ID, "全局旺季", date(2026, 6, 1), date(2026, 6, 30), 300,
			periodMinNights(10))

		_, err := svc.CalculatePrice(ctx, &Request{
			TenantID:   tenant.ID,
			PropertyID: property.ID,
			CheckIn:    date(2026, 6, 1),
			CheckOut:   date(2026, 6, 5), // 4 晚 < 全局价格期要求的 10 晚
			Guests:     2,
		})
		require.Error(t, err)
		appErr := errors.GetAppError(err)
		assert.Equal(t, errors.ErrStayTooShort.Code, appErr.Code)
		assert.Contains(t, appErr.Message, "10")
	})
}

func TestPeriodPrecedence(t *testing.T) {
	db := setupPricingTestDB(t)
	svc := newTestService(db)
	ctx := context.Background()

	tenant := createTenant(t, db)
	property := createProperty(t, db, tenant.ID, withWeekendPremium(0))

	t.Run("专属低优先级仍胜过全局高优先级", func(t *testing.T) {
		createPeriod(t, db, tenant.ID, "全局旺季", date(2026, 6, 1), date(2026, 6, 30), 300,
			periodPriority(100))
		createPeriod(t, db, tenant.ID, "本房源特价", date(2026, 6, 1), date(2026, 6, 30), 120,
			periodForProperty(property.ID), periodPriority(1))

		result, err := svc.CalculatePrice(ctx, &Request{
			TenantID:   tenant.ID,
			PropertyID: property.ID,
			CheckIn:    date(2026, 6, 1),
			CheckOut:   date(2026, 6, 3),
			Guests:     2,
		})
		require.NoError(t, err)
		assert.Equal(t, 240.0, result.TotalAccommodation) // 2 × 120
		assert.Equal(t, "本房源特价", result.Breakdown[0].PeriodName)
	})

	t.Run("同作用域高优先级胜出", func(t *testing.T) {
		p2 := createProperty(t, db, tenant.ID, withWeekendPremium(0))
		createPeriod(t, db, tenant.ID, "普通", date(2026, 7, 1), date(2026, 7, 31), 110,
			periodForProperty(p2.ID), periodPriority(1))
		createPeriod(t, db, tenant.ID, "特惠", date(2026, 7, 1), date(2026, 7, 31), 90,
			periodForProperty(p2.ID), periodPriority(9))

		result, err := svc.CalculatePrice(ctx, &Request{
			TenantID:   tenant.ID,
			PropertyID: p2.ID,
			CheckIn:    date(2026, 7, 6),
			CheckOut:   date(2026, 7, 8),
			Guests:     2,
		})
		require.NoError(t, err)
		assert.Equal(t, 180.0, result.TotalAccommodation)
		assert.Equal(t, "特惠", result.Breakdown[0].PeriodName)
	})

	t.Run("完全同级取最小ID", func(t *testing.T) {
		p3 := createProperty(t, db, tenant.ID, withWeekendPremium(0))
		first := createPeriod(t, db, tenant.ID, "先建", date(2026, 8, 1), date(2026, 8, 31), 130,
			periodForProperty(p3.ID), periodPriority(5))
		createPeriod(t, db, tenant.ID, "后建", date(2026, 8, 1), date(2026, 8, 31), 170,
			periodForProperty(p3.ID), periodPriority(5))

		result, err := svc.CalculatePrice(ctx, &Request{
			TenantID:   tenant.ID,
			PropertyID: p3.ID,
			CheckIn:    date(2026, 8, 3),
			CheckOut:   date(2026, 8, 5),
			Guests:     2,
		})
		require.NoError(t, err)
		assert.Equal(t, first.Name, result.Breakdown[0].PeriodName)
		assert.Equal(t, 260.0, result.TotalAccommodation)
	})

	t.Run("停用价格期不参与", func(t *testing.T) {
		p4 := createProperty(t, db, tenant.ID, withWeekendPremium(0))
		createPeriod(t, db, tenant.ID, "停用", date(2026, 9, 1), date(2026, 9, 30), 500,
			periodForProperty(p4.ID), periodInactive())

		result, err := svc.CalculatePrice(ctx, &Request{
			TenantID:   tenant.ID,
			PropertyID: p4.ID,
			CheckIn:    date(2026, 9, 1),
			CheckOut:   date(2026, 9, 3),
			Guests:     2,
		})
		require.NoError(t, err)
		assert.Equal(t, 200.0, result.TotalAccommodation) // 回退房源基价
		assert.Empty(t, result.Breakdown[0].PeriodName)
	})

	t.Run("价格期周末溢价覆盖房源溢价", func(t *testing.T) {
		p5 := createProperty(t, db, tenant.ID, withWeekendPremium(20))
		createPeriod(t, db, tenant.ID, "旺季", date(2026, 6, 1), date(2026, 6, 30), 200,
			periodForProperty(p5.ID), periodWeekendPremium(50))

		// 周六一晚
		result, err := svc.CalculatePrice(ctx, &Request{
			TenantID:   tenant.ID,
			PropertyID: p5.ID,
			CheckIn:    date(2026, 6, 6),
			CheckOut:   date(2026, 6, 7),
			Guests:     2,
		})
		require.NoError(t, err)
		assert.Equal(t, 250.0, result.TotalAccommodation) // 200 + 50
	})

	t.Run("价格期未设周末溢价时沿用房源溢价", func(t *testing.T) {
		p6 := createProperty(t, db, tenant.ID, withBasePrice(80), withWeekendPremium(20))
		createPeriod(t, db, tenant.ID, "暑期", date(2026, 6, 1), date(2026, 6, 30), 200,
			periodForProperty(p6.ID))

		// 周六一晚：基价取价格期，周末溢价回退房源
		result, err := svc.CalculatePrice(ctx, &Request{
			TenantID:   tenant.ID,
			PropertyID: p6.ID,
			CheckIn:    date(2026, 6, 6),
			CheckOut:   date(2026, 6, 7),
			Guests:     2,
		})
		require.NoError(t, err)
		assert.Equal(t, 220.0, result.TotalAccommodation) // 200 + 20
		assert.Equal(t, 20.0, result.WeekendPremium)
	})
}

func TestAggregationOrder(t *testing.T) {
	db := setupPricingTestDB(t)
	svc := newTestService(db)
	ctx := context.Background()

	tenant := createTenant(t, db)
	property := createProperty(t, db, tenant.ID, withWeekendPremium(0), withCleaningFee(50))

	createPaymentConfig(t, db, &models.PaymentConfiguration{
		TenantID:          tenant.ID,
		TouristTaxEnabled: true,
		TouristTaxType:    models.TouristTaxPerPersonPerNight,
		TouristTaxAmount:  2,
		DepositType:       models.DepositTypePercentage,
		DepositValue:      30,
	})
	option := createOption(t, db, tenant.ID, 80)

	result, err := svc.CalculatePrice(ctx, &Request{
		TenantID:   tenant.ID,
		PropertyID: property.ID,
		CheckIn:    date(2026, 6, 1),
		CheckOut:   date(2026, 6, 11), // 10 晚
		Guests:     2,
		SelectedOptions: []SelectedOption{
			{OptionID: option.ID, Quantity: 1},
		},
	})
	require.NoError(t, err)

	// 住宿 1000 − 折扣 50 + 清洁费 50 + 服务 80 = 小计 1080
	assert.Equal(t, 1000.0, result.TotalAccommodation)
	assert.Equal(t, 50.0, result.LongStayDiscount)
	assert.Equal(t, 80.0, result.OptionsTotal)
	assert.Equal(t, 1080.0, result.Subtotal)
	// 旅游税 2 × 2人 × 10晚 = 40，总价 1120
	assert.Equal(t, 40.0, result.TouristTax)
	assert.Equal(t, 1120.0, result.Total)
	// 押金按最终总价 30%
	assert.Equal(t, 336.0, result.DepositAmount)
	assert.Equal(t, 112.0, result.AveragePricePerNight)
}

func TestOptionPricing(t *testing.T) {
	db := setupPricingTestDB(t)
	svc := newTestService(db)
	ctx := context.Background()

	tenant := createTenant(t, db)
	property := createProperty(t, db, tenant.ID, withWeekendPremium(0))

	quote := func(guests int, nights int, selections ...SelectedOption) *Result {
		result, err := svc.CalculatePrice(ctx, &Request{
			TenantID:        tenant.ID,
			PropertyID:      property.ID,
			CheckIn:         date(2026, 6, 1),
			CheckOut:        date(2026, 6, 1+nights),
			Guests:          guests,
			SelectedOptions: selections,
		})
		require.NoError(t, err)
		return result
	}

	t.Run("按人按天计价", func(t *testing.T) {
		option := createOption(t, db, tenant.ID, 10,
			optionPricing(models.OptionPricingPerPerson, models.OptionPeriodPerDay))

		result := quote(3, 2, SelectedOption{OptionID: option.ID, Quantity: 1})
		// 10 × 3人 × 2晚 × 1
		assert.Equal(t, 60.0, result.OptionsTotal)
		require.Len(t, result.SelectedOptions, 1)
		assert.Equal(t, 60.0, result.SelectedOptions[0].TotalPrice)
	})

	t.Run("数量相乘", func(t *testing.T) {
		option := createOption(t, db, tenant.ID, 25)
		result := quote(2, 2, SelectedOption{OptionID: option.ID, Quantity: 3})
		assert.Equal(t, 75.0, result.OptionsTotal)
	})

	t.Run("未知和停用的服务静默跳过", func(t *testing.T) {
		inactive := createOption(t, db, tenant.ID, 30, optionInactive())
		result := quote(2, 2,
			SelectedOption{OptionID: 99999, Quantity: 1},
			SelectedOption{OptionID: inactive.ID, Quantity: 1},
		)
		assert.Equal(t, 0.0, result.OptionsTotal)
		assert.Empty(t, result.SelectedOptions)
	})

	t.Run("人数和晚数门槛不满足时跳过", func(t *testing.T) {
		needFour := createOption(t, db, tenant.ID, 30, optionMinGuests(4))
		capTwo := createOption(t, db, tenant.ID, 30, optionMaxGuests(2))
		needWeek := createOption(t, db, tenant.ID, 30, optionMinNights(7))

		result := quote(3, 2,
			SelectedOption{OptionID: needFour.ID, Quantity: 1},
			SelectedOption{OptionID: capTwo.ID, Quantity: 1},
			SelectedOption{OptionID: needWeek.ID, Quantity: 1},
		)
		assert.Equal(t, 0.0, result.OptionsTotal)
	})

	t.Run("房源覆盖价与禁用", func(t *testing.T) {
		overridden := createOption(t, db, tenant.ID, 100)
		disabled := createOption(t, db, tenant.ID, 100)
		custom := 60.0
		require.NoError(t, db.Create(&models.PropertyBookingOption{
			PropertyID: property.ID, OptionID: overridden.ID, IsEnabled: true, CustomPrice: &custom,
		}).Error)
		require.NoError(t, db.Create(&models.PropertyBookingOption{
			PropertyID: property.ID, OptionID: disabled.ID, IsEnabled: false,
		}).Error)

		result := quote(2, 2,
			SelectedOption{OptionID: overridden.ID, Quantity: 1},
			SelectedOption{OptionID: disabled.ID, Quantity: 1},
		)
		assert.Equal(t, 60.0, result.OptionsTotal)
		require.Len(t, result.SelectedOptions, 1)
		assert.Equal(t, 60.0, result.SelectedOptions[0].UnitPrice)
	})

	t.Run("数量被覆盖配置夹取", func(t *testing.T) {
		limited := createOption(t, db, tenant.ID, 10)
		minQ, maxQ := 2, 4
		require.NoError(t, db.Create(&models.PropertyBookingOption{
			PropertyID: property.ID, OptionID: limited.ID, IsEnabled: true,
			CustomMinQuantity: &minQ, CustomMaxQuantity: &maxQ,
		}).Error)

		result := quote(2, 2, SelectedOption{OptionID: limited.ID, Quantity: 10})
		require.Len(t, result.SelectedOptions, 1)
		assert.Equal(t, 4, result.SelectedOptions[0].Quantity)
		assert.Equal(t, 40.0, result.OptionsTotal)
	})

	t.Run("名称按语言回退", func(t *testing.T) {
		noFr := createOption(t, db, tenant.ID, 10, optionName(models.JSON{"en": "Late checkout"}))
		nameless := createOption(t, db, tenant.ID, 10, optionName(models.JSON{}))

		result, err := svc.CalculatePrice(ctx, &Request{
			TenantID:   tenant.ID,
			PropertyID: property.ID,
			CheckIn:    date(2026, 6, 1),
			CheckOut:   date(2026, 6, 3),
			Guests:     2,
			Locale:     "fr",
			SelectedOptions: []SelectedOption{
				{OptionID: noFr.ID, Quantity: 1},
				{OptionID: nameless.ID, Quantity: 1},
			},
		})
		require.NoError(t, err)
		require.Len(t, result.SelectedOptions, 2)
		assert.Equal(t, "Late checkout", result.SelectedOptions[0].Name)
		assert.Equal(t, "Option", result.SelectedOptions[1].Name)
	})
}

func TestInjectedFormulas(t *testing.T) {
	db := setupPricingTestDB(t)
	ctx := context.Background()

	tenant := createTenant(t, db)
	property := createProperty(t, db, tenant.ID, withWeekendPremium(0))
	createPaymentConfig(t, db, &models.PaymentConfiguration{
		TenantID:          tenant.ID,
		TouristTaxEnabled: true,
		TouristTaxType:    models.TouristTaxFixedPerStay,
		TouristTaxAmount:  10,
		DepositType:       models.DepositTypeFixed,
		DepositValue:      100,
	})

	// 整体替换公式，验证核心不内嵌税费规则
	svc := NewService(
		repository.NewPropertyRepository(db),
		repository.NewPeriodRepository(db),
		repository.NewOptionRepository(db),
		repository.NewPaymentConfigRepository(db),
		&Formulas{
			OptionPrice: func(unitPrice float64, pricingType, pricingPeriod string, quantity, guests, nights int) float64 {
				return 1
			},
			TouristTax: func(cfg *models.PaymentConfiguration, propertyType string, adults, children, nights int, totalAccommodation float64) float64 {
				return 99
			},
			Deposit: func(cfg *models.PaymentConfiguration, total float64) float64 {
				return total / 2
			},
		},
	)

	result, err := svc.CalculatePrice(ctx, &Request{
		TenantID:   tenant.ID,
		PropertyID: property.ID,
		CheckIn:    date(2026, 6, 1),
		CheckOut:   date(2026, 6, 3),
		Guests:     2,
	})
	require.NoError(t, err)
	assert.Equal(t, 99.0, result.TouristTax)
	assert.Equal(t, 299.0, result.Total)
	assert.Equal(t, 149.5, result.DepositAmount)
}

func TestAdultsDefaulting(t *testing.T) {
	db := setupPricingTestDB(t)
	svc := newTestService(db)
	ctx := context.Background()

	tenant := createTenant(t, db)
	property := createProperty(t, db, tenant.ID, withWeekendPremium(0))
	createPaymentConfig(t, db, &models.PaymentConfiguration{
		TenantID:          tenant.ID,
		TouristTaxEnabled: true,
		TouristTaxType:    models.TouristTaxPerPersonPerNight,
		TouristTaxAmount:  3,
	})

	t.Run("未指定成人数时按总人数计税", func(t *testing.T) {
		result, err := svc.CalculatePrice(ctx, &Request{
			TenantID:   tenant.ID,
			PropertyID: property.ID,
			CheckIn:    date(2026, 6, 1),
			CheckOut:   date(2026, 6, 3),
			Guests:     4,
		})
		require.NoError(t, err)
		// 3 × 4人 × 2晚
		assert.Equal(t, 24.0, result.TouristTax)
	})

	t.Run("显式成人数时儿童免税", func(t *testing.T) {
		result, err := svc.CalculatePrice(ctx, &Request{
			TenantID:   tenant.ID,
			PropertyID: property.ID,
			CheckIn:    date(2026, 6, 1),
			CheckOut:   date(2026, 6, 3),
			Guests:     4,
			Adults:     2,
			Children:   2,
		})
		require.NoError(t, err)
		// 3 × 2成人 × 2晚
		assert.Equal(t, 12.0, result.TouristTax)
	})
}
