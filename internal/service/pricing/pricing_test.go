package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/luochenwei/villa-booking-backend/internal/models"
	"github.com/luochenwei/villa-booking-backend/internal/repository"
)

func setupPricingTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.Tenant{},
		&models.PaymentConfiguration{},
		&models.Property{},
		&models.Period{},
		&models.BookingOption{},
		&models.PropertyBookingOption{},
		&models.Booking{},
	)
	require.NoError(t, err)
	return db
}

func newTestService(db *gorm.DB) *Service {
	return NewService(
		repository.NewPropertyRepository(db),
		repository.NewPeriodRepository(db),
		repository.NewOptionRepository(db),
		repository.NewPaymentConfigRepository(db),
		nil,
	)
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func createTenant(t *testing.T, db *gorm.DB) *models.Tenant {
	t.Helper()
	tenant := &models.Tenant{
		Name:     "测试租户",
		Email:    "owner@example.com",
		Currency: "EUR",
		Status:   models.TenantStatusActive,
	}
	require.NoError(t, db.Create(tenant).Error)
	return tenant
}

type propertyOption func(*models.Property)

func withBasePrice(v float64) propertyOption {
	return func(p *models.Property) { p.BasePrice = v }
}

func withWeekendPremium(v float64) propertyOption {
	return func(p *models.Property) { p.WeekendPremium = v }
}

func withCleaningFee(v float64) propertyOption {
	return func(p *models.Property) { p.CleaningFee = v }
}

func withMaxGuests(n int) propertyOption {
	return func(p *models.Property) { p.MaxGuests = n }
}

func withMinNights(n int) propertyOption {
	return func(p *models.Property) { p.MinNights = n }
}

func createProperty(t *testing.T, db *gorm.DB, tenantID int64, opts ...propertyOption) *models.Property {
	t.Helper()
	property := &models.Property{
		TenantID:       tenantID,
		Name:           "海景别墅",
		PropertyType:   models.PropertyTypeVilla,
		MaxGuests:      6,
		BasePrice:      100,
		WeekendPremium: 20,
		CleaningFee:    0,
		MinNights:      1,
		Status:         models.PropertyStatusPublished,
	}
	for _, opt := range opts {
		opt(property)
	}
	require.NoError(t, db.Create(property).Error)
	return property
}

type periodOption func(*models.Period)

func periodForProperty(propertyID int64) periodOption {
	return func(p *models.Period) { p.PropertyID = &propertyID }
}

func periodPriority(n int) periodOption {
	return func(p *models.Period) { p.Priority = n }
}

func periodMinNights(n int) periodOption {
	return func(p *models.Period) { p.MinNights = &n }
}

func periodWeekendPremium(v float64) periodOption {
	return func(p *models.Period) { p.WeekendPremium = &v }
}

func periodInactive() periodOption {
	return func(p *models.Period) { p.IsActive = false }
}

func createPeriod(t *testing.T, db *gorm.DB, tenantID int64, name string, start, end time.Time, basePrice float64, opts ...periodOption) *models.Period {
	t.Helper()
	period := &models.Period{
		TenantID:  tenantID,
		Name:      name,
		StartDate: start,
		EndDate:   end,
		BasePrice: basePrice,
		IsActive:  true,
	}
	for _, opt := range opts {
		opt(period)
	}
	require.NoError(t, db.Create(period).Error)
	return period
}

type optionOption func(*models.BookingOption)

func optionPricing(pricingType, pricingPeriod string) optionOption {
	return func(o *models.BookingOption) {
		o.PricingType = pricingType
		o.PricingPeriod = pricingPeriod
	}
}

func optionMinGuests(n int) optionOption {
	return func(o *models.BookingOption) { o.MinGuests = &n }
}

func optionMaxGuests(n int) optionOption {
	return func(o *models.BookingOption) { o.MaxGuests = &n }
}

func optionMinNights(n int) optionOption {
	return func(o *models.BookingOption) { o.MinNights = &n }
}

func optionInactive() optionOption {
	return func(o *models.BookingOption) { o.IsActive = false }
}

func optionName(name models.JSON) optionOption {
	return func(o *models.BookingOption) { o.Name = name }
}

func createOption(t *testing.T, db *gorm.DB, tenantID int64, price float64, opts ...optionOption) *models.BookingOption {
	t.Helper()
	option := &models.BookingOption{
		TenantID:      tenantID,
		Name:          models.JSON{"en": "Airport transfer", "fr": "Transfert aéroport"},
		PricingType:   models.OptionPricingPerUnit,
		PricingPeriod: models.OptionPeriodPerStay,
		Price:         price,
		IsActive:      true,
	}
	for _, opt := range opts {
		opt(option)
	}
	require.NoError(t, db.Create(option).Error)
	return option
}

func createPaymentConfig(t *testing.T, db *gorm.DB, cfg *models.PaymentConfiguration) *models.PaymentConfiguration {
	t.Helper()
	require.NoError(t, db.Create(cfg).Error)
	return cfg
}
