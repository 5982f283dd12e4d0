package repository

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/luochenwei/villa-booking-backend/internal/models"
)

func setupRepoTestDB(t *testing.T) *gorm.DB {
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

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func createTestTenant(t *testing.T, db *gorm.DB) *models.Tenant {
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

func withMaxGuests(n int) propertyOption {
	return func(p *models.Property) { p.MaxGuests = n }
}

func createTestProperty(t *testing.T, db *gorm.DB, tenantID int64, opts ...propertyOption) *models.Property {
	t.Helper()
	property := &models.Property{
		TenantID:       tenantID,
		Name:           "海景别墅",
		PropertyType:   models.PropertyTypeVilla,
		MaxGuests:      6,
		BasePrice:      100,
		WeekendPremium: 20,
		CleaningFee:    50,
		MinNights:      1,
		Status:         models.PropertyStatusPublished,
	}
	for _, opt := range opts {
		opt(property)
	}
	require.NoError(t, db.Create(property).Error)
	return property
}

var refSeq int64

func createTestBooking(t *testing.T, db *gorm.DB, tenantID, propertyID int64, checkIn, checkOut time.Time, status string) *models.Booking {
	t.Helper()
	booking := &models.Booking{
		Reference:          fmt.Sprintf("VB2606%04d", atomic.AddInt64(&refSeq, 1)),
		TenantID:           tenantID,
		PropertyID:         propertyID,
		Status:             status,
		CheckIn:            checkIn,
		CheckOut:           checkOut,
		Nights:             int(checkOut.Sub(checkIn).Hours() / 24),
		Guests:             2,
		Adults:             2,
		GuestName:          "张三",
		GuestEmail:         "guest@example.com",
		TotalAccommodation: 500,
		Subtotal:           550,
		Total:              560,
		Currency:           "EUR",
	}
	require.NoError(t, db.Create(booking).Error)
	return booking
}
