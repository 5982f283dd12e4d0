package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/luochenwei/villa-booking-backend/internal/models"
)

func TestCountConflicting(t *testing.T) {
	db := setupRepoTestDB(t)
	repo := NewBookingRepository(db)
	ctx := context.Background()

	tenant := createTestTenant(t, db)
	property := createTestProperty(t, db, tenant.ID)

	// 已有预订 6/10 - 6/15
	existing := createTestBooking(t, db, tenant.ID, property.ID,
		date(2026, 6, 10), date(2026, 6, 15), models.BookingStatusConfirmed)

	t.Run("区间重叠冲突", func(t *testing.T) {
		count, err := repo.CountConflicting(ctx, tenant.ID, property.ID,
			date(2026, 6, 12), date(2026, 6, 18), nil)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("完全包含冲突", func(t *testing.T) {
		count, err := repo.CountConflicting(ctx, tenant.ID, property.ID,
			date(2026, 6, 8), date(2026, 6, 20), nil)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("退房日等于入住日不冲突", func(t *testing.T) {
		// 半开区间：已有预订 6/15 退房，当天可入住
		count, err := repo.CountConflicting(ctx, tenant.ID, property.ID,
			date(2026, 6, 15), date(2026, 6, 20), nil)
		require.NoError(t, err)
		assert.Equal(t, int64(0), count)

		// 反向：6/10 当天退房也不冲突
		count, err = repo.CountConflicting(ctx, tenant.ID, property.ID,
			date(2026, 6, 5), date(2026, 6, 10), nil)
		require.NoError(t, err)
		assert.Equal(t, int64(0), count)
	})

	t.Run("已取消预订不占用日期", func(t *testing.T) {
		createTestBooking(t, db, tenant.ID, property.ID,
			date(2026, 7, 1), date(2026, 7, 5), models.BookingStatusCancelled)
		createTestBooking(t, db, tenant.ID, property.ID,
			date(2026, 7, 1), date(2026, 7, 5), models.BookingStatusExpired)

		count, err := repo.CountConflicting(ctx, tenant.ID, property.ID,
			date(2026, 7, 1), date(2026, 7, 5), nil)
		require.NoError(t, err)
		assert.Equal(t, int64(0), count)
	})

	t.Run("待确认预订占用日期", func(t *testing.T) {
		createTestBooking(t, db, tenant.ID, property.ID,
			date(2026, 8, 1), date(2026, 8, 5), models.BookingStatusPending)

		count, err := repo.CountConflicting(ctx, tenant.ID, property.ID,
			date(2026, 8, 4), date(2026, 8, 8), nil)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("排除指定预订", func(t *testing.T) {
		count, err := repo.CountConflicting(ctx, tenant.ID, property.ID,
			date(2026, 6, 10), date(2026, 6, 15), &existing.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(0), count)
	})

	t.Run("其他房源不冲突", func(t *testing.T) {
		other := createTestProperty(t, db, tenant.ID)
		count, err := repo.CountConflicting(ctx, tenant.ID, other.ID,
			date(2026, 6, 10), date(2026, 6, 15), nil)
		require.NoError(t, err)
		assert.Equal(t, int64(0), count)
	})
}

func TestListStalePending(t *testing.T) {
	db := setupRepoTestDB(t)
	repo := NewBookingRepository(db)
	ctx := context.Background()

	tenant := createTestTenant(t, db)
	property := createTestProperty(t, db, tenant.ID)

	stale := createTestBooking(t, db, tenant.ID, property.ID,
		date(2026, 6, 1), date(2026, 6, 5), models.BookingStatusPending)
	// 回写创建时间模拟超时
	require.NoError(t, db.Model(stale).Update("created_at", time.Now().Add(-2*time.Hour)).Error)

	fresh := createTestBooking(t, db, tenant.ID, property.ID,
		date(2026, 7, 1), date(2026, 7, 5), models.BookingStatusPending)

	t.Run("仅返回超时的待确认预订", func(t *testing.T) {
		list, err := repo.ListStalePending(ctx, time.Now().Add(-30*time.Minute), 100)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, stale.ID, list[0].ID)
	})

	t.Run("标记过期具有幂等性", func(t *testing.T) {
		require.NoError(t, repo.MarkExpired(ctx, stale.ID))

		got, err := repo.GetByID(ctx, tenant.ID, stale.ID)
		require.NoError(t, err)
		assert.Equal(t, models.BookingStatusExpired, got.Status)

		// 再次标记不改变状态之外的行
		require.NoError(t, repo.MarkExpired(ctx, stale.ID))
		require.NoError(t, repo.MarkExpired(ctx, fresh.ID))
		got, err = repo.GetByID(ctx, tenant.ID, fresh.ID)
		require.NoError(t, err)
		assert.Equal(t, models.BookingStatusExpired, got.Status)
	})
}

func TestCountInMonth(t *testing.T) {
	db := setupRepoTestDB(t)
	repo := NewBookingRepository(db)
	ctx := context.Background()

	tenant := createTestTenant(t, db)
	property := createTestProperty(t, db, tenant.ID)

	createTestBooking(t, db, tenant.ID, property.ID,
		date(2026, 6, 1), date(2026, 6, 5), models.BookingStatusConfirmed)
	createTestBooking(t, db, tenant.ID, property.ID,
		date(2026, 6, 10), date(2026, 6, 12), models.BookingStatusPending)

	count, err := repo.CountInMonth(ctx, time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestBookingList(t *testing.T) {
	db := setupRepoTestDB(t)
	repo := NewBookingRepository(db)
	ctx := context.Background()

	tenant := createTestTenant(t, db)
	other := createTestTenant2(t, db)
	property := createTestProperty(t, db, tenant.ID)
	otherProperty := createTestProperty(t, db, other.ID)

	createTestBooking(t, db, tenant.ID, property.ID,
		date(2026, 6, 1), date(2026, 6, 5), models.BookingStatusConfirmed)
	createTestBooking(t, db, tenant.ID, property.ID,
		date(2026, 6, 10), date(2026, 6, 12), models.BookingStatusPending)
	createTestBooking(t, db, other.ID, otherProperty.ID,
		date(2026, 6, 1), date(2026, 6, 5), models.BookingStatusConfirmed)

	t.Run("租户隔离", func(t *testing.T) {
		list, total, err := repo.List(ctx, tenant.ID, 0, 10, nil)
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, list, 2)
	})

	t.Run("按状态过滤", func(t *testing.T) {
		list, total, err := repo.List(ctx, tenant.ID, 0, 10, map[string]interface{}{
			"status": models.BookingStatusPending,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, list, 1)
		assert.Equal(t, models.BookingStatusPending, list[0].Status)
	})
}

func createTestTenant2(t *testing.T, db *gorm.DB) *models.Tenant {
	t.Helper()
	tenant := &models.Tenant{
		Name:     "另一个租户",
		Email:    "other@example.com",
		Currency: "EUR",
		Status:   models.TenantStatusActive,
	}
	require.NoError(t, db.Create(tenant).Error)
	return tenant
}
