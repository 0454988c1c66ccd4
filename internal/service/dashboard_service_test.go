package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/evenzo/evenzo-backend/internal/models"
	"github.com/evenzo/evenzo-backend/internal/repository"
)

func newDashboardService(t *testing.T) (*DashboardService, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)
	svc := NewDashboardService(
		repository.NewEventRepository(db),
		repository.NewReviewRepository(db),
		testLogger(),
	)
	return svc, db
}

func TestDashboardSellerOnly(t *testing.T) {
	svc, db := newDashboardService(t)
	customer := createUser(t, db, models.RoleCustomer, true)

	_, err := svc.GetDashboard(customer)
	assert.ErrorIs(t, err, ErrPermission)
}

func TestDashboardNoEvents(t *testing.T) {
	svc, db := newDashboardService(t)
	seller := createUser(t, db, models.RoleSeller, true)

	_, err := svc.GetDashboard(seller)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDashboardStats(t *testing.T) {
	svc, db := newDashboardService(t)
	seller := createUser(t, db, models.RoleSeller, true)
	event := createEvent(t, db, seller)

	require.NoError(t, db.Model(&models.Event{}).Where("id = ?", event.ID).
		Update("view_count", 42).Error)

	ratings := []int{5, 4, 4, 2}
	comments := []string{"superb", "", "good value", "late setup"}
	for i, rating := range ratings {
		reviewer := createUser(t, db, models.RoleCustomer, true)
		createReview(t, db, event.ID, reviewer, rating, comments[i], true)
	}
	// Unapproved reviews still count toward the seller's own stats.
	pending := createUser(t, db, models.RoleCustomer, true)
	createReview(t, db, event.ID, pending, 1, "pending", false)

	dashboard, err := svc.GetDashboard(seller)
	require.NoError(t, err)

	require.Len(t, dashboard.Events, 1)
	stats := dashboard.Events[0].Stats
	assert.EqualValues(t, 42, stats.ViewCount)
	assert.EqualValues(t, 5, stats.ReviewCount)
	assert.InDelta(t, 3.2, stats.AverageRating, 0.001)
	assert.EqualValues(t, 4, stats.CommentCount)

	agg := dashboard.AggregatedStats
	assert.EqualValues(t, 42, agg.TotalViews)
	assert.EqualValues(t, 5, agg.TotalReviews)
	assert.InDelta(t, 3.2, agg.AverageRating, 0.001)
	assert.Equal(t, 1, agg.TotalEvents)
	assert.Equal(t, map[string]int{"1": 1, "2": 1, "3": 0, "4": 2, "5": 1}, agg.RatingDistribution)

	// Recent reviews exclude the unapproved one.
	recent := dashboard.Events[0].RecentReviews
	require.Len(t, recent, 4)
	for _, r := range recent {
		assert.True(t, r.IsApproved)
	}
}

func TestDashboardAverageRounding(t *testing.T) {
	svc, db := newDashboardService(t)
	seller := createUser(t, db, models.RoleSeller, true)
	event := createEvent(t, db, seller)

	for _, rating := range []int{4, 4, 3} {
		reviewer := createUser(t, db, models.RoleCustomer, true)
		createReview(t, db, event.ID, reviewer, rating, "", true)
	}

	dashboard, err := svc.GetDashboard(seller)
	require.NoError(t, err)
	// 11/3 rounds to two decimals.
	assert.Equal(t, 3.67, dashboard.AggregatedStats.AverageRating)
}
