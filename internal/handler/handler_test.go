package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/evenzo/evenzo-backend/internal/middleware"
	"github.com/evenzo/evenzo-backend/internal/models"
	"github.com/evenzo/evenzo-backend/internal/repository"
	"github.com/evenzo/evenzo-backend/internal/service"
	"github.com/evenzo/evenzo-backend/pkg/database"
	"github.com/evenzo/evenzo-backend/pkg/ratelimit"
	"github.com/evenzo/evenzo-backend/pkg/utils"
)

type stubMailer struct{}

func (stubMailer) SendOTPEmail(string, string) error           { return nil }
func (stubMailer) SendPasswordResetEmail(string, string) error { return nil }

type stubStorage struct{}

func (stubStorage) Upload(_ context.Context, key string, _ io.Reader, _ string) (string, error) {
	return "https://cdn.test/" + key, nil
}
func (stubStorage) Delete(context.Context, string) error { return nil }

func setupApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.RunMigrations(db))

	logger := zap.NewNop().Sugar()
	limiter := ratelimit.NewNoop()

	userRepo := repository.NewUserRepository(db)
	eventRepo := repository.NewEventRepository(db)
	serviceRepo := repository.NewServiceRepository(db)
	reviewRepo := repository.NewReviewRepository(db)

	authService := service.NewAuthService(userRepo, stubMailer{}, limiter, logger)
	userService := service.NewUserService(userRepo, stubStorage{}, logger)
	eventService := service.NewEventService(eventRepo, serviceRepo, reviewRepo, stubStorage{}, logger)
	reviewService := service.NewReviewService(reviewRepo, eventRepo, limiter, logger)

	validator := utils.NewValidator()
	authHandler := NewAuthHandler(authService, eventService, validator)
	eventHandler := NewEventHandler(eventService, userService, validator)
	reviewHandler := NewReviewHandler(reviewService, userService, validator)

	app := fiber.New()
	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/verify-otp", authHandler.VerifyOTP)
	auth.Post("/login", authHandler.Login)

	api.Get("/events", eventHandler.ListEvents)
	api.Get("/events/:id", eventHandler.GetEvent)
	api.Get("/events/:id/reviews", middleware.OptionalAuth(), reviewHandler.ListReviews)

	return app, db
}

func postJSON(t *testing.T, app *fiber.App, path string, payload interface{}) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func TestRegisterEndpoint(t *testing.T) {
	app, _ := setupApp(t)

	payload := map[string]interface{}{
		"first_name":       "Sana",
		"last_name":        "Malik",
		"email":            "sana@example.com",
		"role":             "seller",
		"mobile_no":        "5550001111",
		"password":         "supersecret",
		"confirm_password": "supersecret",
		"accepted_terms":   true,
	}

	resp := postJSON(t, app, "/api/auth/register", payload)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var body models.Response
	decodeBody(t, resp, &body)
	assert.True(t, body.Success)

	t.Run("duplicate email", func(t *testing.T) {
		resp := postJSON(t, app, "/api/auth/register", payload)
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("password mismatch", func(t *testing.T) {
		bad := map[string]interface{}{}
		for k, v := range payload {
			bad[k] = v
		}
		bad["email"] = "other@example.com"
		bad["confirm_password"] = "different"

		resp := postJSON(t, app, "/api/auth/register", bad)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestLoginBeforeVerificationForbidden(t *testing.T) {
	app, _ := setupApp(t)

	resp := postJSON(t, app, "/api/auth/register", map[string]interface{}{
		"first_name":       "Omar",
		"last_name":        "Sheikh",
		"email":            "omar@example.com",
		"role":             "customer",
		"mobile_no":        "5550002222",
		"password":         "supersecret",
		"confirm_password": "supersecret",
		"accepted_terms":   true,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = postJSON(t, app, "/api/auth/login", map[string]string{
		"email":    "omar@example.com",
		"password": "supersecret",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestGetEventNotFound(t *testing.T) {
	app, _ := setupApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/events/999", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestListReviewsPaginationLinks(t *testing.T) {
	app, db := setupApp(t)

	seller := &models.User{
		FirstName: "Hira", LastName: "Aziz", Email: "hira@example.com",
		Password: "x", Role: models.RoleSeller, IsVerified: true, AcceptedTerms: true,
	}
	require.NoError(t, db.Create(seller).Error)

	event := &models.Event{
		UserID: seller.ID, EventTitle: "Mehndi night", BrandName: "Hira Events",
		Description: "Decor and catering", Location: "Multan", IsActive: true,
	}
	require.NoError(t, db.Create(event).Error)

	for i := 0; i < 12; i++ {
		reviewer := &models.User{
			FirstName: "R", LastName: fmt.Sprintf("%d", i),
			Email: fmt.Sprintf("r%d@example.com", i), Password: "x",
			Role: models.RoleCustomer, IsVerified: true, AcceptedTerms: true,
		}
		require.NoError(t, db.Create(reviewer).Error)
		require.NoError(t, db.Create(&models.Review{
			EventID: event.ID, UserID: reviewer.ID, Rating: 1 + i%5, IsApproved: true,
		}).Error)
	}

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/events/%d/reviews", event.ID), nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var page struct {
		Links   models.PageLinks  `json:"links"`
		Count   int64             `json:"count"`
		Results []json.RawMessage `json:"results"`
	}
	decodeBody(t, resp, &page)

	assert.EqualValues(t, 12, page.Count)
	assert.Len(t, page.Results, 10)
	require.NotNil(t, page.Links.Next)
	assert.Contains(t, *page.Links.Next, "page=2")
	assert.Nil(t, page.Links.Previous)

	req = httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/events/%d/reviews?page=2", event.ID), nil)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	decodeBody(t, resp, &page)

	assert.Len(t, page.Results, 2)
	assert.Nil(t, page.Links.Next)
	require.NotNil(t, page.Links.Previous)
	assert.Contains(t, *page.Links.Previous, "page=1")
}

func TestViewCountIncrementsOnDetail(t *testing.T) {
	app, db := setupApp(t)

	seller := &models.User{
		FirstName: "Ali", LastName: "Raza", Email: "ali@example.com",
		Password: "x", Role: models.RoleSeller, IsVerified: true, AcceptedTerms: true,
	}
	require.NoError(t, db.Create(seller).Error)
	event := &models.Event{
		UserID: seller.ID, EventTitle: "Walima", BrandName: "Raza Caterers",
		Description: "Catering", Location: "Faisalabad", IsActive: true,
	}
	require.NoError(t, db.Create(event).Error)

	for i := 1; i <= 2; i++ {
		req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/events/%d", event.ID), nil)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body struct {
			Data models.EventResponse `json:"data"`
		}
		decodeBody(t, resp, &body)
		assert.EqualValues(t, i, body.Data.ViewCount)
	}
}
