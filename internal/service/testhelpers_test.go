package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/evenzo/evenzo-backend/internal/models"
	"github.com/evenzo/evenzo-backend/internal/repository"
	"github.com/evenzo/evenzo-backend/pkg/database"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.RunMigrations(db))
	return db
}

func testLogger() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

type fakeMailer struct {
	otpByEmail   map[string]string
	resetByEmail map[string]string
	fail         bool
}

func newFakeMailer() *fakeMailer {
	return &fakeMailer{
		otpByEmail:   make(map[string]string),
		resetByEmail: make(map[string]string),
	}
}

func (m *fakeMailer) SendOTPEmail(to, otp string) error {
	if m.fail {
		return fmt.Errorf("smtp unreachable")
	}
	m.otpByEmail[to] = otp
	return nil
}

func (m *fakeMailer) SendPasswordResetEmail(to, otp string) error {
	if m.fail {
		return fmt.Errorf("smtp unreachable")
	}
	m.resetByEmail[to] = otp
	return nil
}

type fakeLimiter struct {
	allowed bool
	keys    []string
}

func (l *fakeLimiter) Allow(_ context.Context, key string, _ int, _ time.Duration) (bool, error) {
	l.keys = append(l.keys, key)
	return l.allowed, nil
}

type fakeStorage struct {
	uploads map[string][]byte
	deleted []string
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{uploads: make(map[string][]byte)}
}

func (s *fakeStorage) Upload(_ context.Context, key string, body io.Reader, _ string) (string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	s.uploads[key] = data
	return "https://cdn.test/" + key, nil
}

func (s *fakeStorage) Delete(_ context.Context, key string) error {
	s.deleted = append(s.deleted, key)
	delete(s.uploads, key)
	return nil
}

// makeImageFile builds a real multipart file header the way fiber hands it
// to handlers.
func makeImageFile(t *testing.T, name, contentType string) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, name))
	h.Set("Content-Type", contentType)

	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write([]byte("image-bytes"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	return form.File["file"][0]
}

var userSeq int

func createUser(t *testing.T, db *gorm.DB, role models.UserRole, verified bool) *models.User {
	t.Helper()
	userSeq++

	user := &models.User{
		FirstName:     "Test",
		LastName:      fmt.Sprintf("User%d", userSeq),
		Email:         fmt.Sprintf("user%d@example.com", userSeq),
		Password:      "$2a$10$abcdefghijklmnopqrstuv",
		Role:          role,
		MobileNo:      "5551234567",
		IsVerified:    verified,
		AcceptedTerms: true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createEvent(t *testing.T, db *gorm.DB, owner *models.User, images ...models.GalleryImage) *models.Event {
	t.Helper()

	event := &models.Event{
		UserID:      owner.ID,
		EventTitle:  "Wedding package",
		BrandName:   "Moments Studio",
		Description: "Full day coverage",
		Location:    "Lahore",
		IsActive:    true,
	}
	repo := repository.NewEventRepository(db)
	require.NoError(t, repo.CreateWithRelations(event, nil, images))

	created, err := repo.GetByID(event.ID)
	require.NoError(t, err)
	return created
}

func createReview(t *testing.T, db *gorm.DB, eventID uint, user *models.User, rating int, comment string, approved bool) *models.Review {
	t.Helper()

	review := &models.Review{
		EventID:    eventID,
		UserID:     user.ID,
		Rating:     rating,
		Comment:    comment,
		IsApproved: approved,
	}
	require.NoError(t, db.Create(review).Error)
	return review
}
