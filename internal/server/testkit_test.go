package server

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"trailhaven/internal/config"
	"trailhaven/internal/imagehost"
	"trailhaven/internal/middleware"
	"trailhaven/internal/models"
	"trailhaven/internal/repository"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/gofiber/template/html/v2"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// MockUserRepository is a mock of the UserRepository interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockCampgroundRepository is a mock of the CampgroundRepository interface
type MockCampgroundRepository struct {
	mock.Mock
}

func (m *MockCampgroundRepository) List(ctx context.Context) ([]models.Campground, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Campground), args.Error(1)
}

func (m *MockCampgroundRepository) ListSorted(ctx context.Context, sort repository.CampgroundSort) ([]models.Campground, error) {
	args := m.Called(ctx, sort)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Campground), args.Error(1)
}

func (m *MockCampgroundRepository) ListByAuthor(ctx context.Context, authorID uint) ([]models.Campground, error) {
	args := m.Called(ctx, authorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Campground), args.Error(1)
}

func (m *MockCampgroundRepository) GetByID(ctx context.Context, id uint) (*models.Campground, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Campground), args.Error(1)
}

func (m *MockCampgroundRepository) GetWithComments(ctx context.Context, id uint) (*models.Campground, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Campground), args.Error(1)
}

func (m *MockCampgroundRepository) Create(ctx context.Context, campground *models.Campground) error {
	args := m.Called(ctx, campground)
	return args.Error(0)
}

func (m *MockCampgroundRepository) Update(ctx context.Context, campground *models.Campground) error {
	args := m.Called(ctx, campground)
	return args.Error(0)
}

func (m *MockCampgroundRepository) UpdateRating(ctx context.Context, id uint, rateAvg float64, rateCount int) error {
	args := m.Called(ctx, id, rateAvg, rateCount)
	return args.Error(0)
}

func (m *MockCampgroundRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockCommentRepository is a mock of the CommentRepository interface
type MockCommentRepository struct {
	mock.Mock
}

func (m *MockCommentRepository) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Comment), args.Error(1)
}

func (m *MockCommentRepository) ListByAuthor(ctx context.Context, authorID uint) ([]models.Comment, error) {
	args := m.Called(ctx, authorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Comment), args.Error(1)
}

func (m *MockCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

func (m *MockCommentRepository) Update(ctx context.Context, comment *models.Comment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

func (m *MockCommentRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// fakeGeocoder returns canned coordinates or a canned error.
type fakeGeocoder struct {
	lat, lng float64
	err      error
}

func (f *fakeGeocoder) Geocode(ctx context.Context, address string) (float64, float64, error) {
	if f.err != nil {
		return 0, 0, f.err
	}
	return f.lat, f.lng, nil
}

// fakeImageHost records destroy calls and counts uploads.
type fakeImageHost struct {
	uploadErr  error
	destroyErr error
	uploads    int
	destroyed  []string
}

func (f *fakeImageHost) Upload(ctx context.Context, r io.Reader, filename string, preset imagehost.Preset) (*imagehost.Upload, error) {
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	f.uploads++
	return &imagehost.Upload{URL: "https://img.test/photo.jpg", PublicID: "photo123"}, nil
}

func (f *fakeImageHost) Destroy(ctx context.Context, publicID string) error {
	if f.destroyErr != nil {
		return f.destroyErr
	}
	f.destroyed = append(f.destroyed, publicID)
	return nil
}

type testMocks struct {
	users       *MockUserRepository
	campgrounds *MockCampgroundRepository
	comments    *MockCommentRepository
	geocoder    *fakeGeocoder
	images      *fakeImageHost
}

// newTestServer wires a Server around mocks and the real view templates.
func newTestServer(t *testing.T) (*fiber.App, *testMocks) {
	t.Helper()
	t.Setenv("APP_ENV", "test")

	m := &testMocks{
		users:       new(MockUserRepository),
		campgrounds: new(MockCampgroundRepository),
		comments:    new(MockCommentRepository),
		geocoder:    &fakeGeocoder{lat: 38.21, lng: -111.17},
		images:      &fakeImageHost{},
	}

	s := &Server{
		config:         &config.Config{Env: "test"},
		userRepo:       m.users,
		campgroundRepo: m.campgrounds,
		commentRepo:    m.comments,
		geocoder:       m.geocoder,
		images:         m.images,
		sessions: session.New(session.Config{
			Expiration: time.Hour,
			KeyLookup:  "cookie:" + sessionCookieName,
		}),
	}

	engine := html.New("../../views", ".html")
	app := fiber.New(fiber.Config{
		Views:       engine,
		ViewsLayout: "layouts/main",
	})
	app.Use(middleware.MethodOverride())
	app.Use(s.SessionLoader())
	s.SetupRoutes(app)

	return app, m
}

func formRequest(method, target string, form url.Values) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

// loginAs performs a real login round-trip and returns the session cookie.
func loginAs(t *testing.T, app *fiber.App, m *testMocks, user models.User) *http.Cookie {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	stored := user
	stored.Password = string(hash)

	m.users.On("GetByUsername", mock.Anything, user.Username).
		Return(&stored, nil).Once()

	resp, err := app.Test(formRequest(http.MethodPost, "/login", url.Values{
		"username": {user.Username},
		"password": {"password123"},
	}))
	require.NoError(t, err)
	require.Equal(t, http.StatusFound, resp.StatusCode)

	for _, ck := range resp.Cookies() {
		if ck.Name == sessionCookieName {
			return ck
		}
	}
	t.Fatal("login did not set a session cookie")
	return nil
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}
