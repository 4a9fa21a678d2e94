package handler_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/aromakopi/pos-backend/internal/models"
	"github.com/aromakopi/pos-backend/internal/router"
	"github.com/aromakopi/pos-backend/internal/testutil"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// AuthHandlerIntegrationTestSuite drives the auth routes through the full
// router against SQLite and miniredis.
type AuthHandlerIntegrationTestSuite struct {
	suite.Suite
	testDB    *testutil.TestDatabase
	testRedis *testutil.TestRedis
	router    *gin.Engine
}

// SetupSuite runs before all tests
func (s *AuthHandlerIntegrationTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)

	s.testDB = testutil.SetupTestDatabase(s.T())
	s.testRedis = testutil.SetupTestRedis(s.T())

	s.router = router.New(router.Deps{
		Config: testutil.TestConfig(),
		DB:     s.testDB.DB,
		Redis:  s.testRedis.Client,
	})
}

// TearDownSuite runs after all tests
func (s *AuthHandlerIntegrationTestSuite) TearDownSuite() {
	s.testRedis.Teardown(s.T())
	s.testDB.Teardown(s.T())
}

// SetupTest runs before each test (clean database)
func (s *AuthHandlerIntegrationTestSuite) SetupTest() {
	testutil.CleanDatabase(s.T(), s.testDB.DB)
	s.testRedis.Server.FlushAll()
}

func (s *AuthHandlerIntegrationTestSuite) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *AuthHandlerIntegrationTestSuite) TestRegisterSuccess() {
	w := s.do(testutil.JSONRequest(s.T(), http.MethodPost, "/api/auth/register", map[string]string{
		"name":     "Ana",
		"email":    "  Ana@Example.com ",
		"password": "Secret123",
	}))

	require.Equal(s.T(), http.StatusCreated, w.Code, w.Body.String())

	body := testutil.DecodeBody(s.T(), w)
	assert.Equal(s.T(), true, body["success"])
	data := body["data"].(map[string]any)
	assert.Equal(s.T(), "ana@example.com", data["email"])
	assert.Equal(s.T(), "CUSTOMER", data["role"])
	assert.EqualValues(s.T(), 10, data["loyaltyPoints"])
	assert.Regexp(s.T(), `^AK-\d{2,}$`, data["memberId"])
	assert.Equal(s.T(), "/auth/login", data["redirectUrl"])

	// Registration never signs the user in
	assert.Nil(s.T(), testutil.FindCookie(w.Result().Cookies(), "token"))

	var user models.User
	require.NoError(s.T(), s.testDB.DB.Preload("CustomerProfile").Where("email = ?", "ana@example.com").First(&user).Error)
	assert.Equal(s.T(), models.RoleCustomer, user.Role)
	assert.True(s.T(), user.IsActive)
	require.NotNil(s.T(), user.CustomerProfile)
	assert.Equal(s.T(), 10, user.CustomerProfile.LoyaltyPoints)
}

func (s *AuthHandlerIntegrationTestSuite) TestRegisterDuplicateEmail() {
	testutil.CreateCustomer(s.T(), s.testDB.DB, "Existing", "taken@example.com")

	w := s.do(testutil.JSONRequest(s.T(), http.MethodPost, "/api/auth/register", map[string]string{
		"name":     "Other",
		"email":    "TAKEN@example.com",
		"password": "Secret123",
	}))

	assert.Equal(s.T(), http.StatusConflict, w.Code)
	body := testutil.DecodeBody(s.T(), w)
	assert.Equal(s.T(), false, body["success"])
	assert.Equal(s.T(), "EMAIL_TAKEN", body["errorCode"])
}

func (s *AuthHandlerIntegrationTestSuite) TestRegisterValidation() {
	w := s.do(testutil.JSONRequest(s.T(), http.MethodPost, "/api/auth/register", map[string]string{
		"name":     "",
		"email":    "not-an-email",
		"password": "short",
	}))

	assert.Equal(s.T(), http.StatusBadRequest, w.Code)
	body := testutil.DecodeBody(s.T(), w)
	assert.Equal(s.T(), "VALIDATION_ERROR", body["errorCode"])
	assert.Len(s.T(), body["errors"], 3)
}

func (s *AuthHandlerIntegrationTestSuite) TestRegisterEmptyBody() {
	w := s.do(testutil.JSONRequest(s.T(), http.MethodPost, "/api/auth/register", nil))

	assert.Equal(s.T(), http.StatusBadRequest, w.Code)
	assert.Equal(s.T(), "VALIDATION_ERROR", testutil.DecodeBody(s.T(), w)["errorCode"])
}

func (s *AuthHandlerIntegrationTestSuite) TestRegisterConcurrentSameEmail() {
	const attempts = 5

	var wg sync.WaitGroup
	codes := make([]int, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := testutil.JSONRequest(s.T(), http.MethodPost, "/api/auth/register", map[string]string{
				"name":     fmt.Sprintf("Racer %d", i),
				"email":    "race@example.com",
				"password": "Secret123",
			})
			w := httptest.NewRecorder()
			s.router.ServeHTTP(w, req)
			codes[i] = w.Code
		}(i)
	}
	wg.Wait()

	created, conflicts := 0, 0
	for _, code := range codes {
		switch code {
		case http.StatusCreated:
			created++
		case http.StatusConflict:
			conflicts++
		}
	}
	assert.Equal(s.T(), 1, created)
	assert.Equal(s.T(), attempts-1, conflicts)

	var count int64
	s.testDB.DB.Model(&models.User{}).Where("email = ?", "race@example.com").Count(&count)
	assert.EqualValues(s.T(), 1, count)
}

func (s *AuthHandlerIntegrationTestSuite) TestLoginSuccess() {
	testutil.CreateCustomer(s.T(), s.testDB.DB, "Login", "login@example.com")

	w := s.do(testutil.JSONRequest(s.T(), http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "LOGIN@example.com",
		"password": testutil.DefaultPassword,
	}))

	require.Equal(s.T(), http.StatusOK, w.Code, w.Body.String())

	body := testutil.DecodeBody(s.T(), w)
	data := body["data"].(map[string]any)
	assert.Equal(s.T(), "/dashboard/customer", data["redirectUrl"])
	assert.Equal(s.T(), "login@example.com", data["email"])
	assert.Equal(s.T(), "CUSTOMER", data["role"])
	assert.NotContains(s.T(), w.Body.String(), "password")

	cookie := testutil.FindCookie(w.Result().Cookies(), "token")
	require.NotNil(s.T(), cookie)
	assert.NotEmpty(s.T(), cookie.Value)
	assert.True(s.T(), cookie.HttpOnly)
	assert.False(s.T(), cookie.Secure)
	assert.Equal(s.T(), http.SameSiteStrictMode, cookie.SameSite)
	assert.Equal(s.T(), 3600, cookie.MaxAge)
	assert.Equal(s.T(), "/", cookie.Path)
}

func (s *AuthHandlerIntegrationTestSuite) TestLoginWrongPassword() {
	testutil.CreateCustomer(s.T(), s.testDB.DB, "Login", "login@example.com")

	w := s.do(testutil.JSONRequest(s.T(), http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "login@example.com",
		"password": "Wrong1234",
	}))

	assert.Equal(s.T(), http.StatusUnauthorized, w.Code)
	assert.Equal(s.T(), "INVALID_CREDENTIALS", testutil.DecodeBody(s.T(), w)["errorCode"])
	assert.Nil(s.T(), testutil.FindCookie(w.Result().Cookies(), "token"))
}

func (s *AuthHandlerIntegrationTestSuite) TestLoginUnknownEmail() {
	w := s.do(testutil.JSONRequest(s.T(), http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "ghost@example.com",
		"password": "Secret123",
	}))

	assert.Equal(s.T(), http.StatusUnauthorized, w.Code)
	assert.Equal(s.T(), "INVALID_CREDENTIALS", testutil.DecodeBody(s.T(), w)["errorCode"])
}

func (s *AuthHandlerIntegrationTestSuite) TestLoginInactiveUser() {
	user := testutil.CreateCustomer(s.T(), s.testDB.DB, "Sleeping", "inactive@example.com")
	require.NoError(s.T(), s.testDB.DB.Model(&models.User{}).Where("id = ?", user.ID).Update("is_active", false).Error)

	w := s.do(testutil.JSONRequest(s.T(), http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "inactive@example.com",
		"password": testutil.DefaultPassword,
	}))

	assert.Equal(s.T(), http.StatusUnauthorized, w.Code)
	assert.Equal(s.T(), "INVALID_CREDENTIALS", testutil.DecodeBody(s.T(), w)["errorCode"])
}

func (s *AuthHandlerIntegrationTestSuite) TestLoginKasirWithoutProfile() {
	testutil.CreateUserWithoutProfile(s.T(), s.testDB.DB, "noprofile@example.com", models.RoleKasir)

	w := s.do(testutil.JSONRequest(s.T(), http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "noprofile@example.com",
		"password": testutil.DefaultPassword,
	}))

	assert.Equal(s.T(), http.StatusForbidden, w.Code)
	assert.Equal(s.T(), "INVALID_PROFILE", testutil.DecodeBody(s.T(), w)["errorCode"])
	assert.Nil(s.T(), testutil.FindCookie(w.Result().Cookies(), "token"))
}

func (s *AuthHandlerIntegrationTestSuite) TestLogoutIsIdempotent() {
	user := testutil.CreateCustomer(s.T(), s.testDB.DB, "Ana", "ana@example.com")

	withCookie := testutil.JSONRequest(s.T(), http.MethodPost, "/api/auth/logout", nil)
	withCookie.AddCookie(testutil.TokenCookie(testutil.TokenFor(s.T(), user)))

	for _, req := range []*http.Request{
		testutil.JSONRequest(s.T(), http.MethodPost, "/api/auth/logout", nil),
		withCookie,
	} {
		w := s.do(req)
		assert.Equal(s.T(), http.StatusOK, w.Code)
		assert.Equal(s.T(), true, testutil.DecodeBody(s.T(), w)["success"])

		cookie := testutil.FindCookie(w.Result().Cookies(), "token")
		require.NotNil(s.T(), cookie)
		assert.Empty(s.T(), cookie.Value)
		assert.Less(s.T(), cookie.MaxAge, 0)
	}
}

func (s *AuthHandlerIntegrationTestSuite) TestMeWithCookie() {
	user := testutil.CreateKasir(s.T(), s.testDB.DB, "Budi", "budi@example.com")

	req := testutil.JSONRequest(s.T(), http.MethodGet, "/api/auth/me", nil)
	req.AddCookie(testutil.TokenCookie(testutil.TokenFor(s.T(), user)))
	w := s.do(req)

	require.Equal(s.T(), http.StatusOK, w.Code, w.Body.String())
	data := testutil.DecodeBody(s.T(), w)["data"].(map[string]any)
	assert.Equal(s.T(), user.ID.String(), data["id"])
	assert.Equal(s.T(), "budi@example.com", data["email"])
	assert.Equal(s.T(), "KASIR", data["role"])
}

func (s *AuthHandlerIntegrationTestSuite) TestMeWithBearerHeader() {
	user := testutil.CreateAdmin(s.T(), s.testDB.DB, "Root", "root@example.com")

	req := testutil.JSONRequest(s.T(), http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+testutil.TokenFor(s.T(), user))
	w := s.do(req)

	assert.Equal(s.T(), http.StatusOK, w.Code)
}

func (s *AuthHandlerIntegrationTestSuite) TestMeWithoutToken() {
	w := s.do(testutil.JSONRequest(s.T(), http.MethodGet, "/api/auth/me", nil))

	assert.Equal(s.T(), http.StatusUnauthorized, w.Code)
	assert.Equal(s.T(), "NO_TOKEN", testutil.DecodeBody(s.T(), w)["errorCode"])
}

func (s *AuthHandlerIntegrationTestSuite) TestMeWithExpiredCookie() {
	user := testutil.CreateCustomer(s.T(), s.testDB.DB, "Ana", "ana@example.com")

	req := testutil.JSONRequest(s.T(), http.MethodGet, "/api/auth/me", nil)
	req.AddCookie(testutil.TokenCookie(testutil.ExpiredTokenFor(s.T(), user)))
	w := s.do(req)

	assert.Equal(s.T(), http.StatusUnauthorized, w.Code)
	body := testutil.DecodeBody(s.T(), w)
	assert.Equal(s.T(), false, body["success"])
	assert.Equal(s.T(), "INVALID_TOKEN", body["errorCode"])
}

func (s *AuthHandlerIntegrationTestSuite) TestMeAfterDeactivation() {
	user := testutil.CreateCustomer(s.T(), s.testDB.DB, "Ana", "ana@example.com")
	token := testutil.TokenFor(s.T(), user)
	require.NoError(s.T(), s.testDB.DB.Model(&models.User{}).Where("id = ?", user.ID).Update("is_active", false).Error)

	req := testutil.JSONRequest(s.T(), http.MethodGet, "/api/auth/me", nil)
	req.AddCookie(testutil.TokenCookie(token))
	w := s.do(req)

	assert.Equal(s.T(), http.StatusUnauthorized, w.Code)
	assert.Equal(s.T(), "INVALID_USER", testutil.DecodeBody(s.T(), w)["errorCode"])
}

func (s *AuthHandlerIntegrationTestSuite) TestCustomerOnKasirRouteIsForbidden() {
	user := testutil.CreateCustomer(s.T(), s.testDB.DB, "Ana", "ana@example.com")

	req := testutil.JSONRequest(s.T(), http.MethodGet, "/api/kasir/menu", nil)
	req.AddCookie(testutil.TokenCookie(testutil.TokenFor(s.T(), user)))
	w := s.do(req)

	assert.Equal(s.T(), http.StatusForbidden, w.Code)
	assert.Equal(s.T(), "FORBIDDEN", testutil.DecodeBody(s.T(), w)["errorCode"])
}

func (s *AuthHandlerIntegrationTestSuite) TestKasirWithoutProfileIsRejectedOnEveryRoute() {
	user := testutil.CreateUserWithoutProfile(s.T(), s.testDB.DB, "noprofile@example.com", models.RoleKasir)
	token := testutil.TokenFor(s.T(), user)

	for _, path := range []string{"/api/auth/me", "/api/kasir/menu", "/api/dashboard/kasir"} {
		req := testutil.JSONRequest(s.T(), http.MethodGet, path, nil)
		req.AddCookie(testutil.TokenCookie(token))
		w := s.do(req)

		assert.Equal(s.T(), http.StatusForbidden, w.Code, path)
		assert.Equal(s.T(), "INVALID_PROFILE", testutil.DecodeBody(s.T(), w)["errorCode"], path)
	}
}

func (s *AuthHandlerIntegrationTestSuite) TestMissingJWTSecret() {
	cfg := testutil.TestConfig()
	cfg.JWTSecret = ""
	r := router.New(router.Deps{Config: cfg, DB: s.testDB.DB})

	testutil.CreateCustomer(s.T(), s.testDB.DB, "Ana", "ana@example.com")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, testutil.JSONRequest(s.T(), http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "ana@example.com",
		"password": testutil.DefaultPassword,
	}))
	assert.Equal(s.T(), http.StatusInternalServerError, w.Code)
	assert.Equal(s.T(), "JWT_CONFIG_ERROR", testutil.DecodeBody(s.T(), w)["errorCode"])

	req := testutil.JSONRequest(s.T(), http.MethodGet, "/api/auth/me", nil)
	req.AddCookie(testutil.TokenCookie("anything"))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(s.T(), http.StatusInternalServerError, w.Code)
	assert.Equal(s.T(), "JWT_CONFIG_ERROR", testutil.DecodeBody(s.T(), w)["errorCode"])
}

func (s *AuthHandlerIntegrationTestSuite) TestAuthRoutesAreRateLimited() {
	cfg := testutil.TestConfig()
	cfg.RateLimitMaxRequests = 2
	r := router.New(router.Deps{Config: cfg, DB: s.testDB.DB, Redis: s.testRedis.Client})

	var last *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		last = httptest.NewRecorder()
		r.ServeHTTP(last, testutil.JSONRequest(s.T(), http.MethodPost, "/api/auth/logout", nil))
	}

	assert.Equal(s.T(), http.StatusTooManyRequests, last.Code)
	assert.Equal(s.T(), "TOO_MANY_REQUESTS", testutil.DecodeBody(s.T(), last)["errorCode"])
	assert.NotEmpty(s.T(), last.Header().Get("Retry-After"))
}

// TestAuthHandlerIntegration runs the test suite
func TestAuthHandlerIntegration(t *testing.T) {
	suite.Run(t, new(AuthHandlerIntegrationTestSuite))
}
