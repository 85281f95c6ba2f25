package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"dearday/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.SocialAccount{}, &models.RefreshToken{}))
	return db
}

func setupRouter(t *testing.T) (*AuthModule, *gin.Engine) {
	gin.SetMode(gin.TestMode)
	module := NewAuthModule(setupTestDB(t))
	router := gin.New()
	module.RegisterRoutes(router)
	return module, router
}

func postJSON(router *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	b, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

type tokenPair struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

func decodeTokens(t *testing.T, rec *httptest.ResponseRecorder) tokenPair {
	var resp struct {
		Data tokenPair `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Data.Token)
	require.NotEmpty(t, resp.Data.RefreshToken)
	return resp.Data
}

func TestRegisterThenLogin(t *testing.T) {
	_, router := setupRouter(t)

	rec := postJSON(router, "/api/v1/auth/register", gin.H{"username": "alice", "password": "secret1"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	decodeTokens(t, rec)

	rec = postJSON(router, "/api/v1/auth/login", gin.H{"username": "alice", "password": "secret1"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	decodeTokens(t, rec)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	_, router := setupRouter(t)

	rec := postJSON(router, "/api/v1/auth/register", gin.H{"username": "alice", "password": "secret1"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = postJSON(router, "/api/v1/auth/register", gin.H{"username": "alice", "password": "secret2"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegister_ShortPassword(t *testing.T) {
	_, router := setupRouter(t)
	rec := postJSON(router, "/api/v1/auth/register", gin.H{"username": "alice", "password": "abc"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogin_WrongPassword(t *testing.T) {
	_, router := setupRouter(t)
	postJSON(router, "/api/v1/auth/register", gin.H{"username": "alice", "password": "secret1"})

	rec := postJSON(router, "/api/v1/auth/login", gin.H{"username": "alice", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMe_RequiresToken(t *testing.T) {
	_, router := setupRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMe_ReturnsUserWithoutHash(t *testing.T) {
	_, router := setupRouter(t)
	reg := postJSON(router, "/api/v1/auth/register", gin.H{"username": "alice", "password": "secret1"})
	tokens := decodeTokens(t, reg)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+tokens.Token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	assert.Contains(t, rec.Body.String(), "alice")
	assert.NotContains(t, rec.Body.String(), "PasswordHash")
	assert.NotContains(t, rec.Body.String(), "passwordHash")
}

func TestRefresh_RotatesToken(t *testing.T) {
	_, router := setupRouter(t)
	reg := postJSON(router, "/api/v1/auth/register", gin.H{"username": "alice", "password": "secret1"})
	tokens := decodeTokens(t, reg)

	rec := postJSON(router, "/api/v1/auth/refresh", gin.H{"refreshToken": tokens.RefreshToken})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	fresh := decodeTokens(t, rec)
	assert.NotEqual(t, tokens.RefreshToken, fresh.RefreshToken)

	// a rotated-out refresh token is dead
	rec = postJSON(router, "/api/v1/auth/refresh", gin.H{"refreshToken": tokens.RefreshToken})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRefresh_ExpiredToken(t *testing.T) {
	module, router := setupRouter(t)
	reg := postJSON(router, "/api/v1/auth/register", gin.H{"username": "alice", "password": "secret1"})
	tokens := decodeTokens(t, reg)

	require.NoError(t, module.db.Model(&models.RefreshToken{}).
		Where("token_hash = ?", hashToken(tokens.RefreshToken)).
		Update("expires_at", time.Now().Add(-time.Hour)).Error)

	rec := postJSON(router, "/api/v1/auth/refresh", gin.H{"refreshToken": tokens.RefreshToken})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRevoke(t *testing.T) {
	_, router := setupRouter(t)
	reg := postJSON(router, "/api/v1/auth/register", gin.H{"username": "alice", "password": "secret1"})
	tokens := decodeTokens(t, reg)

	rec := postJSON(router, "/api/v1/auth/revoke", gin.H{"refreshToken": tokens.RefreshToken})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = postJSON(router, "/api/v1/auth/refresh", gin.H{"refreshToken": tokens.RefreshToken})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestFindOrCreateSocialUser(t *testing.T) {
	module := NewAuthModule(setupTestDB(t))
	identity := &Identity{ProviderUserID: "naver-123", DisplayName: "Alice", AccessToken: "at1"}

	user, err := module.findOrCreateSocialUser("naver", identity)
	require.NoError(t, err)
	assert.NotZero(t, user.ID)

	// same identity logs into the same local user
	identity.AccessToken = "at2"
	again, err := module.findOrCreateSocialUser("naver", identity)
	require.NoError(t, err)
	assert.Equal(t, user.ID, again.ID)

	var account models.SocialAccount
	require.NoError(t, module.db.Where("provider = ? AND provider_user_id = ?", "naver", "naver-123").First(&account).Error)
	assert.Equal(t, "at2", account.AccessToken, "tokens refresh on every login")

	var count int64
	module.db.Model(&models.User{}).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestFindOrCreateSocialUser_DistinctProviders(t *testing.T) {
	module := NewAuthModule(setupTestDB(t))

	a, err := module.findOrCreateSocialUser("naver", &Identity{ProviderUserID: "id-1"})
	require.NoError(t, err)
	b, err := module.findOrCreateSocialUser("kakao", &Identity{ProviderUserID: "id-1"})
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID, "the same external id under two providers is two people")
}
