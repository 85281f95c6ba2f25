package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"dearday/common"
	"dearday/models"
)

const (
	accessTokenTTL  = 24 * time.Hour
	refreshTokenTTL = 30 * 24 * time.Hour
)

type AuthModule struct {
	db        *gorm.DB
	jwtSecret []byte
	providers map[string]Provider
}

func NewAuthModule(db *gorm.DB) *AuthModule {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "dev-secret-change-me"
	}
	m := &AuthModule{
		db:        db,
		jwtSecret: []byte(secret),
		providers: make(map[string]Provider),
	}
	m.RegisterProvider(newNaverProvider())
	return m
}

func (a *AuthModule) RegisterProvider(p Provider) {
	a.providers[p.Name()] = p
}

func (a *AuthModule) RegisterRoutes(router *gin.Engine) {
	g := router.Group("/api/v1/auth")
	g.POST("/register", a.handleRegister)
	g.POST("/login", a.handleLogin)
	g.POST("/refresh", a.handleRefresh)
	g.POST("/revoke", a.handleRevoke)
	g.GET("/:provider/callback", a.handleSocialCallback)
	g.GET("/me", a.RequireAuth, a.handleMe)
}

// RequireAuth validates the bearer token and stores the caller's user
// id in the context.
func (a *AuthModule) RequireAuth(c *gin.Context) {
	header := c.GetHeader("Authorization")
	tokenString, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || tokenString == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
		return
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrInvalidKeyType
		}
		return a.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}
	sub, ok := claims["sub"].(float64)
	if !ok || sub <= 0 {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	c.Set("userID", uint(sub))
	c.Next()
}

func (a *AuthModule) registerUser(username, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, common.ErrValidation
	}
	if len(password) < 6 {
		return nil, common.ErrValidation
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := models.User{Username: username, PasswordHash: hash}
	if err := a.db.Create(&user).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, common.ErrValidation
		}
		return nil, err
	}
	return &user, nil
}

func (a *AuthModule) authenticate(username, password string) (*models.User, error) {
	var user models.User
	if err := a.db.Where("username = ?", strings.TrimSpace(username)).First(&user).Error; err != nil {
		return nil, common.ErrNotFound
	}
	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return nil, common.ErrNotFound
	}
	return &user, nil
}

func (a *AuthModule) newAccessToken(userID uint) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": float64(userID),
		"exp": time.Now().Add(accessTokenTTL).Unix(),
	})
	return token.SignedString(a.jwtSecret)
}

// newRefreshToken generates a random refresh token, stores its hash
// with an expiry and returns the raw token string. Only the hash ever
// touches the database.
func (a *AuthModule) newRefreshToken(userID uint) (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	token := hex.EncodeToString(b)
	rt := models.RefreshToken{
		UserID:    userID,
		TokenHash: hashToken(token),
		ExpiresAt: time.Now().Add(refreshTokenTTL),
	}
	if err := a.db.Create(&rt).Error; err != nil {
		return "", err
	}
	return token, nil
}

func (a *AuthModule) findRefreshToken(raw string) (*models.RefreshToken, error) {
	var rt models.RefreshToken
	if err := a.db.Where("token_hash = ?", hashToken(raw)).First(&rt).Error; err != nil {
		return nil, err
	}
	return &rt, nil
}

// issueTokens builds the token pair a successful login or refresh
// returns.
func (a *AuthModule) issueTokens(userID uint) (gin.H, error) {
	access, err := a.newAccessToken(userID)
	if err != nil {
		return nil, err
	}
	refresh, err := a.newRefreshToken(userID)
	if err != nil {
		return nil, err
	}
	return gin.H{"token": access, "refreshToken": refresh}, nil
}

func (a *AuthModule) handleRegister(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.FailValidation(c, "username and password are required")
		return
	}
	user, err := a.registerUser(req.Username, req.Password)
	if err == common.ErrValidation {
		common.FailValidation(c, "invalid username or password, or user already exists")
		return
	}
	if err != nil {
		common.Fail(c, err)
		return
	}
	tokens, err := a.issueTokens(user.ID)
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.Created(c, "registered", tokens)
}

func (a *AuthModule) handleLogin(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.FailValidation(c, "username and password are required")
		return
	}
	user, err := a.authenticate(req.Username, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}
	tokens, err := a.issueTokens(user.ID)
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.OK(c, "login successful", tokens)
}

// handleRefresh exchanges a refresh token for a fresh pair and
// revokes the old one.
func (a *AuthModule) handleRefresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refreshToken" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.FailValidation(c, "refreshToken is required")
		return
	}
	rt, err := a.findRefreshToken(req.RefreshToken)
	if err != nil || rt.Revoked || time.Now().After(rt.ExpiresAt) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired refresh token"})
		return
	}
	if err := a.db.Model(&models.RefreshToken{}).Where("id = ?", rt.ID).Update("revoked", true).Error; err != nil {
		common.Fail(c, err)
		return
	}
	tokens, err := a.issueTokens(rt.UserID)
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.OK(c, "token refreshed", tokens)
}

func (a *AuthModule) handleRevoke(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refreshToken" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.FailValidation(c, "refreshToken is required")
		return
	}
	rt, err := a.findRefreshToken(req.RefreshToken)
	if err != nil {
		common.Fail(c, common.ErrNotFound)
		return
	}
	if err := a.db.Model(&models.RefreshToken{}).Where("id = ?", rt.ID).Update("revoked", true).Error; err != nil {
		common.Fail(c, err)
		return
	}
	common.OK(c, "refresh token revoked", nil)
}

func (a *AuthModule) handleMe(c *gin.Context) {
	var user models.User
	if err := a.db.First(&user, c.GetUint("userID")).Error; err != nil {
		common.Fail(c, common.ErrNotFound)
		return
	}
	common.OK(c, "", user)
}

func hashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return hex.EncodeToString(h[:])
}

func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	s := err.Error()
	return strings.Contains(s, "duplicate key") || strings.Contains(s, "UNIQUE constraint") || strings.Contains(s, "unique constraint")
}
