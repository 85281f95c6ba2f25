package auth

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"dearday/common"
	"dearday/models"
)

// Identity is what a login provider tells us about the person who
// just authorized us.
type Identity struct {
	ProviderUserID string
	DisplayName    string
	AccessToken    string
	RefreshToken   string
	ExpiresAt      *time.Time
}

// Provider exchanges an OAuth callback code for an identity.
type Provider interface {
	Name() string
	Exchange(code, state string) (*Identity, error)
}

// handleSocialCallback logs a user in through an external provider,
// creating the local user on first contact.
func (a *AuthModule) handleSocialCallback(c *gin.Context) {
	provider, ok := a.providers[c.Param("provider")]
	if !ok {
		common.Fail(c, common.ErrNotFound)
		return
	}
	code := c.Query("code")
	if code == "" {
		common.FailValidation(c, "code is required")
		return
	}

	identity, err := provider.Exchange(code, c.Query("state"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "provider exchange failed"})
		return
	}

	user, err := a.findOrCreateSocialUser(provider.Name(), identity)
	if err != nil {
		common.Fail(c, err)
		return
	}
	tokens, err := a.issueTokens(user.ID)
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.OK(c, "login successful", tokens)
}

func (a *AuthModule) findOrCreateSocialUser(provider string, identity *Identity) (*models.User, error) {
	var account models.SocialAccount
	err := a.db.Where("provider = ? AND provider_user_id = ?", provider, identity.ProviderUserID).
		First(&account).Error
	if err == nil {
		account.AccessToken = identity.AccessToken
		account.RefreshToken = identity.RefreshToken
		account.TokenExpiresAt = identity.ExpiresAt
		if err := a.db.Save(&account).Error; err != nil {
			return nil, err
		}
		var user models.User
		if err := a.db.First(&user, account.UserID).Error; err != nil {
			return nil, err
		}
		return &user, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	user := models.User{Username: fmt.Sprintf("%s:%s", provider, identity.ProviderUserID)}
	txErr := a.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		account = models.SocialAccount{
			UserID:         user.ID,
			Provider:       provider,
			ProviderUserID: identity.ProviderUserID,
			DisplayName:    identity.DisplayName,
			AccessToken:    identity.AccessToken,
			RefreshToken:   identity.RefreshToken,
			TokenExpiresAt: identity.ExpiresAt,
		}
		return tx.Create(&account).Error
	})
	if txErr != nil {
		if isUniqueConstraintError(txErr) {
			// concurrent first login with the same identity
			return a.findOrCreateSocialUser(provider, identity)
		}
		return nil, txErr
	}
	return &user, nil
}

// naverProvider implements the Naver OAuth2 login flow.
type naverProvider struct {
	clientID     string
	clientSecret string
	httpClient   *http.Client
	tokenURL     string
	profileURL   string
}

func newNaverProvider() *naverProvider {
	return &naverProvider{
		clientID:     os.Getenv("NAVER_CLIENT_ID"),
		clientSecret: os.Getenv("NAVER_CLIENT_SECRET"),
		httpClient:   &http.Client{Timeout: 10 * time.Second},
		tokenURL:     "https://nid.naver.com/oauth2.0/token",
		profileURL:   "https://openapi.naver.com/v1/nid/me",
	}
}

func (p *naverProvider) Name() string { return "naver" }

func (p *naverProvider) Exchange(code, state string) (*Identity, error) {
	q := url.Values{}
	q.Set("grant_type", "authorization_code")
	q.Set("client_id", p.clientID)
	q.Set("client_secret", p.clientSecret)
	q.Set("code", code)
	q.Set("state", state)

	resp, err := p.httpClient.Get(p.tokenURL + "?" + q.Encode())
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("naver token endpoint returned %d", resp.StatusCode)
	}

	var tokenResp struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		ExpiresIn    string `json:"expires_in"`
		Error        string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return nil, err
	}
	if tokenResp.Error != "" || tokenResp.AccessToken == "" {
		return nil, fmt.Errorf("naver token exchange failed: %s", tokenResp.Error)
	}

	req, err := http.NewRequest(http.MethodGet, p.profileURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+tokenResp.AccessToken)
	profResp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer profResp.Body.Close()
	if profResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("naver profile endpoint returned %d", profResp.StatusCode)
	}

	var profile struct {
		ResultCode string `json:"resultcode"`
		Response   struct {
			ID       string `json:"id"`
			Nickname string `json:"nickname"`
			Name     string `json:"name"`
		} `json:"response"`
	}
	if err := json.NewDecoder(profResp.Body).Decode(&profile); err != nil {
		return nil, err
	}
	if profile.Response.ID == "" {
		return nil, fmt.Errorf("naver profile response missing id")
	}

	name := profile.Response.Nickname
	if name == "" {
		name = profile.Response.Name
	}
	return &Identity{
		ProviderUserID: profile.Response.ID,
		DisplayName:    name,
		AccessToken:    tokenResp.AccessToken,
		RefreshToken:   tokenResp.RefreshToken,
	}, nil
}
