package models

import "time"

// Lifecycle selects which of the two parallel universes a wedding's
// detail row, section settings and media live in. A draft is edited
// freely; the applied snapshot is only ever rewritten wholesale by an
// apply.
type Lifecycle string

const (
	LifecycleDraft   Lifecycle = "draft"
	LifecycleApplied Lifecycle = "apply"
)

type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string    `gorm:"unique;not null" json:"username"`
	PasswordHash []byte    `gorm:"not null" json:"-"` // json:"-" prevents hash from being exposed in API
	CreatedAt    time.Time `json:"-"`
}

// SocialAccount links a local user to an external login provider.
type SocialAccount struct {
	ID             uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID         uint       `gorm:"not null;index" json:"user_id"`
	Provider       string     `gorm:"not null;uniqueIndex:idx_provider_identity" json:"provider"`
	ProviderUserID string     `gorm:"not null;uniqueIndex:idx_provider_identity" json:"provider_user_id"`
	DisplayName    string     `json:"display_name"`
	AccessToken    string     `json:"-"`
	RefreshToken   string     `json:"-"`
	TokenExpiresAt *time.Time `json:"-"`
}

type RefreshToken struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	UserID    uint   `gorm:"not null;index"`
	TokenHash string `gorm:"not null;uniqueIndex"`
	ExpiresAt time.Time
	Revoked   bool `gorm:"default:false"`
}

// Wedding is the ownership row. The owner never changes after creation.
type Wedding struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"weddingId"`
	UserID    uint      `gorm:"not null;index" json:"-"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// WeddingDetail is the flattened wide row holding every section's
// fields as nullable columns. One row per (wedding, lifecycle); the
// draft row is created with the wedding, the applied row appears on
// the first apply.
type WeddingDetail struct {
	WeddingID uint      `gorm:"primaryKey"`
	Lifecycle Lifecycle `gorm:"primaryKey;size:8"`

	// main
	MainPosterStyle *string

	// shareLink
	ShareLinkTitle *string

	// weddingInfo
	WeddingInfoGroomLastName  *string
	WeddingInfoGroomFirstName *string
	WeddingInfoBrideLastName  *string
	WeddingInfoBrideFirstName *string
	WeddingInfoNameOrderType  *string
	WeddingInfoYear           *string
	WeddingInfoMonth          *string
	WeddingInfoDay            *string
	WeddingInfoTimePeriod     *string
	WeddingInfoHour           *string
	WeddingInfoMinute         *string
	WeddingInfoHallName       *string
	WeddingInfoHallFloor      *string

	// familyInfo
	FamilyInfoGroomFatherName     *string
	FamilyInfoGroomFatherDeceased *bool
	FamilyInfoGroomMotherName     *string
	FamilyInfoGroomMotherDeceased *bool
	FamilyInfoGroomRankName       *string
	FamilyInfoBrideFatherName     *string
	FamilyInfoBrideFatherDeceased *bool
	FamilyInfoBrideMotherName     *string
	FamilyInfoBrideMotherDeceased *bool
	FamilyInfoBrideRankName       *string

	// invitationMessage
	InvitationMessageTitle   *string
	InvitationMessageContent *string

	// coupleIntro
	CoupleIntroTitle        *string
	CoupleIntroGroomMessage *string
	CoupleIntroBrideMessage *string

	// parentsIntro
	ParentsIntroTitle   *string
	ParentsIntroMessage *string

	// accountInfo
	AccountInfoTitle               *string
	AccountInfoMessage             *string
	AccountInfoGroomBankName       *string
	AccountInfoGroomNumber         *string
	AccountInfoGroomHolder         *string
	AccountInfoGroomFatherBankName *string
	AccountInfoGroomFatherNumber   *string
	AccountInfoGroomFatherHolder   *string
	AccountInfoGroomMotherBankName *string
	AccountInfoGroomMotherNumber   *string
	AccountInfoGroomMotherHolder   *string
	AccountInfoBrideBankName       *string
	AccountInfoBrideNumber         *string
	AccountInfoBrideHolder         *string
	AccountInfoBrideFatherBankName *string
	AccountInfoBrideFatherNumber   *string
	AccountInfoBrideFatherHolder   *string
	AccountInfoBrideMotherBankName *string
	AccountInfoBrideMotherNumber   *string
	AccountInfoBrideMotherHolder   *string

	// locationInfo
	LocationInfoAddress           *string
	LocationInfoAddressDetail     *string
	LocationInfoGuideMessage      *string
	LocationInfoTransport1Title   *string
	LocationInfoTransport1Message *string
	LocationInfoTransport2Title   *string
	LocationInfoTransport2Message *string
	LocationInfoTransport3Title   *string
	LocationInfoTransport3Message *string
	LocationInfoTransport4Title   *string
	LocationInfoTransport4Message *string
	LocationInfoTransport5Title   *string
	LocationInfoTransport5Message *string

	// themeFont
	ThemeFontName            *string
	ThemeFontSize            *int
	ThemeFontBackgroundColor *string
	ThemeFontAccentColor     *string
	ThemeFontZoomPreventYn   *bool

	// loadingScreen
	LoadingScreenStyle *string

	// gallery
	GalleryTitle *string

	// flipbook
	FlipbookTitle   *string
	FlipbookMessage *string
}

// SectionSetting controls visibility and ordering of one section of
// one wedding under one lifecycle. Every wedding has exactly one row
// per registry key per lifecycle.
type SectionSetting struct {
	WeddingID    uint      `gorm:"primaryKey" json:"-"`
	Lifecycle    Lifecycle `gorm:"primaryKey;size:8" json:"-"`
	SectionKey   string    `gorm:"primaryKey;size:32" json:"sectionKey"`
	Visible      bool      `gorm:"not null" json:"isVisible"`
	DisplayOrder int       `gorm:"not null" json:"displayOrder"`
}

// Media is one uploaded image of a wedding under one lifecycle.
// MediaID is a per-wedding sequence, not a global id.
type Media struct {
	WeddingID     uint      `gorm:"primaryKey" json:"weddingId"`
	Lifecycle     Lifecycle `gorm:"primaryKey;size:8" json:"-"`
	MediaID       int       `gorm:"primaryKey" json:"mediaId"`
	ImageType     string    `gorm:"not null;index" json:"imageType"`
	DisplayOrder  int       `json:"displayOrder"`
	OriginalURL   string    `gorm:"not null" json:"originalUrl"`
	EditedURL     *string   `json:"editedUrl"`
	FileExtension string    `json:"fileExtension"`
	FileSize      int64     `json:"fileSize"`
	Width         int       `json:"width"`
	Height        int       `json:"height"`
}
