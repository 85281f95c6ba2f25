package wedding

import (
	"dearday/models"
	"dearday/sections"
)

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }
func boolPtr(b bool) *bool    { return &b }

// defaultDetail is the draft row a fresh wedding starts from. Only
// presentation defaults are filled in; everything personal stays null
// until the owner edits it.
func defaultDetail(weddingID uint) *models.WeddingDetail {
	return &models.WeddingDetail{
		WeddingID: weddingID,
		Lifecycle: models.LifecycleDraft,

		MainPosterStyle:          strPtr("classic"),
		WeddingInfoNameOrderType: strPtr("groomFirst"),
		InvitationMessageTitle:   strPtr("Invitation"),
		ThemeFontName:            strPtr("serif"),
		ThemeFontSize:            intPtr(16),
		ThemeFontBackgroundColor: strPtr("#FFFFFF"),
		ThemeFontAccentColor:     strPtr("#C9A96A"),
		ThemeFontZoomPreventYn:   boolPtr(true),
		LoadingScreenStyle:       strPtr("basic"),
		GalleryTitle:             strPtr("Gallery"),
	}
}

// defaultSettings creates one visible settings row per registry
// section, ordered the way the registry enumerates them.
func defaultSettings(weddingID uint) []models.SectionSetting {
	settings := make([]models.SectionSetting, 0, len(sections.Keys))
	for i, k := range sections.Keys {
		settings = append(settings, models.SectionSetting{
			WeddingID:    weddingID,
			Lifecycle:    models.LifecycleDraft,
			SectionKey:   string(k),
			Visible:      true,
			DisplayOrder: i + 1,
		})
	}
	return settings
}
