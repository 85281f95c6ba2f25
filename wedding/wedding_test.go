package wedding

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"dearday/common"
	"dearday/media"
	"dearday/models"
	"dearday/sections"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Wedding{},
		&models.WeddingDetail{},
		&models.SectionSetting{},
		&models.Media{},
	))
	return db
}

func setupModules(t *testing.T) (*WeddingModule, *media.MediaModule, *gorm.DB) {
	db := setupTestDB(t)
	mediaModule := media.NewMediaModule(db, t.TempDir())
	return NewWeddingModule(db, mediaModule), mediaModule, db
}

func pngBytes(t *testing.T, w, h int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 64, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

const ownerID uint = 1

func TestCreateDraft_CompleteSettings(t *testing.T) {
	w, _, _ := setupModules(t)

	snap, err := w.CreateDraft(ownerID, "Our Wedding")
	require.NoError(t, err)

	assert.Equal(t, "Our Wedding", snap.Title)
	require.Len(t, snap.SectionSettings, len(sections.Keys))

	seen := make(map[string]models.SectionSetting)
	for _, s := range snap.SectionSettings {
		seen[s.SectionKey] = s
	}
	for i, k := range sections.Keys {
		s, ok := seen[string(k)]
		require.True(t, ok, "missing settings row for %q", k)
		assert.True(t, s.Visible)
		assert.Equal(t, i+1, s.DisplayOrder)
	}

	// draft sections object carries every registry key
	assert.Len(t, snap.Sections, len(sections.Keys))
}

func TestGetSnapshot_WrongOwnerIsNotFound(t *testing.T) {
	w, _, _ := setupModules(t)
	snap, err := w.CreateDraft(ownerID, "mine")
	require.NoError(t, err)

	_, err = w.GetSnapshot(2, snap.WeddingID, models.LifecycleDraft)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestGetSnapshot_AppliedBeforeApply(t *testing.T) {
	w, _, _ := setupModules(t)
	snap, err := w.CreateDraft(ownerID, "mine")
	require.NoError(t, err)

	_, err = w.GetSnapshot(ownerID, snap.WeddingID, models.LifecycleApplied)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestPatchSection_RoundTrip(t *testing.T) {
	w, _, _ := setupModules(t)
	snap, err := w.CreateDraft(ownerID, "mine")
	require.NoError(t, err)

	raw := json.RawMessage(`{"title": "Invitation", "message": "Please come."}`)
	sec, err := w.PatchSection(ownerID, snap.WeddingID, "invitationMessage", raw)
	require.NoError(t, err)

	msg, ok := sec.(*sections.InvitationMessage)
	require.True(t, ok)
	require.NotNil(t, msg.Message)
	assert.Equal(t, "Please come.", *msg.Message)

	reloaded, err := w.GetSnapshot(ownerID, snap.WeddingID, models.LifecycleDraft)
	require.NoError(t, err)
	stored := reloaded.Sections[sections.KeyInvitationMessage].(*sections.InvitationMessage)
	require.NotNil(t, stored.Message)
	assert.Equal(t, "Please come.", *stored.Message)
}

func TestPatchSection_ClearsOmittedFields(t *testing.T) {
	w, _, _ := setupModules(t)
	snap, err := w.CreateDraft(ownerID, "mine")
	require.NoError(t, err)

	_, err = w.PatchSection(ownerID, snap.WeddingID, "flipbook", json.RawMessage(`{"title": "Book", "message": "text"}`))
	require.NoError(t, err)
	_, err = w.PatchSection(ownerID, snap.WeddingID, "flipbook", json.RawMessage(`{"title": "Book"}`))
	require.NoError(t, err)

	reloaded, err := w.GetSnapshot(ownerID, snap.WeddingID, models.LifecycleDraft)
	require.NoError(t, err)
	book := reloaded.Sections[sections.KeyFlipbook].(*sections.Flipbook)
	require.NotNil(t, book.Title)
	assert.Nil(t, book.Message, "field omitted in a patch must be cleared")
}

func TestPatchSection_LeavesOtherSectionsAlone(t *testing.T) {
	w, _, _ := setupModules(t)
	snap, err := w.CreateDraft(ownerID, "mine")
	require.NoError(t, err)

	_, err = w.PatchSection(ownerID, snap.WeddingID, "gallery", json.RawMessage(`{"title": "Moments"}`))
	require.NoError(t, err)
	_, err = w.PatchSection(ownerID, snap.WeddingID, "flipbook", json.RawMessage(`{"title": "Book"}`))
	require.NoError(t, err)

	reloaded, err := w.GetSnapshot(ownerID, snap.WeddingID, models.LifecycleDraft)
	require.NoError(t, err)
	gallery := reloaded.Sections[sections.KeyGallery].(*sections.Gallery)
	require.NotNil(t, gallery.Title)
	assert.Equal(t, "Moments", *gallery.Title)
}

func TestPatchSection_UnknownKey(t *testing.T) {
	w, _, _ := setupModules(t)
	snap, err := w.CreateDraft(ownerID, "mine")
	require.NoError(t, err)

	_, err = w.PatchSection(ownerID, snap.WeddingID, "banquetHall", json.RawMessage(`{}`))
	assert.ErrorIs(t, err, common.ErrInvalidSection)
}

func TestReplaceDraft_ResetsOmittedSections(t *testing.T) {
	w, _, _ := setupModules(t)
	snap, err := w.CreateDraft(ownerID, "mine")
	require.NoError(t, err)

	_, err = w.PatchSection(ownerID, snap.WeddingID, "gallery", json.RawMessage(`{"title": "Moments"}`))
	require.NoError(t, err)

	var set sections.Set
	require.NoError(t, json.Unmarshal([]byte(`{"flipbook": {"title": "Book"}}`), &set))
	replaced, err := w.ReplaceDraft(ownerID, snap.WeddingID, set, nil)
	require.NoError(t, err)

	book := replaced.Sections[sections.KeyFlipbook].(*sections.Flipbook)
	require.NotNil(t, book.Title)
	assert.Equal(t, "Book", *book.Title)

	gallery := replaced.Sections[sections.KeyGallery].(*sections.Gallery)
	assert.Nil(t, gallery.Title, "sections omitted from a full replace must be reset")
}

func TestReplaceDraft_AppliesSettingsInSameCall(t *testing.T) {
	w, _, _ := setupModules(t)
	snap, err := w.CreateDraft(ownerID, "mine")
	require.NoError(t, err)

	var set sections.Set
	require.NoError(t, json.Unmarshal([]byte(`{"gallery": {"title": "Moments"}}`), &set))
	hidden := false
	replaced, err := w.ReplaceDraft(ownerID, snap.WeddingID, set, []SettingUpdate{
		{SectionKey: "gallery", Visible: &hidden},
	})
	require.NoError(t, err)

	for _, s := range replaced.SectionSettings {
		if s.SectionKey == "gallery" {
			assert.False(t, s.Visible)
		}
	}
}

func TestReplaceDraft_BadSettingsKeyChangesNothing(t *testing.T) {
	w, _, _ := setupModules(t)
	snap, err := w.CreateDraft(ownerID, "mine")
	require.NoError(t, err)

	var set sections.Set
	require.NoError(t, json.Unmarshal([]byte(`{"gallery": {"title": "Moments"}}`), &set))
	hidden := false
	_, err = w.ReplaceDraft(ownerID, snap.WeddingID, set, []SettingUpdate{
		{SectionKey: "banquetHall", Visible: &hidden},
	})
	assert.ErrorIs(t, err, common.ErrInvalidSection)

	reloaded, err := w.GetSnapshot(ownerID, snap.WeddingID, models.LifecycleDraft)
	require.NoError(t, err)
	gallery := reloaded.Sections[sections.KeyGallery].(*sections.Gallery)
	assert.Nil(t, gallery.Title, "nothing is written when settings validation fails")
}

func TestUpdateSettings_AppliesBatch(t *testing.T) {
	w, _, _ := setupModules(t)
	snap, err := w.CreateDraft(ownerID, "mine")
	require.NoError(t, err)

	hidden := false
	order := 99
	settings, err := w.UpdateSettings(ownerID, snap.WeddingID, []SettingUpdate{
		{SectionKey: "gallery", Visible: &hidden},
		{SectionKey: "flipbook", DisplayOrder: &order},
	})
	require.NoError(t, err)

	byKey := make(map[string]models.SectionSetting)
	for _, s := range settings {
		byKey[s.SectionKey] = s
	}
	assert.False(t, byKey["gallery"].Visible)
	assert.Equal(t, 99, byKey["flipbook"].DisplayOrder)
	assert.True(t, byKey["main"].Visible, "untouched settings stay as they were")
}

func TestUpdateSettings_BadKeyRejectsWholeBatch(t *testing.T) {
	w, _, db := setupModules(t)
	snap, err := w.CreateDraft(ownerID, "mine")
	require.NoError(t, err)

	hidden := false
	_, err = w.UpdateSettings(ownerID, snap.WeddingID, []SettingUpdate{
		{SectionKey: "gallery", Visible: &hidden},
		{SectionKey: "banquetHall", Visible: &hidden},
	})
	assert.ErrorIs(t, err, common.ErrInvalidSection)

	var s models.SectionSetting
	require.NoError(t, db.Where("wedding_id = ? AND lifecycle = ? AND section_key = ?",
		snap.WeddingID, models.LifecycleDraft, "gallery").First(&s).Error)
	assert.True(t, s.Visible, "a batch with an invalid key must change nothing")
}

func TestUpdateTitle(t *testing.T) {
	w, _, _ := setupModules(t)
	snap, err := w.CreateDraft(ownerID, "before")
	require.NoError(t, err)

	require.NoError(t, w.UpdateTitle(ownerID, snap.WeddingID, "after"))

	reloaded, err := w.GetSnapshot(ownerID, snap.WeddingID, models.LifecycleDraft)
	require.NoError(t, err)
	assert.Equal(t, "after", reloaded.Title)
}

func TestDelete_CascadesRowsAndFiles(t *testing.T) {
	w, mediaModule, db := setupModules(t)
	snap, err := w.CreateDraft(ownerID, "mine")
	require.NoError(t, err)

	rec, err := mediaModule.Add(snap.WeddingID, models.LifecycleDraft, "gallery", 1, "a.png", pngBytes(t, 4, 4))
	require.NoError(t, err)

	require.NoError(t, w.Delete(ownerID, snap.WeddingID))
	assert.NoFileExists(t, rec.OriginalURL)

	var count int64
	db.Model(&models.Wedding{}).Where("id = ?", snap.WeddingID).Count(&count)
	assert.Zero(t, count)
	db.Model(&models.WeddingDetail{}).Where("wedding_id = ?", snap.WeddingID).Count(&count)
	assert.Zero(t, count)
	db.Model(&models.SectionSetting{}).Where("wedding_id = ?", snap.WeddingID).Count(&count)
	assert.Zero(t, count)
	db.Model(&models.Media{}).Where("wedding_id = ?", snap.WeddingID).Count(&count)
	assert.Zero(t, count)
}

func TestList_MainImagePrefersEdited(t *testing.T) {
	w, mediaModule, _ := setupModules(t)
	snap, err := w.CreateDraft(ownerID, "mine")
	require.NoError(t, err)

	rec, err := mediaModule.Add(snap.WeddingID, models.LifecycleDraft, "mainImage", 1, "a.png", pngBytes(t, 4, 4))
	require.NoError(t, err)

	items, err := w.List(ownerID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.NotNil(t, items[0].MainImage)
	assert.Equal(t, rec.OriginalURL, *items[0].MainImage)

	replaced, err := mediaModule.ReplaceFile(snap.WeddingID, models.LifecycleDraft, rec.MediaID, pngBytes(t, 4, 4))
	require.NoError(t, err)

	items, err = w.List(ownerID)
	require.NoError(t, err)
	require.NotNil(t, items[0].MainImage)
	assert.Equal(t, *replaced.EditedURL, *items[0].MainImage)
}

func TestList_OnlyOwnWeddings(t *testing.T) {
	w, _, _ := setupModules(t)
	_, err := w.CreateDraft(ownerID, "mine")
	require.NoError(t, err)
	_, err = w.CreateDraft(2, "theirs")
	require.NoError(t, err)

	items, err := w.List(ownerID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "mine", items[0].Title)
}
