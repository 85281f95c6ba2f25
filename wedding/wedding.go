package wedding

import (
	"encoding/json"
	"fmt"
	"log"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"dearday/cache"
	"dearday/common"
	"dearday/media"
	"dearday/models"
	"dearday/sections"
)

type WeddingModule struct {
	db    *gorm.DB
	media *media.MediaModule
}

func NewWeddingModule(db *gorm.DB, mediaModule *media.MediaModule) *WeddingModule {
	return &WeddingModule{
		db:    db,
		media: mediaModule,
	}
}

// RegisterRoutes mounts the wedding endpoints on an authenticated
// group.
func (w *WeddingModule) RegisterRoutes(api *gin.RouterGroup) {
	g := api.Group("/weddings")
	g.POST("", w.handleCreate)
	g.GET("", w.handleList)
	g.GET("/:id/edit", w.handleGetDraft)
	g.GET("/:id", w.handleGetApplied)
	g.PUT("/:id", w.handleReplaceDraft)
	g.PATCH("/:id/title", w.handleUpdateTitle)
	g.PATCH("/:id/sections/settings", w.handleUpdateSettings)
	g.PATCH("/:id/sections/:sectionId", w.handlePatchSection)
	g.DELETE("/:id", w.handleDelete)
	g.POST("/:id/apply", w.handleApply)
}

// Snapshot is the full editable state of one wedding under one
// lifecycle.
type Snapshot struct {
	WeddingID       uint                    `json:"weddingId"`
	Title           string                  `json:"title"`
	Sections        sections.Set            `json:"sections"`
	SectionSettings []models.SectionSetting `json:"sectionSettings"`
}

// ListItem is one row of the owner's wedding overview.
type ListItem struct {
	WeddingID uint    `json:"weddingId"`
	Title     string  `json:"title"`
	MainImage *string `json:"mainImage"`
}

func (w *WeddingModule) ownedWedding(userID uint, weddingID uint) (*models.Wedding, error) {
	var wedding models.Wedding
	err := w.db.Where("id = ? AND user_id = ?", weddingID, userID).First(&wedding).Error
	if err == gorm.ErrRecordNotFound {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: load wedding: %v", common.ErrStorage, err)
	}
	return &wedding, nil
}

// CreateDraft creates a wedding together with its draft detail row
// and one settings row per registry section, all in one transaction.
// A wedding without a complete settings set never exists.
func (w *WeddingModule) CreateDraft(userID uint, title string) (*Snapshot, error) {
	wedding := models.Wedding{
		UserID: userID,
		Title:  title,
	}
	err := w.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&wedding).Error; err != nil {
			return err
		}
		detail := defaultDetail(wedding.ID)
		if err := tx.Create(detail).Error; err != nil {
			return err
		}
		return tx.Create(defaultSettings(wedding.ID)).Error
	})
	if err != nil {
		return nil, fmt.Errorf("%w: create wedding: %v", common.ErrStorage, err)
	}
	return w.snapshot(wedding.ID, wedding.Title, models.LifecycleDraft)
}

// GetSnapshot loads one lifecycle's state of an owned wedding. The
// applied snapshot only exists after the first apply.
func (w *WeddingModule) GetSnapshot(userID uint, weddingID uint, lc models.Lifecycle) (*Snapshot, error) {
	wedding, err := w.ownedWedding(userID, weddingID)
	if err != nil {
		return nil, err
	}
	return w.snapshot(wedding.ID, wedding.Title, lc)
}

func (w *WeddingModule) snapshot(weddingID uint, title string, lc models.Lifecycle) (*Snapshot, error) {
	var detail models.WeddingDetail
	err := w.db.Where("wedding_id = ? AND lifecycle = ?", weddingID, lc).First(&detail).Error
	if err == gorm.ErrRecordNotFound {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: load detail: %v", common.ErrStorage, err)
	}

	var settings []models.SectionSetting
	err = w.db.Where("wedding_id = ? AND lifecycle = ?", weddingID, lc).
		Order("display_order asc, section_key asc").
		Find(&settings).Error
	if err != nil {
		return nil, fmt.Errorf("%w: load settings: %v", common.ErrStorage, err)
	}

	return &Snapshot{
		WeddingID:       weddingID,
		Title:           title,
		Sections:        sections.FromRow(&detail),
		SectionSettings: settings,
	}, nil
}

// ReplaceDraft overwrites the whole draft detail row and applies any
// section-setting tuples sent along with it, all in one transaction.
// Sections absent from the payload are reset to empty, so the stored
// draft always equals exactly what was sent. A single invalid
// settings key rejects the entire call.
func (w *WeddingModule) ReplaceDraft(userID uint, weddingID uint, set sections.Set, settings []SettingUpdate) (*Snapshot, error) {
	wedding, err := w.ownedWedding(userID, weddingID)
	if err != nil {
		return nil, err
	}
	for _, u := range settings {
		if !sections.Valid(u.SectionKey) {
			return nil, fmt.Errorf("%w: %q", common.ErrInvalidSection, u.SectionKey)
		}
	}

	cols := make(map[string]interface{})
	for _, k := range sections.Keys {
		sec, ok := set[k]
		if !ok {
			sec, _ = sections.Decode(string(k), json.RawMessage("{}"))
		}
		for col, v := range sec.Columns() {
			cols[col] = v
		}
	}
	err = w.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.WeddingDetail{}).
			Where("wedding_id = ? AND lifecycle = ?", weddingID, models.LifecycleDraft).
			Updates(cols).Error; err != nil {
			return err
		}
		return applySettingUpdates(tx, weddingID, settings)
	})
	if err == common.ErrNotFound {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("%w: replace draft: %v", common.ErrStorage, err)
	}
	return w.snapshot(wedding.ID, wedding.Title, models.LifecycleDraft)
}

func applySettingUpdates(tx *gorm.DB, weddingID uint, updates []SettingUpdate) error {
	for _, u := range updates {
		cols := make(map[string]interface{})
		if u.Visible != nil {
			cols["visible"] = *u.Visible
		}
		if u.DisplayOrder != nil {
			cols["display_order"] = *u.DisplayOrder
		}
		if len(cols) == 0 {
			continue
		}
		res := tx.Model(&models.SectionSetting{}).
			Where("wedding_id = ? AND lifecycle = ? AND section_key = ?", weddingID, models.LifecycleDraft, u.SectionKey).
			Updates(cols)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return common.ErrNotFound
		}
	}
	return nil
}

// PatchSection overwrites one section of the draft and leaves the
// rest untouched. Fields omitted from the payload become null within
// that section.
func (w *WeddingModule) PatchSection(userID uint, weddingID uint, key string, raw json.RawMessage) (sections.Section, error) {
	if _, err := w.ownedWedding(userID, weddingID); err != nil {
		return nil, err
	}
	sec, err := sections.Decode(key, raw)
	if err != nil {
		return nil, err
	}
	err = w.db.Model(&models.WeddingDetail{}).
		Where("wedding_id = ? AND lifecycle = ?", weddingID, models.LifecycleDraft).
		Updates(sec.Columns()).Error
	if err != nil {
		return nil, fmt.Errorf("%w: patch section: %v", common.ErrStorage, err)
	}

	var detail models.WeddingDetail
	err = w.db.Where("wedding_id = ? AND lifecycle = ?", weddingID, models.LifecycleDraft).First(&detail).Error
	if err != nil {
		return nil, fmt.Errorf("%w: reload detail: %v", common.ErrStorage, err)
	}
	return sections.ForKey(sections.Key(key), &detail), nil
}

// SettingUpdate is one entry of a settings batch.
type SettingUpdate struct {
	SectionKey   string `json:"sectionKey" binding:"required"`
	Visible      *bool  `json:"isVisible"`
	DisplayOrder *int   `json:"displayOrder"`
}

// UpdateSettings applies a batch of visibility/order changes to the
// draft. Every key is validated before anything is written; one bad
// key rejects the whole batch.
func (w *WeddingModule) UpdateSettings(userID uint, weddingID uint, updates []SettingUpdate) ([]models.SectionSetting, error) {
	if _, err := w.ownedWedding(userID, weddingID); err != nil {
		return nil, err
	}
	for _, u := range updates {
		if !sections.Valid(u.SectionKey) {
			return nil, fmt.Errorf("%w: %q", common.ErrInvalidSection, u.SectionKey)
		}
	}

	err := w.db.Transaction(func(tx *gorm.DB) error {
		return applySettingUpdates(tx, weddingID, updates)
	})
	if err == common.ErrNotFound {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("%w: update settings: %v", common.ErrStorage, err)
	}

	var settings []models.SectionSetting
	err = w.db.Where("wedding_id = ? AND lifecycle = ?", weddingID, models.LifecycleDraft).
		Order("display_order asc, section_key asc").
		Find(&settings).Error
	if err != nil {
		return nil, fmt.Errorf("%w: load settings: %v", common.ErrStorage, err)
	}
	return settings, nil
}

// UpdateTitle renames a wedding. The title lives on the wedding row
// itself and is shared by draft and applied views.
func (w *WeddingModule) UpdateTitle(userID uint, weddingID uint, title string) error {
	if _, err := w.ownedWedding(userID, weddingID); err != nil {
		return err
	}
	err := w.db.Model(&models.Wedding{}).Where("id = ?", weddingID).Update("title", title).Error
	if err != nil {
		return fmt.Errorf("%w: update title: %v", common.ErrStorage, err)
	}
	return nil
}

// Delete removes the wedding and everything hanging off it. Rows go
// in one transaction; files and cached pages are cleaned up after,
// best-effort.
func (w *WeddingModule) Delete(userID uint, weddingID uint) error {
	if _, err := w.ownedWedding(userID, weddingID); err != nil {
		return err
	}
	err := w.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.Media{}, "wedding_id = ?", weddingID).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.SectionSetting{}, "wedding_id = ?", weddingID).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.WeddingDetail{}, "wedding_id = ?", weddingID).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Wedding{}, "id = ?", weddingID).Error
	})
	if err != nil {
		return fmt.Errorf("%w: delete wedding: %v", common.ErrStorage, err)
	}

	w.media.RemoveAllFiles(weddingID)
	if err := cache.ClearInvite(weddingID); err != nil {
		log.Printf("failed to clear invite cache for wedding %d: %v", weddingID, err)
	}
	return nil
}

// List returns the owner's weddings with the first main image of the
// draft, preferring the edited version when one exists.
func (w *WeddingModule) List(userID uint) ([]ListItem, error) {
	var weddings []models.Wedding
	err := w.db.Where("user_id = ?", userID).Order("id asc").Find(&weddings).Error
	if err != nil {
		return nil, fmt.Errorf("%w: list weddings: %v", common.ErrStorage, err)
	}

	items := make([]ListItem, 0, len(weddings))
	ids := make([]uint, 0, len(weddings))
	for _, wd := range weddings {
		ids = append(ids, wd.ID)
	}

	mains := make(map[uint]models.Media)
	if len(ids) > 0 {
		var mediaRows []models.Media
		err = w.db.Where("wedding_id IN ? AND lifecycle = ? AND image_type = ?", ids, models.LifecycleDraft, "mainImage").
			Order("display_order asc, media_id asc").
			Find(&mediaRows).Error
		if err != nil {
			return nil, fmt.Errorf("%w: list main images: %v", common.ErrStorage, err)
		}
		for _, rec := range mediaRows {
			if _, seen := mains[rec.WeddingID]; !seen {
				mains[rec.WeddingID] = rec
			}
		}
	}

	for _, wd := range weddings {
		item := ListItem{WeddingID: wd.ID, Title: wd.Title}
		if rec, ok := mains[wd.ID]; ok {
			url := rec.OriginalURL
			if rec.EditedURL != nil {
				url = *rec.EditedURL
			}
			item.MainImage = &url
		}
		items = append(items, item)
	}
	return items, nil
}

// handlers

func (w *WeddingModule) weddingParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		common.Fail(c, common.ErrNotFound)
		return 0, false
	}
	return uint(id), true
}

func (w *WeddingModule) handleCreate(c *gin.Context) {
	var body struct {
		Title string `json:"title"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		common.FailValidation(c, "invalid body")
		return
	}
	snap, err := w.CreateDraft(c.GetUint("userID"), body.Title)
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.Created(c, "wedding created", snap)
}

func (w *WeddingModule) handleList(c *gin.Context) {
	items, err := w.List(c.GetUint("userID"))
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.OK(c, "weddings listed", items)
}

func (w *WeddingModule) handleGetDraft(c *gin.Context) {
	id, ok := w.weddingParam(c)
	if !ok {
		return
	}
	snap, err := w.GetSnapshot(c.GetUint("userID"), id, models.LifecycleDraft)
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.OK(c, "", snap)
}

func (w *WeddingModule) handleGetApplied(c *gin.Context) {
	id, ok := w.weddingParam(c)
	if !ok {
		return
	}
	snap, err := w.GetSnapshot(c.GetUint("userID"), id, models.LifecycleApplied)
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.OK(c, "", snap)
}

func (w *WeddingModule) handleReplaceDraft(c *gin.Context) {
	id, ok := w.weddingParam(c)
	if !ok {
		return
	}
	var body struct {
		Sections        sections.Set    `json:"sections"`
		SectionSettings []SettingUpdate `json:"sectionSettings"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		common.Fail(c, fmt.Errorf("%w: %v", common.ErrValidation, err))
		return
	}
	snap, err := w.ReplaceDraft(c.GetUint("userID"), id, body.Sections, body.SectionSettings)
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.OK(c, "draft replaced", snap)
}

func (w *WeddingModule) handleUpdateTitle(c *gin.Context) {
	id, ok := w.weddingParam(c)
	if !ok {
		return
	}
	var body struct {
		Title string `json:"title" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		common.FailValidation(c, "title is required")
		return
	}
	if err := w.UpdateTitle(c.GetUint("userID"), id, body.Title); err != nil {
		common.Fail(c, err)
		return
	}
	common.OK(c, "title updated", nil)
}

func (w *WeddingModule) handlePatchSection(c *gin.Context) {
	id, ok := w.weddingParam(c)
	if !ok {
		return
	}
	var raw json.RawMessage
	if err := c.ShouldBindJSON(&raw); err != nil {
		common.FailValidation(c, "invalid body")
		return
	}
	sec, err := w.PatchSection(c.GetUint("userID"), id, c.Param("sectionId"), raw)
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.OK(c, "section updated", sec)
}

func (w *WeddingModule) handleUpdateSettings(c *gin.Context) {
	id, ok := w.weddingParam(c)
	if !ok {
		return
	}
	var body struct {
		Settings []SettingUpdate `json:"settings" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		common.FailValidation(c, "settings list is required")
		return
	}
	settings, err := w.UpdateSettings(c.GetUint("userID"), id, body.Settings)
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.OK(c, "settings updated", settings)
}

func (w *WeddingModule) handleDelete(c *gin.Context) {
	id, ok := w.weddingParam(c)
	if !ok {
		return
	}
	if err := w.Delete(c.GetUint("userID"), id); err != nil {
		common.Fail(c, err)
		return
	}
	common.OK(c, "wedding deleted", nil)
}

func (w *WeddingModule) handleApply(c *gin.Context) {
	id, ok := w.weddingParam(c)
	if !ok {
		return
	}
	if err := w.Apply(c.GetUint("userID"), id); err != nil {
		common.Fail(c, err)
		return
	}
	common.OK(c, "wedding applied", nil)
}
