package media

import (
	"bytes"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"dearday/common"
	"dearday/models"
)

// MediaModule owns the uploaded-image rows and their backing files
// under {root}/draft/{weddingId}/ and {root}/apply/{weddingId}/.
type MediaModule struct {
	db   *gorm.DB
	root string
}

func NewMediaModule(db *gorm.DB, root string) *MediaModule {
	return &MediaModule{db: db, root: root}
}

// Root returns the upload base directory.
func (m *MediaModule) Root() string { return m.root }

// Dir returns the upload directory of one wedding under one lifecycle.
func (m *MediaModule) Dir(weddingID uint, lc models.Lifecycle) string {
	return filepath.Join(m.root, string(lc), fmt.Sprint(weddingID))
}

// NewObjectPath allocates a fresh opaque file path inside the
// wedding's lifecycle directory. Client filenames never reach the
// filesystem.
func (m *MediaModule) NewObjectPath(weddingID uint, lc models.Lifecycle, ext string) string {
	name := uuid.NewString()
	if ext != "" {
		name += "." + ext
	}
	return filepath.Join(m.Dir(weddingID, lc), name)
}

func (m *MediaModule) List(weddingID uint, lc models.Lifecycle) ([]models.Media, error) {
	var items []models.Media
	err := m.db.Where("wedding_id = ? AND lifecycle = ?", weddingID, lc).
		Order("display_order asc, media_id asc").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("%w: list media: %v", common.ErrStorage, err)
	}
	return items, nil
}

// Add stores the file under a fresh opaque name and inserts the
// metadata row. The body must be a decodable image; its dimensions
// are recorded. The media id is (max per wedding+lifecycle)+1,
// allocated inside a transaction; the composite primary key turns a
// concurrent double-allocation into a unique violation, which is
// retried with a fresh id instead of silently overwriting.
func (m *MediaModule) Add(weddingID uint, lc models.Lifecycle, imageType string, displayOrder int, origName string, data []byte) (*models.Media, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: not a decodable image: %v", common.ErrValidation, err)
	}
	bounds := img.Bounds()

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(origName)), ".")
	path := m.NewObjectPath(weddingID, lc, ext)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("%w: mkdir: %v", common.ErrStorage, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return nil, fmt.Errorf("%w: write file: %v", common.ErrStorage, err)
	}

	rec := models.Media{
		WeddingID:     weddingID,
		Lifecycle:     lc,
		ImageType:     imageType,
		DisplayOrder:  displayOrder,
		OriginalURL:   path,
		FileExtension: ext,
		FileSize:      int64(len(data)),
		Width:         bounds.Dx(),
		Height:        bounds.Dy(),
	}

	var insertErr error
	for attempt := 0; attempt < 3; attempt++ {
		insertErr = m.db.Transaction(func(tx *gorm.DB) error {
			var max int
			if err := tx.Model(&models.Media{}).
				Where("wedding_id = ? AND lifecycle = ?", weddingID, lc).
				Select("COALESCE(MAX(media_id), 0)").
				Scan(&max).Error; err != nil {
				return err
			}
			rec.MediaID = max + 1
			return tx.Create(&rec).Error
		})
		if insertErr == nil || !isUniqueConstraintError(insertErr) {
			break
		}
	}
	if insertErr != nil {
		removeFile(path)
		return nil, fmt.Errorf("%w: insert media: %v", common.ErrStorage, insertErr)
	}
	return &rec, nil
}

// ReplaceFile stores new bytes as the edited version of an existing
// media. The first replacement allocates a fresh path and sets
// editedUrl; later replacements overwrite that same file in place.
func (m *MediaModule) ReplaceFile(weddingID uint, lc models.Lifecycle, mediaID int, data []byte) (*models.Media, error) {
	var rec models.Media
	err := m.db.Where("wedding_id = ? AND lifecycle = ? AND media_id = ?", weddingID, lc, mediaID).
		First(&rec).Error
	if err == gorm.ErrRecordNotFound {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: load media: %v", common.ErrStorage, err)
	}
	if _, err := imaging.Decode(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("%w: not a decodable image: %v", common.ErrValidation, err)
	}

	path := ""
	if rec.EditedURL != nil {
		path = *rec.EditedURL
	} else {
		path = m.NewObjectPath(weddingID, lc, rec.FileExtension)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("%w: mkdir: %v", common.ErrStorage, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return nil, fmt.Errorf("%w: write file: %v", common.ErrStorage, err)
	}
	if rec.EditedURL == nil {
		rec.EditedURL = &path
		if err := m.db.Model(&models.Media{}).
			Where("wedding_id = ? AND lifecycle = ? AND media_id = ?", weddingID, lc, mediaID).
			Update("edited_url", path).Error; err != nil {
			return nil, fmt.Errorf("%w: update media: %v", common.ErrStorage, err)
		}
	}
	return &rec, nil
}

// OrderUpdate is one entry of a batch reorder.
type OrderUpdate struct {
	MediaID      int `json:"mediaId" binding:"required"`
	DisplayOrder int `json:"displayOrder"`
}

// Reorder applies all display-order updates in one transaction.
func (m *MediaModule) Reorder(weddingID uint, lc models.Lifecycle, updates []OrderUpdate) error {
	err := m.db.Transaction(func(tx *gorm.DB) error {
		for _, u := range updates {
			res := tx.Model(&models.Media{}).
				Where("wedding_id = ? AND lifecycle = ? AND media_id = ?", weddingID, lc, u.MediaID).
				Update("display_order", u.DisplayOrder)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return common.ErrNotFound
			}
		}
		return nil
	})
	if err == common.ErrNotFound {
		return err
	}
	if err != nil {
		return fmt.Errorf("%w: reorder media: %v", common.ErrStorage, err)
	}
	return nil
}

// Delete removes the backing files (best-effort, a missing file is
// already satisfied) and then the row.
func (m *MediaModule) Delete(weddingID uint, lc models.Lifecycle, mediaID int) error {
	var rec models.Media
	err := m.db.Where("wedding_id = ? AND lifecycle = ? AND media_id = ?", weddingID, lc, mediaID).
		First(&rec).Error
	if err == gorm.ErrRecordNotFound {
		return common.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("%w: load media: %v", common.ErrStorage, err)
	}

	removeFile(rec.OriginalURL)
	if rec.EditedURL != nil {
		removeFile(*rec.EditedURL)
	}
	if err := m.db.Delete(&models.Media{}, "wedding_id = ? AND lifecycle = ? AND media_id = ?", weddingID, lc, mediaID).Error; err != nil {
		return fmt.Errorf("%w: delete media: %v", common.ErrStorage, err)
	}
	return nil
}

// DeleteByType removes every media row of one image type, files first.
func (m *MediaModule) DeleteByType(weddingID uint, lc models.Lifecycle, imageType string) error {
	var items []models.Media
	err := m.db.Where("wedding_id = ? AND lifecycle = ? AND image_type = ?", weddingID, lc, imageType).
		Find(&items).Error
	if err != nil {
		return fmt.Errorf("%w: list media: %v", common.ErrStorage, err)
	}
	for _, rec := range items {
		removeFile(rec.OriginalURL)
		if rec.EditedURL != nil {
			removeFile(*rec.EditedURL)
		}
	}
	if err := m.db.Delete(&models.Media{}, "wedding_id = ? AND lifecycle = ? AND image_type = ?", weddingID, lc, imageType).Error; err != nil {
		return fmt.Errorf("%w: delete media: %v", common.ErrStorage, err)
	}
	return nil
}

// RemoveAllFiles wipes both lifecycle upload directories of a
// wedding. Row deletion is the wedding store's job; file cleanup is
// best-effort and never blocks it.
func (m *MediaModule) RemoveAllFiles(weddingID uint) {
	for _, lc := range []models.Lifecycle{models.LifecycleDraft, models.LifecycleApplied} {
		dir := m.Dir(weddingID, lc)
		if err := os.RemoveAll(dir); err != nil {
			log.Printf("failed to remove upload dir %s: %v", dir, err)
		}
	}
}

func removeFile(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Printf("failed to remove file %s: %v", path, err)
	}
}

func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	s := err.Error()
	return strings.Contains(s, "duplicate key") || strings.Contains(s, "UNIQUE constraint") || strings.Contains(s, "unique constraint")
}
