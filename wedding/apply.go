package wedding

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"

	"gorm.io/gorm"

	"dearday/cache"
	"dearday/common"
	"dearday/models"
)

// Apply publishes the draft: it rebuilds the applied snapshot from
// scratch so the applied side always equals the draft at the moment
// of the call. Files are copied before the transaction; if the
// transaction then fails, the worst case is orphaned files in the
// apply directory, which the next apply wipes. The database never
// ends up half-applied.
func (w *WeddingModule) Apply(userID uint, weddingID uint) error {
	if _, err := w.ownedWedding(userID, weddingID); err != nil {
		return err
	}

	var draft models.WeddingDetail
	err := w.db.Where("wedding_id = ? AND lifecycle = ?", weddingID, models.LifecycleDraft).First(&draft).Error
	if err == gorm.ErrRecordNotFound {
		return common.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("%w: load draft: %v", common.ErrStorage, err)
	}

	var settings []models.SectionSetting
	err = w.db.Where("wedding_id = ? AND lifecycle = ?", weddingID, models.LifecycleDraft).Find(&settings).Error
	if err != nil {
		return fmt.Errorf("%w: load settings: %v", common.ErrStorage, err)
	}

	draftMedia, err := w.media.List(weddingID, models.LifecycleDraft)
	if err != nil {
		return err
	}

	// Stage the applied files. The directory is rebuilt wholesale so
	// files from the previous snapshot cannot leak into this one.
	applyDir := w.media.Dir(weddingID, models.LifecycleApplied)
	if err := os.RemoveAll(applyDir); err != nil {
		return fmt.Errorf("%w: clear apply dir: %v", common.ErrStorage, err)
	}
	if err := os.MkdirAll(applyDir, 0755); err != nil {
		return fmt.Errorf("%w: create apply dir: %v", common.ErrStorage, err)
	}

	sort.SliceStable(draftMedia, func(i, j int) bool {
		if draftMedia[i].DisplayOrder != draftMedia[j].DisplayOrder {
			return draftMedia[i].DisplayOrder < draftMedia[j].DisplayOrder
		}
		return draftMedia[i].MediaID < draftMedia[j].MediaID
	})

	appliedMedia := make([]models.Media, 0, len(draftMedia))
	for i, rec := range draftMedia {
		applied := rec
		applied.Lifecycle = models.LifecycleApplied
		applied.MediaID = i + 1

		dst := w.media.NewObjectPath(weddingID, models.LifecycleApplied, rec.FileExtension)
		if err := copyFile(rec.OriginalURL, dst); err != nil {
			return fmt.Errorf("%w: stage file: %v", common.ErrStorage, err)
		}
		applied.OriginalURL = dst

		if rec.EditedURL != nil {
			dstEdited := w.media.NewObjectPath(weddingID, models.LifecycleApplied, rec.FileExtension)
			if err := copyFile(*rec.EditedURL, dstEdited); err != nil {
				return fmt.Errorf("%w: stage edited file: %v", common.ErrStorage, err)
			}
			applied.EditedURL = &dstEdited
		}

		appliedMedia = append(appliedMedia, applied)
	}

	appliedDetail := draft
	appliedDetail.Lifecycle = models.LifecycleApplied

	appliedSettings := make([]models.SectionSetting, 0, len(settings))
	for _, s := range settings {
		s.Lifecycle = models.LifecycleApplied
		appliedSettings = append(appliedSettings, s)
	}

	err = w.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.Media{}, "wedding_id = ? AND lifecycle = ?", weddingID, models.LifecycleApplied).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.SectionSetting{}, "wedding_id = ? AND lifecycle = ?", weddingID, models.LifecycleApplied).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.WeddingDetail{}, "wedding_id = ? AND lifecycle = ?", weddingID, models.LifecycleApplied).Error; err != nil {
			return err
		}
		if err := tx.Create(&appliedDetail).Error; err != nil {
			return err
		}
		if len(appliedSettings) > 0 {
			if err := tx.Create(&appliedSettings).Error; err != nil {
				return err
			}
		}
		if len(appliedMedia) > 0 {
			if err := tx.Create(&appliedMedia).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: apply: %v", common.ErrStorage, err)
	}

	if err := cache.ClearInvite(weddingID); err != nil {
		log.Printf("failed to clear invite cache for wedding %d: %v", weddingID, err)
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
