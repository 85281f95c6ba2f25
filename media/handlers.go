package media

import (
	"io"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"dearday/common"
	"dearday/models"
)

// maxUploadBytes caps a single image upload.
const maxUploadBytes = 20 << 20

// RegisterRoutes mounts the media endpoints on an authenticated
// group. Ownership is checked on every request; a wedding that does
// not belong to the caller reads as not found.
func (m *MediaModule) RegisterRoutes(api *gin.RouterGroup) {
	g := api.Group("/weddings/:id/media")
	g.GET("", m.handleList)
	g.POST("", m.handleAdd)
	g.PUT("/:mediaId/file", m.handleReplaceFile)
	g.PATCH("/order", m.handleReorder)
	g.DELETE("/:mediaId", m.handleDelete)
	g.DELETE("", m.handleDeleteByType)
}

func (m *MediaModule) ownedWedding(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		common.Fail(c, common.ErrNotFound)
		return 0, false
	}
	userID := c.GetUint("userID")
	var w models.Wedding
	dbErr := m.db.Where("id = ? AND user_id = ?", id, userID).First(&w).Error
	if dbErr == gorm.ErrRecordNotFound {
		common.Fail(c, common.ErrNotFound)
		return 0, false
	}
	if dbErr != nil {
		common.Fail(c, dbErr)
		return 0, false
	}
	return w.ID, true
}

func lifecycleParam(c *gin.Context) (models.Lifecycle, bool) {
	switch c.DefaultQuery("lifecycle", string(models.LifecycleDraft)) {
	case string(models.LifecycleDraft):
		return models.LifecycleDraft, true
	case string(models.LifecycleApplied):
		return models.LifecycleApplied, true
	default:
		common.FailValidation(c, "lifecycle must be draft or apply")
		return "", false
	}
}

func (m *MediaModule) handleList(c *gin.Context) {
	weddingID, ok := m.ownedWedding(c)
	if !ok {
		return
	}
	lc, ok := lifecycleParam(c)
	if !ok {
		return
	}
	items, err := m.List(weddingID, lc)
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.OK(c, "media listed", items)
}

func (m *MediaModule) handleAdd(c *gin.Context) {
	weddingID, ok := m.ownedWedding(c)
	if !ok {
		return
	}
	imageType := c.PostForm("imageType")
	if imageType == "" {
		common.FailValidation(c, "imageType is required")
		return
	}
	displayOrder, _ := strconv.Atoi(c.DefaultPostForm("displayOrder", "0"))

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		common.FailValidation(c, "file is required")
		return
	}
	defer file.Close()
	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		common.Fail(c, err)
		return
	}
	if len(data) > maxUploadBytes {
		common.FailValidation(c, "file too large")
		return
	}

	rec, err := m.Add(weddingID, models.LifecycleDraft, imageType, displayOrder, header.Filename, data)
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.Created(c, "media added", rec)
}

func (m *MediaModule) handleReplaceFile(c *gin.Context) {
	weddingID, ok := m.ownedWedding(c)
	if !ok {
		return
	}
	mediaID, err := strconv.Atoi(c.Param("mediaId"))
	if err != nil {
		common.Fail(c, common.ErrNotFound)
		return
	}
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		common.FailValidation(c, "file is required")
		return
	}
	defer file.Close()
	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		common.Fail(c, err)
		return
	}
	if len(data) > maxUploadBytes {
		common.FailValidation(c, "file too large")
		return
	}

	rec, err := m.ReplaceFile(weddingID, models.LifecycleDraft, mediaID, data)
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.OK(c, "media file replaced", rec)
}

func (m *MediaModule) handleReorder(c *gin.Context) {
	weddingID, ok := m.ownedWedding(c)
	if !ok {
		return
	}
	var body struct {
		Media []OrderUpdate `json:"media" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		common.FailValidation(c, "media list is required")
		return
	}
	if err := m.Reorder(weddingID, models.LifecycleDraft, body.Media); err != nil {
		common.Fail(c, err)
		return
	}
	common.OK(c, "media reordered", nil)
}

func (m *MediaModule) handleDelete(c *gin.Context) {
	weddingID, ok := m.ownedWedding(c)
	if !ok {
		return
	}
	mediaID, err := strconv.Atoi(c.Param("mediaId"))
	if err != nil {
		common.Fail(c, common.ErrNotFound)
		return
	}
	if err := m.Delete(weddingID, models.LifecycleDraft, mediaID); err != nil {
		common.Fail(c, err)
		return
	}
	common.OK(c, "media deleted", nil)
}

func (m *MediaModule) handleDeleteByType(c *gin.Context) {
	weddingID, ok := m.ownedWedding(c)
	if !ok {
		return
	}
	imageType := c.Query("imageType")
	if imageType == "" {
		common.FailValidation(c, "imageType is required")
		return
	}
	if err := m.DeleteByType(weddingID, models.LifecycleDraft, imageType); err != nil {
		common.Fail(c, err)
		return
	}
	common.OK(c, "media deleted", nil)
}
