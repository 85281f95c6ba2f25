package wedding

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dearday/common"
	"dearday/models"
	"dearday/sections"
)

func TestApply_CreatesAppliedSnapshot(t *testing.T) {
	w, mediaModule, _ := setupModules(t)
	snap, err := w.CreateDraft(ownerID, "mine")
	require.NoError(t, err)

	_, err = w.PatchSection(ownerID, snap.WeddingID, "invitationMessage", json.RawMessage(`{"title": "Invitation", "message": "A"}`))
	require.NoError(t, err)
	draftMedia, err := mediaModule.Add(snap.WeddingID, models.LifecycleDraft, "main", 1, "a.png", pngBytes(t, 4, 4))
	require.NoError(t, err)

	require.NoError(t, w.Apply(ownerID, snap.WeddingID))

	applied, err := w.GetSnapshot(ownerID, snap.WeddingID, models.LifecycleApplied)
	require.NoError(t, err)
	msg := applied.Sections[sections.KeyInvitationMessage].(*sections.InvitationMessage)
	require.NotNil(t, msg.Message)
	assert.Equal(t, "A", *msg.Message)
	assert.Len(t, applied.SectionSettings, len(sections.Keys))

	appliedMedia, err := mediaModule.List(snap.WeddingID, models.LifecycleApplied)
	require.NoError(t, err)
	require.Len(t, appliedMedia, 1)
	assert.NotEqual(t, draftMedia.OriginalURL, appliedMedia[0].OriginalURL,
		"applied media must be a file copy, not a reference to the draft file")
	assert.FileExists(t, appliedMedia[0].OriginalURL)
	assert.FileExists(t, draftMedia.OriginalURL)
}

func TestApply_DraftEditsDoNotLeakIntoApplied(t *testing.T) {
	w, mediaModule, _ := setupModules(t)
	snap, err := w.CreateDraft(ownerID, "mine")
	require.NoError(t, err)

	_, err = w.PatchSection(ownerID, snap.WeddingID, "invitationMessage", json.RawMessage(`{"message": "A"}`))
	require.NoError(t, err)
	require.NoError(t, w.Apply(ownerID, snap.WeddingID))

	// keep editing the draft after publishing
	_, err = w.PatchSection(ownerID, snap.WeddingID, "invitationMessage", json.RawMessage(`{"message": "B"}`))
	require.NoError(t, err)
	rec, err := mediaModule.Add(snap.WeddingID, models.LifecycleDraft, "gallery", 1, "b.png", pngBytes(t, 4, 4))
	require.NoError(t, err)
	require.NoError(t, mediaModule.Delete(snap.WeddingID, models.LifecycleDraft, rec.MediaID))

	applied, err := w.GetSnapshot(ownerID, snap.WeddingID, models.LifecycleApplied)
	require.NoError(t, err)
	msg := applied.Sections[sections.KeyInvitationMessage].(*sections.InvitationMessage)
	require.NotNil(t, msg.Message)
	assert.Equal(t, "A", *msg.Message)

	appliedMedia, err := mediaModule.List(snap.WeddingID, models.LifecycleApplied)
	require.NoError(t, err)
	assert.Empty(t, appliedMedia)
}

func TestReapply_ReplacesSnapshotWholesale(t *testing.T) {
	w, mediaModule, _ := setupModules(t)
	snap, err := w.CreateDraft(ownerID, "mine")
	require.NoError(t, err)

	first, err := mediaModule.Add(snap.WeddingID, models.LifecycleDraft, "gallery", 1, "a.png", pngBytes(t, 4, 4))
	require.NoError(t, err)
	require.NoError(t, w.Apply(ownerID, snap.WeddingID))

	firstApplied, err := mediaModule.List(snap.WeddingID, models.LifecycleApplied)
	require.NoError(t, err)
	require.Len(t, firstApplied, 1)

	require.NoError(t, mediaModule.Delete(snap.WeddingID, models.LifecycleDraft, first.MediaID))
	_, err = mediaModule.Add(snap.WeddingID, models.LifecycleDraft, "gallery", 1, "b.png", pngBytes(t, 8, 8))
	require.NoError(t, err)
	_, err = w.PatchSection(ownerID, snap.WeddingID, "gallery", json.RawMessage(`{"title": "New"}`))
	require.NoError(t, err)

	require.NoError(t, w.Apply(ownerID, snap.WeddingID))

	applied, err := w.GetSnapshot(ownerID, snap.WeddingID, models.LifecycleApplied)
	require.NoError(t, err)
	gallery := applied.Sections[sections.KeyGallery].(*sections.Gallery)
	require.NotNil(t, gallery.Title)
	assert.Equal(t, "New", *gallery.Title)

	secondApplied, err := mediaModule.List(snap.WeddingID, models.LifecycleApplied)
	require.NoError(t, err)
	require.Len(t, secondApplied, 1)
	assert.Equal(t, 8, secondApplied[0].Width)
	assert.NoFileExists(t, firstApplied[0].OriginalURL,
		"the previous snapshot's files are wiped by a re-apply")

	// the apply directory contains exactly the current snapshot's files
	entries, err := os.ReadDir(mediaModule.Dir(snap.WeddingID, models.LifecycleApplied))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestApply_MediaIDsRenumberedInDisplayOrder(t *testing.T) {
	w, mediaModule, _ := setupModules(t)
	snap, err := w.CreateDraft(ownerID, "mine")
	require.NoError(t, err)

	a, err := mediaModule.Add(snap.WeddingID, models.LifecycleDraft, "gallery", 2, "a.png", pngBytes(t, 3, 3))
	require.NoError(t, err)
	b, err := mediaModule.Add(snap.WeddingID, models.LifecycleDraft, "gallery", 1, "b.png", pngBytes(t, 5, 5))
	require.NoError(t, err)
	require.NotEqual(t, a.DisplayOrder, b.DisplayOrder)

	require.NoError(t, w.Apply(ownerID, snap.WeddingID))

	applied, err := mediaModule.List(snap.WeddingID, models.LifecycleApplied)
	require.NoError(t, err)
	require.Len(t, applied, 2)
	assert.Equal(t, 1, applied[0].MediaID)
	assert.Equal(t, 5, applied[0].Width, "lowest display order comes first")
	assert.Equal(t, 2, applied[1].MediaID)
}

func TestApply_CopiesEditedFiles(t *testing.T) {
	w, mediaModule, _ := setupModules(t)
	snap, err := w.CreateDraft(ownerID, "mine")
	require.NoError(t, err)

	rec, err := mediaModule.Add(snap.WeddingID, models.LifecycleDraft, "main", 1, "a.png", pngBytes(t, 4, 4))
	require.NoError(t, err)
	_, err = mediaModule.ReplaceFile(snap.WeddingID, models.LifecycleDraft, rec.MediaID, pngBytes(t, 6, 6))
	require.NoError(t, err)

	require.NoError(t, w.Apply(ownerID, snap.WeddingID))

	applied, err := mediaModule.List(snap.WeddingID, models.LifecycleApplied)
	require.NoError(t, err)
	require.Len(t, applied, 1)
	require.NotNil(t, applied[0].EditedURL)
	assert.FileExists(t, *applied[0].EditedURL)
	assert.Equal(t, filepath.Dir(applied[0].OriginalURL), filepath.Dir(*applied[0].EditedURL))
}

func TestApply_WrongOwnerIsNotFound(t *testing.T) {
	w, _, _ := setupModules(t)
	snap, err := w.CreateDraft(ownerID, "mine")
	require.NoError(t, err)

	assert.ErrorIs(t, w.Apply(2, snap.WeddingID), common.ErrNotFound)
}
