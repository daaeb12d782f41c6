package server

import (
	"errors"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/imrics/DermAI/internal/model"
	"github.com/imrics/DermAI/internal/store"
)

var imageContentTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
	".heic": "image/heic",
}

func imageContentType(ext string) string {
	if contentType, ok := imageContentTypes[ext]; ok {
		return contentType
	}
	return "application/octet-stream"
}

// createEntryHandler builds the upload handler for one condition kind. The
// photo is stored first, then the entry row, then analysis runs
// synchronously so the response already carries the verdict.
func (a *App) createEntryHandler(kind model.ConditionKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := a.requireUser(c)
		if !ok {
			return
		}

		photo, err := c.FormFile("photo")
		if err != nil {
			writeError(c, http.StatusBadRequest, "Photo file is required")
			return
		}
		ext := strings.ToLower(filepath.Ext(photo.Filename))
		if ext == "" {
			ext = ".jpg"
		}

		entry := model.Entry{
			Kind:         kind,
			SequenceID:   strings.TrimSpace(c.PostForm("sequence_id")),
			UserID:       user.ID,
			ImageID:      uuid.NewString(),
			ImageExt:     ext,
			UserNotes:    optionalForm(c, "user_notes"),
			UserConcerns: optionalForm(c, "user_concerns"),
		}

		src, err := photo.Open()
		if err != nil {
			writeError(c, http.StatusBadRequest, "Failed to read photo")
			return
		}
		defer src.Close()
		if err := a.images.Save(c.Request.Context(), entry.ImageKey(), src, photo.Size, imageContentType(ext)); err != nil {
			a.logger.WithError(err).Error("store photo failed")
			writeError(c, http.StatusInternalServerError, "Failed to store photo")
			return
		}

		if err := a.entries.Create(c.Request.Context(), &entry); err != nil {
			a.logger.WithError(err).Error("create entry failed")
			writeError(c, http.StatusInternalServerError, "Failed to create entry")
			return
		}

		if _, err := a.analyzer.Analyze(c.Request.Context(), &entry); err != nil {
			a.logger.WithError(err).Error("save analysis results failed")
			c.JSON(http.StatusOK, gin.H{
				"entry": entry,
				"error": "Failed to save analysis results",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{"entry": entry})
	}
}

func optionalForm(c *gin.Context, field string) *string {
	value := strings.TrimSpace(c.PostForm(field))
	if value == "" {
		return nil
	}
	return &value
}

func (a *App) listEntries(c *gin.Context) {
	user, ok := a.requireUser(c)
	if !ok {
		return
	}

	var kind *model.ConditionKind
	if raw := c.Query("entry_type"); raw != "" {
		parsed, ok := model.ParseConditionKind(raw)
		if !ok {
			writeError(c, http.StatusBadRequest, "Invalid entry_type. Must be one of: hairline, acne, mole")
			return
		}
		kind = &parsed
	}

	entries, err := a.entries.ListByUser(c.Request.Context(), user.ID, kind, c.Query("sequence_id"))
	if err != nil {
		a.logger.WithError(err).Error("list entries failed")
		writeError(c, http.StatusInternalServerError, "Failed to list entries")
		return
	}
	if entries == nil {
		entries = []model.Entry{}
	}
	c.JSON(http.StatusOK, entries)
}

func (a *App) listSequences(c *gin.Context) {
	user, ok := a.requireUser(c)
	if !ok {
		return
	}

	sequences, err := a.entries.ListSequences(c.Request.Context(), user.ID)
	if err != nil {
		a.logger.WithError(err).Error("list sequences failed")
		writeError(c, http.StatusInternalServerError, "Failed to list sequences")
		return
	}
	if sequences == nil {
		sequences = []store.SequenceSummary{}
	}
	c.JSON(http.StatusOK, sequences)
}

func (a *App) getEntry(c *gin.Context) {
	entry, err := a.entries.Get(c.Request.Context(), c.Param("entry_id"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(c, http.StatusNotFound, "Entry not found")
		return
	}
	if err != nil {
		a.logger.WithError(err).Error("load entry failed")
		writeError(c, http.StatusInternalServerError, "Failed to load entry")
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (a *App) getImage(c *gin.Context) {
	entry, err := a.entries.GetByImageID(c.Request.Context(), c.Param("image_id"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(c, http.StatusNotFound, "Image not found")
		return
	}
	if err != nil {
		a.logger.WithError(err).Error("load entry for image failed")
		writeError(c, http.StatusInternalServerError, "Failed to load image")
		return
	}

	data, err := a.images.ReadBytes(c.Request.Context(), entry.ImageKey())
	if err != nil {
		writeError(c, http.StatusNotFound, "Image file missing")
		return
	}
	c.Data(http.StatusOK, imageContentType(entry.ImageExt), data)
}
