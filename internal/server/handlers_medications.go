package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/imrics/DermAI/internal/model"
	"github.com/imrics/DermAI/internal/store"
)

type createMedicationRequest struct {
	Category  string  `json:"category"`
	Name      string  `json:"name"`
	Dosage    *string `json:"dosage"`
	Frequency *string `json:"frequency"`
	Notes     *string `json:"notes"`
}

type updateMedicationRequest struct {
	Name      *string `json:"name"`
	Dosage    *string `json:"dosage"`
	Frequency *string `json:"frequency"`
	Notes     *string `json:"notes"`
}

func (a *App) addMedication(c *gin.Context) {
	user, ok := a.requireUser(c)
	if !ok {
		return
	}

	req := createMedicationRequest{}
	if !mustJSON(c, &req) {
		return
	}
	category, ok := model.ParseConditionKind(req.Category)
	if !ok {
		writeError(c, http.StatusBadRequest, "Invalid category. Must be one of: hairline, acne, mole")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(c, http.StatusBadRequest, "Name is required")
		return
	}

	med, err := a.meds.Create(c.Request.Context(), model.Medication{
		UserID:    user.ID,
		Category:  category,
		Name:      strings.TrimSpace(req.Name),
		Dosage:    req.Dosage,
		Frequency: req.Frequency,
		Notes:     req.Notes,
	})
	if err != nil {
		a.logger.WithError(err).Error("create medication failed")
		writeError(c, http.StatusInternalServerError, "Failed to create medication")
		return
	}
	c.JSON(http.StatusOK, med)
}

func (a *App) listMedications(c *gin.Context) {
	user, ok := a.requireUser(c)
	if !ok {
		return
	}

	var category *model.ConditionKind
	if raw := c.Query("category"); raw != "" {
		parsed, ok := model.ParseConditionKind(raw)
		if !ok {
			writeError(c, http.StatusBadRequest, "Invalid category. Must be one of: hairline, acne, mole")
			return
		}
		category = &parsed
	}

	meds, err := a.meds.ListByUser(c.Request.Context(), user.ID, category)
	if err != nil {
		a.logger.WithError(err).Error("list medications failed")
		writeError(c, http.StatusInternalServerError, "Failed to list medications")
		return
	}
	if meds == nil {
		meds = []model.Medication{}
	}
	c.JSON(http.StatusOK, meds)
}

func (a *App) updateMedication(c *gin.Context) {
	req := updateMedicationRequest{}
	if !mustJSON(c, &req) {
		return
	}

	med, err := a.meds.Update(c.Request.Context(), c.Param("medication_id"), store.MedicationUpdate{
		Name:      req.Name,
		Dosage:    req.Dosage,
		Frequency: req.Frequency,
		Notes:     req.Notes,
	})
	if errors.Is(err, store.ErrNotFound) {
		writeError(c, http.StatusNotFound, "Medication not found")
		return
	}
	if err != nil {
		a.logger.WithError(err).Error("update medication failed")
		writeError(c, http.StatusInternalServerError, "Failed to update medication")
		return
	}
	c.JSON(http.StatusOK, med)
}

func (a *App) deleteMedication(c *gin.Context) {
	err := a.meds.Delete(c.Request.Context(), c.Param("medication_id"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(c, http.StatusNotFound, "Medication not found")
		return
	}
	if err != nil {
		a.logger.WithError(err).Error("delete medication failed")
		writeError(c, http.StatusInternalServerError, "Failed to delete medication")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Medication deleted successfully"})
}
