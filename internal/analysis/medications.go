package analysis

import (
	"context"
	"strings"
	"time"

	"github.com/imrics/DermAI/internal/model"
)

// MedicationStore is the slice of the persistence layer the medication
// timeline needs. Implementations return medications for one user and
// category; AsOf queries are sorted ascending by creation time and include
// soft-deleted medications that were still active at the given instant.
type MedicationStore interface {
	ListActive(ctx context.Context, userID string, category model.ConditionKind) ([]model.Medication, error)
	ListAsOf(ctx context.Context, userID string, category model.ConditionKind, asOf time.Time) ([]model.Medication, error)
}

// MedicationTimeline answers "what medications are active now" and "what
// medications were active as of time T" as prompt-ready summary strings.
type MedicationTimeline struct {
	store MedicationStore
}

func NewMedicationTimeline(store MedicationStore) *MedicationTimeline {
	return &MedicationTimeline{store: store}
}

func (t *MedicationTimeline) Current(ctx context.Context, userID string, category model.ConditionKind) (string, error) {
	meds, err := t.store.ListActive(ctx, userID, category)
	if err != nil {
		return "", err
	}
	return formatMedications(meds, "Current medications", "No current medications"), nil
}

func (t *MedicationTimeline) AsOf(ctx context.Context, userID string, category model.ConditionKind, asOf time.Time) (string, error) {
	meds, err := t.store.ListAsOf(ctx, userID, category, asOf)
	if err != nil {
		return "", err
	}
	return formatMedications(meds, "Medications at that time", "No medications at that time"), nil
}

func formatMedications(meds []model.Medication, label, empty string) string {
	if len(meds) == 0 {
		return empty
	}
	fragments := make([]string, 0, len(meds))
	for _, med := range meds {
		fragment := med.Name
		if med.Dosage != nil && strings.TrimSpace(*med.Dosage) != "" {
			fragment += " (" + strings.TrimSpace(*med.Dosage) + ")"
		}
		if med.Frequency != nil && strings.TrimSpace(*med.Frequency) != "" {
			fragment += " - " + strings.TrimSpace(*med.Frequency)
		}
		fragments = append(fragments, fragment)
	}
	return label + ": " + strings.Join(fragments, ", ")
}
