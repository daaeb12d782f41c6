package analysis

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/imrics/DermAI/internal/model"
)

// ImageReader reads stored photo bytes by object key.
type ImageReader interface {
	ReadBytes(ctx context.Context, key string) ([]byte, error)
}

// LabeledImage is one transportable photo in the evidence package.
type LabeledImage struct {
	Label  string
	Base64 string
}

// placeholderImageBase64 is a 1x1 transparent PNG substituted when a stored
// photo cannot be read, so one bad file never fails the whole analysis.
const placeholderImageBase64 = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mP8z8BQDwAEhQGAhKmMIQAAAABJRU5ErkJggg=="

// EvidenceBuilder assembles the legend text and ordered image payloads for
// one analysis call: the current entry at index 0, prior entries of the
// same type oldest-to-newest at 1..N, each annotated with the medications
// active as of its timestamp.
type EvidenceBuilder struct {
	history *HistoryResolver
	meds    *MedicationTimeline
	images  ImageReader
	logger  *logrus.Logger
}

func NewEvidenceBuilder(history *HistoryResolver, meds *MedicationTimeline, images ImageReader, logger *logrus.Logger) *EvidenceBuilder {
	return &EvidenceBuilder{history: history, meds: meds, images: images, logger: logger}
}

func (b *EvidenceBuilder) BuildTimelinePayload(ctx context.Context, entry model.Entry, kind model.AnalysisKind) (string, []LabeledImage, error) {
	prior, err := b.history.Prior(ctx, entry)
	if err != nil {
		return "", nil, err
	}
	category := kind.Category()

	legendLines := make([]string, 0, len(prior)+2)
	images := make([]LabeledImage, 0, len(prior)+1)

	currentLabel := "Image [0] — CURRENT"
	legendLines = append(legendLines, currentLabel+" | "+summarizeEntry(entry))
	currentMeds, err := b.meds.AsOf(ctx, entry.UserID, category, entry.CreatedAt)
	if err != nil {
		return "", nil, err
	}
	legendLines = append(legendLines, currentMeds)
	images = append(images, LabeledImage{Label: currentLabel, Base64: b.encodeImage(ctx, entry.ImageKey())})

	for idx, p := range prior {
		label := fmt.Sprintf("Image [%d] — PREVIOUS", idx+1)
		medsText, err := b.meds.AsOf(ctx, p.UserID, category, p.CreatedAt)
		if err != nil {
			return "", nil, err
		}
		legendLines = append(legendLines, label+" | "+summarizeEntry(p)+" | "+medsText)
		images = append(images, LabeledImage{Label: label, Base64: b.encodeImage(ctx, p.ImageKey())})
	}

	header := fmt.Sprintf(
		"There are %d previous entries attached for timeline analysis.\nImages are indexed as shown below (oldest previous to newest, with CURRENT as [0]):",
		len(prior),
	)
	return header + "\n" + strings.Join(legendLines, "\n"), images, nil
}

// encodeImage degrades to the placeholder when the stored photo is missing
// or unreadable.
func (b *EvidenceBuilder) encodeImage(ctx context.Context, key string) string {
	data, err := b.images.ReadBytes(ctx, key)
	if err != nil {
		readErr := &ImageReadError{Key: key, Err: err}
		b.logger.WithFields(logrus.Fields{
			"image_key": key,
			"error":     readErr.Error(),
		}).Warn("substituting placeholder image")
		return placeholderImageBase64
	}
	return base64.StdEncoding.EncodeToString(data)
}

func summarizeEntry(e model.Entry) string {
	parts := []string{"Date: " + e.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00")}
	if e.NorwoodScore != nil {
		parts = append(parts, fmt.Sprintf("Norwood: %d", *e.NorwoodScore))
	}
	if e.SeverityLevel != nil && *e.SeverityLevel != "" {
		parts = append(parts, "Severity: "+*e.SeverityLevel)
	}
	if e.IrregularitiesDetected != nil {
		if *e.IrregularitiesDetected {
			parts = append(parts, "Irregularities: Yes")
		} else {
			parts = append(parts, "Irregularities: No")
		}
	}
	if e.UserNotes != nil && *e.UserNotes != "" {
		parts = append(parts, "User notes: "+*e.UserNotes)
	}
	if e.UserConcerns != nil && *e.UserConcerns != "" {
		parts = append(parts, "User concerns: "+*e.UserConcerns)
	}
	if e.AIComments != nil && *e.AIComments != "" {
		parts = append(parts, "Prev AI comments: "+*e.AIComments)
	}
	if e.Recommendations != nil && *e.Recommendations != "" {
		parts = append(parts, "Prev AI recommendations: "+*e.Recommendations)
	}
	if len(e.Treatment) > 0 {
		parts = append(parts, "Prev AI treatment: "+strings.Join(e.Treatment, ", "))
	}
	return strings.Join(parts, " | ")
}
