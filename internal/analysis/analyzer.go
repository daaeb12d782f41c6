package analysis

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/imrics/DermAI/internal/model"
)

// Analyzer runs the full timeline-aware analysis for one entry: current
// medications, evidence package, model call, normalization, and the write
// of the verdict onto the entry. Any failure along the way degrades to the
// condition's static fallback verdict; the entry always ends fully
// populated.
type Analyzer struct {
	entries  EntryStore
	meds     *MedicationTimeline
	evidence *EvidenceBuilder
	vision   VisionClient
	logger   *logrus.Logger
}

func New(entries EntryStore, meds MedicationStore, images ImageReader, vision VisionClient, historyLimit int, logger *logrus.Logger) *Analyzer {
	timeline := NewMedicationTimeline(meds)
	history := NewHistoryResolver(entries, historyLimit)
	return &Analyzer{
		entries:  entries,
		meds:     timeline,
		evidence: NewEvidenceBuilder(history, timeline, images, logger),
		vision:   vision,
		logger:   logger,
	}
}

// verdictMappers turns the normalized field mapping into a verdict, one
// mapper per condition kind.
var verdictMappers = map[model.ConditionKind]func(map[string]any) model.Verdict{
	model.KindHairline: mapHairlineVerdict,
	model.KindAcne:     mapAcneVerdict,
	model.KindMole:     mapMoleVerdict,
}

// Analyze resolves the verdict for the entry and persists it. The returned
// error is reserved for persistence failures; analysis failures resolve to
// the fallback verdict instead.
func (a *Analyzer) Analyze(ctx context.Context, entry *model.Entry) (model.Verdict, error) {
	var verdict model.Verdict
	var err error
	if mapper, ok := verdictMappers[entry.Kind]; ok {
		verdict, err = a.run(ctx, *entry, mapper)
	} else {
		err = fmt.Errorf("unrecognized entry kind %q", entry.Kind)
	}
	if err != nil {
		a.logger.WithFields(logrus.Fields{
			"entry_id": entry.ID,
			"kind":     entry.Kind,
			"error":    err.Error(),
		}).Warn("analysis failed, writing fallback verdict")
		verdict = FallbackVerdict(entry.Kind)
	}

	verdict.Apply(entry)
	if err := a.entries.SaveVerdict(ctx, entry); err != nil {
		return model.Verdict{}, fmt.Errorf("persist verdict: %w", err)
	}
	return verdict, nil
}

func (a *Analyzer) run(ctx context.Context, entry model.Entry, mapper func(map[string]any) model.Verdict) (model.Verdict, error) {
	kind := entry.Kind.Analysis()

	currentMeds, err := a.meds.Current(ctx, entry.UserID, entry.Kind)
	if err != nil {
		return model.Verdict{}, err
	}
	contextBlock := buildContextBlock(currentMeds, entry)

	legend, images, err := a.evidence.BuildTimelinePayload(ctx, entry, kind)
	if err != nil {
		return model.Verdict{}, err
	}

	contract := ContractFor(kind)
	prompt := contract.BuildPrompt(contextBlock, len(images) > 1)

	raw, err := a.vision.Analyze(ctx, VisionRequest{
		System: SystemInstruction,
		Prompt: prompt,
		Legend: legend,
		Images: images,
	})
	if err != nil {
		return model.Verdict{}, err
	}

	return mapper(ExtractStructured(raw)), nil
}

func buildContextBlock(currentMeds string, entry model.Entry) string {
	return strings.Join([]string{
		"User medications (current): " + currentMeds,
		"User notes: " + orNone(entry.UserNotes),
		"User concerns: " + orNone(entry.UserConcerns),
	}, "\n")
}

func orNone(value *string) string {
	if value == nil || strings.TrimSpace(*value) == "" {
		return "None"
	}
	return *value
}

func mapHairlineVerdict(fields map[string]any) model.Verdict {
	score := clampNorwood(intFromMap(fields, 2, "norwood_score"))
	verdict := model.Verdict{
		NorwoodScore:    &score,
		Comments:        stringFromMap(fields, "Hairline pattern analysis completed", "observations", "Comments"),
		Recommendations: stringFromMap(fields, "Consider consulting a hair care professional", "suggestions", "Recommendations"),
		Treatment:       treatmentFromMap(fields, "treatment", "Treatment"),
	}
	if len(verdict.Treatment) == 0 {
		verdict.Treatment = FallbackVerdict(model.KindHairline).Treatment
	}
	return verdict
}

func mapAcneVerdict(fields map[string]any) model.Verdict {
	severity := severityFromTexture(stringFromMap(fields, "textured", "texture_level"))
	verdict := model.Verdict{
		SeverityLevel:   &severity,
		Comments:        stringFromMap(fields, "Skin texture analysis completed", "observations", "Comments"),
		Recommendations: stringFromMap(fields, "Consider consulting a skincare professional", "suggestions", "Recommendations"),
		Treatment:       treatmentFromMap(fields, "treatment", "Treatment"),
	}
	if len(verdict.Treatment) == 0 {
		verdict.Treatment = FallbackVerdict(model.KindAcne).Treatment
	}
	return verdict
}

func mapMoleVerdict(fields map[string]any) model.Verdict {
	irregular := !boolFromMap(fields, true, "feature_regular")
	verdict := model.Verdict{
		IrregularitiesDetected: &irregular,
		Comments:               stringFromMap(fields, "Skin feature analysis completed", "observations", "Comments"),
		Recommendations:        stringFromMap(fields, "Consider regular monitoring and professional consultation", "suggestions", "Recommendations"),
		Treatment:              treatmentFromMap(fields, "treatment", "Treatment"),
	}
	if len(verdict.Treatment) == 0 {
		verdict.Treatment = FallbackVerdict(model.KindMole).Treatment
	}
	return verdict
}

// severityFromTexture remaps the model's texture levels onto the persisted
// acne severity scale. Unknown values resolve to moderate.
func severityFromTexture(texture string) string {
	switch strings.ToLower(strings.TrimSpace(texture)) {
	case "smooth":
		return model.SeverityMild
	case "very_textured":
		return model.SeveritySevere
	default:
		return model.SeverityModerate
	}
}

func clampNorwood(score int) int {
	if score < 0 {
		return 0
	}
	if score > 7 {
		return 7
	}
	return score
}

// treatmentFromMap canonicalizes the treatment field. The contract asks
// for a comma-separated string, but models sometimes answer with a JSON
// array; both shapes are accepted.
func treatmentFromMap(fields map[string]any, keys ...string) []string {
	for _, key := range keys {
		raw, ok := fields[key]
		if !ok {
			continue
		}
		switch v := raw.(type) {
		case string:
			if strings.TrimSpace(v) != "" {
				return ParseTreatmentList(v)
			}
		case []any:
			items := make([]string, 0, len(v))
			for _, item := range v {
				if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
					items = append(items, titleCaseWords(strings.TrimSpace(s)))
				}
			}
			if len(items) > 0 {
				return items
			}
		}
	}
	return []string{}
}

func stringFromMap(fields map[string]any, fallback string, keys ...string) string {
	for _, key := range keys {
		if raw, ok := fields[key]; ok {
			if s, ok := raw.(string); ok && strings.TrimSpace(s) != "" {
				return s
			}
		}
	}
	return fallback
}

func intFromMap(fields map[string]any, fallback int, keys ...string) int {
	for _, key := range keys {
		raw, ok := fields[key]
		if !ok {
			continue
		}
		switch v := raw.(type) {
		case float64:
			return int(v)
		case int:
			return v
		case string:
			if parsed, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
				return parsed
			}
		}
	}
	return fallback
}

func boolFromMap(fields map[string]any, fallback bool, keys ...string) bool {
	for _, key := range keys {
		raw, ok := fields[key]
		if !ok {
			continue
		}
		switch v := raw.(type) {
		case bool:
			return v
		case string:
			if parsed, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
				return parsed
			}
		}
	}
	return fallback
}
