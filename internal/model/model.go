package model

import (
	"strings"
	"time"
)

// ConditionKind discriminates the three tracked condition types. It doubles
// as the medication category.
type ConditionKind string

const (
	KindHairline ConditionKind = "hairline"
	KindAcne     ConditionKind = "acne"
	KindMole     ConditionKind = "mole"
)

func ParseConditionKind(raw string) (ConditionKind, bool) {
	switch ConditionKind(strings.ToLower(strings.TrimSpace(raw))) {
	case KindHairline:
		return KindHairline, true
	case KindAcne:
		return KindAcne, true
	case KindMole:
		return KindMole, true
	}
	return "", false
}

// AnalysisKind names the analysis flavor sent to the vision model. The
// wire-facing names deliberately avoid medical terminology.
type AnalysisKind string

const (
	AnalysisHair        AnalysisKind = "hair"
	AnalysisSkinTexture AnalysisKind = "skin_texture"
	AnalysisSkinFeature AnalysisKind = "skin_feature"
)

// Category resolves the medication/entry category an analysis kind reads.
func (k AnalysisKind) Category() ConditionKind {
	switch k {
	case AnalysisHair:
		return KindHairline
	case AnalysisSkinTexture:
		return KindAcne
	default:
		return KindMole
	}
}

// Analysis resolves the analysis kind used for a condition.
func (k ConditionKind) Analysis() AnalysisKind {
	switch k {
	case KindHairline:
		return AnalysisHair
	case KindAcne:
		return AnalysisSkinTexture
	default:
		return AnalysisSkinFeature
	}
}

// Acne severity levels persisted on entries.
const (
	SeverityMild     = "mild"
	SeverityModerate = "moderate"
	SeveritySevere   = "severe"
)

type User struct {
	ID        string    `json:"user_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type Medication struct {
	ID        string        `json:"medication_id"`
	UserID    string        `json:"user_id"`
	Category  ConditionKind `json:"category"`
	Name      string        `json:"name"`
	Dosage    *string       `json:"dosage,omitempty"`
	Frequency *string       `json:"frequency,omitempty"`
	Notes     *string       `json:"notes,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
	DeletedAt *time.Time    `json:"-"`
}

// Entry is one user observation of one condition at one point in time.
// Kind discriminates the variant; the per-kind classification fields are
// nil for the other variants. AI fields stay nil until the analyzer writes
// them, then are written exactly once (real or fallback verdict).
type Entry struct {
	ID         string        `json:"entry_id"`
	Kind       ConditionKind `json:"kind"`
	SequenceID string        `json:"sequence_id"`
	UserID     string        `json:"user_id"`
	CreatedAt  time.Time     `json:"created_at"`
	ImageID    string        `json:"image_id"`
	ImageExt   string        `json:"image_ext"`

	UserNotes    *string `json:"user_notes,omitempty"`
	UserConcerns *string `json:"user_concerns,omitempty"`

	AIComments      *string  `json:"ai_comments,omitempty"`
	Recommendations *string  `json:"recommendations,omitempty"`
	Treatment       []string `json:"treatment,omitempty"`

	NorwoodScore           *int    `json:"norwood_score,omitempty"`
	SeverityLevel          *string `json:"severity_level,omitempty"`
	IrregularitiesDetected *bool   `json:"irregularities_detected,omitempty"`
}

// ImageKey is the object-store key for the entry's photo.
func (e Entry) ImageKey() string {
	return e.ImageID + e.ImageExt
}

// Verdict is the normalized analysis result mapped back onto an entry.
// Exactly one classification field is set, matching the entry kind.
type Verdict struct {
	NorwoodScore           *int    `json:"norwood_score,omitempty"`
	SeverityLevel          *string `json:"severity_level,omitempty"`
	IrregularitiesDetected *bool   `json:"irregularities_detected,omitempty"`

	Comments        string   `json:"comments"`
	Recommendations string   `json:"recommendations"`
	Treatment       []string `json:"treatment"`
}

// Apply writes the verdict onto the entry's AI fields in one step, so the
// entry is never observed partially written.
func (v Verdict) Apply(e *Entry) {
	comments := v.Comments
	recommendations := v.Recommendations
	e.AIComments = &comments
	e.Recommendations = &recommendations
	e.Treatment = v.Treatment
	switch e.Kind {
	case KindHairline:
		e.NorwoodScore = v.NorwoodScore
	case KindAcne:
		e.SeverityLevel = v.SeverityLevel
	case KindMole:
		e.IrregularitiesDetected = v.IrregularitiesDetected
	}
}
