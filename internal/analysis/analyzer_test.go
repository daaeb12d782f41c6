package analysis

import (
	"context"
	"errors"
	"io"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/imrics/DermAI/internal/model"
)

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func strPtr(s string) *string { return &s }

type fakeEntryStore struct {
	prior    []model.Entry
	priorErr error
	saved    *model.Entry
	saveErr  error
}

func (f *fakeEntryStore) PriorEntries(_ context.Context, _ model.Entry) ([]model.Entry, error) {
	return f.prior, f.priorErr
}

func (f *fakeEntryStore) SaveVerdict(_ context.Context, entry *model.Entry) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	saved := *entry
	f.saved = &saved
	return nil
}

type fakeMedStore struct {
	active    []model.Medication
	activeErr error
	asOf      func(asOf time.Time) []model.Medication
}

func (f *fakeMedStore) ListActive(_ context.Context, _ string, _ model.ConditionKind) ([]model.Medication, error) {
	return f.active, f.activeErr
}

func (f *fakeMedStore) ListAsOf(_ context.Context, _ string, _ model.ConditionKind, asOf time.Time) ([]model.Medication, error) {
	if f.asOf == nil {
		return nil, nil
	}
	return f.asOf(asOf), nil
}

type fakeImages struct {
	data map[string][]byte
}

func (f *fakeImages) ReadBytes(_ context.Context, key string) ([]byte, error) {
	if data, ok := f.data[key]; ok {
		return data, nil
	}
	return nil, errors.New("object not found")
}

type staticVision struct {
	raw string
	err error
}

func (v staticVision) Analyze(_ context.Context, _ VisionRequest) (string, error) {
	return v.raw, v.err
}

func newTestAnalyzer(entries *fakeEntryStore, vision VisionClient) *Analyzer {
	images := &fakeImages{data: map[string][]byte{}}
	return New(entries, &fakeMedStore{}, images, vision, DefaultHistoryLimit, newTestLogger())
}

func TestAnalyzeHairlineSuccess(t *testing.T) {
	entries := &fakeEntryStore{}
	analyzer := newTestAnalyzer(entries, MockVisionClient{})

	entry := model.Entry{ID: "e1", Kind: model.KindHairline, UserID: "u1", ImageID: "img1", ImageExt: ".jpg"}
	verdict, err := analyzer.Analyze(context.Background(), &entry)
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}
	if verdict.NorwoodScore == nil || *verdict.NorwoodScore != 2 {
		t.Fatalf("expected norwood score 2, got %v", verdict.NorwoodScore)
	}
	if entry.AIComments == nil || *entry.AIComments != "Mock hairline observation." {
		t.Errorf("unexpected comments: %v", entry.AIComments)
	}
	if len(entry.Treatment) != 2 || entry.Treatment[0] != "Ketoconazole Shampoo" {
		t.Errorf("unexpected treatment: %v", entry.Treatment)
	}
	if entries.saved == nil {
		t.Fatal("verdict was not persisted")
	}
	if entries.saved.NorwoodScore == nil || *entries.saved.NorwoodScore != 2 {
		t.Errorf("persisted entry missing norwood score: %+v", entries.saved)
	}
}

func TestAnalyzeAcneSeverityMapping(t *testing.T) {
	cases := []struct {
		texture string
		want    string
	}{
		{"smooth", model.SeverityMild},
		{"textured", model.SeverityModerate},
		{"very_textured", model.SeveritySevere},
		{"something_else", model.SeverityModerate},
	}
	for _, tc := range cases {
		t.Run(tc.texture, func(t *testing.T) {
			entries := &fakeEntryStore{}
			vision := staticVision{raw: `{"texture_level": "` + tc.texture + `", "observations": "obs", "suggestions": "sug", "treatment": "Adapalene"}`}
			analyzer := newTestAnalyzer(entries, vision)

			entry := model.Entry{ID: "e1", Kind: model.KindAcne, UserID: "u1", ImageID: "img1", ImageExt: ".jpg"}
			verdict, err := analyzer.Analyze(context.Background(), &entry)
			if err != nil {
				t.Fatalf("Analyze returned error: %v", err)
			}
			if verdict.SeverityLevel == nil || *verdict.SeverityLevel != tc.want {
				t.Errorf("texture %q: expected severity %q, got %v", tc.texture, tc.want, verdict.SeverityLevel)
			}
		})
	}
}

func TestAnalyzeMoleInvertsRegularity(t *testing.T) {
	entries := &fakeEntryStore{}
	vision := staticVision{raw: `{"feature_regular": false, "observations": "obs", "suggestions": "sug", "treatment": "Dermoscopy"}`}
	analyzer := newTestAnalyzer(entries, vision)

	entry := model.Entry{ID: "e1", Kind: model.KindMole, UserID: "u1", ImageID: "img1", ImageExt: ".jpg"}
	verdict, err := analyzer.Analyze(context.Background(), &entry)
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}
	if verdict.IrregularitiesDetected == nil || !*verdict.IrregularitiesDetected {
		t.Errorf("feature_regular=false should map to irregularities detected, got %v", verdict.IrregularitiesDetected)
	}
}

func TestAnalyzeClampsNorwoodScore(t *testing.T) {
	cases := []struct {
		raw  string
		want int
	}{
		{`{"norwood_score": 99}`, 7},
		{`{"norwood_score": -3}`, 0},
		{`{"norwood_score": 5}`, 5},
	}
	for _, tc := range cases {
		entries := &fakeEntryStore{}
		analyzer := newTestAnalyzer(entries, staticVision{raw: tc.raw})

		entry := model.Entry{ID: "e1", Kind: model.KindHairline, UserID: "u1", ImageID: "img1", ImageExt: ".jpg"}
		verdict, err := analyzer.Analyze(context.Background(), &entry)
		if err != nil {
			t.Fatalf("Analyze returned error: %v", err)
		}
		if verdict.NorwoodScore == nil || *verdict.NorwoodScore != tc.want {
			t.Errorf("raw %s: expected score %d, got %v", tc.raw, tc.want, verdict.NorwoodScore)
		}
	}
}

func TestAnalyzeFallbackOnProviderFailure(t *testing.T) {
	for _, kind := range []model.ConditionKind{model.KindHairline, model.KindAcne, model.KindMole} {
		t.Run(string(kind), func(t *testing.T) {
			entries := &fakeEntryStore{}
			vision := staticVision{err: &ProviderError{Err: errors.New("boom")}}
			analyzer := newTestAnalyzer(entries, vision)

			entry := model.Entry{ID: "e1", Kind: kind, UserID: "u1", ImageID: "img1", ImageExt: ".jpg"}
			verdict, err := analyzer.Analyze(context.Background(), &entry)
			if err != nil {
				t.Fatalf("Analyze returned error: %v", err)
			}
			if !strings.Contains(verdict.Comments, "unavailable") {
				t.Errorf("fallback comments should mention unavailability, got %q", verdict.Comments)
			}
			if strings.Contains(verdict.Comments, "boom") {
				t.Errorf("fallback comments must not leak error text, got %q", verdict.Comments)
			}
			if len(verdict.Treatment) == 0 || len(verdict.Treatment) > 3 {
				t.Errorf("fallback treatment list out of bounds: %v", verdict.Treatment)
			}
			if entries.saved == nil {
				t.Fatal("fallback verdict was not persisted")
			}
			if entries.saved.AIComments == nil {
				t.Error("persisted entry missing fallback comments")
			}
		})
	}
}

func TestAnalyzeFallbackOnMedicationError(t *testing.T) {
	entries := &fakeEntryStore{}
	meds := &fakeMedStore{activeErr: errors.New("db down")}
	images := &fakeImages{data: map[string][]byte{}}
	analyzer := New(entries, meds, images, MockVisionClient{}, DefaultHistoryLimit, newTestLogger())

	entry := model.Entry{ID: "e1", Kind: model.KindHairline, UserID: "u1", ImageID: "img1", ImageExt: ".jpg"}
	verdict, err := analyzer.Analyze(context.Background(), &entry)
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}
	if !strings.Contains(verdict.Comments, "unavailable") {
		t.Errorf("expected fallback verdict, got %q", verdict.Comments)
	}
}

func TestAnalyzePersistErrorPropagates(t *testing.T) {
	entries := &fakeEntryStore{saveErr: errors.New("write failed")}
	analyzer := newTestAnalyzer(entries, MockVisionClient{})

	entry := model.Entry{ID: "e1", Kind: model.KindHairline, UserID: "u1", ImageID: "img1", ImageExt: ".jpg"}
	if _, err := analyzer.Analyze(context.Background(), &entry); err == nil {
		t.Fatal("expected persistence error")
	}
}

func TestAnalyzeDegradedExtractionKeepsRawComments(t *testing.T) {
	entries := &fakeEntryStore{}
	vision := staticVision{raw: "The model rambled without any structure."}
	analyzer := newTestAnalyzer(entries, vision)

	entry := model.Entry{ID: "e1", Kind: model.KindHairline, UserID: "u1", ImageID: "img1", ImageExt: ".jpg"}
	verdict, err := analyzer.Analyze(context.Background(), &entry)
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}
	if verdict.Comments != "The model rambled without any structure." {
		t.Errorf("degraded extraction should surface raw text as comments, got %q", verdict.Comments)
	}
	if verdict.Recommendations != DefaultRecommendation {
		t.Errorf("expected default recommendation, got %q", verdict.Recommendations)
	}
	if verdict.NorwoodScore == nil || *verdict.NorwoodScore != 2 {
		t.Errorf("missing score should default to 2, got %v", verdict.NorwoodScore)
	}
}

func TestAnalyzeUnknownKindFallsBack(t *testing.T) {
	entries := &fakeEntryStore{}
	analyzer := newTestAnalyzer(entries, MockVisionClient{})

	entry := model.Entry{ID: "e1", Kind: model.ConditionKind("scalp"), UserID: "u1", ImageID: "img1", ImageExt: ".jpg"}
	verdict, err := analyzer.Analyze(context.Background(), &entry)
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}
	if !strings.Contains(verdict.Comments, "unavailable") {
		t.Errorf("unknown kind should resolve to a fallback verdict, got %q", verdict.Comments)
	}
	if entries.saved == nil {
		t.Fatal("fallback verdict was not persisted")
	}
}

func TestAnalyzeAcceptsTreatmentArray(t *testing.T) {
	entries := &fakeEntryStore{}
	vision := staticVision{raw: `{"norwood_score": 3, "observations": "obs", "suggestions": "sug", "treatment": ["minoxidil topical 5%", "PRP Injections"]}`}
	analyzer := newTestAnalyzer(entries, vision)

	entry := model.Entry{ID: "e1", Kind: model.KindHairline, UserID: "u1", ImageID: "img1", ImageExt: ".jpg"}
	verdict, err := analyzer.Analyze(context.Background(), &entry)
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}
	want := []string{"Minoxidil Topical 5%", "PRP Injections"}
	if !reflect.DeepEqual(verdict.Treatment, want) {
		t.Errorf("array treatment not honored: got %v, want %v", verdict.Treatment, want)
	}
}

func TestSeverityFromTexture(t *testing.T) {
	if got := severityFromTexture("  SMOOTH  "); got != model.SeverityMild {
		t.Errorf("expected mild, got %q", got)
	}
	if got := severityFromTexture("very_textured"); got != model.SeveritySevere {
		t.Errorf("expected severe, got %q", got)
	}
	if got := severityFromTexture(""); got != model.SeverityModerate {
		t.Errorf("expected moderate, got %q", got)
	}
}
