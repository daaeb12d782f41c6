package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/imrics/DermAI/internal/model"
)

func strPtr(s string) *string { return &s }

func TestWriteUserReportProducesPDF(t *testing.T) {
	score := 3
	severity := model.SeverityModerate
	irregular := false
	now := time.Now().UTC()

	user := model.User{ID: "u1", Name: "Test Patient", CreatedAt: now}
	entries := []model.Entry{
		{
			ID: "e1", Kind: model.KindHairline, SequenceID: "seq-1", UserID: "u1", CreatedAt: now,
			NorwoodScore: &score,
			AIComments:   strPtr("Temple recession visible."),
			Treatment:    []string{"Minoxidil Topical 5%"},
		},
		{
			ID: "e2", Kind: model.KindAcne, SequenceID: "seq-2", UserID: "u1", CreatedAt: now,
			SeverityLevel:   &severity,
			Recommendations: strPtr("Keep a gentle routine."),
		},
		{
			ID: "e3", Kind: model.KindMole, SequenceID: "seq-3", UserID: "u1", CreatedAt: now,
			IrregularitiesDetected: &irregular,
			UserNotes:              strPtr("No changes noticed."),
		},
	}

	var buf bytes.Buffer
	if err := WriteUserReport(&buf, user, entries); err != nil {
		t.Fatalf("WriteUserReport returned error: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "%PDF") {
		t.Error("output is not a PDF document")
	}
	if buf.Len() < 1000 {
		t.Errorf("suspiciously small PDF: %d bytes", buf.Len())
	}
}

func TestWriteUserReportEmptyHistory(t *testing.T) {
	var buf bytes.Buffer
	user := model.User{ID: "u1", Name: "Empty", CreatedAt: time.Now()}
	if err := WriteUserReport(&buf, user, nil); err != nil {
		t.Fatalf("WriteUserReport returned error: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "%PDF") {
		t.Error("output is not a PDF document")
	}
}

func TestClassificationLine(t *testing.T) {
	score := 4
	severity := model.SeveritySevere
	irregular := true

	cases := []struct {
		entry model.Entry
		want  string
	}{
		{model.Entry{Kind: model.KindHairline, NorwoodScore: &score}, "Norwood Score: 4"},
		{model.Entry{Kind: model.KindAcne, SeverityLevel: &severity}, "Severity Level: severe"},
		{model.Entry{Kind: model.KindMole, IrregularitiesDetected: &irregular}, "Irregularities Detected: Yes"},
		{model.Entry{Kind: model.KindHairline}, ""},
	}
	for _, tc := range cases {
		if got := classificationLine(tc.entry); got != tc.want {
			t.Errorf("got %q, want %q", got, tc.want)
		}
	}
}
