package analysis

import (
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestExtractStructuredDirectJSON(t *testing.T) {
	fields := ExtractStructured(`{"norwood_score": 3, "observations": "obs"}`)
	if fields["observations"] != "obs" {
		t.Errorf("unexpected fields: %v", fields)
	}
}

func TestExtractStructuredEmbeddedJSON(t *testing.T) {
	raw := "Sure, here is the analysis:\n```json\n{\"texture_level\": \"smooth\"}\n```\nHope that helps!"
	fields := ExtractStructured(raw)
	if fields["texture_level"] != "smooth" {
		t.Errorf("embedded JSON not recovered: %v", fields)
	}
}

func TestExtractStructuredDegradesToRawComments(t *testing.T) {
	raw := strings.Repeat("x", 600)
	fields := ExtractStructured(raw)

	comments, _ := fields["Comments"].(string)
	if len(comments) != maxRawCommentLength+3 || !strings.HasSuffix(comments, "...") {
		t.Errorf("expected truncated comments, got %d chars", len(comments))
	}
	if fields["Recommendations"] != DefaultRecommendation {
		t.Errorf("expected default recommendation, got %v", fields["Recommendations"])
	}
}

func TestExtractStructuredTruncatesOnRuneBoundary(t *testing.T) {
	raw := strings.Repeat("x", 499) + strings.Repeat("é", 10)
	fields := ExtractStructured(raw)

	comments, _ := fields["Comments"].(string)
	if !utf8.ValidString(comments) {
		t.Fatalf("truncated comments are not valid UTF-8: %q", comments[490:])
	}
	if got := utf8.RuneCountInString(strings.TrimSuffix(comments, "...")); got != maxRawCommentLength {
		t.Errorf("expected %d runes before the ellipsis, got %d", maxRawCommentLength, got)
	}
	if !strings.HasSuffix(comments, "é...") {
		t.Errorf("expected the last kept rune intact, got suffix %q", comments[len(comments)-8:])
	}
}

func TestExtractStructuredShortGarbageKeptWhole(t *testing.T) {
	fields := ExtractStructured("not json at all")
	if fields["Comments"] != "not json at all" {
		t.Errorf("unexpected comments: %v", fields["Comments"])
	}
}

func TestParseTreatmentList(t *testing.T) {
	got := ParseTreatmentList(" minoxidil topical 5%, ketoconazole shampoo ,, microneedling")
	want := []string{"Minoxidil Topical 5%", "Ketoconazole Shampoo", "Microneedling"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParseTreatmentListEmpty(t *testing.T) {
	if got := ParseTreatmentList("   "); len(got) != 0 {
		t.Errorf("expected empty list, got %v", got)
	}
}

func TestParseTreatmentListIdempotent(t *testing.T) {
	inputs := []string{"PRP Injections", "Hair Transplant (FUE/FUT)", "Minoxidil Oral 2.5 Mg"}
	for _, input := range inputs {
		once := ParseTreatmentList(input)
		twice := ParseTreatmentList(strings.Join(once, ", "))
		if !reflect.DeepEqual(once, twice) {
			t.Errorf("not idempotent for %q: %v vs %v", input, once, twice)
		}
		if once[0] != input {
			t.Errorf("already canonical input changed: %q -> %q", input, once[0])
		}
	}
}
