package extract

import (
	"testing"

	"github.com/parlagraph/parlagraph/pkg/common"
)

func TestAnnotateInsertsTags(t *testing.T) {
	text := "Falou Jaques Wagner com Soraya."
	grouped := Grouped{
		"Jaques Wagner": {{Start: 6, End: 19, Confidence: 1.0}},
		"Soraya":        {{Start: 24, End: 30, Confidence: 0.9}},
	}

	got := Annotate(text, grouped)
	want := "Falou <PESSOA:Jaques Wagner>Jaques Wagner</PESSOA> com <PESSOA:Soraya>Soraya</PESSOA>."
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestAnnotateAdjacentBoundary(t *testing.T) {
	text := "AnaBia"
	grouped := Grouped{
		"Ana": {{Start: 0, End: 3, Confidence: 1.0}},
		"Bia": {{Start: 3, End: 6, Confidence: 1.0}},
	}

	got := Annotate(text, grouped)
	want := "<PESSOA:Ana>Ana</PESSOA><PESSOA:Bia>Bia</PESSOA>"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestAnnotateSkipsOutOfRangeOccurrences(t *testing.T) {
	text := "curto"
	grouped := Grouped{
		"Alguém": {{Start: 2, End: 99, Confidence: 1.0}},
	}
	if got := Annotate(text, grouped); got != text {
		t.Fatalf("got %q, want unchanged text", got)
	}
}

func TestParseRoundTrip(t *testing.T) {
	text := "Falou Jaques Wagner com Soraya."
	grouped := Grouped{
		"Jaques Wagner": {{Start: 6, End: 19, Confidence: 1.0}},
		"Soraya":        {{Start: 24, End: 30, Confidence: 0.9}},
	}

	plain, spans := Parse(Annotate(text, grouped))
	if plain != text {
		t.Fatalf("plain = %q, want %q", plain, text)
	}
	if len(spans) != 2 {
		t.Fatalf("expected 2 spans, got %v", spans)
	}
	if spans[0].Text != "Jaques Wagner" || spans[0].Start != 6 || spans[0].End != 19 {
		t.Errorf("first span = %+v", spans[0])
	}
	if spans[1].Text != "Soraya" || spans[1].Start != 24 || spans[1].End != 30 {
		t.Errorf("second span = %+v", spans[1])
	}
}

func TestParseCanonicalNameDiffersFromSurface(t *testing.T) {
	plain, spans := Parse("Ola <PESSOA:Jaques Wagner>WAGNER</PESSOA>!")
	if plain != "Ola WAGNER!" {
		t.Fatalf("plain = %q", plain)
	}
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %v", spans)
	}
	s := spans[0]
	if s.Text != "Jaques Wagner" || s.Start != 4 || s.End != 10 || s.Label != common.LabelPerson {
		t.Errorf("span = %+v", s)
	}
}

func TestParseToleratesStrayTags(t *testing.T) {
	plain, spans := Parse("abc</PESSOA>def<PESSOA:Ana>ghi")
	if plain != "abcdefghi" {
		t.Fatalf("plain = %q", plain)
	}
	if len(spans) != 1 || spans[0].Text != "Ana" || spans[0].Start != 6 || spans[0].End != 9 {
		t.Fatalf("spans = %v", spans)
	}
}
