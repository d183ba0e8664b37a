package segment

import (
	"reflect"
	"testing"

	"github.com/parlagraph/parlagraph/pkg/resolver"
)

func TestSplitAtSpeakerIntroductions(t *testing.T) {
	text := "Abertura da sessão. " +
		"O SR. PRESIDENTE (João Silva. PT - SP) declarou aberta a sessão. " +
		"A SRA. SORAYA THRONICKE (PSDB - MS) falou da pauta."

	got := Split(text)
	want := []string{
		"Abertura da sessão.",
		"O SR. PRESIDENTE (João Silva. PT - SP) declarou aberta a sessão.",
		"A SRA. SORAYA THRONICKE (PSDB - MS) falou da pauta.",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestSplitNoBoundaries(t *testing.T) {
	got := Split("Apenas texto procedimental, sem oradores.")
	if len(got) != 1 {
		t.Fatalf("expected 1 piece, got %q", got)
	}
	if got := Split("   \n\t "); got != nil {
		t.Fatalf("expected no pieces for whitespace, got %q", got)
	}
}

func TestSegmentAttribution(t *testing.T) {
	// No speaker-introduction boundary, so the whole text is one speech
	// with the first tag naming the speaker.
	text := "Nesse momento <PESSOA:João Silva>JOÃO SILVA</PESSOA> citou " +
		"<PESSOA:Jaques Wagner>Wagner</PESSOA>, depois " +
		"<PESSOA:Jaques Wagner>Jaques Wagner</PESSOA> de novo, e também " +
		"<PESSOA:João Silva>a si mesmo</PESSOA>."

	segs := New(resolver.New()).Segment(text)
	if len(segs) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(segs))
	}

	seg := segs[0]
	if seg.Speaker != "João Silva" {
		t.Errorf("speaker = %q", seg.Speaker)
	}
	// Mentions are de-duplicated and never include the speaker.
	if !reflect.DeepEqual(seg.Mentions, []string{"Jaques Wagner"}) {
		t.Errorf("mentions = %q", seg.Mentions)
	}
}

func TestSegmentWithoutTags(t *testing.T) {
	segs := New(resolver.New()).Segment("O SR. PRESIDENTE agradeceu a presença de todos.")
	if len(segs) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(segs))
	}
	if segs[0].Speaker != "" || segs[0].Mentions != nil {
		t.Errorf("untagged segment should carry no attribution: %+v", segs[0])
	}
}

func TestSegmentAnnotatedTranscript(t *testing.T) {
	// Annotation places the speaker tag right before the introduction
	// boundary, so it becomes the sole tag of the preceding piece.
	tag := "<PESSOA:Presidente João Silva PT-SP>"
	text := tag + "O SR. PRESIDENTE (João Silva. PT - SP)</PESSOA> declarou aberta a sessão. " +
		tag + "O SR. PRESIDENTE (João Silva. PT - SP)</PESSOA> agradeceu."

	segs := New(resolver.New()).Segment(text)

	var attributed int
	for _, seg := range segs {
		if seg.Speaker == "" {
			continue
		}
		attributed++
		if seg.Speaker != "Presidente João Silva PT-SP" {
			t.Errorf("speaker = %q", seg.Speaker)
		}
		if len(seg.Mentions) != 0 {
			t.Errorf("expected no mentions, got %q", seg.Mentions)
		}
	}
	if attributed != 2 {
		t.Fatalf("expected 2 attributed segments, got %d (segments: %+v)", attributed, segs)
	}
}
