package aggregate

import (
	"context"
	"encoding/xml"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"parliament-search/pkg/domain"
	"parliament-search/pkg/extract"
)

func writeInput(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func sessionDoc(date string, paragraphs ...string) string {
	var sb strings.Builder
	sb.WriteString(`<compteRendu xmlns="http://schemas.assemblee-nationale.fr/referentiel">`)
	sb.WriteString("<dateSeance>" + date + "</dateSeance>")
	for _, p := range paragraphs {
		sb.WriteString(p)
	}
	sb.WriteString("</compteRendu>")
	return sb.String()
}

func paragraph(name, id, text string) string {
	return `<paragraphe><orateurs><orateur><nom>` + name + `</nom><id>` + id +
		`</id></orateur></orateurs><texte>` + text + `</texte></paragraphe>`
}

// outputSpeaker mirrors the per-speaker output schema for verification.
type outputSpeaker struct {
	Name     string `xml:"name,attr"`
	Total    int    `xml:"total_speeches,attr"`
	Speeches []struct {
		Date string `xml:"date,attr"`
		Text string `xml:",chardata"`
	} `xml:"speech"`
}

func readOutput(t *testing.T, path string) outputSpeaker {
	t.Helper()
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output %s: %v", path, err)
	}
	var sp outputSpeaker
	if err := xml.Unmarshal(raw, &sp); err != nil {
		t.Fatalf("output %s is not valid XML: %v", path, err)
	}
	return sp
}

func TestAggregatorSessionCorpus(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()

	longA := "Un premier discours qui contient bien plus de mots que le seuil impose."
	longB := "Un second discours tout aussi long que le premier pour le même orateur."
	longC := "Une intervention d'un autre orateur, suffisamment longue elle aussi."

	// Later date first: outputs must still come out date ascending.
	writeInput(t, in, "seance_0002.xml", sessionDoc("20210302150000",
		paragraph("Mme Claire Martin", "267", longB),
		paragraph("M. le président", "1", "La séance est ouverte, mes chers collègues, veuillez vous asseoir."),
	))
	writeInput(t, in, "seance_0001.xml", sessionDoc("20210201160000",
		paragraph("Mme Claire Martin", "267", longA),
		paragraph("M. Paul Durand", "301", longC),
		paragraph("M. Paul Durand", "301", "Bravo !"),
	))

	agg, err := New(out, extract.NewFilter(5, nil), ModeSession)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	files := []string{filepath.Join(in, "seance_0001.xml"), filepath.Join(in, "seance_0002.xml")}
	sum, err := agg.Run(context.Background(), files)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if sum.Files != 2 || sum.Failed != 0 {
		t.Errorf("Unexpected file counts: %+v", sum)
	}
	// Claire Martin twice, Paul Durand once; président and "Bravo !" dropped.
	if sum.Fragments != 3 || sum.Dropped != 2 {
		t.Errorf("Unexpected fragment counts: %+v", sum)
	}
	if sum.Speakers != 2 {
		t.Errorf("Expected 2 speakers, got %d", sum.Speakers)
	}

	martin := readOutput(t, filepath.Join(out, "267_mme_claire_martin.xml"))
	if martin.Name != "Mme Claire Martin" || martin.Total != 2 {
		t.Errorf("Unexpected speaker header: %+v", martin)
	}
	if len(martin.Speeches) != 2 {
		t.Fatalf("Expected 2 speeches, got %d", len(martin.Speeches))
	}
	if martin.Speeches[0].Date != "2021-02-01" || martin.Speeches[1].Date != "2021-03-02" {
		t.Errorf("Speeches not date ascending: %+v", martin.Speeches)
	}
	if !strings.Contains(martin.Speeches[0].Text, "premier discours") {
		t.Errorf("Wrong speech first: %q", martin.Speeches[0].Text)
	}

	durand := readOutput(t, filepath.Join(out, "301_m_paul_durand.xml"))
	if durand.Total != 1 {
		t.Errorf("Expected 1 speech for Durand, got %d", durand.Total)
	}

	// Completeness: every qualifying fragment appears in exactly one output.
	if martin.Total+durand.Total != sum.Fragments {
		t.Errorf("Outputs hold %d fragments, run emitted %d", martin.Total+durand.Total, sum.Fragments)
	}
}

func TestAggregatorIsolatesMalformedFiles(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()

	good := writeInput(t, in, "seance_0001.xml", sessionDoc("20210201160000",
		paragraph("M. Paul Durand", "301", "Une intervention parfaitement valide et assez longue pour passer."),
	))
	bad := writeInput(t, in, "seance_0002.xml", "<compteRendu xmlns=\"http://schemas.assemblee-nationale.fr/referentiel\"><paragraphe>")

	agg, err := New(out, extract.NewFilter(5, nil), ModeSession)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	sum, err := agg.Run(context.Background(), []string{good, bad})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if sum.Failed != 1 || sum.Fragments != 1 {
		t.Errorf("Malformed file must not block the rest: %+v", sum)
	}

	// The good speaker's sink must still be flushed and valid.
	durand := readOutput(t, filepath.Join(out, "301_m_paul_durand.xml"))
	if durand.Total != 1 {
		t.Errorf("Expected 1 speech, got %d", durand.Total)
	}
}

func TestAggregatorHansardVerbatim(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()

	doc := `<publicwhip>
	  <speech person_id="uk.org.publicwhip/person/10001" speakername="Alice Brown" date="2024-03-12">
	    <p>I beg to move that this House has considered the matter at hand today.</p>
	  </speech>
	</publicwhip>`
	path := writeInput(t, in, "debates2024-03-12a.xml", doc)

	agg, err := New(out, extract.NewFilter(5, []string{}), ModeHansard)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	sum, err := agg.Run(context.Background(), []string{path})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if sum.Fragments != 1 || sum.Speakers != 1 {
		t.Errorf("Unexpected summary: %+v", sum)
	}

	raw, err := os.ReadFile(filepath.Join(out, "10001_alice_brown.xml"))
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	// Paragraph markup must survive unescaped in the member file.
	if !strings.Contains(string(raw), "<p>I beg to move") {
		t.Errorf("Inner markup not preserved verbatim:\n%s", raw)
	}
}

func TestRunClosesSinksOnPanic(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	path := writeInput(t, in, "seance_0001.xml", "<x/>")

	pool, err := NewSinkPool(out)
	if err != nil {
		t.Fatalf("NewSinkPool failed: %v", err)
	}
	agg := &Aggregator{
		pool:   pool,
		filter: extract.NewFilter(0, []string{}),
		walk: func(_ io.Reader, _ string, _ extract.Filter, emit func(domain.DraftRecord) error) (int, error) {
			emit(domain.DraftRecord{NaturalID: "7", Name: "Alice", Date: "2024-01-01", Text: "Some remarks."})
			panic("walk blew up")
		},
	}

	func() {
		defer func() {
			if recover() == nil {
				t.Error("Expected the panic to propagate")
			}
		}()
		agg.Run(context.Background(), []string{path})
	}()

	// The sink created before the panic must still be flushed to disk.
	alice := readOutput(t, filepath.Join(out, "7_alice.xml"))
	if alice.Total != 1 {
		t.Errorf("Expected the buffered fragment written out, got %+v", alice)
	}
}

func TestSinkPoolReusesAndCloses(t *testing.T) {
	dir := t.TempDir()
	pool, err := NewSinkPool(dir)
	if err != nil {
		t.Fatalf("NewSinkPool failed: %v", err)
	}

	a := pool.Get("k1", "Alice", "alice")
	b := pool.Get("k1", "Alice", "alice")
	if a != b {
		t.Error("Expected the same sink for the same key")
	}
	pool.Get("k2", "Bob", "bob")
	if pool.Len() != 2 {
		t.Errorf("Expected 2 sinks, got %d", pool.Len())
	}

	a.Add(fragment{Date: "2024-01-02", Text: "second"})
	a.Add(fragment{Date: "2024-01-01", Text: "first"})
	if err := pool.CloseAll(); err != nil {
		t.Fatalf("CloseAll failed: %v", err)
	}

	alice := readOutput(t, filepath.Join(dir, "alice.xml"))
	if len(alice.Speeches) != 2 || alice.Speeches[0].Text != "first" {
		t.Errorf("Expected date-ascending output, got %+v", alice.Speeches)
	}
	// Closing again is a no-op.
	if err := pool.CloseAll(); err != nil {
		t.Errorf("Second CloseAll failed: %v", err)
	}
}
