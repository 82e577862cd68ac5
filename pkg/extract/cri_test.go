package extract

import (
	"strings"
	"testing"

	"parliament-search/pkg/domain"
)

const sampleSession = `<?xml version="1.0" encoding="utf-8"?>
<compteRendu xmlns="http://schemas.assemblee-nationale.fr/referentiel">
  <metadonnees>
    <dateSeance>20210201160000</dateSeance>
  </metadonnees>
  <contenu>
    <paragraphe>
      <orateurs>
        <orateur><nom>M. le président</nom><id>100</id></orateur>
      </orateurs>
      <texte stime="60">La séance est ouverte et nous allons commencer sans tarder.</texte>
    </paragraphe>
    <paragraphe>
      <orateurs>
        <orateur><nom>Mme Claire Martin</nom><id>267</id><qualite>rapporteure</qualite></orateur>
      </orateurs>
      <texte stime="120">Monsieur le président, <italique>mes chers collègues</italique>, ce texte mérite notre attention pleine et entière.</texte>
    </paragraphe>
    <paragraphe>
      <orateurs>
        <orateur><nom>M. Paul Durand</nom><id>301</id></orateur>
      </orateurs>
      <texte>Bravo !</texte>
    </paragraphe>
  </contenu>
</compteRendu>`

func TestWalkSession(t *testing.T) {
	var recs []domain.DraftRecord
	dropped, err := WalkSession(strings.NewReader(sampleSession), "/sessions/seance_2021.xml", NewFilter(5, nil), func(r domain.DraftRecord) error {
		recs = append(recs, r)
		return nil
	})
	if err != nil {
		t.Fatalf("WalkSession failed: %v", err)
	}
	// The presiding officer and the two-word interjection are dropped.
	if dropped != 2 {
		t.Errorf("Expected 2 dropped, got %d", dropped)
	}
	if len(recs) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(recs))
	}

	r := recs[0]
	if r.Name != "Mme Claire Martin" || r.NaturalID != "267" || r.Title != "rapporteure" {
		t.Errorf("Unexpected speaker fields: %+v", r)
	}
	if r.Date != "2021-02-01" {
		t.Errorf("Expected session date reformatted, got %q", r.Date)
	}
	if r.Time != "120" {
		t.Errorf("Unexpected stime %q", r.Time)
	}
	if r.NaturalKey != "seance_2021:1" {
		t.Errorf("Unexpected natural key %q", r.NaturalKey)
	}
	// Inline markup text must be part of the collected body.
	if !strings.Contains(r.Text, "mes chers collègues") {
		t.Errorf("Inline markup text lost: %q", r.Text)
	}
}

func TestWalkSessionIgnoresForeignNamespace(t *testing.T) {
	doc := `<doc xmlns:x="http://example.org/other">
	  <x:paragraphe><x:texte>Should never surface anywhere at all.</x:texte></x:paragraphe>
	</doc>`
	count := 0
	_, err := WalkSession(strings.NewReader(doc), "other.xml", NewFilter(0, nil), func(domain.DraftRecord) error {
		count++
		return nil
	})
	if err != nil {
		t.Fatalf("WalkSession failed: %v", err)
	}
	if count != 0 {
		t.Errorf("Fragments outside the session namespace must be ignored, got %d", count)
	}
}

func TestWalkSessionDateFallback(t *testing.T) {
	doc := `<compteRendu xmlns="http://schemas.assemblee-nationale.fr/referentiel">
	  <paragraphe>
	    <orateurs><orateur><nom>M. Paul Durand</nom></orateur></orateurs>
	    <texte>Un discours suffisamment long pour franchir le seuil de mots.</texte>
	  </paragraphe>
	</compteRendu>`
	var recs []domain.DraftRecord
	_, err := WalkSession(strings.NewReader(doc), "/sessions/seance_0042.xml", NewFilter(0, nil), func(r domain.DraftRecord) error {
		recs = append(recs, r)
		return nil
	})
	if err != nil {
		t.Fatalf("WalkSession failed: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(recs))
	}
	if recs[0].Date != "seance_0042" {
		t.Errorf("Expected file-stem date fallback, got %q", recs[0].Date)
	}
	if recs[0].NaturalID != "" {
		t.Errorf("Missing orateur id should stay empty, got %q", recs[0].NaturalID)
	}
}

func TestSessionDateISO(t *testing.T) {
	cases := []struct{ in, want string }{
		{"20210201160000", "2021-02-01"},
		{"20231130", "2023-11-30"},
		{"2021", "2021"},
		{"", ""},
	}
	for _, c := range cases {
		if got := sessionDateISO(c.in); got != c.want {
			t.Errorf("sessionDateISO(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
