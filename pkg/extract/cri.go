package extract

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"parliament-search/pkg/domain"
)

// SessionNamespace is the XML namespace of Assemblée nationale session
// transcripts (comptes rendus intégraux).
const SessionNamespace = "http://schemas.assemblee-nationale.fr/referentiel"

// SessionDocument extracts speeches from one namespaced session transcript:
// nested session → paragraphe → orateurs/orateur + texte structure.
type SessionDocument struct {
	Path   string
	Filter Filter
}

// Extract materializes every qualifying fragment of the session. The
// underlying traversal is streaming; see WalkSession.
func (d SessionDocument) Extract(raw []byte) ([]domain.DraftRecord, int, error) {
	text, err := DecodeText(d.Path, raw)
	if err != nil {
		return nil, 0, &ParseError{Source: d.Path, Err: err}
	}
	var drafts []domain.DraftRecord
	dropped, err := WalkSession(bytes.NewReader(text), d.Path, d.Filter, func(rec domain.DraftRecord) error {
		drafts = append(drafts, rec)
		return nil
	})
	if err != nil {
		return nil, dropped, err
	}
	return drafts, dropped, nil
}

type sessionParagraph struct {
	Speakers []sessionSpeaker `xml:"orateurs>orateur"`
	Text     sessionText      `xml:"texte"`
}

type sessionSpeaker struct {
	Name    string `xml:"nom"`
	ID      string `xml:"id"`
	Quality string `xml:"qualite"`
}

// sessionText collects every text node under <texte>, including text inside
// inline markup, and captures the stime attribute.
type sessionText struct {
	STime string
	Text  string
}

func (t *sessionText) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for _, a := range start.Attr {
		if a.Name.Local == "stime" {
			t.STime = a.Value
		}
	}
	var sb strings.Builder
	depth := 0
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch v := tok.(type) {
		case xml.CharData:
			sb.Write(v)
		case xml.StartElement:
			depth++
		case xml.EndElement:
			if depth == 0 {
				t.Text = strings.TrimSpace(sb.String())
				return nil
			}
			depth--
		}
	}
}

// WalkSession event-parses one session transcript and invokes emit for each
// qualifying fragment. Only one paragraph is held in memory at a time, so
// memory stays bounded regardless of transcript size. The returned count is
// the number of fragments dropped by the filter or missing a speaker name.
func WalkSession(r io.Reader, source string, filter Filter, emit func(domain.DraftRecord) error) (int, error) {
	dec := NewDecoder(r)
	stem := fileStem(source)
	sessionDate := ""
	dropped := 0
	ordinal := 0

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return dropped, nil
		}
		if err != nil {
			return dropped, &ParseError{Source: source, Err: err}
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Space != SessionNamespace {
			continue
		}

		switch start.Name.Local {
		case "dateSeance":
			var raw struct {
				Text string `xml:",chardata"`
			}
			if err := dec.DecodeElement(&raw, &start); err != nil {
				return dropped, &ParseError{Source: source, Err: err}
			}
			sessionDate = sessionDateISO(raw.Text)

		case "paragraphe":
			var para sessionParagraph
			if err := dec.DecodeElement(&para, &start); err != nil {
				return dropped, &ParseError{Source: source, Err: err}
			}
			date := sessionDate
			if date == "" {
				date = stem
			}
			for _, sp := range para.Speakers {
				name := strings.TrimSpace(sp.Name)
				if name == "" {
					dropped++
					continue
				}
				if !filter.Keep(name, para.Text.Text) {
					dropped++
					continue
				}
				ordinal++
				rec := domain.DraftRecord{
					NaturalID:  strings.TrimSpace(sp.ID),
					Name:       name,
					NaturalKey: fmt.Sprintf("%s:%d", stem, ordinal),
					Date:       date,
					Time:       para.Text.STime,
					Title:      strings.TrimSpace(sp.Quality),
					DocumentID: stem,
					Text:       para.Text.Text,
				}
				if err := emit(rec); err != nil {
					return dropped, err
				}
			}
			// para goes out of scope here; nothing else references the node.
		}
	}
}

// sessionDateISO converts the dateSeance format (20210201160000) to an ISO
// date. Inputs shorter than eight digits are returned unchanged.
func sessionDateISO(s string) string {
	s = strings.TrimSpace(s)
	if len(s) < 8 {
		return s
	}
	return s[:4] + "-" + s[4:6] + "-" + s[6:8]
}
