package extract

import (
	"encoding/xml"
	"io"
	"log"
	"strings"

	"parliament-search/pkg/domain"
)

// SpeechListDocument extracts entries from the Riksdagen speech-list
// endpoint: a flat <anforandelista> of <anforande> metadata elements. The
// full speech text is not part of the list; each entry carries the URL of
// its own detail document.
type SpeechListDocument struct {
	Source string
	Filter Filter
}

type speechList struct {
	XMLName xml.Name    `xml:"anforandelista"`
	Entries []listEntry `xml:"anforande"`
}

type listEntry struct {
	IID      string `xml:"iid"`
	Speaker  string `xml:"talare"`
	Party    string `xml:"parti"`
	SpeechID string `xml:"anforande_id"`
	TextURL  string `xml:"anforande_url_xml"`
	DocID    string `xml:"dok_id"`
	DocDate  string `xml:"dok_datum"`
	Section  string `xml:"avsnittsrubrik"`
	DocTitle string `xml:"dok_titel"`
}

// Extract parses the list document and returns one draft per usable entry.
// Entries missing the speaker name, the speech id or the text URL cannot be
// fetched or keyed, so they are logged and dropped.
func (d SpeechListDocument) Extract(raw []byte) ([]domain.DraftRecord, int, error) {
	dec, err := newDocumentDecoder(d.Source, raw)
	if err != nil {
		return nil, 0, err
	}

	var list speechList
	if err := dec.Decode(&list); err != nil {
		return nil, 0, &ParseError{Source: d.Source, Err: err}
	}

	var drafts []domain.DraftRecord
	dropped := 0
	for i, e := range list.Entries {
		if err := e.validate(); err != nil {
			log.Printf("extract: %s entry %d skipped: %v", d.Source, i+1, err)
			dropped++
			continue
		}
		name := strings.TrimSpace(e.Speaker)
		if !d.Filter.Keep(name, "") {
			dropped++
			continue
		}
		title := strings.TrimSpace(e.Section)
		if title == "" {
			title = "Ej specificerat ämne"
		}
		drafts = append(drafts, domain.DraftRecord{
			NaturalID:  strings.TrimSpace(e.IID),
			Name:       name,
			Party:      strings.TrimSpace(e.Party),
			NaturalKey: strings.TrimSpace(e.SpeechID),
			Date:       isoDate(e.DocDate),
			Title:      title,
			DocumentID: strings.TrimSpace(e.DocID),
			DocTitle:   strings.TrimSpace(e.DocTitle),
			TextURL:    strings.TrimSpace(e.TextURL),
		})
	}
	return drafts, dropped, nil
}

func (e listEntry) validate() error {
	switch {
	case strings.TrimSpace(e.Speaker) == "":
		return &MissingFieldError{Field: "talare"}
	case strings.TrimSpace(e.SpeechID) == "":
		return &MissingFieldError{Field: "anforande_id"}
	case strings.TrimSpace(e.TextURL) == "":
		return &MissingFieldError{Field: "anforande_url_xml"}
	}
	return nil
}

// isoDate trims timestamps like "2024-01-15 00:00:00" down to the date.
func isoDate(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 10 {
		return s[:10]
	}
	return s
}

// SpeechDetail extracts the full text from a per-speech leaf document. The
// <anforandetext> element may sit at the root or nested under <anforande>;
// a token scan finds it either way. The returned text still carries the
// source's inline HTML markup, which pkg/content strips.
func SpeechDetail(source string, raw []byte) (string, error) {
	dec, err := newDocumentDecoder(source, raw)
	if err != nil {
		return "", err
	}

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return "", &MissingFieldError{Field: "anforandetext"}
		}
		if err != nil {
			return "", &ParseError{Source: source, Err: err}
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "anforandetext" {
			continue
		}
		var body struct {
			Text string `xml:",chardata"`
		}
		if err := dec.DecodeElement(&body, &start); err != nil {
			return "", &ParseError{Source: source, Err: err}
		}
		return strings.TrimSpace(body.Text), nil
	}
}
