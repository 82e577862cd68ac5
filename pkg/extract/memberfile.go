package extract

import (
	"encoding/xml"
	"fmt"
	"path/filepath"
	"strings"

	"parliament-search/pkg/domain"
)

// MemberFileDocument extracts speeches from the flat per-member archive
// format: a single root element carrying the speaker's attributes with
// child <speech> nodes. Two dialects exist and are handled together:
//
//	<speeches member_id="10001" member_name="...."> <speech><p>..</p></speech>
//	<deputy name="...."> <speech date=".." time=".." title="..">text</speech>
//
// Neither dialect carries party information.
type MemberFileDocument struct {
	Path   string
	Filter Filter
}

type memberRoot struct {
	XMLName    xml.Name
	MemberID   string         `xml:"member_id,attr"`
	MemberName string         `xml:"member_name,attr"`
	Name       string         `xml:"name,attr"`
	Speeches   []memberSpeech `xml:"speech"`
}

type memberSpeech struct {
	Date       string            `xml:"date,attr"`
	Time       string            `xml:"time,attr"`
	Title      string            `xml:"title,attr"`
	Text       string            `xml:",chardata"`
	Paragraphs []memberParagraph `xml:"p"`
}

type memberParagraph struct {
	Text string `xml:",chardata"`
}

// Extract parses the file and returns one draft per qualifying speech.
// Natural keys are derived from the file stem and the speech ordinal, which
// is stable because file enumeration is sorted.
func (d MemberFileDocument) Extract(raw []byte) ([]domain.DraftRecord, int, error) {
	dec, err := newDocumentDecoder(d.Path, raw)
	if err != nil {
		return nil, 0, err
	}

	var root memberRoot
	if err := dec.Decode(&root); err != nil {
		return nil, 0, &ParseError{Source: d.Path, Err: err}
	}

	name := strings.TrimSpace(root.MemberName)
	if name == "" {
		name = strings.TrimSpace(root.Name)
	}
	if name == "" {
		return nil, 0, &MissingFieldError{Field: "name"}
	}
	// Hansard splitter output uses underscores in member_name.
	name = strings.ReplaceAll(name, "_", " ")

	stem := fileStem(d.Path)
	var drafts []domain.DraftRecord
	dropped := 0
	for i, sp := range root.Speeches {
		text := sp.text()
		if !d.Filter.Keep(name, text) {
			dropped++
			continue
		}
		date := strings.TrimSpace(sp.Date)
		if date == "" {
			// No per-speech date in this dialect; the file stem is the
			// only document-level context available.
			date = stem
		}
		drafts = append(drafts, domain.DraftRecord{
			NaturalID:  strings.TrimSpace(root.MemberID),
			Name:       name,
			NaturalKey: fmt.Sprintf("%s:%d", stem, i+1),
			Date:       date,
			Time:       strings.TrimSpace(sp.Time),
			Title:      strings.TrimSpace(sp.Title),
			DocumentID: stem,
			Text:       text,
		})
	}
	return drafts, dropped, nil
}

// text joins the speech body: direct character data for the attribute
// dialect, concatenated <p> children for the Hansard dialect.
func (sp memberSpeech) text() string {
	if len(sp.Paragraphs) == 0 {
		return strings.TrimSpace(sp.Text)
	}
	parts := make([]string, 0, len(sp.Paragraphs))
	for _, p := range sp.Paragraphs {
		if t := strings.TrimSpace(p.Text); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}

func fileStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
