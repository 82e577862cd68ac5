package extract

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"parliament-search/pkg/domain"
)

// WalkHansard event-parses a Hansard debate file and invokes emit for each
// <speech> element. The element body is preserved verbatim (inner XML) so
// per-member output files keep the original paragraph markup. Fragments
// without a speaker name are attributed to "Unknown", matching the archive
// convention; the filter's exclusion list and word minimum still apply to
// the visible text.
func WalkHansard(r io.Reader, source string, filter Filter, emit func(domain.DraftRecord) error) (int, error) {
	dec := NewDecoder(r)
	stem := fileStem(source)
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
		if !ok || start.Name.Local != "speech" {
			continue
		}

		var el struct {
			PersonID string `xml:"person_id,attr"`
			Speaker  string `xml:"speakername,attr"`
			Date     string `xml:"date,attr"`
			Inner    string `xml:",innerxml"`
		}
		if err := dec.DecodeElement(&el, &start); err != nil {
			return dropped, &ParseError{Source: source, Err: err}
		}

		name := strings.TrimSpace(el.Speaker)
		if name == "" {
			name = "Unknown"
		}
		if !filter.Keep(name, stripTags(el.Inner)) {
			dropped++
			continue
		}
		date := strings.TrimSpace(el.Date)
		if date == "" {
			date = stem
		}
		ordinal++
		rec := domain.DraftRecord{
			NaturalID:  personIDTail(el.PersonID),
			Name:       name,
			NaturalKey: fmt.Sprintf("%s:%d", stem, ordinal),
			Date:       date,
			DocumentID: stem,
			Text:       el.Inner,
		}
		if err := emit(rec); err != nil {
			return dropped, err
		}
	}
}

// personIDTail reduces "uk.org.publicwhip/person/10001" to "10001".
func personIDTail(pid string) string {
	pid = strings.TrimSpace(pid)
	if idx := strings.LastIndex(pid, "/"); idx >= 0 {
		return pid[idx+1:]
	}
	return pid
}

// stripTags flattens inner XML to plain text for word counting.
func stripTags(inner string) string {
	var sb strings.Builder
	inTag := false
	for _, r := range inner {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
			sb.WriteByte(' ')
		case !inTag:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
