package aggregate

import (
	"bufio"
	"encoding/xml"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
)

// fragment is one buffered speech belonging to a sink's speaker.
type fragment struct {
	Date  string
	Time  string
	Title string
	Text  string
	Raw   bool // Text is verbatim inner XML, written unescaped
}

// Sink accumulates one speaker's fragments and emits their output file on
// Close: fragments ordered by date ascending, title as the stable
// tie-break.
type Sink struct {
	speaker   string
	path      string
	fragments []fragment
	closed    bool
}

// Add buffers one fragment.
func (s *Sink) Add(f fragment) {
	s.fragments = append(s.fragments, f)
}

// Close sorts and writes the speaker's file. Safe to call once per sink;
// the pool guarantees that.
func (s *Sink) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	sort.SliceStable(s.fragments, func(i, j int) bool {
		if s.fragments[i].Date != s.fragments[j].Date {
			return s.fragments[i].Date < s.fragments[j].Date
		}
		return s.fragments[i].Title < s.fragments[j].Title
	})

	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("create %s: %w", s.path, err)
	}
	w := bufio.NewWriter(f)

	fmt.Fprintf(w, "<?xml version=\"1.0\" encoding=\"utf-8\"?>\n")
	fmt.Fprintf(w, "<speaker name=%s total_speeches=%s generated=%s>\n",
		attr(s.speaker), attr(strconv.Itoa(len(s.fragments))), attr(time.Now().Format(time.RFC3339)))
	for _, fr := range s.fragments {
		fmt.Fprintf(w, "  <speech date=%s", attr(fr.Date))
		if fr.Time != "" {
			fmt.Fprintf(w, " time=%s", attr(fr.Time))
		}
		if fr.Title != "" {
			fmt.Fprintf(w, " title=%s", attr(fr.Title))
		}
		w.WriteString(">")
		if fr.Raw {
			w.WriteString(fr.Text)
		} else {
			xml.EscapeText(w, []byte(fr.Text))
		}
		w.WriteString("</speech>\n")
	}
	w.WriteString("</speaker>\n")

	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("flush %s: %w", s.path, err)
	}
	return f.Close()
}

func attr(v string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	_ = xml.EscapeText(&sb, []byte(v))
	sb.WriteByte('"')
	return sb.String()
}

// SinkPool owns the speaker → sink mapping: sinks are created lazily on
// first encounter and reused for every later fragment from the same
// speaker across all input files. CloseAll flushes and closes every sink on
// success and error paths alike.
type SinkPool struct {
	dir   string
	sinks map[string]*Sink
}

// NewSinkPool creates a pool writing into dir, which is created if missing.
func NewSinkPool(dir string) (*SinkPool, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir %s: %w", dir, err)
	}
	return &SinkPool{dir: dir, sinks: make(map[string]*Sink)}, nil
}

// Get returns the sink for the speaker key, creating it on first use.
// filename names the output file (without extension).
func (p *SinkPool) Get(key, speaker, filename string) *Sink {
	if s, ok := p.sinks[key]; ok {
		return s
	}
	s := &Sink{
		speaker: speaker,
		path:    filepath.Join(p.dir, filename+".xml"),
	}
	p.sinks[key] = s
	return s
}

// Len reports how many distinct speakers have sinks.
func (p *SinkPool) Len() int { return len(p.sinks) }

// CloseAll closes every sink, continuing past failures so no sink is left
// open, and returns the failures joined.
func (p *SinkPool) CloseAll() error {
	var errs []error
	for _, s := range p.sinks {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
