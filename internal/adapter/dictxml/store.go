// Package dictxml persists the structured dictionary store as
// pretty-printed XML. A bare record is a plain <word>text</word>
// element; an enriched record nests <text>, <definition> and <pos>
// children. Writes are atomic (temp file + rename) with an optional
// timestamped backup of the previous file.
package dictxml

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/heartmarshall/gamedict/internal/domain"
)

// Store reads and writes the dictionary XML file at Path.
type Store struct {
	Path string
}

// New creates a Store for the given path.
func New(path string) *Store {
	return &Store{Path: path}
}

// Exists reports whether the dictionary file is present.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.Path)
	return err == nil
}

// Load parses the dictionary file. A missing file returns os.ErrNotExist
// (wrapped); malformed XML returns an error wrapping domain.ErrParse so
// callers can fall back to an empty store.
func (s *Store) Load() (*Document, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("dictxml: read %s: %w", s.Path, err)
	}

	var root xmlDictionary
	if err := xml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("dictxml: decode %s: %v: %w", s.Path, err, domain.ErrParse)
	}
	if root.XMLName.Local != "dictionary" {
		return nil, fmt.Errorf("dictxml: root element is %q, not dictionary: %w", root.XMLName.Local, domain.ErrParse)
	}

	records := make([]domain.WordRecord, 0, len(root.Words))
	for _, w := range root.Words {
		rec := w.toRecord()
		if rec.Text == "" {
			continue
		}
		records = append(records, rec)
	}

	return NewDocument(records), nil
}

// Save writes the document pretty-printed with 4-space indentation.
// When backup is true and a previous file exists, it is first copied to
// Path.backup_<unix-timestamp>. The write itself goes through a temp
// file and rename; on write failure the previous file is left intact.
func (s *Store) Save(doc *Document, backup bool) (backupPath string, err error) {
	if backup && s.Exists() {
		backupPath = fmt.Sprintf("%s.backup_%d", s.Path, time.Now().Unix())
		if err := copyFile(s.Path, backupPath); err != nil {
			return "", fmt.Errorf("dictxml: create backup: %w", err)
		}
	}

	root := xmlDictionary{}
	for _, rec := range doc.Records {
		root.Words = append(root.Words, fromRecord(rec))
	}

	out, err := xml.MarshalIndent(root, "", "    ")
	if err != nil {
		return backupPath, fmt.Errorf("dictxml: encode: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		return backupPath, fmt.Errorf("dictxml: create dir: %w", err)
	}

	tmp := s.Path + ".tmp"
	content := append([]byte(xml.Header), out...)
	content = append(content, '\n')
	if err := os.WriteFile(tmp, content, 0o644); err != nil {
		os.Remove(tmp)
		return backupPath, fmt.Errorf("dictxml: write temp file: %w", err)
	}
	if err := os.Rename(tmp, s.Path); err != nil {
		os.Remove(tmp)
		return backupPath, fmt.Errorf("dictxml: rename temp file: %w", err)
	}

	return backupPath, nil
}

// xmlDictionary is the on-disk root element.
type xmlDictionary struct {
	XMLName xml.Name  `xml:"dictionary"`
	Words   []xmlWord `xml:"word"`
}

// xmlWord covers both shapes of a word element. For a bare word the
// text sits in character data; for an enriched word it moves into the
// <text> child and chardata only holds indentation whitespace.
type xmlWord struct {
	Raw        string `xml:",chardata"`
	Text       string `xml:"text,omitempty"`
	Definition string `xml:"definition,omitempty"`
	POS        string `xml:"pos,omitempty"`
}

func (w xmlWord) toRecord() domain.WordRecord {
	text := strings.TrimSpace(w.Text)
	if text == "" {
		text = strings.TrimSpace(w.Raw)
	}
	return domain.WordRecord{
		Text:         text,
		Definition:   strings.TrimSpace(w.Definition),
		PartOfSpeech: strings.TrimSpace(w.POS),
	}
}

func fromRecord(rec domain.WordRecord) xmlWord {
	if !rec.Defined() {
		return xmlWord{Raw: rec.Text}
	}
	return xmlWord{
		Text:       rec.Text,
		Definition: rec.Definition,
		POS:        rec.PartOfSpeech,
	}
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
