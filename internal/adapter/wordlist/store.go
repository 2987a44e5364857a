// Package wordlist persists the flat word list: one lowercase word per
// line, sorted. Writes go through a temp file and rename; a sibling
// backup file supports restore on failed updates.
package wordlist

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/heartmarshall/gamedict/internal/domain"
)

// Store reads and writes the flat word list at Path, with backups at
// BackupPath.
type Store struct {
	Path       string
	BackupPath string
}

// New creates a Store for the given list and backup paths.
func New(path, backupPath string) *Store {
	return &Store{Path: path, BackupPath: backupPath}
}

// Exists reports whether the word list file is present.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.Path)
	return err == nil
}

// Load reads the word list, one word per line, trimmed and lowercased.
// Blank lines are skipped. A missing file returns an empty list.
func (s *Store) Load() ([]string, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("wordlist: open %s: %w", s.Path, err)
	}
	defer f.Close()

	var words []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		word := domain.NormalizeText(scanner.Text())
		if word != "" {
			words = append(words, word)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("wordlist: read %s: %w", s.Path, err)
	}

	return words, nil
}

// Save writes the words de-duplicated and sorted, one per line,
// atomically: the content goes to a temp file in the same directory
// which then replaces Path.
func (s *Store) Save(words []string) error {
	seen := make(map[string]bool, len(words))
	sorted := make([]string, 0, len(words))
	for _, word := range words {
		if !seen[word] {
			seen[word] = true
			sorted = append(sorted, word)
		}
	}
	sort.Strings(sorted)

	if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		return fmt.Errorf("wordlist: create dir: %w", err)
	}

	tmp := s.Path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("wordlist: create temp file: %w", err)
	}

	w := bufio.NewWriter(f)
	for _, word := range sorted {
		if _, err := w.WriteString(word + "\n"); err != nil {
			f.Close()
			os.Remove(tmp)
			return fmt.Errorf("wordlist: write temp file: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("wordlist: flush temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("wordlist: close temp file: %w", err)
	}

	if err := os.Rename(tmp, s.Path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("wordlist: rename temp file: %w", err)
	}

	return nil
}

// Backup copies the current list to BackupPath. No list, no backup.
func (s *Store) Backup() error {
	if !s.Exists() {
		return nil
	}
	if err := copyFile(s.Path, s.BackupPath); err != nil {
		return fmt.Errorf("wordlist: backup: %w", err)
	}
	return nil
}

// Restore copies BackupPath back over Path.
func (s *Store) Restore() error {
	if _, err := os.Stat(s.BackupPath); err != nil {
		return fmt.Errorf("wordlist: no backup to restore: %w", err)
	}
	if err := copyFile(s.BackupPath, s.Path); err != nil {
		return fmt.Errorf("wordlist: restore: %w", err)
	}
	return nil
}

// Diff returns the words present only in next (added) and only in prev
// (removed).
func Diff(prev, next []string) (added, removed []string) {
	prevSet := make(map[string]bool, len(prev))
	for _, w := range prev {
		prevSet[w] = true
	}
	nextSet := make(map[string]bool, len(next))
	for _, w := range next {
		nextSet[w] = true
	}

	for w := range nextSet {
		if !prevSet[w] {
			added = append(added, w)
		}
	}
	for w := range prevSet {
		if !nextSet[w] {
			removed = append(removed, w)
		}
	}

	sort.Strings(added)
	sort.Strings(removed)
	return added, removed
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}

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
