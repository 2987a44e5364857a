package domain

// WordRecord is the persisted unit representing one dictionary entry.
// A bare record has only Text; enrichment fills Definition and PartOfSpeech.
// Records are keyed by NormalizeText(Text) everywhere data is merged,
// so a definition earned once is never lost to a later rewrite.
type WordRecord struct {
	Text         string
	Definition   string
	PartOfSpeech string
}

// Defined reports whether the record carries a definition.
func (r WordRecord) Defined() bool {
	return r.Definition != ""
}

// Key returns the merge key for the record (normalized text).
func (r WordRecord) Key() string {
	return NormalizeText(r.Text)
}
