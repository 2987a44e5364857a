package dictxml

import "github.com/heartmarshall/gamedict/internal/domain"

// Document is the in-memory dictionary: an ordered collection of
// records with a normalized-text index for O(1) merge lookups.
type Document struct {
	Records []domain.WordRecord

	index map[string]int
}

// NewDocument builds a Document over the given records. Later
// duplicates of the same normalized text are dropped.
func NewDocument(records []domain.WordRecord) *Document {
	doc := &Document{index: make(map[string]int, len(records))}
	for _, rec := range records {
		key := rec.Key()
		if key == "" {
			continue
		}
		if _, dup := doc.index[key]; dup {
			continue
		}
		doc.index[key] = len(doc.Records)
		doc.Records = append(doc.Records, rec)
	}
	return doc
}

// Build creates a Document with one record per word, in order,
// re-attaching definitions from prior (keyed by normalized text) when
// present. This is the converter's merge: prior data wins over a bare
// record, so no earned definition is ever dropped.
func Build(words []string, prior map[string]domain.WordRecord) *Document {
	records := make([]domain.WordRecord, 0, len(words))
	for _, word := range words {
		rec := domain.WordRecord{Text: word}
		if old, ok := prior[domain.NormalizeText(word)]; ok {
			rec.Definition = old.Definition
			rec.PartOfSpeech = old.PartOfSpeech
		}
		records = append(records, rec)
	}
	return NewDocument(records)
}

// Len returns the number of records.
func (d *Document) Len() int { return len(d.Records) }

// DefinedCount returns how many records carry a definition.
func (d *Document) DefinedCount() int {
	n := 0
	for _, rec := range d.Records {
		if rec.Defined() {
			n++
		}
	}
	return n
}

// Undefined returns the texts of all records without a definition, in
// store order.
func (d *Document) Undefined() []string {
	var words []string
	for _, rec := range d.Records {
		if !rec.Defined() {
			words = append(words, rec.Text)
		}
	}
	return words
}

// Definitions returns the defined records keyed by normalized text.
// Only records with both a definition and a part of speech are
// included, matching what the converter preserves.
func (d *Document) Definitions() map[string]domain.WordRecord {
	out := make(map[string]domain.WordRecord)
	for _, rec := range d.Records {
		if rec.Defined() && rec.PartOfSpeech != "" {
			out[rec.Key()] = rec
		}
	}
	return out
}

// SetDefinition attaches a definition and part of speech to the record
// matching word (case-insensitive). It refuses to overwrite an existing
// definition and reports whether the record was updated.
func (d *Document) SetDefinition(word, definition, pos string) bool {
	i, ok := d.index[domain.NormalizeText(word)]
	if !ok {
		return false
	}
	if d.Records[i].Defined() {
		return false
	}
	d.Records[i].Definition = definition
	d.Records[i].PartOfSpeech = pos
	return true
}

// Record returns the record for word (case-insensitive), if present.
func (d *Document) Record(word string) (domain.WordRecord, bool) {
	i, ok := d.index[domain.NormalizeText(word)]
	if !ok {
		return domain.WordRecord{}, false
	}
	return d.Records[i], true
}
