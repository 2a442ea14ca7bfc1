package domain

// Record is one schema-free domain record. The only structural requirement is a
// unique string "id"; "name" or "title" are used for display and log summaries
// when present.
type Record map[string]any

// ID returns the record's id, or "" when absent or not a string.
func (r Record) ID() string {
	id, _ := r["id"].(string)
	return id
}

// DisplayName resolves the human-facing label: name, then title, then id.
func (r Record) DisplayName() string {
	if name, ok := r["name"].(string); ok && name != "" {
		return name
	}
	if title, ok := r["title"].(string); ok && title != "" {
		return title
	}
	return r.ID()
}

// Valid reports whether the record can participate in id-keyed operations.
func (r Record) Valid() bool {
	return r != nil && r.ID() != ""
}

// IndexByID returns the position of id in records, or -1.
func IndexByID(records []Record, id string) int {
	for i, rec := range records {
		if rec.ID() == id {
			return i
		}
	}
	return -1
}
