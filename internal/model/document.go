package model

import (
	"fmt"
	"strings"
	"time"
)

// Category distinguishes incoming from outgoing correspondence.
// The counterparty field reads as "sender" for incoming documents and
// "receiver" for outgoing ones.
type Category string

const (
	CategoryIncoming Category = "incoming"
	CategoryOutgoing Category = "outgoing"
)

// ParseCategory validates a raw category value (case-insensitive).
func ParseCategory(s string) (Category, error) {
	switch Category(strings.ToLower(strings.TrimSpace(s))) {
	case CategoryIncoming:
		return CategoryIncoming, nil
	case CategoryOutgoing:
		return CategoryOutgoing, nil
	}
	return "", fmt.Errorf("invalid category %q", s)
}

// IssueDateLayout is the canonical calendar-date form used for issue_date.
const IssueDateLayout = "2006-01-02"

// Document represents one registered correspondence record and the handle
// of its attached file.
// This is a pure domain model with no persistence-specific dependencies;
// the JSON tags define the on-disk snapshot schema, so renaming a field
// is a breaking change for existing data files.
type Document struct {
	ID               string    `json:"id"`
	OriginalFileName string    `json:"original_file_name"`
	StoredFileName   string    `json:"stored_file_name"`
	StoragePath      string    `json:"storage_path"`
	Title            string    `json:"title"`
	Category         Category  `json:"category"`
	DocNumber        string    `json:"doc_number"`
	IssueDate        string    `json:"issue_date"` // YYYY-MM-DD; may be empty or unparseable
	Counterparty     string    `json:"counterparty"`
	Description      string    `json:"description,omitempty"`
	Tags             []string  `json:"tags"`
	UploadedAt       time.Time `json:"uploaded_at"`
	SizeBytes        int64     `json:"size_bytes"`
}

// IssueDay parses the record's issue date. The second return value is
// false when the date is absent or does not parse; callers decide whether
// that means "keep" (filtering) or "skip" (reporting).
func (d Document) IssueDay() (time.Time, bool) {
	t, err := time.Parse(IssueDateLayout, d.IssueDate)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
