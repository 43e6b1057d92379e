// Package core defines the domain model shared by the item store, the
// query engine, and the automation engine.
package core

import (
	"strings"
	"time"
)

// Category is the single mandatory classification of an item.
type Category string

const (
	CategoryClipboard Category = "clipboard"
	CategoryNotes     Category = "notes"
	CategorySnippets  Category = "snippets"
	CategoryPrompts   Category = "prompts"
)

// Categories lists all valid categories in display order.
func Categories() []Category {
	return []Category{CategoryClipboard, CategoryNotes, CategorySnippets, CategoryPrompts}
}

// ValidCategory reports whether c is one of the known categories.
func ValidCategory(c Category) bool {
	switch c {
	case CategoryClipboard, CategoryNotes, CategorySnippets, CategoryPrompts:
		return true
	}
	return false
}

// FieldType classifies a structured field's value for display and masking.
type FieldType string

const (
	FieldText     FieldType = "text"
	FieldPassword FieldType = "password"
	FieldURL      FieldType = "url"
	FieldEmail    FieldType = "email"
	FieldPhone    FieldType = "phone"
	FieldDate     FieldType = "date"
	FieldAPIKey   FieldType = "api_key"
)

// ValidFieldType reports whether t is a known field type.
func ValidFieldType(t FieldType) bool {
	switch t {
	case FieldText, FieldPassword, FieldURL, FieldEmail, FieldPhone, FieldDate, FieldAPIKey:
		return true
	}
	return false
}

// StructuredField is one labelled key-value slot of a structured item.
// Labels may repeat within an item; the field ID is the identity.
type StructuredField struct {
	ID    string    `json:"id"`
	Label string    `json:"label"`
	Value string    `json:"value"`
	Type  FieldType `json:"type"`
}

// Item is a stored piece of content: a clipboard entry, note, snippet,
// or prompt. When Structured is true, Content is ignored and Fields
// carry the payload.
type Item struct {
	ID         string            `json:"id"`
	Title      string            `json:"title"`
	Content    string            `json:"content"`
	Category   Category          `json:"category"`
	Tags       []string          `json:"tags"`
	Pinned     bool              `json:"pinned"`
	Starred    bool              `json:"starred"`
	Deleted    bool              `json:"deleted"`
	Structured bool              `json:"structured"`
	Fields     []StructuredField `json:"fields,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

// SearchText returns the text the query engine matches against, besides
// the title. Structured items render each field as a "label: value" line.
func (it *Item) SearchText() string {
	if !it.Structured {
		return it.Content
	}
	lines := make([]string, 0, len(it.Fields))
	for _, f := range it.Fields {
		lines = append(lines, f.Label+": "+f.Value)
	}
	return strings.Join(lines, "\n")
}

// HasTag reports whether the item carries the given tag.
func (it *Item) HasTag(tag string) bool {
	for _, t := range it.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the item.
func (it *Item) Clone() Item {
	cp := *it
	if it.Tags != nil {
		cp.Tags = make([]string, len(it.Tags))
		copy(cp.Tags, it.Tags)
	}
	if it.Fields != nil {
		cp.Fields = make([]StructuredField, len(it.Fields))
		copy(cp.Fields, it.Fields)
	}
	return cp
}

// DefaultTitle is the title a freshly created item receives.
func DefaultTitle(category Category, structured bool) string {
	switch {
	case category == CategoryPrompts:
		return "New Prompt"
	case structured:
		return "New Structured Note"
	default:
		return "Untitled Note"
	}
}
