package feed

import (
	"time"
)

// Feed processing types

type Metadata struct {
	Title       string
	Link        string
	Description string
	ImageURL    string
	Language    string
}

type Item struct {
	GUID        string
	Title       string
	Description string     // Plain text, converted from the feed's HTML
	Published   string     // Raw pubDate as found in the feed
	PublishedAt *time.Time // nil when the date is missing or unparseable

	EnclosureURL    string // RSS enclosure URL, empty when the item has none
	EnclosureLength int64  // Declared length in bytes, not authoritative
	EnclosureType   string // RSS enclosure MIME type, informational only
}

func (i Item) HasEnclosure() bool {
	return i.EnclosureURL != ""
}
