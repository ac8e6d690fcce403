package feed

import (
	"testing"
)

const podcastRSS = `<?xml version="1.0"?>
<rss version="2.0">
  <channel>
    <title>Test Podcast</title>
    <link>https://example.com</link>
    <description>Test Description</description>
    <language>en-us</language>
    <image>
      <url>https://example.com/icon.png</url>
      <title>Test Podcast</title>
      <link>https://example.com</link>
    </image>
    <item>
      <title>Episode 1: The Beginning</title>
      <description><![CDATA[<p>First <b>episode</b> notes.</p>
        <ul><li>Topic one</li></ul>]]></description>
      <guid>episode-1</guid>
      <pubDate>Mon, 03 Jul 2023 10:00:00 GMT</pubDate>
      <enclosure url="https://cdn.example.com/ep1.mp4" length="123456" type="video/mp4"/>
    </item>
    <item>
      <title>Episode 2</title>
      <guid>episode-2</guid>
      <pubDate>2023-07-04 11:00</pubDate>
      <enclosure url="https://cdn.example.com/ep2.mp4" length="unknown" type="video/mp4"/>
    </item>
    <item>
      <title>Announcement</title>
      <description>No media here</description>
      <guid>announcement</guid>
    </item>
  </channel>
</rss>`

func TestParseRSS2(t *testing.T) {
	parser := NewParser()
	metadata, items, err := parser.Run([]byte(podcastRSS))

	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if metadata.Title != "Test Podcast" {
		t.Errorf("Expected title 'Test Podcast', got: %s", metadata.Title)
	}
	if metadata.Language != "en-us" {
		t.Errorf("Expected language 'en-us', got: %s", metadata.Language)
	}
	if metadata.ImageURL != "https://example.com/icon.png" {
		t.Errorf("Expected image URL 'https://example.com/icon.png', got: %s", metadata.ImageURL)
	}

	if len(items) != 3 {
		t.Fatalf("Expected 3 items, got: %d", len(items))
	}

	item1 := items[0]
	if item1.Title != "Episode 1: The Beginning" {
		t.Errorf("Expected title 'Episode 1: The Beginning', got: %s", item1.Title)
	}
	if item1.GUID != "episode-1" {
		t.Errorf("Expected GUID 'episode-1', got: %s", item1.GUID)
	}
	if item1.Description != "First episode notes. Topic one" {
		t.Errorf("Expected plain text description, got: %q", item1.Description)
	}
	if item1.EnclosureURL != "https://cdn.example.com/ep1.mp4" {
		t.Errorf("Expected enclosure URL, got: %s", item1.EnclosureURL)
	}
	if item1.EnclosureLength != 123456 {
		t.Errorf("Expected enclosure length 123456, got: %d", item1.EnclosureLength)
	}
	if item1.EnclosureType != "video/mp4" {
		t.Errorf("Expected enclosure type 'video/mp4', got: %s", item1.EnclosureType)
	}
	if item1.PublishedAt == nil || item1.PublishedAt.Year() != 2023 {
		t.Errorf("Expected published date in 2023, got: %v", item1.PublishedAt)
	}
}

func TestParseEnclosureLengthNotANumber(t *testing.T) {
	_, items, err := NewParser().Run([]byte(podcastRSS))
	if err != nil {
		t.Fatal(err)
	}

	item2 := items[1]
	if item2.EnclosureLength != 0 {
		t.Errorf("Expected unparseable length to become 0, got: %d", item2.EnclosureLength)
	}
	if !item2.HasEnclosure() {
		t.Error("Expected item 2 to have an enclosure")
	}
	if item2.Description != "" {
		t.Errorf("Expected empty description, got: %q", item2.Description)
	}
}

func TestParseItemWithoutEnclosure(t *testing.T) {
	_, items, err := NewParser().Run([]byte(podcastRSS))
	if err != nil {
		t.Fatal(err)
	}

	item3 := items[2]
	if item3.HasEnclosure() {
		t.Errorf("Expected no enclosure, got: %s", item3.EnclosureURL)
	}
	if item3.EnclosureLength != 0 || item3.EnclosureType != "" {
		t.Errorf("Expected zero enclosure fields, got: %d %q", item3.EnclosureLength, item3.EnclosureType)
	}
}

func TestParseMissingTitle(t *testing.T) {
	rss := `<?xml version="1.0"?>
<rss version="2.0">
  <channel>
    <title>Feed</title>
    <item>
      <enclosure url="https://cdn.example.com/x.mp4" length="1" type="video/mp4"/>
    </item>
  </channel>
</rss>`

	_, items, err := NewParser().Run([]byte(rss))
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 {
		t.Fatalf("Expected 1 item, got: %d", len(items))
	}
	if items[0].Title != UntitledItem {
		t.Errorf("Expected title %q, got: %q", UntitledItem, items[0].Title)
	}
}

func TestParseAtom(t *testing.T) {
	atomData := `<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>Test Atom Feed</title>
  <link href="https://example.com"/>
  <updated>2023-07-03T12:00:00Z</updated>
  <id>urn:uuid:1234567890</id>
  <entry>
    <title>Test Entry</title>
    <link href="https://example.com/entry1"/>
    <link rel="enclosure" href="https://cdn.example.com/entry1.mp4" length="42" type="video/mp4"/>
    <id>urn:uuid:entry-1</id>
    <updated>2023-07-03T10:00:00Z</updated>
    <content type="html">Test content</content>
  </entry>
</feed>`

	parser := NewParser()
	metadata, items, err := parser.Run([]byte(atomData))

	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if metadata.Title != "Test Atom Feed" {
		t.Errorf("Expected title 'Test Atom Feed', got: %s", metadata.Title)
	}

	if len(items) != 1 {
		t.Fatalf("Expected 1 item, got: %d", len(items))
	}

	item := items[0]
	if item.Title != "Test Entry" {
		t.Errorf("Expected title 'Test Entry', got: %s", item.Title)
	}
	if item.EnclosureURL != "https://cdn.example.com/entry1.mp4" {
		t.Errorf("Expected enclosure URL from rel=enclosure link, got: %s", item.EnclosureURL)
	}
	if item.EnclosureLength != 42 {
		t.Errorf("Expected enclosure length 42, got: %d", item.EnclosureLength)
	}
}

func TestParseInvalidFeed(t *testing.T) {
	parser := NewParser()
	_, _, err := parser.Run([]byte("invalid xml"))

	if err == nil {
		t.Error("Expected error for invalid XML")
	}
}
