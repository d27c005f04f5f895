package model

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// RawDocument is the body of a fetched page together with response metadata.
type RawDocument struct {
	// SourceURL is the URL that was requested.
	SourceURL string `json:"source_url"`

	// FinalURL is the URL after redirects.
	FinalURL string `json:"final_url,omitempty"`

	// FetchedAt is when the response was received.
	FetchedAt time.Time `json:"fetched_at"`

	// StatusCode is the HTTP response status code.
	StatusCode int `json:"status_code"`

	// ContentType is the MIME type taken from the Content-Type header.
	ContentType string `json:"content_type"`

	// Raw holds the response body, already capped at the configured size.
	Raw []byte `json:"-"`

	// Truncated reports whether the body hit the size cap.
	Truncated bool `json:"truncated,omitempty"`

	// Hash is the hex encoded SHA-256 of Raw.
	Hash string `json:"hash,omitempty"`
}

// ComputeHash sets Hash from the current contents of Raw.
func (d *RawDocument) ComputeHash() {
	if len(d.Raw) == 0 {
		d.Hash = ""
		return
	}
	sum := sha256.Sum256(d.Raw)
	d.Hash = hex.EncodeToString(sum[:])
}

// IsHTML reports whether the content type looks like markup.
// An empty content type is treated as HTML since many small sites omit it.
func (d *RawDocument) IsHTML() bool {
	ct := strings.ToLower(d.ContentType)
	return ct == "" ||
		strings.HasPrefix(ct, "text/html") ||
		strings.HasPrefix(ct, "application/xhtml+xml")
}

// NormalizedText is the visible text of a document with markup removed.
type NormalizedText struct {
	// Text is lowercased with all whitespace runs collapsed to one space.
	// All keyword matching happens against this field.
	Text string `json:"-"`

	// Display is the same content with original casing preserved.
	// Sentiment scoring and entity extraction use it because both
	// depend on capitalization.
	Display string `json:"-"`

	// Blocks holds the text of each block-level element in document order.
	Blocks []string `json:"-"`

	// Title is the document title, if any.
	Title string `json:"title,omitempty"`
}

// IsEmpty reports whether no visible text was found.
func (n *NormalizedText) IsEmpty() bool {
	return n == nil || strings.TrimSpace(n.Text) == ""
}

// WordCount returns the number of whitespace separated tokens in Text.
func (n *NormalizedText) WordCount() int {
	if n == nil {
		return 0
	}
	return len(strings.Fields(n.Text))
}
