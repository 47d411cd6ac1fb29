package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Document is a loaded PRD
type Document struct {
	Text     string    `json:"text"`
	Metadata *Metadata `json:"metadata"`
}

// Metadata contains metadata about an ingested PRD
type Metadata struct {
	URL         string `json:"url,omitempty"`
	Timestamp   string `json:"timestamp"`          // RFC3339 format
	Hash        string `json:"hash"`               // SHA256 hex digest
	Platform    string `json:"platform,omitempty"` // Detected document host
	Rendered    bool   `json:"rendered,omitempty"` // Content came from a headless browser
	ContentType string `json:"content_type,omitempty"`
}

// NewMetadata creates a new Metadata instance with current timestamp
func NewMetadata(content string, url string) *Metadata {
	return &Metadata{
		URL:       url,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Hash:      computeHash(content),
	}
}

// computeHash computes SHA256 hash of content and returns hex string
func computeHash(content string) string {
	hash := sha256.Sum256([]byte(content))
	return hex.EncodeToString(hash[:])
}
