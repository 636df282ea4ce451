package store

import (
	"encoding/json"
	"fmt"
	"os"
)

// Collection is the ordered, immutable record set for one session.
type Collection struct {
	records []SalesRecord
}

// dataset mirrors the on-disk document shape: records live under "items".
type dataset struct {
	Items []SalesRecord `json:"items"`
}

// Load reads the dataset from path. A missing or unreadable file is a
// configuration failure and is returned to the caller to abort startup.
func Load(path string) (*Collection, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset %s: %w", path, err)
	}
	return Parse(raw)
}

// Parse decodes a dataset document. Absent optional fields decode to empty
// strings; presentation defaults are applied downstream, not here.
func Parse(raw []byte) (*Collection, error) {
	var ds dataset
	if err := json.Unmarshal(raw, &ds); err != nil {
		return nil, fmt.Errorf("failed to parse dataset: %w", err)
	}
	return &Collection{records: ds.Items}, nil
}

// NewCollection wraps records directly, for tests and synthetic data.
func NewCollection(records []SalesRecord) *Collection {
	return &Collection{records: records}
}

// Len reports the number of records.
func (c *Collection) Len() int {
	return len(c.records)
}

// Records returns the underlying record slice. Callers must not mutate it.
func (c *Collection) Records() []SalesRecord {
	return c.records
}

// Sample serializes up to maxBytes of the record set for prompt embedding.
// The cut is byte-exact, matching the upstream contract of "a sample", not
// necessarily valid JSON.
func (c *Collection) Sample(maxBytes int) string {
	raw, err := json.MarshalIndent(dataset{Items: c.records}, "", "  ")
	if err != nil {
		return ""
	}
	if maxBytes > 0 && len(raw) > maxBytes {
		raw = raw[:maxBytes]
	}
	return string(raw)
}
