package catalog

import (
	"encoding/json"
	"fmt"
	"os"
)

type document struct {
	Champions  []Champion  `json:"champions"`
	Challenges []Challenge `json:"challenges"`
}

// LoadFile reads a JSON catalog of the form {"champions": [...], "challenges": [...]}.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode catalog %s: %w", path, err)
	}
	return New(doc.Champions, doc.Challenges)
}
