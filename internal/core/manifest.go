package core

import (
	"encoding/json"
	"sort"
)

// Manifest maps logical page names to their written HTML paths, relative to
// the dist root. Deploy tooling reads it to enumerate routes.
type Manifest struct {
	Pages        map[string]string `json:"pages"`
	GlobalScript string            `json:"globalScript,omitempty"`
	LegacyScript string            `json:"legacyScript,omitempty"`
}

func NewManifest() *Manifest {
	return &Manifest{Pages: make(map[string]string)}
}

func (m *Manifest) AddPage(logicalName string) {
	m.Pages[logicalName] = logicalName + ".html"
}

// Encode produces deterministic JSON: key order is fixed by the encoder, so
// identical inputs yield identical bytes across runs.
func (m *Manifest) Encode() ([]byte, error) {
	return json.MarshalIndent(m, "", "  ")
}

func (m *Manifest) PageNames() []string {
	names := make([]string, 0, len(m.Pages))
	for name := range m.Pages {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}
