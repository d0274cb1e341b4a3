package index

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/handiism/scorebook/internal/model"
)

// SongMetadata is the content of a per-song meta.yaml file:
//
//	composer: Jorge Ben Jor
//	sub: versão fanfarra
type SongMetadata struct {
	Composer string `yaml:"composer"`
	Sub      string `yaml:"sub"`
}

// ParseSongMetadata decodes a meta.yaml document.
func ParseSongMetadata(data []byte) (*SongMetadata, error) {
	var meta SongMetadata
	if err := yaml.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("failed to parse song metadata: %w", err)
	}
	meta.Composer = strings.TrimSpace(meta.Composer)
	meta.Sub = strings.TrimSpace(meta.Sub)
	return &meta, nil
}

// Apply copies the non-empty fields onto song.
func (m *SongMetadata) Apply(song *model.Song) {
	if m.Composer != "" {
		song.Composer = m.Composer
	}
	if m.Sub != "" {
		song.Sub = m.Sub
	}
}
