package catalog

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/handiism/scorebook/internal/index"
	"github.com/handiism/scorebook/internal/model"
)

// Document keys at the output root.
const (
	CollectionKey = "collection.json"
	WarningsKey   = "warnings.json"
)

// Putter stores and removes documents by key.
type Putter interface {
	Put(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
}

// Write stores the collection document and, when res carries warnings, the
// warnings document. A clean run removes any warnings document left by an
// earlier run. It returns the keys written.
func Write(ctx context.Context, p Putter, res *index.Results) ([]string, error) {
	collection, err := EncodeCollection(res.Songs)
	if err != nil {
		return nil, err
	}
	if err := p.Put(ctx, CollectionKey, collection); err != nil {
		return nil, fmt.Errorf("write %s: %w", CollectionKey, err)
	}
	keys := []string{CollectionKey}

	if len(res.Warnings) == 0 {
		if err := p.Delete(ctx, WarningsKey); err != nil {
			return keys, fmt.Errorf("remove %s: %w", WarningsKey, err)
		}
		return keys, nil
	}
	warnings, err := EncodeWarnings(res.Warnings)
	if err != nil {
		return keys, err
	}
	if err := p.Put(ctx, WarningsKey, warnings); err != nil {
		return keys, fmt.Errorf("write %s: %w", WarningsKey, err)
	}
	return append(keys, WarningsKey), nil
}

// EncodeCollection renders songs as an indented JSON array.
func EncodeCollection(songs []*model.Song) ([]byte, error) {
	if songs == nil {
		songs = []*model.Song{}
	}
	return encode(songs)
}

// EncodeWarnings renders warnings as an indented JSON array.
func EncodeWarnings(warnings []model.Warning) ([]byte, error) {
	if warnings == nil {
		warnings = []model.Warning{}
	}
	return encode(warnings)
}

func encode(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	return append(data, '\n'), nil
}
