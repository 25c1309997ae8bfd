// Package source reads raw and classified catalog files.
package source

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/ta-nakaxx/terraria-collection-manager/pkg/catalog/internalerr"
	"github.com/ta-nakaxx/terraria-collection-manager/pkg/catalog/item"
)

// LoadRaw reads unclassified items from path. The format is chosen by
// extension: .json (array), .jsonl/.ndjson, or .html/.htm (item table).
func LoadRaw(path string, log *zap.Logger) ([]item.RawItem, error) {
	if log == nil {
		log = zap.NewNop()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var items []item.RawItem
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		var buf bytes.Buffer
		if _, err := buf.ReadFrom(f); err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		items, err = DecodeRaw(buf.Bytes())
	case ".jsonl", ".ndjson":
		items, err = ReadJSONL(f, log.With(zap.String("path", path)))
	case ".html", ".htm":
		items, err = ParseHTMLTable(f)
	default:
		return nil, fmt.Errorf("%w: unsupported source format %q", internalerr.ErrInvalidInput, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	log.Debug("loaded raw items", zap.String("path", path), zap.Int("count", len(items)))
	return items, nil
}

// LoadItems reads a JSON array of classified items from path.
func LoadItems(path string) ([]item.Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	items, err := DecodeItems(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return items, nil
}

// DecodeRaw decodes a JSON array of raw item objects.
func DecodeRaw(data []byte) ([]item.RawItem, error) {
	elems, err := objects(data)
	if err != nil {
		return nil, err
	}
	out := make([]item.RawItem, len(elems))
	for i, e := range elems {
		if err := json.Unmarshal(e, &out[i]); err != nil {
			return nil, fmt.Errorf("%w: element %d: %v", internalerr.ErrInvalidInput, i, err)
		}
	}
	return out, nil
}

// DecodeItems decodes a JSON array of classified items. Missing fields
// are left empty for the validator to report; anything that is not an
// array of objects is rejected.
func DecodeItems(data []byte) ([]item.Item, error) {
	elems, err := objects(data)
	if err != nil {
		return nil, err
	}
	out := make([]item.Item, len(elems))
	for i, e := range elems {
		if err := json.Unmarshal(e, &out[i]); err != nil {
			return nil, fmt.Errorf("%w: element %d: %v", internalerr.ErrInvalidInput, i, err)
		}
	}
	return out, nil
}

func objects(data []byte) ([]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("%w: expected a JSON array", internalerr.ErrInvalidInput)
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(trimmed, &elems); err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrInvalidInput, err)
	}
	for i, e := range elems {
		e = bytes.TrimSpace(e)
		if len(e) == 0 || e[0] != '{' {
			return nil, fmt.Errorf("%w: element %d is not an object", internalerr.ErrInvalidInput, i)
		}
	}
	return elems, nil
}
