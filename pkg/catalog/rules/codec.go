package rules

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/ta-nakaxx/terraria-collection-manager/pkg/catalog/internalerr"
)

// Decode parses a YAML rule set and validates it.
func Decode(data []byte) (Set, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var s Set
	if err := dec.Decode(&s); err != nil {
		if errors.Is(err, io.EOF) {
			return Set{}, fmt.Errorf("%w: empty rule file", internalerr.ErrInvalidConfig)
		}
		return Set{}, fmt.Errorf("%w: %v", internalerr.ErrInvalidConfig, err)
	}
	if err := s.Validate(); err != nil {
		return Set{}, err
	}
	return s, nil
}

// Encode renders s as YAML.
func Encode(s Set) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
