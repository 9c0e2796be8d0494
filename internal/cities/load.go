package cities

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var validate = validator.New()

// LoadTable reads a YAML list of entries from path:
//
//	- name: Tokyo
//	  latitude: 35.6762
//	  longitude: 139.6503
func LoadTable(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read city table: %w", err)
	}
	table, err := DecodeTable(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("city table %s: %w", path, err)
	}
	return table, nil
}

// DecodeTable decodes and validates a YAML city table. Unknown keys are
// rejected.
func DecodeTable(r io.Reader) (Table, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var table Table
	if err := dec.Decode(&table); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty city table")
		}
		return nil, fmt.Errorf("decode: %w", err)
	}
	if len(table) == 0 {
		return nil, errors.New("empty city table")
	}
	for i, e := range table {
		if err := validate.Struct(e); err != nil {
			return nil, fmt.Errorf("entry %d (%q): %w", i, e.Name, err)
		}
	}
	return table, nil
}
