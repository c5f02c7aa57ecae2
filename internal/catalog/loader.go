package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// ErrCatalogUnavailable indicates the catalog file is missing or malformed.
// No advisory session can start without the catalog; callers must treat this
// as fatal rather than proceeding with a partial list.
var ErrCatalogUnavailable = errors.New("course catalog unavailable")

// Load reads the full course catalog from the JSON-array file at path.
// The result is returned unfiltered; degree filtering and ranking happen
// downstream.
func Load(path string) ([]CourseRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrCatalogUnavailable, path, err)
	}

	var records []CourseRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", ErrCatalogUnavailable, path, err)
	}
	return records, nil
}

// Save writes records to path as an indented JSON array, the format Load
// expects.
func Save(path string, records []CourseRecord) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling catalog: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
