package export

import (
	"encoding/json"
	"os"

	"github.com/indlayout/engine/pkg/layout"
)

// ExportJSON serializes a Layout to JSON with indentation.
// Returns formatted JSON with 2-space indentation for readability.
func ExportJSON(l *layout.Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// ExportJSONCompact serializes a Layout to JSON without indentation.
// Returns compact JSON suitable for storage or transmission.
func ExportJSONCompact(l *layout.Layout) ([]byte, error) {
	return json.Marshal(l)
}

// SaveJSONToFile exports a Layout to a JSON file with indentation.
// The file is created with 0644 permissions (readable by all, writable by owner).
func SaveJSONToFile(l *layout.Layout, filepath string) error {
	data, err := ExportJSON(l)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath, data, 0644)
}

// SaveJSONCompactToFile exports a Layout to a compact JSON file.
// The file is created with 0644 permissions (readable by all, writable by owner).
func SaveJSONCompactToFile(l *layout.Layout, filepath string) error {
	data, err := ExportJSONCompact(l)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath, data, 0644)
}
