package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Export writes the report to filename in the format its extension names:
// .csv, .yaml/.yml, or JSON for anything else. Parent directories are created.
func Export(fs afero.Fs, t Table, filename string) error {
	data, err := Encode(t, Format(filename))
	if err != nil {
		return err
	}
	if dir := filepath.Dir(filename); dir != "." {
		if err := fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := afero.WriteFile(fs, filename, data, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// Format maps a file name to "csv", "yaml" or "json".
func Format(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return "csv"
	case ".yaml", ".yml":
		return "yaml"
	default:
		return "json"
	}
}

func Encode(t Table, format string) ([]byte, error) {
	switch format {
	case "csv":
		var buf bytes.Buffer
		w := csv.NewWriter(&buf)
		if err := w.Write(t.Header()); err != nil {
			return nil, err
		}
		if err := w.WriteAll(t.Rows()); err != nil {
			return nil, fmt.Errorf("encode csv: %w", err)
		}
		return buf.Bytes(), nil
	case "yaml":
		data, err := yaml.Marshal(t)
		if err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}
		return data, nil
	default:
		data, err := json.MarshalIndent(t, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode json: %w", err)
		}
		return data, nil
	}
}
