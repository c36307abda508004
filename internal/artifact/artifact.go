// Package artifact reads and writes the pipeline's file artifacts through an
// afero filesystem.
package artifact

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Artifact file names written under the output directory.
const (
	CompaniesFile      = "companies.json"
	EnrichmentFile     = "enrichment.json"
	RawContactsFile    = "contacts_raw.json"
	CleanContactsFile  = "contacts_clean.json"
	SearchFailuresFile = "search_failures.json"
	ContactsSheetFile  = "contacts.xlsx"
)

// WriteJSON writes v as indented JSON to path, creating parent directories
// and overwriting any existing file.
func WriteJSON(fs afero.Fs, path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return eris.Wrapf(err, "artifact: marshal %s", path)
	}
	data = append(data, '\n')
	return WriteFile(fs, path, data)
}

// WriteFile writes data to path, creating parent directories.
func WriteFile(fs afero.Fs, path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := fs.MkdirAll(dir, 0o755); err != nil {
			return eris.Wrapf(err, "artifact: create dir %s", dir)
		}
	}
	if err := afero.WriteFile(fs, path, data, 0o644); err != nil {
		return eris.Wrapf(err, "artifact: write %s", path)
	}
	return nil
}

// ReadJSON decodes the JSON file at path into v.
func ReadJSON(fs afero.Fs, path string, v any) error {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return eris.Wrapf(err, "artifact: read %s", path)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return eris.Wrapf(err, "artifact: decode %s", path)
	}
	return nil
}

// ReadDocument decodes a JSON or YAML file into v, choosing the decoder by
// file extension. Anything other than .yaml/.yml is treated as JSON.
func ReadDocument(fs afero.Fs, path string, v any) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err := afero.ReadFile(fs, path)
		if err != nil {
			return eris.Wrapf(err, "artifact: read %s", path)
		}
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(v); err != nil {
			return eris.Wrapf(err, "artifact: decode %s", path)
		}
		return nil
	default:
		return ReadJSON(fs, path, v)
	}
}

// Exists reports whether path exists on fs.
func Exists(fs afero.Fs, path string) bool {
	_, err := fs.Stat(path)
	return err == nil || !os.IsNotExist(err)
}
