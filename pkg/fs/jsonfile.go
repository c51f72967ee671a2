package fs

import (
	"io"
	"os"

	"github.com/goccy/go-json"
)

// MarshalJSONFile atomically writes the indented JSON encoding of v to
// filename, creating it with permissions perm if it does not exist.
func MarshalJSONFile(v interface{}, filename string, perm os.FileMode) error {
	return ReplaceFile(filename, perm, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	})
}

// UnmarshalJSONFile parses the JSON-encoded contents of filename into the
// value pointed to by v.
func UnmarshalJSONFile(filename string, v interface{}) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}
