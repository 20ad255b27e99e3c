package output

import (
	"encoding/json"
	"io"
)

// JSONWriter renders documents as indented JSON.
type JSONWriter struct{}

func (j *JSONWriter) Write(w io.Writer, doc Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
