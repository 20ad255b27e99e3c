package output

import (
	"encoding/json"
	"io"

	"gopkg.in/yaml.v3"
)

// YAMLWriter renders documents as YAML. Documents are converted through
// their JSON form so both formats present the same field names.
type YAMLWriter struct{}

func (y *YAMLWriter) Write(w io.Writer, doc Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	var generic any
	if err := json.Unmarshal(data, &generic); err != nil {
		return err
	}
	out, err := yaml.Marshal(generic)
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}
