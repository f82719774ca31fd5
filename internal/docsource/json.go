package docsource

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/docweave/docweave/internal/model"
)

// LoadJSON decodes a pre-extracted document from JSON. This is the input
// path for callers that run their own extraction and only want the
// structuring engine.
func LoadJSON(r io.Reader) (model.Document, error) {
	var doc model.Document
	dec := json.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return model.Document{}, fmt.Errorf("failed to decode document JSON: %w", err)
	}
	if len(doc.Pages) == 0 {
		return model.Document{}, fmt.Errorf("document contains no pages")
	}
	return doc, nil
}

// LoadJSONBytes decodes a pre-extracted document from a JSON byte slice.
func LoadJSONBytes(data []byte) (model.Document, error) {
	var doc model.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return model.Document{}, fmt.Errorf("failed to decode document JSON: %w", err)
	}
	if len(doc.Pages) == 0 {
		return model.Document{}, fmt.Errorf("document contains no pages")
	}
	return doc, nil
}
