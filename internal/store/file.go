package store

import (
	"context"
	"encoding/json"
	"os"
	"strconv"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// corpusSchema is the JSON Schema every corpus file must satisfy before it is
// decoded. Metadata values are coerced to strings by the decoder, so the
// schema only pins the structural shape.
const corpusSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "array",
  "items": {
    "type": "object",
    "required": ["id", "metadata", "embedding"],
    "properties": {
      "id": {"type": "integer"},
      "metadata": {"type": "object"},
      "embedding": {
        "type": "array",
        "items": {"type": "number"},
        "minItems": 1
      }
    }
  }
}`

// FileSource loads corpus records from a JSON file, the format produced by
// the ingest command: a top-level array of {id, metadata, embedding} objects.
type FileSource struct {
	Path string
}

// fileRecord mirrors RawRecord but accepts arbitrary JSON metadata values,
// which are stringified after decoding.
type fileRecord struct {
	ID        int                    `json:"id"`
	Metadata  map[string]interface{} `json:"metadata"`
	Embedding []float64              `json:"embedding"`
}

// Records reads, schema-validates, and decodes the corpus file. A missing
// file or invalid document is an *ErrDataUnavailable.
func (f *FileSource) Records(_ context.Context) ([]RawRecord, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, &ErrDataUnavailable{Source: f.Path, Message: "failed to read corpus file", Cause: err}
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(corpusSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return nil, &ErrDataUnavailable{Source: f.Path, Message: "failed to validate corpus file", Cause: err}
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			msgs = append(msgs, desc.String())
		}
		return nil, &ErrDataUnavailable{
			Source:  f.Path,
			Message: "corpus file failed schema validation: " + strings.Join(msgs, "; "),
		}
	}

	var decoded []fileRecord
	if err := json.Unmarshal(data, &decoded); err != nil {
		return nil, &ErrDataUnavailable{Source: f.Path, Message: "failed to parse corpus JSON", Cause: err}
	}

	records := make([]RawRecord, 0, len(decoded))
	for _, r := range decoded {
		records = append(records, RawRecord{
			ID:        r.ID,
			Metadata:  stringifyMetadata(r.Metadata),
			Embedding: r.Embedding,
		})
	}
	return records, nil
}

// stringifyMetadata flattens decoded JSON metadata values into strings so the
// rest of the system can treat metadata uniformly.
func stringifyMetadata(m map[string]interface{}) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		switch tv := v.(type) {
		case string:
			out[k] = tv
		case float64:
			// JSON numbers decode as float64; render integers without a
			// trailing fraction.
			if tv == float64(int64(tv)) {
				out[k] = strconv.FormatInt(int64(tv), 10)
			} else {
				out[k] = strconv.FormatFloat(tv, 'g', -1, 64)
			}
		case bool:
			if tv {
				out[k] = "true"
			} else {
				out[k] = "false"
			}
		case nil:
			out[k] = ""
		default:
			raw, err := json.Marshal(tv)
			if err != nil {
				continue
			}
			out[k] = string(raw)
		}
	}
	return out
}
