package keyspec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// catalogSchema validates user-supplied catalog files before they are
// decoded, so a malformed catalog fails with a pointed schema error instead
// of a half-built board.
const catalogSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "$id": "catalog.schema.json",
  "type": "object",
  "required": ["rows"],
  "properties": {
    "name": {"type": "string"},
    "rows": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["keys"],
        "properties": {
          "keys": {
            "type": "array",
            "minItems": 1,
            "items": {"$ref": "#/definitions/keyspec"}
          }
        }
      }
    }
  },
  "definitions": {
    "legend": {
      "type": "object",
      "properties": {
        "primary": {"type": "string"},
        "shifted": {"type": "string"}
      }
    },
    "keyspec": {
      "type": "object",
      "required": ["weight"],
      "properties": {
        "kind": {"enum": ["standard", "function", "space", "stacked"]},
        "weight": {"type": "number", "exclusiveMinimum": 0},
        "legend": {"$ref": "#/definitions/legend"},
        "triggers": {
          "type": "array",
          "items": {"type": "string", "minLength": 1}
        },
        "stack": {
          "type": "array",
          "minItems": 1,
          "items": {
            "type": "object",
            "required": ["triggers"],
            "properties": {
              "legend": {"$ref": "#/definitions/legend"},
              "triggers": {
                "type": "array",
                "items": {"type": "string", "minLength": 1}
              }
            }
          }
        }
      }
    }
  }
}`

var capKindNames = map[CapKind]string{
	CapStandard: "standard",
	CapFunction: "function",
	CapSpace:    "space",
	CapStacked:  "stacked",
}

// String returns the kind's catalog-file name.
func (k CapKind) String() string {
	if s, ok := capKindNames[k]; ok {
		return s
	}
	return "standard"
}

// MarshalJSON encodes the kind as its name.
func (k CapKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// UnmarshalJSON decodes a kind name. An absent kind decodes to standard via
// the zero value.
func (k *CapKind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	for kind, name := range capKindNames {
		if name == s {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("keyspec: unknown cap kind %q", s)
}

var compiledSchema = jsonschema.MustCompileString("catalog.schema.json", catalogSchema)

// Parse validates raw catalog JSON against the embedded schema and decodes
// it.
func Parse(data []byte) (Catalog, error) {
	var instance any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&instance); err != nil {
		return Catalog{}, fmt.Errorf("parse catalog: %w", err)
	}
	if err := compiledSchema.Validate(instance); err != nil {
		return Catalog{}, fmt.Errorf("validate catalog: %w", err)
	}

	var c Catalog
	if err := json.Unmarshal(data, &c); err != nil {
		return Catalog{}, fmt.Errorf("decode catalog: %w", err)
	}
	return c, nil
}

// Load reads and parses the catalog file at path.
func Load(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}
