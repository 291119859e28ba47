package engineconfig

import (
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/*
var schemaFiles embed.FS

func loadSchemaFile(s string) (io.ReadCloser, error) {
	u, err := url.Parse(s)
	if err != nil {
		return nil, err
	}
	return schemaFiles.Open(u.Path)
}

func init() {
	jsonschema.Loaders["embedFS"] = loadSchemaFile
}

// ValidateConfig checks raw against the embedded config schema before it
// is ever decoded into a Config struct.
func ValidateConfig(raw []byte) error {
	s, err := jsonschema.Compile("embedFS://schemas/config.schema.json")
	if err != nil {
		return err
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("engineconfig: decode for validation: %w", err)
	}
	if err := s.Validate(v); err != nil {
		return fmt.Errorf("engineconfig: %#v", err)
	}
	return nil
}

// manifestSchema backs ValidateNativeManifest below — spec.md §6's
// native-callback registration, described in SPEC_FULL.md §3 as a
// schema-validated manifest of {"name", "arity"} entries.
const manifestSchemaJSON = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "array",
	"items": {
		"type": "object",
		"additionalProperties": false,
		"required": ["name", "arity"],
		"properties": {
			"name": { "type": "string", "minLength": 1 },
			"arity": { "type": "integer", "minimum": 0 }
		}
	}
}`

var manifestSchema *jsonschema.Schema

func init() {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("manifest.json", strings.NewReader(manifestSchemaJSON)); err != nil {
		panic(fmt.Sprintf("engineconfig: invalid embedded manifest schema: %v", err))
	}
	s, err := compiler.Compile("manifest.json")
	if err != nil {
		panic(fmt.Sprintf("engineconfig: invalid embedded manifest schema: %v", err))
	}
	manifestSchema = s
}

// NativeBinding describes one host callback a manifest registers: its
// global-object name and declared arity (spec.md §3's NativeFunc has no
// way to introspect its own arity, so the manifest states it up front).
type NativeBinding struct {
	Name  string `json:"name"`
	Arity int    `json:"arity"`
}

// ValidateNativeManifest schema-validates raw and decodes it into bindings.
func ValidateNativeManifest(raw []byte) ([]NativeBinding, error) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("engineconfig: decode manifest: %w", err)
	}
	if err := manifestSchema.Validate(v); err != nil {
		return nil, fmt.Errorf("engineconfig: manifest: %#v", err)
	}
	var bindings []NativeBinding
	if err := json.Unmarshal(raw, &bindings); err != nil {
		return nil, fmt.Errorf("engineconfig: decode manifest: %w", err)
	}
	return bindings, nil
}
