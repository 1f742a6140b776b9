package schema

import (
	"encoding/json"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// StoredSchema is one persisted schema row from a destination's state
// table: the serialized schema plus its version metadata.
type StoredSchema struct {
	Name       string    `json:"schema_name"`
	Version    int       `json:"version"`
	InsertedAt time.Time `json:"inserted_at"`
	Payload    []byte    `json:"schema"`
}

// Decode deserializes the stored payload into a Schema.
func (ss *StoredSchema) Decode() (*Schema, error) {
	return FromJSON(ss.Payload)
}

// document is the wire shape shared by the JSON and YAML codecs.
type document struct {
	Name   string          `json:"name" yaml:"name"`
	Tables []tableDocument `json:"tables" yaml:"tables"`
}

type tableDocument struct {
	Name    string   `json:"name" yaml:"name"`
	Columns []Column `json:"columns" yaml:"columns"`
}

func (s *Schema) toDocument() document {
	doc := document{Name: s.name}
	for _, name := range s.TableNames() {
		t := s.tables[name]
		doc.Tables = append(doc.Tables, tableDocument{Name: t.Name, Columns: t.Columns()})
	}
	return doc
}

func fromDocument(doc document) (*Schema, error) {
	if doc.Name == "" {
		return nil, fmt.Errorf("schema document has no name")
	}
	s := New(doc.Name)
	for _, td := range doc.Tables {
		s.AddTable(NewTable(td.Name, td.Columns...))
	}
	return s, nil
}

// ToJSON serializes the schema to the stored-schema JSON payload.
func (s *Schema) ToJSON() ([]byte, error) {
	b, err := json.Marshal(s.toDocument())
	if err != nil {
		return nil, fmt.Errorf("encode schema %q: %w", s.name, err)
	}
	return b, nil
}

// FromJSON restores a schema from a stored-schema JSON payload.
func FromJSON(b []byte) (*Schema, error) {
	var doc document
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("decode stored schema: %w", err)
	}
	return fromDocument(doc)
}

// ToYAML serializes the schema in the import/export file format.
func (s *Schema) ToYAML() ([]byte, error) {
	b, err := yaml.Marshal(s.toDocument())
	if err != nil {
		return nil, fmt.Errorf("encode schema %q: %w", s.name, err)
	}
	return b, nil
}

// FromYAML restores a schema from its import/export file format.
func FromYAML(b []byte) (*Schema, error) {
	var doc document
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("decode schema yaml: %w", err)
	}
	return fromDocument(doc)
}
