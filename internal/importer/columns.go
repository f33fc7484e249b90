package importer

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Logical spreadsheet fields
const (
	FieldRUT               = "rut"
	FieldFullName          = "fullName"
	FieldEmail             = "email"
	FieldPhone             = "phone"
	FieldPlanID            = "planId"
	FieldPlanText          = "planText"
	FieldAdmissionYear     = "admissionYear"
	FieldCohortYear        = "cohortYear"
	FieldAdmissionChannel  = "admissionChannel"
	FieldEmploymentStatus  = "employmentStatus"
	FieldEmployer          = "employer"
	FieldJobTitle          = "jobTitle"
	FieldSalaryRange       = "salaryRange"
	FieldEmploymentSector  = "employmentSector"
	FieldEstablishmentType = "establishmentType"
	FieldLinkedin          = "linkedin"
	FieldComments          = "comments"
)

//go:embed vocabulary.yaml
var defaultVocabularyYAML []byte

// Row is one spreadsheet row keyed by normalized column header
type Row struct {
	// Line is the sheet row number, used in reports
	Line   int
	Values map[string]string
}

// Cell is one header/value pair of a sheet row
type Cell struct {
	Header string
	Value  string
}

// NewRowFromCells builds a Row from cells in column order, normalizing every
// header. When two headers normalize to the same key the leftmost non-empty
// cell wins.
func NewRowFromCells(line int, cells []Cell) Row {
	values := make(map[string]string, len(cells))
	for _, c := range cells {
		key := NormalizeKey(c.Header)
		if key == "" {
			continue
		}
		if existing, ok := values[key]; ok && strings.TrimSpace(existing) != "" {
			continue
		}
		values[key] = c.Value
	}
	return Row{Line: line, Values: values}
}

// NewRow builds a Row from a header to value map. Headers are visited in
// sorted order, so key collisions resolve the same way on every call.
func NewRow(line int, raw map[string]string) Row {
	headers := make([]string, 0, len(raw))
	for header := range raw {
		headers = append(headers, header)
	}
	sort.Strings(headers)

	cells := make([]Cell, len(headers))
	for i, header := range headers {
		cells[i] = Cell{Header: header, Value: raw[header]}
	}
	return NewRowFromCells(line, cells)
}

// Vocabulary lists, per logical field, the candidate headers in priority order
type Vocabulary struct {
	Version int
	fields  map[string][]string
}

type vocabularyDocument struct {
	Version int                 `yaml:"version"`
	Fields  map[string][]string `yaml:"fields"`
}

// ParseVocabulary reads a YAML vocabulary document
func ParseVocabulary(data []byte) (*Vocabulary, error) {
	var doc vocabularyDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse header vocabulary: %w", err)
	}
	if len(doc.Fields) == 0 {
		return nil, fmt.Errorf("header vocabulary version %d defines no fields", doc.Version)
	}

	v := &Vocabulary{Version: doc.Version, fields: make(map[string][]string, len(doc.Fields))}
	for field, headers := range doc.Fields {
		keys := make([]string, 0, len(headers))
		for _, h := range headers {
			if k := NormalizeKey(h); k != "" {
				keys = append(keys, k)
			}
		}
		v.fields[field] = keys
	}
	return v, nil
}

// DefaultVocabulary returns the embedded vocabulary
func DefaultVocabulary() *Vocabulary {
	v, err := ParseVocabulary(defaultVocabularyYAML)
	if err != nil {
		panic(err)
	}
	return v
}

// Candidates returns the normalized header keys tried for field
func (v *Vocabulary) Candidates(field string) []string {
	return v.fields[field]
}

// Lookup returns the first non-empty trimmed cell among the field's candidates
func (v *Vocabulary) Lookup(row Row, field string) string {
	for _, key := range v.fields[field] {
		if value := strings.TrimSpace(row.Values[key]); value != "" {
			return value
		}
	}
	return ""
}
