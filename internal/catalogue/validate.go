package catalogue

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/CBirkbeck/modulechoices/internal/calendar"
	"github.com/CBirkbeck/modulechoices/internal/domain"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

const schemaURL = "https://modulechoices.local/schemas/catalogue.schema.json"

const catalogueSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["modules"],
  "properties": {
    "academic_year": {"type": "string"},
    "academic_years": {"type": "array", "items": {"type": "string"}},
    "modules": {"type": "array", "items": {"$ref": "#/$defs/module"}}
  },
  "$defs": {
    "texts": {
      "type": ["string", "array", "null"],
      "items": {"type": "string"}
    },
    "module": {
      "type": "object",
      "anyOf": [{"required": ["module_code"]}, {"required": ["code"]}],
      "required": ["year"],
      "properties": {
        "module_code": {"type": "string", "minLength": 1},
        "code": {"type": "string", "minLength": 1},
        "credits": {"type": ["integer", "number", "string"]},
        "year": {"type": ["integer", "string"]},
        "available_years": {"type": "array", "items": {"type": "string"}},
        "discontinued": {"type": "boolean"},
        "module_rules": {"$ref": "#/$defs/texts"},
        "rules_by_year": {"type": "object", "additionalProperties": {"$ref": "#/$defs/texts"}},
        "content_sections": {"type": "object", "additionalProperties": {"type": "string"}}
      }
    }
  }
}`

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func loadSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		c := jsonschema.NewCompiler()
		c.Draft = jsonschema.Draft2020
		if err := c.AddResource(schemaURL, strings.NewReader(catalogueSchema)); err != nil {
			schemaErr = fmt.Errorf("catalogue schema load failed: %w", err)
			return
		}
		compiledSchema, schemaErr = c.Compile(schemaURL)
		if schemaErr != nil {
			schemaErr = fmt.Errorf("catalogue schema compile failed: %w", schemaErr)
		}
	})
	return compiledSchema, schemaErr
}

// ValidateJSON checks raw catalogue JSON against the catalogue schema and, if
// it is structurally sound, against the semantic rules in ValidateFile.
// Returns every problem found.
func ValidateJSON(data []byte) []error {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return []error{fmt.Errorf("parsing catalogue: %w", err)}
	}
	schema, err := loadSchema()
	if err != nil {
		return []error{err}
	}
	if err := schema.Validate(doc); err != nil {
		return []error{fmt.Errorf("schema validation failed: %w", err)}
	}
	f, err := Decode(data)
	if err != nil {
		return []error{err}
	}
	return ValidateFile(f)
}

// ValidateFile reports semantic problems that the engine would otherwise
// silently degrade: missing codes, non-positive credits, unknown years of
// study, unreadable academic years and duplicate (code, year) rows.
func ValidateFile(f *File) []error {
	var errs []error

	if f.AcademicYear != "" {
		if _, err := calendar.ParseAcademicYear(f.AcademicYear); err != nil {
			errs = append(errs, fmt.Errorf("academic_year: %w", err))
		}
	}
	for i, y := range f.AcademicYears {
		if _, err := calendar.ParseAcademicYear(y); err != nil {
			errs = append(errs, fmt.Errorf("academic_years[%d]: %w", i, err))
		}
	}

	seen := make(map[string]int)
	for i := range f.Modules {
		m := &f.Modules[i]
		prefix := fmt.Sprintf("modules[%d]", i)
		code := m.CodeValue()
		if code == "" {
			errs = append(errs, fmt.Errorf("%s.module_code is required", prefix))
		} else {
			prefix = fmt.Sprintf("modules[%d] (%s)", i, code)
		}
		if m.Credits <= 0 {
			errs = append(errs, fmt.Errorf("%s.credits must be positive", prefix))
		}
		year := m.Year.Number()
		if !domain.ValidProgramYear(year) {
			errs = append(errs, fmt.Errorf("%s.year: %q is not a year of study 1-4", prefix, m.Year))
		}
		for _, y := range m.AvailableYears {
			if _, err := calendar.ParseAcademicYear(y); err != nil {
				errs = append(errs, fmt.Errorf("%s.available_years: %w", prefix, err))
			}
		}
		for k := range m.RulesByYear {
			if _, err := calendar.ParseAcademicYear(k); err != nil {
				errs = append(errs, fmt.Errorf("%s.rules_by_year: %w", prefix, err))
			}
		}
		if code != "" && year > 0 {
			uid := domain.OfferingUID(code, year)
			if first, dup := seen[uid]; dup {
				errs = append(errs, fmt.Errorf("%s duplicates modules[%d] for year %d", prefix, first, year))
			} else {
				seen[uid] = i
			}
		}
	}
	return errs
}
