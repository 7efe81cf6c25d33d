package core

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Schema is the ordered list of canonical fields of an entity.
type Schema []FieldSpec

// Field returns the spec for a canonical field name.
func (s Schema) Field(name string) (FieldSpec, bool) {
	for _, f := range s {
		if f.Name == name {
			return f, true
		}
	}
	return FieldSpec{}, false
}

// FieldMapper resolves canonical fields of one row through their alias chains.
type FieldMapper struct {
	row    RawRow
	schema Schema
	now    time.Time
	loc    *time.Location
}

// NewFieldMapper creates a mapper for one row. now is the fallback for
// missing or unparsable dates.
func NewFieldMapper(row RawRow, schema Schema, now time.Time) *FieldMapper {
	return &FieldMapper{row: row, schema: schema, now: now, loc: now.Location()}
}

func (m *FieldMapper) spec(name string) FieldSpec {
	spec, ok := m.schema.Field(name)
	if !ok {
		// Programming error in an entity definition, not bad input.
		panic(fmt.Sprintf("field %q not in schema", name))
	}
	return spec
}

func (m *FieldMapper) lookup(spec FieldSpec) (any, bool) {
	aliases := spec.Aliases
	if len(aliases) == 0 {
		aliases = []string{spec.Name}
	}
	v, _, ok := m.row.Lookup(aliases...)
	return v, ok
}

// Has reports whether any alias of the field carries a value.
func (m *FieldMapper) Has(name string) bool {
	_, ok := m.lookup(m.spec(name))
	return ok
}

// Text returns the field as trimmed text, or its default.
func (m *FieldMapper) Text(name string) (string, error) {
	spec := m.spec(name)
	v, ok := m.lookup(spec)
	if !ok {
		if spec.Required {
			return "", fmt.Errorf("missing required field: %s", fieldLabel(spec))
		}
		return defaultString(spec.Default), nil
	}
	s := CleanCell(cellString(v))
	if spec.Normalizer != nil {
		s = spec.Normalizer(s)
	}
	return s, nil
}

// Number returns the field as a float.
func (m *FieldMapper) Number(name string) (float64, error) {
	spec := m.spec(name)
	v, ok := m.lookup(spec)
	if !ok {
		if spec.Required {
			return 0, fmt.Errorf("missing required field: %s", fieldLabel(spec))
		}
		return defaultFloat(spec.Default), nil
	}
	switch val := v.(type) {
	case float64:
		return val, nil
	case string:
		f, ok := ParseNumber(val)
		if !ok {
			return 0, fmt.Errorf("invalid number for %s: %q", fieldLabel(spec), val)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("invalid number for %s", fieldLabel(spec))
	}
}

// Int returns the field as an integer, truncating fractions.
func (m *FieldMapper) Int(name string) (int, error) {
	f, err := m.Number(name)
	if err != nil {
		return 0, err
	}
	return int(f), nil
}

// Date returns the field as a time. Numeric values are spreadsheet serials.
// Missing or unparsable values fall back to the mapper's clock.
func (m *FieldMapper) Date(name string) time.Time {
	spec := m.spec(name)
	v, ok := m.lookup(spec)
	if !ok {
		return m.now
	}
	switch val := v.(type) {
	case float64:
		return inLocation(SerialToTime(val), m.loc)
	case string:
		if t, ok := ParseDate(val, m.loc); ok {
			return t
		}
	}
	return m.now
}

// inLocation keeps the wall-clock fields of t and moves them into loc, so a
// serial date lands on the same calendar day as the equivalent text date.
func inLocation(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		return t
	}
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), loc)
}

// Enum returns the normalised field value, validated against the enum set.
func (m *FieldMapper) Enum(name string) (string, error) {
	spec := m.spec(name)
	v, ok := m.lookup(spec)
	raw := defaultString(spec.Default)
	if ok {
		raw = cellString(v)
	} else if spec.Required {
		return "", fmt.Errorf("missing required field: %s", fieldLabel(spec))
	}

	normalize := spec.Normalizer
	if normalize == nil {
		normalize = NormalizeEnum
	}
	value := normalize(raw)
	if !slices.Contains(spec.EnumValues, value) {
		return "", fmt.Errorf("invalid %s: %q (allowed: %s)", fieldLabel(spec), raw, strings.Join(spec.EnumValues, ", "))
	}
	return value, nil
}

// fieldLabel names a field by its preferred header for error messages.
func fieldLabel(spec FieldSpec) string {
	if len(spec.Aliases) > 0 {
		return spec.Aliases[0]
	}
	return spec.Name
}

func cellString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case nil:
		return ""
	default:
		return strings.TrimSpace(fmt.Sprint(val))
	}
}

func defaultString(v any) string {
	if v == nil {
		return ""
	}
	return cellString(v)
}

func defaultFloat(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case int:
		return float64(val)
	default:
		return 0
	}
}
