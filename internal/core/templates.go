package core

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// TemplateSheet is the worksheet name used for generated import templates.
const TemplateSheet = "Template"

// GenerateTemplate builds a blank import workbook for an entity: the header
// row followed by the entity's fixed sample rows. The caller owns the file
// and must Close it.
func GenerateTemplate(entityKey string) (*excelize.File, error) {
	def, err := Lookup(entityKey)
	if err != nil {
		return nil, err
	}
	return buildTemplate(def.Template)
}

func buildTemplate(spec TemplateSpec) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", TemplateSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	lines := make([][]any, 0, len(spec.SampleRows)+1)
	header := make([]any, len(spec.Headers))
	for i, h := range spec.Headers {
		header[i] = h
	}
	lines = append(lines, header)
	lines = append(lines, spec.SampleRows...)

	for i, line := range lines {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			f.Close()
			return nil, err
		}
		if err := f.SetSheetRow(TemplateSheet, cell, &line); err != nil {
			f.Close()
			return nil, fmt.Errorf("write template row %d: %w", i+1, err)
		}
	}

	return f, nil
}

// TemplateFilename returns the download name of an entity's template.
func TemplateFilename(entityKey string) string {
	return entityKey + "-template.xlsx"
}
