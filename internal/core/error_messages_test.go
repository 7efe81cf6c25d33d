package core

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantCode    string
		wantMessage string
	}{
		{
			name:        "nil error returns empty",
			err:         nil,
			wantCode:    "",
			wantMessage: "",
		},
		{
			name:        "wrapped unreadable workbook",
			err:         fmt.Errorf("import: %w", fmt.Errorf("%w: zip: not a valid zip file", ErrUnreadableWorkbook)),
			wantCode:    "FILE002",
			wantMessage: "The uploaded file is not a readable spreadsheet",
		},
		{
			name:        "no file",
			err:         ErrNoFile,
			wantCode:    "FILE004",
			wantMessage: "No file uploaded",
		},
		{
			name:        "too many rows",
			err:         fmt.Errorf("%w: limit is 10", ErrTooManyRows),
			wantCode:    "FILE005",
			wantMessage: "The workbook has too many rows",
		},
		{
			name:        "unknown entity",
			err:         fmt.Errorf("%w: widgets", ErrUnknownEntity),
			wantCode:    "IMP001",
			wantMessage: "Invalid import type",
		},
		{
			name:        "busy",
			err:         ErrTooManyImports,
			wantCode:    "UPL002",
			wantMessage: "System is busy processing other imports",
		},
		{
			name:        "no data to export matched by text",
			err:         errors.New("no data to export"),
			wantCode:    "EXP001",
			wantMessage: "No data to export",
		},
		{
			name:        "invalid date range",
			err:         errors.New("invalid date range: end before start"),
			wantCode:    "RPT002",
			wantMessage: "Invalid date range",
		},
		{
			name:        "invalid group by",
			err:         errors.New(`invalid group by: "week" (allowed: day, month, category)`),
			wantCode:    "RPT003",
			wantMessage: "Invalid grouping",
		},
		{
			name:        "duplicate key",
			err:         errors.New("ERROR: duplicate key value violates unique constraint"),
			wantCode:    "DB001",
			wantMessage: "A record with this key already exists",
		},
		{
			name:        "deadline",
			err:         context.DeadlineExceeded,
			wantCode:    "UPL005",
			wantMessage: "Request timed out",
		},
		{
			name:        "case insensitive matching",
			err:         errors.New("RATE LIMIT exceeded"),
			wantCode:    "RATE001",
			wantMessage: "Too many requests",
		},
		{
			name:        "unknown error returns default",
			err:         errors.New("some random internal error"),
			wantCode:    "ERR000",
			wantMessage: "An unexpected error occurred",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError() code = %q, want %q", got.Code, tt.wantCode)
			}
			if got.Message != tt.wantMessage {
				t.Errorf("MapError() message = %q, want %q", got.Message, tt.wantMessage)
			}
		})
	}
}

func TestFormatUserError(t *testing.T) {
	result := FormatUserError(ErrNoFile)

	expected := "No file uploaded (Code: FILE004). Please select an Excel file to upload"
	if result != expected {
		t.Errorf("FormatUserError() = %q, want %q", result, expected)
	}
	if got := FormatUserError(nil); got != "" {
		t.Errorf("FormatUserError(nil) = %q, want empty", got)
	}
}

func TestIsUserFacing(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil error is not user facing", nil, false},
		{"known error is user facing", errors.New("duplicate key"), true},
		{"sentinel is user facing", ErrUnknownEntity, true},
		{"unknown error is not user facing", errors.New("random internal error xyz"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUserFacing(tt.err); got != tt.want {
				t.Errorf("IsUserFacing() = %v, want %v", got, tt.want)
			}
		})
	}
}
