package core

// error_messages.go maps technical errors to user-facing messages with codes
// support staff can look up.
//
// # Error Codes Reference
//
// File errors (FILE):
//
//	FILE001 - File too large           Patterns: "file too large", "request body too large"
//	FILE002 - Unreadable workbook      Sentinel: ErrUnreadableWorkbook
//	FILE003 - Unsupported file type    Patterns: "unsupported file type"
//	FILE004 - No file                  Sentinel: ErrNoFile
//	FILE005 - Too many rows            Sentinel: ErrTooManyRows
//
// Import errors (IMP):
//
//	IMP001 - Unknown entity type       Sentinel: ErrUnknownEntity
//	IMP002 - Required field missing    Patterns: "missing required field"
//	IMP003 - Invalid number            Patterns: "invalid number"
//	IMP004 - Invalid amount            Patterns: "invalid amount"
//
// Export errors (EXP):
//
//	EXP001 - No data to export         Patterns: "no data to export"
//	EXP002 - Unsupported format        Patterns: "unsupported export format"
//
// Report errors (RPT):
//
//	RPT001 - Unknown report            Patterns: "unknown report"
//	RPT002 - Invalid date range        Patterns: "invalid date range"
//	RPT003 - Invalid grouping          Patterns: "invalid group by"
//
// Database errors (DB):
//
//	DB001 - Duplicate key              Patterns: "duplicate key", "violates unique"
//	DB002 - Connection refused         Patterns: "connection refused"
//	DB003 - Connection reset           Patterns: "connection reset"
//
// Request errors (UPL, AUTH, RATE):
//
//	UPL002 - System busy               Sentinel: ErrTooManyImports
//	UPL004 - Request cancelled         Patterns: "context canceled"
//	UPL005 - Request timeout           Patterns: "context deadline exceeded", "timeout"
//	AUTH001 - Missing owner            Patterns: "missing owner"
//	AUTH002 - Missing/invalid API key  Patterns: "missing api key", "invalid api key"
//	RATE001 - Rate limited             Patterns: "rate limit"
//
// ERR000 is the fallback; check the application logs for the technical error.
//
// Sentinels are matched with errors.Is before any pattern, so wrapping keeps
// the code stable. Patterns are matched case-insensitively with
// strings.Contains and the first match wins.

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoFile is returned when an import request carries no file.
var ErrNoFile = errors.New("no file provided")

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

type sentinelMessage struct {
	err error
	msg UserMessage
}

var sentinelMessages = []sentinelMessage{
	{ErrUnreadableWorkbook, UserMessage{
		Message: "The uploaded file is not a readable spreadsheet",
		Action:  "Upload an .xlsx workbook, for example one built from the import template",
		Code:    "FILE002",
	}},
	{ErrNoFile, UserMessage{
		Message: "No file uploaded",
		Action:  "Please select an Excel file to upload",
		Code:    "FILE004",
	}},
	{ErrTooManyRows, UserMessage{
		Message: "The workbook has too many rows",
		Action:  "Split the file into smaller workbooks",
		Code:    "FILE005",
	}},
	{ErrUnknownEntity, UserMessage{
		Message: "Invalid import type",
		Action:  "Use one of: invoices, expenses, products",
		Code:    "IMP001",
	}},
	{ErrTooManyImports, UserMessage{
		Message: "System is busy processing other imports",
		Action:  "Please wait a moment and try again",
		Code:    "UPL002",
	}},
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns is ordered: more specific patterns come first.
var errorPatterns = []errorPattern{
	{"file too large", UserMessage{
		Message: "File exceeds maximum size limit",
		Action:  "Split the file into smaller workbooks",
		Code:    "FILE001",
	}},
	{"request body too large", UserMessage{
		Message: "File exceeds maximum size limit",
		Action:  "Split the file into smaller workbooks",
		Code:    "FILE001",
	}},
	{"unsupported file type", UserMessage{
		Message: "Only Excel files are allowed",
		Action:  "Upload an .xlsx or .xls file",
		Code:    "FILE003",
	}},
	{"missing required field", UserMessage{
		Message: "Required field is empty",
		Action:  "Ensure all required columns have values",
		Code:    "IMP002",
	}},
	{"invalid number", UserMessage{
		Message: "Invalid number format detected",
		Action:  "Use plain numbers without text",
		Code:    "IMP003",
	}},
	{"invalid amount", UserMessage{
		Message: "Amount must be greater than zero",
		Action:  "Correct the amount and import the row again",
		Code:    "IMP004",
	}},
	{"no data to export", UserMessage{
		Message: "No data to export",
		Action:  "Widen the date range or add records first",
		Code:    "EXP001",
	}},
	{"unsupported export format", UserMessage{
		Message: "Unsupported export format",
		Action:  "Use csv, pdf, or excel",
		Code:    "EXP002",
	}},
	{"unknown report", UserMessage{
		Message: "Unknown report type",
		Action:  "Use one of: sales, expenses, inventory, profit-loss",
		Code:    "RPT001",
	}},
	{"invalid date range", UserMessage{
		Message: "Invalid date range",
		Action:  "Use YYYY-MM-DD dates with the end on or after the start",
		Code:    "RPT002",
	}},
	{"invalid group by", UserMessage{
		Message: "Invalid grouping",
		Action:  "Group by day, month, or category (sales supports day and month)",
		Code:    "RPT003",
	}},
	{"duplicate key", UserMessage{
		Message: "A record with this key already exists",
		Action:  "Remove the duplicate rows and try again",
		Code:    "DB001",
	}},
	{"violates unique", UserMessage{
		Message: "A record with this key already exists",
		Action:  "Remove the duplicate rows and try again",
		Code:    "DB001",
	}},
	{"connection refused", UserMessage{
		Message: "Unable to connect to database",
		Action:  "Please try again in a few moments",
		Code:    "DB002",
	}},
	{"connection reset", UserMessage{
		Message: "Database connection was interrupted",
		Action:  "Please try again",
		Code:    "DB003",
	}},
	{"context canceled", UserMessage{
		Message: "Request was cancelled",
		Action:  "Please try again",
		Code:    "UPL004",
	}},
	{"context deadline exceeded", UserMessage{
		Message: "Request timed out",
		Action:  "Try a smaller file or try again later",
		Code:    "UPL005",
	}},
	{"timeout", UserMessage{
		Message: "Request timed out",
		Action:  "Try a smaller file or try again later",
		Code:    "UPL005",
	}},
	{"missing owner", UserMessage{
		Message: "Request is not associated with an account",
		Action:  "Sign in again",
		Code:    "AUTH001",
	}},
	{"missing api key", UserMessage{
		Message: "API key required",
		Action:  "Send the key in the X-API-Key header",
		Code:    "AUTH002",
	}},
	{"invalid api key", UserMessage{
		Message: "Invalid API key",
		Action:  "Check the X-API-Key header",
		Code:    "AUTH002",
	}},
	{"rate limit", UserMessage{
		Message: "Too many requests",
		Action:  "Please wait a moment before trying again",
		Code:    "RATE001",
	}},
}

var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// Returns the ERR000 fallback when nothing matches.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	for _, sm := range sentinelMessages {
		if errors.Is(err, sm.err) {
			return sm.msg
		}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError formats an error as "Message (Code: XXX). Action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific message rather than ERR000.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
