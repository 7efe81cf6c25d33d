// Package core provides the business logic for spreadsheet imports.
//
// The package holds the record model, the store contract and the import
// pipeline, independent of any transport. It is used by the web handlers
// and by tests without modification.
//
// # Entity Registry
//
// Importable entities are registered at init time using [Register]. Each
// [EntityDefinition] carries the column schema, the template workbook, and
// the functions that turn a row into a record and persist it:
//
//	core.Register(core.EntityDefinition{
//	    Info:    core.EntityInfo{Key: "expenses", Label: "Expenses"},
//	    Schema:  expenseSchema,
//	    Build:   buildExpense,
//	    Persist: persistExpense,
//	})
//
// The built-in entities live in the tables subpackage and register
// themselves when it is imported.
//
// # Import Flow
//
//  1. [Service.Import] acquires a slot from the [ImportLimiter]
//  2. [ReadWorkbook] decodes the first sheet into header-keyed [RawRow]s
//  3. The [Importer] builds and persists every row on a bounded worker pool
//  4. Row failures are collected as "Row N: reason" and never abort the batch
//
// Invoice rows reference customers by name or email; the [CustomerResolver]
// finds or creates them once per import.
//
// # Error Handling
//
// Technical errors are mapped to user-friendly messages using [MapError].
// Each error category has a unique code for support reference:
//
//   - FILE001-FILE005: File errors (size, type, unreadable workbook)
//   - IMP001-IMP004: Import errors (entity, required fields, numbers)
//   - EXP001-EXP002: Export errors
//   - RPT001-RPT003: Report parameter errors
//   - DB001-DB003: Database errors
package core
