// Package ingest loads vocabulary packages from spreadsheet files into the
// item store.
//
// A workbook row maps to one item: column A is the text, column B the
// translation, column C optional example sentences (separated by semicolons
// or line breaks), column D an optional pronunciation hint, and columns E
// and F optional per-row level and category overrides. Rows missing text or
// translation are reported and skipped; the rest of the file still imports.
//
// Each import lands as a single content package in one transaction, so a
// failed batch leaves no partial package behind.
package ingest
