// Package export writes result tables out for the analyst: CSV (UTF-8,
// comma-delimited, header row, no index column) and XLSX with a "Data"
// sheet plus an optional "Metadata" sheet describing the indicators,
// units, locations and sources behind the data.
package export
