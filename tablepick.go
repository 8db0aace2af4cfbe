// Package tablepick extracts HTML tables from web pages and converts them
// to CSV or JSON. It fetches a single page, locates every <table> element
// in document order, normalizes each one into a rectangular header+rows
// matrix (resolving rowspan/colspan, ragged rows, and missing cells), and
// routes the serialized result to stdout and/or per-table files.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., http/, goquery/, fs/).
package tablepick

// Version is the tool version reported by --version and the User-Agent.
const Version = "0.1.0"
