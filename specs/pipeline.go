package specs

import "time"

// NormalizeStatus canonicalizes a free-text organization status.
//
// Strips surrounding whitespace and capitalizes the first letter, lowering
// the rest: " active " and "ACTIVE" both become "Active". Normalizing twice
// yields the same value as normalizing once.
//
// Returns error if the value is empty after stripping. Callers bucket such
// rows as "Unspecified" instead of dropping them.
//
// See internal.NormalizeStatus for the reference implementation.
type NormalizeStatus func(raw string) (string, error)

// NormalizeAmount parses a messily formatted monetary amount.
//
// Process:
//  1. Drop every character that is not a digit, ',', '.' or '-'
//  2. Decide which separator is decimal and which is grouping
//  3. Parse the remainder as a signed decimal
//
// Returns the amount as a decimal string. Returns error if the value still
// cannot be parsed (no digits, multiple decimal separators, misplaced sign).
//
// See internal.NormalizeAmount for the reference implementation.
type NormalizeAmount func(raw string) (string, error)

// NormalizeDate parses a date strictly with the given Go layout.
//
// See internal.NormalizeDate for the reference implementation.
type NormalizeDate func(raw string, layout string) (time.Time, error)

// AttachSegment resolves the segment of every order's organization.
//
// Left join of OrderSpec.Organization on OrganizationSpec.Name (both
// trimmed). When names repeat, the first organization in input order wins.
// Unmatched orders and organizations with a null or blank segment resolve to
// "Sin Segmento".
//
// Returns one segment label per order, index-aligned with orders.
//
// See internal.AttachSegment for the reference implementation.
type AttachSegment func(orders []OrderSpec, organizations []OrganizationSpec) []string

// Assemble builds the full metric bundle for one report run.
//
// Process:
//  1. Normalize organization statuses, order amounts and order dates
//  2. Classify orders (origin, renewal, marketplace access)
//  3. Attach segments to orders
//  4. Aggregate every section
//  5. Collect diagnostics
//
// A missing input table leaves the sections that need it empty and is
// reported through the returned error and Diagnostics.Sections; the
// returned ReportSpec is always usable.
//
// See internal.Assemble for the reference implementation.
type Assemble func(tables TablesSpec, config ReportConfigSpec) (ReportSpec, error)
