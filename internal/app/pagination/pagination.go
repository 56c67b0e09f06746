// Package pagination converts 1-based page numbers into offsets and derives
// page counts. Pure functions, no clamping surprises: anything at or below
// the first page maps to offset 0.
package pagination

// DefaultRowsPerPage is used whenever a caller omits rowsPerPage or sends a
// non-positive value.
const DefaultRowsPerPage = 10

// Normalize returns a usable rows-per-page value.
func Normalize(rowsPerPage int) int {
	if rowsPerPage <= 0 {
		return DefaultRowsPerPage
	}
	return rowsPerPage
}

// Offset maps a 1-based page number to a row offset. Pages at or below 1
// start at the beginning.
func Offset(page, rowsPerPage int) int {
	rowsPerPage = Normalize(rowsPerPage)
	if page <= 1 {
		return 0
	}
	return (page - 1) * rowsPerPage
}

// PageCount returns the number of pages needed to show totalCount rows.
func PageCount(totalCount, rowsPerPage int) int {
	rowsPerPage = Normalize(rowsPerPage)
	if totalCount <= 0 {
		return 0
	}
	return (totalCount + rowsPerPage - 1) / rowsPerPage
}
