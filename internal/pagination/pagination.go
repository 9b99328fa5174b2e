// Package pagination derives store offsets from page parameters.
package pagination

// Page holds the store-level offsets derived from page/pageSize.
type Page struct {
	Skip       int
	Limit      int
	TotalPages int
}

// Calculate derives skip/limit/totalPages for a page of results. Callers must
// pass page >= 1 and pageSize >= 1; the validation layer enforces that.
func Calculate(totalItems int64, page, pageSize int) Page {
	return Page{
		Skip:       (page - 1) * pageSize,
		Limit:      pageSize,
		TotalPages: int((totalItems + int64(pageSize) - 1) / int64(pageSize)),
	}
}
