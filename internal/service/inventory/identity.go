package inventory

import "strings"

// UnnamedID is the sentinel id returned for blank or whitespace-only
// component names so that malformed rows degrade instead of failing a
// whole batch.
const UnnamedID = "unnamed"

// Normalize derives the stable ledger id for a component name: trim,
// lowercase, collapse internal whitespace runs to single hyphens.
// Every lookup path (upsert, deduction, deletion, staging collapse)
// must go through this function or identity breaks.
func Normalize(name string) string {
	fields := strings.Fields(strings.ToLower(name))
	if len(fields) == 0 {
		return UnnamedID
	}
	return strings.Join(fields, "-")
}
