package inventory

import (
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/smarttechsol/stockdesk/internal/domain/models"
)

// MergeContributors combines two contributor lists into one entry per
// case-insensitive-normalized name. The first-seen casing wins for
// display, so callers must pass the stored list before the incoming
// one. The date kept per contributor is the latest of all dates merged
// in; a missing date never overwrites a present one. Entries with a
// blank name are dropped with a warning.
func MergeContributors(existing, incoming []models.Contributor, logger *zap.Logger) []models.Contributor {
	if logger == nil {
		logger = zap.NewNop()
	}

	merged := make([]models.Contributor, 0, len(existing)+len(incoming))
	index := make(map[string]int)

	for _, c := range append(append([]models.Contributor{}, existing...), incoming...) {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			logger.Warn("contributor skipped: blank name", zap.String("date", c.Date))
			continue
		}

		key := Normalize(name)
		i, seen := index[key]
		if !seen {
			index[key] = len(merged)
			merged = append(merged, models.Contributor{Name: name, Date: c.Date})
			continue
		}

		merged[i].Date = laterDate(merged[i].Date, c.Date)
	}

	return merged
}

// laterDate picks the later of two RFC3339 timestamps. A blank value
// never wins over a present one; unparseable values fall back to plain
// string ordering so a bad client timestamp cannot wedge a merge.
func laterDate(a, b string) string {
	if b == "" {
		return a
	}
	if a == "" {
		return b
	}

	ta, errA := time.Parse(time.RFC3339, a)
	tb, errB := time.Parse(time.RFC3339, b)
	if errA == nil && errB == nil {
		if tb.After(ta) {
			return b
		}
		return a
	}

	if b > a {
		return b
	}
	return a
}
