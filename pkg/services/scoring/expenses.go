package scoring

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/de-tools/shadow-scope/pkg/models/domain"
	"github.com/rs/zerolog"
)

// linkExpenses matches the profile's keyword aliases against expense
// vendor names and sums the matched amounts. Keywords are quoted before
// being assembled into the pattern so regex metacharacters in a
// registry entry match literally. A malformed pattern yields no matches
// rather than an error.
func linkExpenses(ctx context.Context, keywords []string, expenses []domain.ExpenseRecord) (int, float64) {
	if len(keywords) == 0 || len(expenses) == 0 {
		return 0, 0
	}

	quoted := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		if kw = strings.TrimSpace(kw); kw != "" {
			quoted = append(quoted, regexp.QuoteMeta(kw))
		}
	}
	if len(quoted) == 0 {
		return 0, 0
	}

	pattern, err := regexp.Compile(fmt.Sprintf(`(?i)\b(?:%s)\b`, strings.Join(quoted, "|")))
	if err != nil {
		zerolog.Ctx(ctx).Warn().
			Err(err).
			Strs("keywords", keywords).
			Msg("invalid expense keyword pattern")
		return 0, 0
	}

	count := 0
	total := 0.0
	for _, expense := range expenses {
		if pattern.MatchString(expense.Vendor) {
			count++
			total += expense.Amount
		}
	}
	return count, total
}
