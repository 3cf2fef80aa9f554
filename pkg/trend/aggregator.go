package trend

import (
	"context"
	"strings"

	"ai-trendboard-be/pkg/enrich"
	"ai-trendboard-be/pkg/table"
)

// Summarizer produces the trend narrative for one category from the
// joined description texts of its rows.
type Summarizer func(ctx context.Context, category, payload string) (string, error)

// RowFilter selects the rows that participate in a run (rank filter).
type RowFilter func(row int) bool

// Summarize partitions the rows passing the filter by category key,
// dispatches one work unit per category through the bounded engine, and
// assembles a fresh category→summary table. A re-run fully replaces any
// prior table; nothing is merged incrementally. Categories whose unit
// failed are absent from the table and carried in the returned results
// instead.
func Summarize(
	ctx context.Context,
	t *table.Table,
	keep RowFilter,
	maxConcurrent int,
	summarize Summarizer,
	onComplete enrich.CompletionFunc,
) (*table.Table, []enrich.Result) {
	groups, order := groupDescriptions(t, keep)

	units := make([]enrich.Unit, 0, len(order))
	for _, category := range order {
		units = append(units, enrich.Unit{
			Key:     category,
			Payload: strings.Join(groups[category], "\n"),
		})
	}

	results := enrich.Run(ctx, units, maxConcurrent,
		func(ctx context.Context, u enrich.Unit) (string, error) {
			return summarize(ctx, u.Key, u.Payload)
		},
		onComplete,
	)

	summaries := make(map[string]string, len(results))
	for _, res := range results {
		if res.Err == nil {
			summaries[res.Key] = res.Value
		}
	}

	out := table.New([]string{table.ColTrendCategory, table.ColTrendSummary})
	for _, category := range order {
		if summary, ok := summaries[category]; ok {
			out.AppendRow([]string{category, summary})
		}
	}
	return out, results
}

// groupDescriptions collects the description texts of filtered rows per
// category, preserving first-appearance order so re-runs over the same
// table yield the same category sequence.
func groupDescriptions(t *table.Table, keep RowFilter) (map[string][]string, []string) {
	groups := make(map[string][]string)
	var order []string

	for i := range t.Rows {
		if keep != nil && !keep(i) {
			continue
		}
		category := t.Get(i, table.ColCategory)
		if _, seen := groups[category]; !seen {
			order = append(order, category)
		}
		groups[category] = append(groups[category], t.Get(i, table.ColDescription))
	}
	return groups, order
}
