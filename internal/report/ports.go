package report

import "context"

// Writer is the outbound port for exported summaries.
type Writer interface {
	AppendWeeklySummary(ctx context.Context, s WeeklySummary) error
}
