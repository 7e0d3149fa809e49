package orchestrators

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"studio/internal/adapters/email"
	"studio/internal/application/chartdata"
	"studio/internal/application/projections"
)

// digestMarkdown renders digest markdown with GFM tables.
var digestMarkdown = goldmark.New(goldmark.WithExtensions(extension.Table))

// DigestDeps holds dependencies for the dashboard digest.
type DigestDeps struct {
	Overview   projections.GetOverviewDashboardDeps
	Sender     email.Sender
	Recipients []string
	Period     time.Duration
	Location   *time.Location
	Formatter  chartdata.BucketFormatter
	Now        func() time.Time
}

// DigestResult reports what was sent.
type DigestResult struct {
	Range    chartdata.DateRange
	Markdown string
	Sent     int
}

// ExecuteSendDashboardDigest emails a summary of the overview dashboard for the
// period ending today, one message per recipient.
// PRE: deps.Period >= 24h; deps.Sender is non-nil
// POST: Each recipient receives the rendered digest; no recipients sends nothing
func ExecuteSendDashboardDigest(ctx context.Context, deps DigestDeps) (DigestResult, error) {
	loc := deps.Location
	if loc == nil {
		loc = time.Local
	}
	days := int(deps.Period / (24 * time.Hour))
	if days < 1 {
		days = 1
	}
	rng := chartdata.LastDays(nowOr(deps.Now).In(loc), days)

	overview, err := projections.QueryGetOverviewDashboard(ctx, projections.DashboardQuery{Range: rng, Formatter: deps.Formatter}, deps.Overview)
	if err != nil {
		return DigestResult{}, fmt.Errorf("build overview: %w", err)
	}

	md := RenderDigestMarkdown(overview)
	result := DigestResult{Range: rng, Markdown: md}
	if len(deps.Recipients) == 0 {
		slog.Info("digest_skipped", "reason", "no_recipients")
		return result, nil
	}

	var html bytes.Buffer
	if err := digestMarkdown.Convert([]byte(md), &html); err != nil {
		return result, fmt.Errorf("render digest: %w", err)
	}

	subject := fmt.Sprintf("Studio digest %s to %s", overview.Range.From, overview.Range.To)
	reqs := make([]email.SendRequest, 0, len(deps.Recipients))
	for _, to := range deps.Recipients {
		reqs = append(reqs, email.SendRequest{To: []string{to}, Subject: subject, HTML: html.String()})
	}
	sent, err := deps.Sender.SendBatch(ctx, reqs)
	result.Sent = len(sent)
	if err != nil {
		return result, fmt.Errorf("send digest: %w", err)
	}

	slog.Info("digest_sent", "recipients", result.Sent, "from", overview.Range.From, "to", overview.Range.To)
	return result, nil
}

// RenderDigestMarkdown formats an overview dashboard as a markdown report.
func RenderDigestMarkdown(o projections.OverviewDashboardResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Studio digest\n\n%s to %s\n\n", o.Range.From, o.Range.To)

	b.WriteString("## Attendance\n\n")
	writeSlices(&b, o.Attendance, false)

	fmt.Fprintf(&b, "## Income\n\nTotal received: **%s**\n\n", o.IncomeTotal)
	writeSlices(&b, o.Income, true)

	fmt.Fprintf(&b, "## Activity\n\n- New students: %d\n- Bookings: %d\n", o.Registrations.Total, o.EnrollmentTrend.Total)
	if busiest, ok := busiestBucket(o.EnrollmentTrend); ok {
		fmt.Fprintf(&b, "- Busiest %s: %s (%d bookings)\n", o.EnrollmentTrend.Unit, busiest.Label, busiest.Count)
	}
	return b.String()
}

func writeSlices(b *strings.Builder, agg chartdata.CategoricalAggregate, withShare bool) {
	if agg.IsEmpty {
		b.WriteString("_No data for this period._\n\n")
		return
	}
	if withShare {
		b.WriteString("| | Value | Share |\n|---|---:|---:|\n")
	} else {
		b.WriteString("| | Value |\n|---|---:|\n")
	}
	for _, s := range agg.Slices {
		if withShare {
			fmt.Fprintf(b, "| %s | %.2f | %.1f%% |\n", s.Label, s.Value, s.Percentage)
		} else {
			fmt.Fprintf(b, "| %s | %.0f |\n", s.Label, s.Value)
		}
	}
	b.WriteString("\n")
}

func busiestBucket(ts chartdata.TimeSeriesAggregate) (chartdata.Point, bool) {
	var best chartdata.Point
	for _, p := range ts.Points {
		if p.Count > best.Count {
			best = p
		}
	}
	return best, best.Count > 0
}

// StartDigestWorker sends the dashboard digest every deps.Period until stopCh is closed.
// PRE: deps.Period > 0
// POST: Worker runs until stopCh is closed
func StartDigestWorker(deps DigestDeps, stopCh <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(deps.Period)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
				if _, err := ExecuteSendDashboardDigest(ctx, deps); err != nil {
					slog.Error("digest_background_send_failed", "error", err.Error())
				}
				cancel()
			case <-stopCh:
				slog.Info("digest_background_worker_stopped")
				return
			}
		}
	}()
}
