package reports

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/fediwatch/fediwatch-backend/internal/jobs"
	"github.com/fediwatch/fediwatch-backend/internal/logger"
	"github.com/fediwatch/fediwatch-backend/internal/mailer"
	"github.com/fediwatch/fediwatch-backend/internal/repos"
	"github.com/fediwatch/fediwatch-backend/internal/types"
)

// JobDailyReport is the registered name of the daily summary job.
const JobDailyReport = "daily_report"

const reportWindowDays = 30

type DailyReportPayload struct {
	From string   `json:"from"`
	To   []string `json:"to"`
}

// DailyReporter mails a short text summary of the latest global rollup and
// the recent node-count trend.
type DailyReporter struct {
	stats repos.StatRepo
	mail  mailer.Mailer
	log   *logger.Logger
}

func NewDailyReporter(stats repos.StatRepo, mail mailer.Mailer, baseLog *logger.Logger) *DailyReporter {
	return &DailyReporter{
		stats: stats,
		mail:  mail,
		log:   baseLog.With("service", "DailyReporter"),
	}
}

// Register attaches the report handler to the job registry.
func (dr *DailyReporter) Register(registry *jobs.Registry) error {
	return registry.Register(JobDailyReport, dr.Run)
}

func (dr *DailyReporter) Run(ctx context.Context, raw json.RawMessage) error {
	var payload DailyReportPayload
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &payload); err != nil {
			return fmt.Errorf("decode daily report payload: %w", err)
		}
	}
	if payload.From == "" {
		payload.From = "noreply@fediwatch.local"
	}
	if len(payload.To) == 0 {
		payload.To = []string{"admin@fediwatch.local"}
	}

	fromDate := time.Now().UTC().AddDate(0, 0, -reportWindowDays).Format(types.DateFormat)

	var (
		global *types.Stat
		counts []types.DateCount
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		global, err = dr.stats.GlobalLatest(gctx, "", "")
		return err
	})
	g.Go(func() error {
		var err error
		counts, err = dr.stats.NodeCounts(gctx, fromDate, "", "")
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	msg := mailer.Message{
		From:    payload.From,
		To:      payload.To,
		Subject: fmt.Sprintf("Federation daily report %s", types.Today()),
		Body:    formatReport(global, counts),
	}
	if err := dr.mail.Send(ctx, msg); err != nil {
		dr.log.Error("daily report mail failed", "error", err)
		return err
	}
	dr.log.Info("daily report sent", "recipients", len(msg.To))
	return nil
}

func formatReport(global *types.Stat, counts []types.DateCount) string {
	var b strings.Builder
	if global == nil {
		b.WriteString("No global rollup available yet.\n")
	} else {
		fmt.Fprintf(&b, "Global rollup for %s\n", global.Date)
		writeMetric(&b, "total users", global.UsersTotal)
		writeMetric(&b, "monthly actives", global.UsersMonthly)
		writeMetric(&b, "local posts", global.LocalPosts)
		writeMetric(&b, "local comments", global.LocalComments)
	}

	b.WriteString("\nReporting nodes per day:\n")
	if len(counts) == 0 {
		b.WriteString("  (no data)\n")
	}
	for _, row := range counts {
		count := int64(0)
		if row.Count != nil {
			count = *row.Count
		}
		fmt.Fprintf(&b, "  %s  %d\n", row.Date, count)
	}
	return b.String()
}

func writeMetric(b *strings.Builder, label string, value *int64) {
	if value == nil {
		fmt.Fprintf(b, "  %s: n/a\n", label)
		return
	}
	fmt.Fprintf(b, "  %s: %d\n", label, *value)
}
