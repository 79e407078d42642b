// Package batch runs the periodic report jobs across every owner. A failure
// for one owner is logged and recorded, and the run moves on to the next.
package batch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/keiri-dev/keiri/internal/model"
	"github.com/keiri-dev/keiri/internal/report"
	"github.com/keiri-dev/keiri/internal/runlog"
)

const (
	JobMidMonth = "mid-month"
	JobMonthEnd = "month-end"
)

// Notifier delivers a rendered report to an owner.
type Notifier interface {
	Notify(ctx context.Context, owner, text string) error
}

// WriterNotifier prints reports to w, separated by a header line.
type WriterNotifier struct {
	W io.Writer
}

func (n WriterNotifier) Notify(_ context.Context, owner, text string) error {
	_, err := fmt.Fprintf(n.W, "=== %s ===\n%s\n", owner, text)
	return err
}

// OwnerLister enumerates the owners a run covers.
type OwnerLister interface {
	Owners(ctx context.Context) ([]model.Owner, error)
}

// Runner executes jobs.
type Runner struct {
	owners   OwnerLister
	composer *report.Composer
	notifier Notifier
	logRoot  string
	logger   *slog.Logger
	now      func() time.Time
}

// NewRunner returns a Runner. When logRoot is non-empty each outcome is
// appended to the run log under it.
func NewRunner(owners OwnerLister, c *report.Composer, n Notifier, logRoot string, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		owners:   owners,
		composer: c,
		notifier: n,
		logRoot:  logRoot,
		logger:   logger,
		now:      time.Now,
	}
}

// Summary counts outcomes for one run.
type Summary struct {
	RunID   string
	Job     string
	OK      int
	Skipped int
	Failed  int
}

// MidMonth sends the mid-month report to every owner.
func (r *Runner) MidMonth(ctx context.Context) (Summary, error) {
	return r.run(ctx, JobMidMonth, func(ctx context.Context, owner string) (string, error) {
		return r.composer.MidMonth(ctx, owner)
	})
}

// MonthEnd sends the closing report for year/month to every owner.
func (r *Runner) MonthEnd(ctx context.Context, year, month int) (Summary, error) {
	return r.run(ctx, JobMonthEnd, func(ctx context.Context, owner string) (string, error) {
		return r.composer.MonthEnd(ctx, owner, year, month)
	})
}

type renderFunc func(ctx context.Context, owner string) (string, error)

func (r *Runner) run(ctx context.Context, job string, render renderFunc) (Summary, error) {
	sum := Summary{RunID: uuid.NewString(), Job: job}
	owners, err := r.owners.Owners(ctx)
	if err != nil {
		return sum, fmt.Errorf("listing owners: %w", err)
	}

	logger := r.logger.With("run_id", sum.RunID, "job", job)
	logger.Info("batch started", "owners", len(owners))

	var records []runlog.Record
	for _, o := range owners {
		if err := ctx.Err(); err != nil {
			return sum, err
		}

		status, details := r.one(ctx, logger, o.Ref, render)
		switch status {
		case runlog.StatusOK:
			sum.OK++
		case runlog.StatusSkipped:
			sum.Skipped++
		case runlog.StatusFailed:
			sum.Failed++
		}
		records = append(records, runlog.Record{
			Timestamp: r.now(),
			RunID:     sum.RunID,
			Job:       job,
			Owner:     o.Ref,
			Status:    status,
			Details:   details,
		})
	}

	if r.logRoot != "" {
		if err := runlog.Append(r.logRoot, records); err != nil {
			return sum, fmt.Errorf("writing run log: %w", err)
		}
	}
	logger.Info("batch finished", "ok", sum.OK, "skipped", sum.Skipped, "failed", sum.Failed)
	return sum, nil
}

func (r *Runner) one(ctx context.Context, logger *slog.Logger, owner string, render renderFunc) (runlog.Status, string) {
	text, err := render(ctx, owner)
	if err != nil {
		logger.Warn("report failed", "owner", owner, "error", err)
		return runlog.StatusFailed, err.Error()
	}
	if text == report.NoDataText {
		logger.Info("owner has no data", "owner", owner)
		return runlog.StatusSkipped, "no data"
	}
	if err := r.notifier.Notify(ctx, owner, text); err != nil {
		logger.Warn("delivery failed", "owner", owner, "error", err)
		return runlog.StatusFailed, err.Error()
	}
	return runlog.StatusOK, ""
}
