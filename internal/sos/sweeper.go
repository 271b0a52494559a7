package sos

import (
	"context"
	"time"

	"go.uber.org/multierr"
)

type SweepReport struct {
	StartedAt time.Time         `json:"started_at"`
	Deleted   map[string]int64  `json:"deleted"`
	Failed    map[string]string `json:"failed,omitempty"`
	Total     int64             `json:"total"`
}

// SweepExpired deletes alerts of any status older than their category's retention window.
// Each category is its own delete; a failing one is logged and the rest still run.
// The returned error combines the failures, the report is always filled.
func (s *sosService) SweepExpired(ctx context.Context) (*SweepReport, error) {

	started := time.Now()
	now := s.now()

	report := &SweepReport{
		StartedAt: now,
		Deleted:   make(map[string]int64),
	}

	var errs error
	for _, w := range retentionWindows(now) {
		label := w.Scope.String()

		n, err := s.repo.DeleteAlertsBefore(ctx, w.Scope, w.Cutoff)
		if err != nil {
			if report.Failed == nil {
				report.Failed = make(map[string]string)
			}
			report.Failed[label] = err.Error()
			errs = multierr.Append(errs, err)
			s.metrics.IncSweepFailures(label)
			s.logger.Errorw("sos sweep failed for category", "category", label, "cutoff", w.Cutoff, "error", err)
			continue
		}

		report.Deleted[label] = n
		report.Total += n
		if n > 0 {
			s.metrics.AddAlertsPurged(label, n)
			s.logger.Infow("sos sweep purged alerts", "category", label, "deleted", n, "cutoff", w.Cutoff)
			s.publish(ctx, LifecycleEvent{
				Type:  EventAlertsPurged,
				Count: n,
				Scope: label,
			})
		}
	}

	s.metrics.ObserveSweepDuration(time.Since(started).Seconds())
	s.logger.Infow("sos sweep finished", "deleted", report.Total, "failed", len(report.Failed))

	return report, errs
}
