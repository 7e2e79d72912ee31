// Package poller runs the background loop that reconciles incoming citizen
// reports into aggregated issues.
package poller

import (
	"context"
	"log"
	"sync/atomic"
	"time"

	"github.com/innodatatics/city_dashboard/internal/model"
	"github.com/innodatatics/city_dashboard/util"
)

// ReportStore is the report persistence surface the engine needs.
type ReportStore interface {
	UnprocessedReports(ctx context.Context, limit int) ([]model.Report, error)
	ReportByID(ctx context.Context, id string) (*model.Report, error)
	MarkProcessed(ctx context.Context, id string) error
}

// IssueStore is the issue persistence surface the engine needs.
type IssueStore interface {
	IssuesByType(ctx context.Context, issueType string) ([]model.Issue, error)
	CreateIssue(ctx context.Context, issue model.Issue) error
	SaveIssue(ctx context.Context, issue model.Issue) error
}

// Geocoder resolves coordinates to a human readable location. It never
// fails; a coordinate description is returned when lookups are down.
type Geocoder interface {
	Resolve(ctx context.Context, lat, lon float64) string
}

// Notifications delivers the contributor and authority emails after a
// reconciliation. Delivery is best-effort.
type Notifications interface {
	NotifyContributors(ctx context.Context, emails []string, issue model.Issue, isNew bool)
	NotifyAuthorities(ctx context.Context, issue model.Issue, isNew bool)
}

// EventSink receives issue lifecycle events for live dashboard feeds.
type EventSink interface {
	IssueEvent(issue model.Issue, isNew bool)
}

// Options tunes the engine's timing. Zero values select the defaults.
type Options struct {
	PollInterval      time.Duration
	ErrorBackoff      time.Duration
	ProofRetryDelay   time.Duration
	ProofRetries      int
	PreReconcileDelay time.Duration
	BatchLimit        int
	MatchRadiusKm     float64
}

func (o Options) withDefaults() Options {
	if o.PollInterval <= 0 {
		o.PollInterval = 10 * time.Second
	}
	if o.ErrorBackoff <= 0 {
		o.ErrorBackoff = 30 * time.Second
	}
	if o.ProofRetryDelay <= 0 {
		o.ProofRetryDelay = 5 * time.Second
	}
	if o.ProofRetries <= 0 {
		o.ProofRetries = 5
	}
	if o.PreReconcileDelay <= 0 {
		o.PreReconcileDelay = 10 * time.Second
	}
	if o.BatchLimit <= 0 {
		o.BatchLimit = 10
	}
	if o.MatchRadiusKm <= 0 {
		o.MatchRadiusKm = util.DefaultMatchRadiusKm
	}
	return o
}

// Engine polls for unprocessed reports and folds each one into an existing
// nearby issue of the same type, or creates a new issue.
type Engine struct {
	Reports ReportStore
	Issues  IssueStore
	Geo     Geocoder
	Notify  Notifications

	// Events is optional; when set, merge and create push live updates.
	Events EventSink

	opts     Options
	lastPoll atomic.Int64

	// sleep is replaceable in tests.
	sleep func(ctx context.Context, d time.Duration)
}

func NewEngine(reports ReportStore, issues IssueStore, geo Geocoder, notify Notifications, opts Options) *Engine {
	return &Engine{
		Reports: reports,
		Issues:  issues,
		Geo:     geo,
		Notify:  notify,
		opts:    opts.withDefaults(),
		sleep:   sleepCtx,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

// LastPoll reports when the engine last completed a poll cycle. The zero
// time means no cycle has completed yet.
func (e *Engine) LastPoll() time.Time {
	n := e.lastPoll.Load()
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(0, n)
}

// Run polls until ctx is cancelled.
func (e *Engine) Run(ctx context.Context) {
	log.Printf("poller: started (interval=%s batch=%d radius=%.2fkm)",
		e.opts.PollInterval, e.opts.BatchLimit, e.opts.MatchRadiusKm)

	for {
		if ctx.Err() != nil {
			log.Printf("poller: stopped")
			return
		}

		if err := e.PollOnce(ctx); err != nil {
			log.Printf("poller: cycle failed: %v", err)
			e.sleep(ctx, e.opts.ErrorBackoff)
			continue
		}

		e.sleep(ctx, e.opts.PollInterval)
	}
}

// PollOnce fetches one batch of unprocessed reports and reconciles each of
// them. Per-report failures are logged and leave the report unprocessed so
// the next cycle retries it.
func (e *Engine) PollOnce(ctx context.Context) error {
	reports, err := e.Reports.UnprocessedReports(ctx, e.opts.BatchLimit)
	if err != nil {
		return err
	}
	e.lastPoll.Store(time.Now().UnixNano())

	for _, report := range reports {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := e.ProcessReport(ctx, report); err != nil {
			log.Printf("poller: report %s: %v", report.ID, err)
		}
	}
	return nil
}

// ProcessReport runs the full reconciliation of a single report: wait for
// proofs, settle, re-fetch, then merge or create.
func (e *Engine) ProcessReport(ctx context.Context, report model.Report) error {
	fresh, ok, err := e.waitForProofs(ctx, report)
	if err != nil {
		return err
	}
	if !ok {
		log.Printf("poller: report %s deleted before reconciliation, skipping", report.ID)
		return nil
	}
	report = *fresh

	// Give late proof uploads and corrections a moment to land.
	e.sleep(ctx, e.opts.PreReconcileDelay)

	latest, err := e.Reports.ReportByID(ctx, report.ID)
	if err != nil {
		return err
	}
	if latest == nil {
		log.Printf("poller: report %s deleted before reconciliation, skipping", report.ID)
		return nil
	}
	report = *latest

	if err := e.reconcile(ctx, report); err != nil {
		return err
	}

	return e.Reports.MarkProcessed(ctx, report.ID)
}

// waitForProofs re-fetches the report while its proofs list is empty, up to
// the configured retry count. The report is processed regardless once the
// retries are spent. ok is false when the report vanished.
func (e *Engine) waitForProofs(ctx context.Context, report model.Report) (fresh *model.Report, ok bool, err error) {
	current := &report
	for attempt := 0; attempt < e.opts.ProofRetries; attempt++ {
		if len(current.Proofs) > 0 {
			return current, true, nil
		}
		log.Printf("poller: report %s has no proofs yet, waiting (attempt %d/%d)",
			report.ID, attempt+1, e.opts.ProofRetries)
		e.sleep(ctx, e.opts.ProofRetryDelay)
		if ctx.Err() != nil {
			return nil, false, ctx.Err()
		}

		current, err = e.Reports.ReportByID(ctx, report.ID)
		if err != nil {
			return nil, false, err
		}
		if current == nil {
			return nil, false, nil
		}
	}
	if len(current.Proofs) == 0 {
		log.Printf("poller: report %s still has no proofs, processing anyway", report.ID)
	}
	return current, true, nil
}

// reconcile finds the first existing issue of the same type within the
// match radius and merges the report into it, or creates a new issue.
func (e *Engine) reconcile(ctx context.Context, report model.Report) error {
	issues, err := e.Issues.IssuesByType(ctx, report.IssueType)
	if err != nil {
		return err
	}

	for i := range issues {
		issue := issues[i]
		if !util.LocationsWithinRadius(
			report.Latitude, report.Longitude,
			issue.Latitude, issue.Longitude,
			e.opts.MatchRadiusKm,
		) {
			continue
		}
		return e.merge(ctx, report, issue)
	}

	return e.create(ctx, report)
}

func (e *Engine) merge(ctx context.Context, report model.Report, issue model.Issue) error {
	// A crashed cycle may re-deliver a report that was already merged.
	if issue.HasReport(report.ID) {
		log.Printf("poller: report %s already merged into issue %s", report.ID, issue.ID)
		return nil
	}

	issue.NoOfReports++
	issue.RelatedReportIDs = append(issue.RelatedReportIDs, report.ID)
	if !issue.HasCreator(report.CreatorEmail) {
		issue.CreatorEmails = append(issue.CreatorEmails, report.CreatorEmail)
	}
	issue.UnionProofs(report.Proofs)
	issue.Priority = model.PriorityFor(issue.NoOfReports)
	// location text follows the newest report's coordinates
	issue.RelativeLocation = e.Geo.Resolve(ctx, report.Latitude, report.Longitude)
	issue.LastUpdated = time.Now().UTC()

	if err := e.Issues.SaveIssue(ctx, issue); err != nil {
		return err
	}
	log.Printf("poller: merged report %s into issue %s (%d reports, priority %s)",
		report.ID, issue.ID, issue.NoOfReports, issue.Priority)

	if e.Notify != nil {
		e.Notify.NotifyContributors(ctx, issue.CreatorEmails, issue, false)
		e.Notify.NotifyAuthorities(ctx, issue, false)
	}
	if e.Events != nil {
		e.Events.IssueEvent(issue, false)
	}
	return nil
}

func (e *Engine) create(ctx context.Context, report model.Report) error {
	now := time.Now().UTC()
	issue := model.Issue{
		ID:               util.ShortID(),
		IssueType:        report.IssueType,
		Description:      report.Description,
		Latitude:         report.Latitude,
		Longitude:        report.Longitude,
		RelativeLocation: e.Geo.Resolve(ctx, report.Latitude, report.Longitude),
		NoOfReports:      1,
		Priority:         model.PriorityNormal,
		RelatedReportIDs: []string{report.ID},
		CreatorEmails:    []string{report.CreatorEmail},
		Proofs:           append([]string(nil), report.Proofs...),
		Applause:         0,
		IsSolved:         false,
		Status:           model.StatusPending,
		Timestamp:        report.Timestamp,
		TimeCreated:      now,
		LastUpdated:      now,
	}

	if err := e.Issues.CreateIssue(ctx, issue); err != nil {
		return err
	}
	log.Printf("poller: created issue %s from report %s", issue.ID, report.ID)

	if e.Notify != nil {
		e.Notify.NotifyContributors(ctx, issue.CreatorEmails, issue, true)
		e.Notify.NotifyAuthorities(ctx, issue, true)
	}
	if e.Events != nil {
		e.Events.IssueEvent(issue, true)
	}
	return nil
}
