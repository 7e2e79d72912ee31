package poller

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/innodatatics/city_dashboard/internal/model"
)

type fakeReports struct {
	order     []string
	reports   map[string]*model.Report
	fetches   map[string]int
	processed map[string]bool
}

func newFakeReports(reports ...model.Report) *fakeReports {
	f := &fakeReports{
		reports:   map[string]*model.Report{},
		fetches:   map[string]int{},
		processed: map[string]bool{},
	}
	for i := range reports {
		r := reports[i]
		f.order = append(f.order, r.ID)
		f.reports[r.ID] = &r
	}
	return f
}

func (f *fakeReports) UnprocessedReports(ctx context.Context, limit int) ([]model.Report, error) {
	var out []model.Report
	for _, id := range f.order {
		r, ok := f.reports[id]
		if !ok || r.Processed || f.processed[id] {
			continue
		}
		out = append(out, *r)
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (f *fakeReports) ReportByID(ctx context.Context, id string) (*model.Report, error) {
	f.fetches[id]++
	r, ok := f.reports[id]
	if !ok {
		return nil, nil
	}
	cp := *r
	return &cp, nil
}

func (f *fakeReports) MarkProcessed(ctx context.Context, id string) error {
	f.processed[id] = true
	return nil
}

type fakeIssues struct {
	issues  []model.Issue
	creates int
	saves   int
}

func (f *fakeIssues) IssuesByType(ctx context.Context, issueType string) ([]model.Issue, error) {
	var out []model.Issue
	for _, i := range f.issues {
		if i.IssueType == issueType {
			out = append(out, i)
		}
	}
	return out, nil
}

func (f *fakeIssues) CreateIssue(ctx context.Context, issue model.Issue) error {
	f.creates++
	f.issues = append(f.issues, issue)
	return nil
}

func (f *fakeIssues) SaveIssue(ctx context.Context, issue model.Issue) error {
	f.saves++
	for n := range f.issues {
		if f.issues[n].ID == issue.ID {
			f.issues[n] = issue
			return nil
		}
	}
	return fmt.Errorf("issue %s not found", issue.ID)
}

type fakeGeo struct {
	calls   int
	lastLat float64
	lastLon float64
}

func (f *fakeGeo) Resolve(ctx context.Context, lat, lon float64) string {
	f.calls++
	f.lastLat = lat
	f.lastLon = lon
	return "MG Road, Bengaluru"
}

type notifyCall struct {
	IssueID string
	IsNew   bool
	Emails  []string
}

type fakeNotify struct {
	contributors []notifyCall
	authorities  []notifyCall
}

func (f *fakeNotify) NotifyContributors(ctx context.Context, emails []string, issue model.Issue, isNew bool) {
	f.contributors = append(f.contributors, notifyCall{IssueID: issue.ID, IsNew: isNew, Emails: emails})
}

func (f *fakeNotify) NotifyAuthorities(ctx context.Context, issue model.Issue, isNew bool) {
	f.authorities = append(f.authorities, notifyCall{IssueID: issue.ID, IsNew: isNew})
}

func report(id, email string, lat, lon float64, proofs ...string) model.Report {
	return model.Report{
		ID:           id,
		CreatorEmail: email,
		Name:         "Citizen",
		IssueType:    "pothole",
		Description:  "Deep pothole near the junction",
		Latitude:     lat,
		Longitude:    lon,
		Proofs:       proofs,
		Timestamp:    time.Now().UTC(),
	}
}

type fakeEvents struct {
	events []notifyCall
}

func (f *fakeEvents) IssueEvent(issue model.Issue, isNew bool) {
	f.events = append(f.events, notifyCall{IssueID: issue.ID, IsNew: isNew})
}

func newTestEngine(reports *fakeReports, issues *fakeIssues, notify *fakeNotify) *Engine {
	e := NewEngine(reports, issues, &fakeGeo{}, notify, Options{})
	e.sleep = func(ctx context.Context, d time.Duration) {}
	return e
}

func TestTwoNearbyReportsBecomeOneIssue(t *testing.T) {
	reports := newFakeReports(
		report("r1", "a@example.com", 12.9716, 77.5946, "p1.jpg"),
		report("r2", "b@example.com", 12.9720, 77.5950, "p2.jpg"),
	)
	issues := &fakeIssues{}
	notify := &fakeNotify{}
	e := newTestEngine(reports, issues, notify)

	require.NoError(t, e.PollOnce(context.Background()))

	require.Len(t, issues.issues, 1)
	got := issues.issues[0]
	assert.Equal(t, 2, got.NoOfReports)
	assert.Equal(t, []string{"r1", "r2"}, got.RelatedReportIDs)
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, got.CreatorEmails)
	assert.Equal(t, []string{"p1.jpg", "p2.jpg"}, got.Proofs)
	assert.Equal(t, model.PriorityNormal, got.Priority)
	assert.True(t, reports.processed["r1"])
	assert.True(t, reports.processed["r2"])

	// first report creates, second merges
	require.Len(t, notify.authorities, 2)
	assert.True(t, notify.authorities[0].IsNew)
	assert.False(t, notify.authorities[1].IsNew)
}

func TestDistantReportsBecomeSeparateIssues(t *testing.T) {
	reports := newFakeReports(
		report("r1", "a@example.com", 12.9716, 77.5946, "p1.jpg"),
		report("r2", "b@example.com", 13.05, 77.60, "p2.jpg"), // ~9km away
	)
	issues := &fakeIssues{}
	e := newTestEngine(reports, issues, &fakeNotify{})

	require.NoError(t, e.PollOnce(context.Background()))

	assert.Len(t, issues.issues, 2)
	assert.Equal(t, 2, issues.creates)
	assert.Equal(t, 0, issues.saves)
}

func TestDifferentTypesNeverMerge(t *testing.T) {
	r2 := report("r2", "b@example.com", 12.9716, 77.5946, "p2.jpg")
	r2.IssueType = "garbage"
	reports := newFakeReports(
		report("r1", "a@example.com", 12.9716, 77.5946, "p1.jpg"),
		r2,
	)
	issues := &fakeIssues{}
	e := newTestEngine(reports, issues, &fakeNotify{})

	require.NoError(t, e.PollOnce(context.Background()))

	assert.Len(t, issues.issues, 2)
}

func TestDeletedReportIsSkipped(t *testing.T) {
	r := report("r1", "a@example.com", 12.9716, 77.5946, "p1.jpg")
	reports := newFakeReports(r)
	issues := &fakeIssues{}
	e := newTestEngine(reports, issues, &fakeNotify{})

	// the report vanishes before the engine re-fetches it
	delete(reports.reports, "r1")

	require.NoError(t, e.ProcessReport(context.Background(), r))

	assert.Empty(t, issues.issues)
	assert.False(t, reports.processed["r1"])
}

func TestReportWithoutProofsIsRetriedThenProcessed(t *testing.T) {
	r := report("r1", "a@example.com", 12.9716, 77.5946) // no proofs
	reports := newFakeReports(r)
	issues := &fakeIssues{}
	e := newTestEngine(reports, issues, &fakeNotify{})

	require.NoError(t, e.ProcessReport(context.Background(), r))

	// retried for proofs, then one final re-fetch before reconciliation
	assert.Equal(t, e.opts.ProofRetries+1, reports.fetches["r1"])
	require.Len(t, issues.issues, 1)
	assert.Empty(t, issues.issues[0].Proofs)
	assert.True(t, reports.processed["r1"])
}

func TestLateProofsArePickedUp(t *testing.T) {
	r := report("r1", "a@example.com", 12.9716, 77.5946) // no proofs yet
	reports := newFakeReports(r)
	issues := &fakeIssues{}
	e := newTestEngine(reports, issues, &fakeNotify{})

	// proof lands while the engine is waiting
	reports.reports["r1"].Proofs = []string{"late.jpg"}

	require.NoError(t, e.ProcessReport(context.Background(), r))

	require.Len(t, issues.issues, 1)
	assert.Equal(t, []string{"late.jpg"}, issues.issues[0].Proofs)
}

func TestMergeIsIdempotent(t *testing.T) {
	r := report("r1", "a@example.com", 12.9716, 77.5946, "p1.jpg")
	reports := newFakeReports(r)
	issues := &fakeIssues{issues: []model.Issue{{
		ID:               "iss1",
		IssueType:        "pothole",
		Latitude:         12.9716,
		Longitude:        77.5946,
		NoOfReports:      1,
		Priority:         model.PriorityNormal,
		RelatedReportIDs: []string{"r1"},
		CreatorEmails:    []string{"a@example.com"},
	}}}
	e := newTestEngine(reports, issues, &fakeNotify{})

	require.NoError(t, e.ProcessReport(context.Background(), r))

	assert.Equal(t, 0, issues.saves)
	assert.Equal(t, 1, issues.issues[0].NoOfReports)
	assert.True(t, reports.processed["r1"])
}

func TestPriorityEscalatesAboveThreshold(t *testing.T) {
	r := report("r6", "f@example.com", 12.9716, 77.5946, "p6.jpg")
	reports := newFakeReports(r)
	issues := &fakeIssues{issues: []model.Issue{{
		ID:               "iss1",
		IssueType:        "pothole",
		Latitude:         12.9716,
		Longitude:        77.5946,
		NoOfReports:      5,
		Priority:         model.PriorityNormal,
		RelatedReportIDs: []string{"r1", "r2", "r3", "r4", "r5"},
		CreatorEmails:    []string{"a@example.com"},
	}}}
	e := newTestEngine(reports, issues, &fakeNotify{})

	require.NoError(t, e.ProcessReport(context.Background(), r))

	got := issues.issues[0]
	assert.Equal(t, 6, got.NoOfReports)
	assert.Equal(t, model.PriorityVeryImportant, got.Priority)
}

func TestProofsUnionOnMerge(t *testing.T) {
	r := report("r2", "b@example.com", 12.9716, 77.5946, "shared.jpg", "new.jpg")
	reports := newFakeReports(r)
	issues := &fakeIssues{issues: []model.Issue{{
		ID:               "iss1",
		IssueType:        "pothole",
		Latitude:         12.9716,
		Longitude:        77.5946,
		NoOfReports:      1,
		Priority:         model.PriorityNormal,
		RelatedReportIDs: []string{"r1"},
		CreatorEmails:    []string{"a@example.com"},
		Proofs:           []string{"shared.jpg"},
	}}}
	e := newTestEngine(reports, issues, &fakeNotify{})

	require.NoError(t, e.ProcessReport(context.Background(), r))

	assert.Equal(t, []string{"shared.jpg", "new.jpg"}, issues.issues[0].Proofs)
}

func TestMergeGeocodesIncomingReportCoordinates(t *testing.T) {
	r := report("r2", "b@example.com", 12.9720, 77.5950, "p2.jpg")
	reports := newFakeReports(r)
	issues := &fakeIssues{issues: []model.Issue{{
		ID:               "iss1",
		IssueType:        "pothole",
		Latitude:         12.9716,
		Longitude:        77.5946,
		NoOfReports:      1,
		Priority:         model.PriorityNormal,
		RelatedReportIDs: []string{"r1"},
		CreatorEmails:    []string{"a@example.com"},
	}}}
	e := newTestEngine(reports, issues, &fakeNotify{})
	geo := &fakeGeo{}
	e.Geo = geo

	require.NoError(t, e.ProcessReport(context.Background(), r))

	assert.Equal(t, r.Latitude, geo.lastLat)
	assert.Equal(t, r.Longitude, geo.lastLon)
	assert.Equal(t, "MG Road, Bengaluru", issues.issues[0].RelativeLocation)
}

func TestIssueEventsEmittedOnCreateAndMerge(t *testing.T) {
	reports := newFakeReports(
		report("r1", "a@example.com", 12.9716, 77.5946, "p1.jpg"),
		report("r2", "b@example.com", 12.9720, 77.5950, "p2.jpg"),
	)
	issues := &fakeIssues{}
	e := newTestEngine(reports, issues, &fakeNotify{})
	events := &fakeEvents{}
	e.Events = events

	require.NoError(t, e.PollOnce(context.Background()))

	require.Len(t, events.events, 2)
	assert.True(t, events.events[0].IsNew)
	assert.False(t, events.events[1].IsNew)
	assert.Equal(t, events.events[0].IssueID, events.events[1].IssueID)
}

func TestLastPollAdvances(t *testing.T) {
	reports := newFakeReports()
	e := newTestEngine(reports, &fakeIssues{}, &fakeNotify{})

	assert.True(t, e.LastPoll().IsZero())
	require.NoError(t, e.PollOnce(context.Background()))
	assert.WithinDuration(t, time.Now(), e.LastPoll(), time.Minute)
}

func TestRunStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := newTestEngine(newFakeReports(), &fakeIssues{}, &fakeNotify{})

	done := make(chan struct{})
	go func() {
		e.Run(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after context cancellation")
	}
}
