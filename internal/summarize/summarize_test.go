package summarize

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/innodatatics/city_dashboard/internal/model"
)

type fakeCompletion struct {
	replies []string
	errs    []error
	calls   int
}

func (f *fakeCompletion) Complete(_ context.Context, prompt string) (string, error) {
	i := f.calls
	f.calls++
	if i < len(f.errs) && f.errs[i] != nil {
		return "", f.errs[i]
	}
	if i < len(f.replies) {
		return f.replies[i], nil
	}
	return "", errors.New("exhausted")
}

type fakeGenerative struct {
	reply string
	err   error
	calls int
}

func (f *fakeGenerative) Generate(_ context.Context, prompt string) (string, error) {
	f.calls++
	return f.reply, f.err
}

func newTestSummarizer(primary CompletionAPI, fallback GenerativeAPI) *Summarizer {
	s := New(primary, fallback)
	s.sleep = func(context.Context, time.Duration) {}
	return s
}

func testIssue() model.Issue {
	return model.Issue{
		ID:               "ab12cd34",
		IssueType:        "pothole",
		Description:      "Large pothole near the signal",
		RelativeLocation: "MG Road, Bengaluru",
		NoOfReports:      2,
		Priority:         model.PriorityNormal,
	}
}

func TestSummarizePrimaryFirstTry(t *testing.T) {
	primary := &fakeCompletion{replies: []string{"A pothole has been reported on MG Road."}}
	fallback := &fakeGenerative{reply: "unused"}
	s := newTestSummarizer(primary, fallback)

	got := s.Summarize(context.Background(), testIssue())
	assert.Equal(t, "A pothole has been reported on MG Road.", got)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 0, fallback.calls)
}

func TestSummarizeRetriesThenSucceeds(t *testing.T) {
	primary := &fakeCompletion{
		errs:    []error{errors.New("429"), errors.New("429"), nil},
		replies: []string{"", "", "Summary after retries."},
	}
	s := newTestSummarizer(primary, &fakeGenerative{})

	got := s.Summarize(context.Background(), testIssue())
	assert.Equal(t, "Summary after retries.", got)
	assert.Equal(t, 3, primary.calls)
}

func TestSummarizeFallsBackToGemini(t *testing.T) {
	primary := &fakeCompletion{errs: []error{errors.New("down"), errors.New("down"), errors.New("down")}}
	fallback := &fakeGenerative{reply: "Gemini summary."}
	s := newTestSummarizer(primary, fallback)

	got := s.Summarize(context.Background(), testIssue())
	assert.Equal(t, "Gemini summary.", got)
	assert.Equal(t, 3, primary.calls, "primary is tried exactly three times before fallback")
	assert.Equal(t, 1, fallback.calls)
}

func TestSummarizeAllFailReturnsPlaceholder(t *testing.T) {
	primary := &fakeCompletion{errs: []error{errors.New("down"), errors.New("down"), errors.New("down")}}
	fallback := &fakeGenerative{err: errors.New("quota exceeded")}
	s := newTestSummarizer(primary, fallback)

	got := s.Summarize(context.Background(), testIssue())
	assert.Equal(t, Placeholder, got)
}

func TestSummarizeEmptyFallbackReturnsPlaceholder(t *testing.T) {
	primary := &fakeCompletion{errs: []error{errors.New("down"), errors.New("down"), errors.New("down")}}
	fallback := &fakeGenerative{reply: ""}
	s := newTestSummarizer(primary, fallback)

	assert.Equal(t, Placeholder, s.Summarize(context.Background(), testIssue()))
}

func TestBuildPromptEmbedsIssueFields(t *testing.T) {
	prompt := buildPrompt(testIssue())
	for _, want := range []string{"pothole", "Large pothole near the signal", "MG Road, Bengaluru", "Number of Reports: 2", "Priority: normal"} {
		assert.True(t, strings.Contains(prompt, want), "prompt missing %q", want)
	}
}
