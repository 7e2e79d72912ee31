// Package summarize drafts authority-facing issue descriptions with a
// generative model, retrying the primary service before falling back.
package summarize

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/innodatatics/city_dashboard/internal/model"
)

// Placeholder is returned when no generative service produced any text.
const Placeholder = "No description generated due to API failure."

const primaryAttempts = 3

// CompletionAPI is the slice of the OpenRouter client the summarizer uses.
type CompletionAPI interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// GenerativeAPI is the slice of the Gemini client the summarizer uses.
type GenerativeAPI interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Summarizer produces short natural-language issue summaries. The primary
// service is tried up to three times with exponential backoff (1s, 2s, 4s)
// before one fallback call; total latency is bounded by those waits plus the
// client timeouts, so a merge is never blocked indefinitely.
type Summarizer struct {
	Primary  CompletionAPI
	Fallback GenerativeAPI

	// sleep is replaceable in tests.
	sleep func(ctx context.Context, d time.Duration)
}

func New(primary CompletionAPI, fallback GenerativeAPI) *Summarizer {
	return &Summarizer{
		Primary:  primary,
		Fallback: fallback,
		sleep:    sleepCtx,
	}
}

// Summarize returns a professional 50-100 word description of the issue for
// authority alerts. Never errors; on total failure it returns Placeholder.
func (s *Summarizer) Summarize(ctx context.Context, issue model.Issue) string {
	prompt := buildPrompt(issue)

	if s.Primary != nil {
		for attempt := 0; attempt < primaryAttempts; attempt++ {
			text, err := s.Primary.Complete(ctx, prompt)
			if err == nil {
				return text
			}
			log.Printf("completion attempt %d failed: %v", attempt+1, err)
			s.sleep(ctx, time.Duration(1<<attempt)*time.Second)
		}
	}

	if s.Fallback != nil {
		text, err := s.Fallback.Generate(ctx, prompt)
		if err != nil {
			log.Printf("gemini fallback failed: %v", err)
		} else if text != "" {
			return text
		}
	}

	return Placeholder
}

func buildPrompt(issue model.Issue) string {
	return fmt.Sprintf(`Generate a concise description (50-100 words) for an issue based on the following details:
Issue Type: %s
Description: %s
Location: %s
Number of Reports: %d
Priority: %s
The description should be professional, clear, and suitable for alerting authorities. Try not to use bold lettering, just give it in normal.`,
		issue.IssueType, issue.Description, issue.RelativeLocation, issue.NoOfReports, issue.Priority)
}

func sleepCtx(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}
