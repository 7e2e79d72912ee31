// Package notify composes and sends the contributor and authority emails
// that accompany issue reconciliation.
package notify

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/innodatatics/city_dashboard/internal/model"
	"github.com/innodatatics/city_dashboard/util"
)

// HTMLSender sends an HTML email to a list of recipients.
type HTMLSender interface {
	SendHTML(to []string, subject, htmlBody string) error
}

// SummaryService produces a readable summary of an issue for the
// authority briefing. It never fails; a placeholder is returned when
// generation is unavailable.
type SummaryService interface {
	Summarize(ctx context.Context, issue model.Issue) string
}

// AuthorityRecipients receive a briefing for every created or updated issue.
var AuthorityRecipients = []string{
	"authorities@innodatatics.com",
}

// Notifier sends reconciliation emails. Delivery failures are logged and
// never propagated; email is best-effort and must not stall the pipeline.
type Notifier struct {
	Mailer     HTMLSender
	Summaries  SummaryService
	Recipients []string
}

func New(mailer HTMLSender, summaries SummaryService) *Notifier {
	return &Notifier{
		Mailer:     mailer,
		Summaries:  summaries,
		Recipients: AuthorityRecipients,
	}
}

// NotifyContributors sends one email to the union of contributor addresses
// on the issue. isNew selects the created wording over the updated wording.
func (n *Notifier) NotifyContributors(ctx context.Context, emails []string, issue model.Issue, isNew bool) {
	if n.Mailer == nil {
		return
	}

	var recipients []string
	for _, addr := range emails {
		if util.ValidEmail(addr) != nil {
			log.Printf("notify: skipping invalid contributor address %q", addr)
			continue
		}
		recipients = append(recipients, addr)
	}
	if len(recipients) == 0 {
		return
	}

	action := "Updated"
	if isNew {
		action = "Created"
	}
	subject := fmt.Sprintf("Your Issue %s - ID: %s", action, issue.ID)

	if err := n.Mailer.SendHTML(recipients, subject, contributorBody(issue, isNew)); err != nil {
		log.Printf("notify: contributor email for issue %s failed: %v", issue.ID, err)
	}
}

// NotifyAuthorities sends the authority briefing, including a generated
// summary of the issue.
func (n *Notifier) NotifyAuthorities(ctx context.Context, issue model.Issue, isNew bool) {
	if n.Mailer == nil || len(n.Recipients) == 0 {
		return
	}

	action := "Updated"
	if isNew {
		action = "Created"
	}
	subject := fmt.Sprintf("Alert: Issue %s - ID: %s", action, issue.ID)

	summary := ""
	if n.Summaries != nil {
		summary = n.Summaries.Summarize(ctx, issue)
	}

	body := authorityBody(issue, isNew, summary)
	if err := n.Mailer.SendHTML(n.Recipients, subject, body); err != nil {
		log.Printf("notify: authority email for issue %s failed: %v", issue.ID, err)
	}
}

// MapsLink builds a Google Maps link for the issue location, or an
// explanatory string when the coordinates are unusable.
func MapsLink(lat, lon float64) string {
	if !util.ValidCoordinates(lat, lon) {
		return "Unable to generate map link due to invalid coordinates"
	}
	return fmt.Sprintf("https://www.google.com/maps?q=%v,%v", lat, lon)
}

func proofsLine(proofs []string) string {
	if len(proofs) == 0 {
		return "None"
	}
	return strings.Join(proofs, ", ")
}

func contributorBody(issue model.Issue, isNew bool) string {
	headline := "Your reported issue has been registered."
	if !isNew {
		headline = "Your reported issue has been updated with new reports."
	}

	var b strings.Builder
	b.WriteString("<html><body>")
	fmt.Fprintf(&b, "<h2>%s</h2>", headline)
	b.WriteString("<table>")
	fmt.Fprintf(&b, "<tr><td><b>Issue ID</b></td><td>%s</td></tr>", issue.ID)
	fmt.Fprintf(&b, "<tr><td><b>Type</b></td><td>%s</td></tr>", issue.IssueType)
	fmt.Fprintf(&b, "<tr><td><b>Description</b></td><td>%s</td></tr>", issue.Description)
	fmt.Fprintf(&b, "<tr><td><b>Location</b></td><td>%s</td></tr>", issue.RelativeLocation)
	fmt.Fprintf(&b, "<tr><td><b>Reports</b></td><td>%d</td></tr>", issue.NoOfReports)
	fmt.Fprintf(&b, "<tr><td><b>Priority</b></td><td>%s</td></tr>", issue.Priority)
	fmt.Fprintf(&b, "<tr><td><b>Proofs</b></td><td>%s</td></tr>", proofsLine(issue.Proofs))
	fmt.Fprintf(&b, "<tr><td><b>Map</b></td><td>%s</td></tr>", MapsLink(issue.Latitude, issue.Longitude))
	b.WriteString("</table>")
	b.WriteString("<p>Thank you for helping keep the city in shape.</p>")
	b.WriteString("</body></html>")
	return b.String()
}

func authorityBody(issue model.Issue, isNew bool, summary string) string {
	headline := "A citizen issue has been updated with additional reports."
	if isNew {
		headline = "A new citizen issue has been created."
	}

	var b strings.Builder
	b.WriteString("<html><body>")
	fmt.Fprintf(&b, "<h2>%s</h2>", headline)
	if summary != "" {
		fmt.Fprintf(&b, "<p><i>%s</i></p>", summary)
	}
	b.WriteString("<table>")
	fmt.Fprintf(&b, "<tr><td><b>Issue ID</b></td><td>%s</td></tr>", issue.ID)
	fmt.Fprintf(&b, "<tr><td><b>Type</b></td><td>%s</td></tr>", issue.IssueType)
	fmt.Fprintf(&b, "<tr><td><b>Description</b></td><td>%s</td></tr>", issue.Description)
	fmt.Fprintf(&b, "<tr><td><b>Location</b></td><td>%s</td></tr>", issue.RelativeLocation)
	fmt.Fprintf(&b, "<tr><td><b>Coordinates</b></td><td>[%v, %v]</td></tr>", issue.Latitude, issue.Longitude)
	fmt.Fprintf(&b, "<tr><td><b>Reports</b></td><td>%d</td></tr>", issue.NoOfReports)
	fmt.Fprintf(&b, "<tr><td><b>Priority</b></td><td>%s</td></tr>", issue.Priority)
	fmt.Fprintf(&b, "<tr><td><b>Proofs</b></td><td>%s</td></tr>", proofsLine(issue.Proofs))
	fmt.Fprintf(&b, "<tr><td><b>Map</b></td><td>%s</td></tr>", MapsLink(issue.Latitude, issue.Longitude))
	b.WriteString("</table>")
	b.WriteString("</body></html>")
	return b.String()
}
