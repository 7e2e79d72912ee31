package email

// messageTemplate pairs a subject template with a body template. Both are
// rendered against the same data map.
type messageTemplate struct {
	Subject string
	Body    string
	HTML    bool
}

var templates = map[string]messageTemplate{
	"reportCreated.tmpl": {
		Subject: "Report Received - ID: {{.ReportID}}",
		HTML:    false,
		Body: `Hello {{.Name}},

Thank you for reporting an issue to the city dashboard.

Report ID:   {{.ReportID}}
Issue type:  {{.IssueType}}
Description: {{.Description}}

Your report has been recorded and will be reconciled with existing issues
shortly. You will receive a follow-up email once it has been processed.

Regards,
City Dashboard Team
`,
	},
}
