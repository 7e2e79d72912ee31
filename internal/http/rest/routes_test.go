package rest

import (
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/innodatatics/city_dashboard/internal/model"
)

func routeSet(t *testing.T, r chi.Router) map[string]bool {
	t.Helper()
	routes := map[string]bool{}
	err := chi.Walk(r, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		routes[method+" "+route] = true
		return nil
	})
	require.NoError(t, err)
	return routes
}

func TestIssueRoutes(t *testing.T) {
	routes := routeSet(t, (&API{}).IssueRoutes())

	assert.True(t, routes["GET /"])
	assert.True(t, routes["GET /{issueID}"])
	assert.True(t, routes["POST /{issueID}/applause"])
	assert.True(t, routes["POST /{issueID}/resolve"])
	assert.True(t, routes["PUT /{issueID}/status"])
	assert.True(t, routes["PUT /{issueID}/department"])
}

func TestUserRoutes(t *testing.T) {
	routes := routeSet(t, (&API{}).UserRoutes())

	assert.True(t, routes["POST /"])
	assert.True(t, routes["GET /{email}"])
	assert.True(t, routes["GET /{email}/rating"])
}

func TestReportRoutes(t *testing.T) {
	routes := routeSet(t, (&API{}).ReportRoutes())

	assert.True(t, routes["POST /"])
	assert.True(t, routes["GET /"])
	assert.True(t, routes["GET /{reportID}"])
	assert.True(t, routes["POST /{reportID}/proofs"])
}

func TestContributorRating(t *testing.T) {
	tests := []struct {
		count int
		want  string
	}{
		{0, "new"},
		{4, "new"},
		{5, "bronze"},
		{20, "silver"},
		{50, "gold"},
	}

	for _, tt := range tests {
		c := &model.UserContribution{ReportCount: tt.count}
		assert.Equal(t, tt.want, contributorRating(c), "count=%d", tt.count)
	}
	assert.Equal(t, "new", contributorRating(nil))
}

func TestValidIssueStatus(t *testing.T) {
	assert.True(t, validIssueStatus(model.StatusPending))
	assert.True(t, validIssueStatus(model.StatusInProgress))
	assert.True(t, validIssueStatus(model.StatusCompleted))
	assert.False(t, validIssueStatus("Archived"))
}
