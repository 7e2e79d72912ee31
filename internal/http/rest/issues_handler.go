package rest

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/innodatatics/city_dashboard/internal/model"
	"github.com/innodatatics/city_dashboard/internal/store"
	"github.com/innodatatics/city_dashboard/util"
	"github.com/innodatatics/city_dashboard/util/tracing"
	"github.com/innodatatics/city_dashboard/util/values"
)

func (api *API) IssueRoutes() chi.Router {
	mux := chi.NewRouter()

	mux.Group(func(r chi.Router) {
		r.Method(http.MethodGet, "/", Handler(api.ListIssues))
		r.Method(http.MethodGet, "/{issueID}", Handler(api.GetIssueByID))
		r.Method(http.MethodPost, "/{issueID}/applause", Handler(api.ApplaudIssue))
		r.Method(http.MethodPost, "/{issueID}/resolve", Handler(api.ResolveIssue))
		r.Method(http.MethodPut, "/{issueID}/status", Handler(api.UpdateIssueStatus))
		r.Method(http.MethodPut, "/{issueID}/department", Handler(api.AssignDepartment))
	})

	return mux
}

func (api *API) ListIssues(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	params := model.ListIssuesParams{
		IssueType:    r.URL.Query().Get("issue_type"),
		Department:   r.URL.Query().Get("department"),
		CreatorEmail: r.URL.Query().Get("email"),
	}
	if raw := r.URL.Query().Get("is_solved"); raw != "" {
		solved, err := strconv.ParseBool(raw)
		if err != nil {
			return respondWithError(err, "invalid is_solved filter", values.BadRequestBody, &tc)
		}
		params.IsSolved = &solved
	}

	issues, err := api.Deps.Store.ListIssues(r.Context(), params)
	if err != nil {
		return respondWithError(err, "Failed to fetch issues", values.Error, &tc)
	}
	if issues == nil {
		issues = []model.Issue{}
	}

	return &ServerResponse{
		Message:    "Issues fetched successfully",
		Status:     values.Success,
		StatusCode: util.StatusCode(values.Success),
		Data:       issues,
	}
}

func (api *API) GetIssueByID(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	issueID := chi.URLParam(r, "issueID")

	issue, err := api.Deps.Store.IssueByID(r.Context(), issueID)
	if err != nil {
		return respondWithError(err, "Failed to fetch issue", values.Error, &tc)
	}
	if issue == nil {
		return respondWithError(nil, "Issue not found", values.NotFound, &tc)
	}

	return &ServerResponse{
		Message:    "Issue fetched successfully",
		Status:     values.Success,
		StatusCode: util.StatusCode(values.Success),
		Data:       issue,
	}
}

func (api *API) ApplaudIssue(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	issueID := chi.URLParam(r, "issueID")

	applause, err := api.Deps.Store.ApplaudIssue(r.Context(), issueID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return respondWithError(nil, "Issue not found", values.NotFound, &tc)
		}
		return respondWithError(err, "Failed to applaud issue", values.Error, &tc)
	}

	return &ServerResponse{
		Message:    "Applause recorded",
		Status:     values.Success,
		StatusCode: util.StatusCode(values.Success),
		Data: struct {
			Applause int `json:"applause"`
		}{Applause: applause},
	}
}

// ResolveIssue marks an issue completed and solved in one step.
func (api *API) ResolveIssue(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	issueID := chi.URLParam(r, "issueID")

	issue, err := api.Deps.Store.UpdateIssueStatus(r.Context(), issueID, model.StatusCompleted)
	if err != nil {
		return respondWithError(err, "Failed to resolve issue", values.Error, &tc)
	}
	if issue == nil {
		return respondWithError(nil, "Issue not found", values.NotFound, &tc)
	}

	return &ServerResponse{
		Message:    "Issue resolved",
		Status:     values.Success,
		StatusCode: util.StatusCode(values.Success),
		Data:       issue,
	}
}

func (api *API) UpdateIssueStatus(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	issueID := chi.URLParam(r, "issueID")

	var req struct {
		Status string `json:"status"`
	}
	if decodeErr := util.DecodeJSONBody(&tc, r.Body, &req); decodeErr != nil {
		return respondWithError(decodeErr, "unable to decode request", values.BadRequestBody, &tc)
	}
	if !validIssueStatus(req.Status) {
		return respondWithError(nil, "invalid status", values.BadRequestBody, &tc)
	}

	issue, err := api.Deps.Store.UpdateIssueStatus(r.Context(), issueID, req.Status)
	if err != nil {
		return respondWithError(err, "Failed to update issue status", values.Error, &tc)
	}
	if issue == nil {
		return respondWithError(nil, "Issue not found", values.NotFound, &tc)
	}

	return &ServerResponse{
		Message:    "Issue status updated",
		Status:     values.Success,
		StatusCode: util.StatusCode(values.Success),
		Data:       issue,
	}
}

func (api *API) AssignDepartment(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	issueID := chi.URLParam(r, "issueID")

	var req struct {
		Department string `json:"department"`
	}
	if decodeErr := util.DecodeJSONBody(&tc, r.Body, &req); decodeErr != nil {
		return respondWithError(decodeErr, "unable to decode request", values.BadRequestBody, &tc)
	}
	if req.Department == "" {
		return respondWithError(nil, "department is required", values.BadRequestBody, &tc)
	}

	issue, err := api.Deps.Store.AssignDepartment(r.Context(), issueID, req.Department)
	if err != nil {
		return respondWithError(err, "Failed to assign department", values.Error, &tc)
	}
	if issue == nil {
		return respondWithError(nil, "Issue not found", values.NotFound, &tc)
	}

	return &ServerResponse{
		Message:    "Department assigned",
		Status:     values.Success,
		StatusCode: util.StatusCode(values.Success),
		Data:       issue,
	}
}

func validIssueStatus(status string) bool {
	switch status {
	case model.StatusPending, model.StatusInProgress, model.StatusCompleted:
		return true
	}
	return false
}
