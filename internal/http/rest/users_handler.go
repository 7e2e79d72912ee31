package rest

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/innodatatics/city_dashboard/internal/model"
	"github.com/innodatatics/city_dashboard/util"
	"github.com/innodatatics/city_dashboard/util/tracing"
	"github.com/innodatatics/city_dashboard/util/values"
)

func (api *API) UserRoutes() chi.Router {
	mux := chi.NewRouter()

	mux.Group(func(r chi.Router) {
		r.Method(http.MethodPost, "/", Handler(api.CreateUser))
		r.Method(http.MethodGet, "/{email}", Handler(api.GetUser))
		r.Method(http.MethodGet, "/{email}/rating", Handler(api.GetUserRating))
	})

	return mux
}

func (api *API) CreateUser(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	var req model.CreateUserRequest
	if decodeErr := util.DecodeJSONBody(&tc, r.Body, &req); decodeErr != nil {
		return respondWithError(decodeErr, "unable to decode request", values.BadRequestBody, &tc)
	}

	if err := util.ValidateStruct(req); err != nil {
		return respondWithError(err, "validation failed", values.BadRequestBody, &tc)
	}

	user := model.User{
		Email:     req.Email,
		Name:      req.Name,
		Phone:     req.Phone,
		CreatedAt: time.Now().UTC(),
	}
	if err := api.Deps.Store.CreateUser(r.Context(), user); err != nil {
		return respondWithError(err, "Failed to create user", values.Error, &tc)
	}

	return &ServerResponse{
		Message:    "User created successfully",
		Status:     values.Created,
		StatusCode: util.StatusCode(values.Created),
		Data:       user,
	}
}

// UserProfile bundles the user record with their reporting activity.
type UserProfile struct {
	User         model.User              `json:"user"`
	Contribution *model.UserContribution `json:"contribution,omitempty"`
	Rating       string                  `json:"rating"`
}

func (api *API) GetUser(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	email := chi.URLParam(r, "email")
	if util.ValidEmail(email) != nil {
		return respondWithError(nil, "invalid email", values.BadRequestBody, &tc)
	}

	user, err := api.Deps.Store.UserByEmail(r.Context(), email)
	if err != nil {
		return respondWithError(err, "Failed to fetch user", values.Error, &tc)
	}
	if user == nil {
		return respondWithError(nil, "User not found", values.NotFound, &tc)
	}

	contribution, err := api.Deps.Store.ContributionByEmail(r.Context(), email)
	if err != nil {
		return respondWithError(err, "Failed to fetch contributions", values.Error, &tc)
	}

	profile := UserProfile{
		User:         *user,
		Contribution: contribution,
		Rating:       contributorRating(contribution),
	}

	return &ServerResponse{
		Message:    "User fetched successfully",
		Status:     values.Success,
		StatusCode: util.StatusCode(values.Success),
		Data:       profile,
	}
}

// GetUserRating returns just the contributor tier and report count.
func (api *API) GetUserRating(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	email := chi.URLParam(r, "email")
	if util.ValidEmail(email) != nil {
		return respondWithError(nil, "invalid email", values.BadRequestBody, &tc)
	}

	contribution, err := api.Deps.Store.ContributionByEmail(r.Context(), email)
	if err != nil {
		return respondWithError(err, "Failed to fetch contributions", values.Error, &tc)
	}

	reportCount := 0
	if contribution != nil {
		reportCount = contribution.ReportCount
	}

	return &ServerResponse{
		Message:    "Rating fetched successfully",
		Status:     values.Success,
		StatusCode: util.StatusCode(values.Success),
		Data: struct {
			Email       string `json:"email"`
			Rating      string `json:"rating"`
			ReportCount int    `json:"report_count"`
		}{
			Email:       email,
			Rating:      contributorRating(contribution),
			ReportCount: reportCount,
		},
	}
}

func contributorRating(c *model.UserContribution) string {
	if c == nil {
		return "new"
	}
	switch {
	case c.ReportCount >= 50:
		return "gold"
	case c.ReportCount >= 20:
		return "silver"
	case c.ReportCount >= 5:
		return "bronze"
	}
	return "new"
}
