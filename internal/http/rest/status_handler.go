package rest

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/innodatatics/city_dashboard/util"
	"github.com/innodatatics/city_dashboard/util/tracing"
	"github.com/innodatatics/city_dashboard/util/values"
)

func (api *API) StatusRoutes() chi.Router {
	mux := chi.NewRouter()

	mux.Method(http.MethodGet, "/", Handler(api.GetStatus))

	return mux
}

type StatusResponse struct {
	Database     string    `json:"database"`
	PollerActive bool      `json:"poller_active"`
	LastPoll     time.Time `json:"last_poll,omitempty"`
}

// GetStatus reports service health: database reachability and whether the
// reconciliation poller has completed a cycle recently.
func (api *API) GetStatus(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	_ = r.Context().Value(values.ContextTracingKey).(tracing.Context)

	status := StatusResponse{Database: "up"}
	if err := api.DB.Ping(r.Context()); err != nil {
		status.Database = "down"
	}

	if api.Poller != nil {
		last := api.Poller.LastPoll()
		status.LastPoll = last
		status.PollerActive = !last.IsZero() && time.Since(last) < 2*time.Minute
	}

	return &ServerResponse{
		Message:    "Status fetched successfully",
		Status:     values.Success,
		StatusCode: util.StatusCode(values.Success),
		Data:       status,
	}
}
