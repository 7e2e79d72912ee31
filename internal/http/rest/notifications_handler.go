package rest

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/innodatatics/city_dashboard/internal/model"
	"github.com/innodatatics/city_dashboard/util"
	"github.com/innodatatics/city_dashboard/util/tracing"
	"github.com/innodatatics/city_dashboard/util/values"
)

const defaultNotificationLimit = 50

func (api *API) NotificationRoutes() chi.Router {
	mux := chi.NewRouter()

	mux.Method(http.MethodGet, "/", Handler(api.ListNotifications))

	return mux
}

func (api *API) ListNotifications(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	limit := defaultNotificationLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return respondWithError(err, "invalid limit", values.BadRequestBody, &tc)
		}
		limit = n
	}

	notifications, err := api.Deps.Store.ListNotifications(r.Context(), limit)
	if err != nil {
		return respondWithError(err, "Failed to fetch notifications", values.Error, &tc)
	}
	if notifications == nil {
		notifications = []model.Notification{}
	}

	return &ServerResponse{
		Message:    "Notifications fetched successfully",
		Status:     values.Success,
		StatusCode: util.StatusCode(values.Success),
		Data:       notifications,
	}
}
