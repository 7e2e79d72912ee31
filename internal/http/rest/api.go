package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/innodatatics/city_dashboard/config"
	deps "github.com/innodatatics/city_dashboard/internal/debs"
	"github.com/innodatatics/city_dashboard/internal/notify"
	"github.com/innodatatics/city_dashboard/internal/poller"
	smtp "github.com/innodatatics/city_dashboard/util/email"
	"github.com/innodatatics/city_dashboard/util/values"
)

const (
	defaultIdleTimeout    = time.Minute
	defaultReadTimeout    = 5 * time.Second
	defaultWriteTimeout   = 10 * time.Second
	defaultShutdownPeriod = 30 * time.Second
)

type Handler func(w http.ResponseWriter, r *http.Request) *ServerResponse

func (h Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	resp := h(w, r)
	respByte, err := json.Marshal(resp)
	if err != nil {
		writeErrorResponse(w, err, values.Error, "unable to marshal server response")
		return
	}
	writeJSONResponse(w, respByte, resp.StatusCode)
}

type API struct {
	Server   *http.Server
	Config   *config.Config
	Deps     *deps.Dependencies
	Mailer   *smtp.Mailer
	DB       *pgxpool.Pool
	Poller   *poller.Engine
	Notifier *notify.Notifier
}

// Init wires the notifier and the reconciliation engine. Serve starts the
// HTTP side; the caller runs the poller goroutine.
func (api *API) Init() {
	api.Notifier = notify.New(api.Mailer, api.Deps.Summarizer)
	api.Poller = poller.NewEngine(
		api.Deps.Store,
		api.Deps.Store,
		api.Deps.Geocoder,
		api.Notifier,
		poller.Options{},
	)
	api.Poller.Events = issueEvents{ws: api.Deps.WebSocket}
}

func (api *API) Serve() error {
	api.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", api.Config.Port),
		IdleTimeout:  defaultIdleTimeout,
		ReadTimeout:  defaultReadTimeout,
		WriteTimeout: defaultWriteTimeout,
		Handler:      api.setUpServerHandler(),
	}
	return api.Server.ListenAndServe()
}

func (api *API) setUpServerHandler() http.Handler {
	mux := chi.NewRouter()
	mux.Use(RequestTracing)

	mux.Get("/",
		func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("City Dashboard API"))
		},
	)

	mux.Mount("/reports", api.ReportRoutes())
	mux.Mount("/issues", api.IssueRoutes())
	mux.Mount("/users", api.UserRoutes())
	mux.Mount("/notifications", api.NotificationRoutes())
	mux.Mount("/routes", api.RoutingRoutes())
	mux.Mount("/status", api.StatusRoutes())

	// websocket clients cannot set the tracing headers
	root := chi.NewRouter()
	root.Get("/ws", api.Deps.WebSocket.HandleConnections)
	root.Mount("/", mux)

	return root
}

func (a *API) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultShutdownPeriod)
	defer cancel()

	err := a.Server.Shutdown(ctx)
	if err != nil {
		return err
	}
	return nil
}
