package rest

import (
	"math"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/twpayne/go-polyline"

	"github.com/innodatatics/city_dashboard/internal/model"
	"github.com/innodatatics/city_dashboard/util"
	"github.com/innodatatics/city_dashboard/util/tracing"
	"github.com/innodatatics/city_dashboard/util/values"
)

const (
	// avoidRadiusKm is how far a route keeps away from an open issue.
	avoidRadiusKm = 0.5
	routeSamples  = 20
)

func (api *API) RoutingRoutes() chi.Router {
	mux := chi.NewRouter()

	mux.Method(http.MethodPost, "/alternate", Handler(api.AlternateRoute))

	return mux
}

// Location represents a coordinate pair for routing
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type AlternateRouteRequest struct {
	Origin      Location `json:"origin"`
	Destination Location `json:"destination"`
}

type AlternateRouteResponse struct {
	Polyline      string        `json:"polyline"`
	AvoidedIssues []model.Issue `json:"avoided_issues"`
}

// AlternateRoute produces a path between two points that detours around
// open issues. The path is a sampled straight line with perpendicular
// offsets applied around each blocking issue, returned polyline-encoded.
func (api *API) AlternateRoute(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	var req AlternateRouteRequest
	if decodeErr := util.DecodeJSONBody(&tc, r.Body, &req); decodeErr != nil {
		return respondWithError(decodeErr, "unable to decode request", values.BadRequestBody, &tc)
	}

	if !util.ValidCoordinates(req.Origin.Lat, req.Origin.Lng) ||
		!util.ValidCoordinates(req.Destination.Lat, req.Destination.Lng) {
		return respondWithError(nil, "invalid origin or destination", values.BadRequestBody, &tc)
	}

	solved := false
	openIssues, err := api.Deps.Store.ListIssues(r.Context(), model.ListIssuesParams{IsSolved: &solved})
	if err != nil {
		return respondWithError(err, "Failed to fetch open issues", values.Error, &tc)
	}

	coords, avoided := detourPath(req.Origin, req.Destination, openIssues)

	resp := AlternateRouteResponse{
		Polyline:      string(polyline.EncodeCoords(coords)),
		AvoidedIssues: avoided,
	}
	if resp.AvoidedIssues == nil {
		resp.AvoidedIssues = []model.Issue{}
	}

	return &ServerResponse{
		Message:    "Route computed successfully",
		Status:     values.Success,
		StatusCode: util.StatusCode(values.Success),
		Data:       resp,
	}
}

func detourPath(origin, destination Location, issues []model.Issue) ([][]float64, []model.Issue) {
	coords := make([][]float64, 0, routeSamples+1)
	var avoided []model.Issue
	flagged := make(map[string]bool)

	// perpendicular unit vector of the straight segment
	dLat := destination.Lat - origin.Lat
	dLng := destination.Lng - origin.Lng
	norm := math.Hypot(dLat, dLng)

	for i := 0; i <= routeSamples; i++ {
		t := float64(i) / routeSamples
		lat := origin.Lat + t*dLat
		lng := origin.Lng + t*dLng

		for _, issue := range issues {
			if !util.LocationsWithinRadius(lat, lng, issue.Latitude, issue.Longitude, avoidRadiusKm) {
				continue
			}
			if norm > 0 {
				// shift the sample sideways by roughly twice the avoid radius
				offset := 2 * avoidRadiusKm / 111.0
				lat += -dLng / norm * offset
				lng += dLat / norm * offset
			}
			if !flagged[issue.ID] {
				flagged[issue.ID] = true
				avoided = append(avoided, issue)
			}
		}

		coords = append(coords, []float64{lat, lng})
	}

	return coords, avoided
}
