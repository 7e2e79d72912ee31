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

const (
	maxProofUploadBytes = 10 << 20 // 10MB per file
	proofFolder         = "proofs"
)

func (api *API) ReportRoutes() chi.Router {
	mux := chi.NewRouter()

	mux.Group(func(r chi.Router) {
		r.Method(http.MethodPost, "/", Handler(api.CreateReport))
		r.Method(http.MethodGet, "/", Handler(api.ListReports))
		r.Method(http.MethodGet, "/{reportID}", Handler(api.GetReportByID))
		r.Method(http.MethodPost, "/{reportID}/proofs", Handler(api.UploadProofs))
	})

	return mux
}

func (api *API) CreateReport(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	var req model.CreateReportRequest
	if decodeErr := util.DecodeJSONBody(&tc, r.Body, &req); decodeErr != nil {
		return respondWithError(decodeErr, "unable to decode request", values.BadRequestBody, &tc)
	}

	if err := util.ValidateStruct(req); err != nil {
		return respondWithError(err, "validation failed", values.BadRequestBody, &tc)
	}

	resp, status, message, err := api.CreateReportHelper(r.Context(), req)
	if err != nil {
		return respondWithError(err, message, status, &tc)
	}

	return &ServerResponse{
		Message:    message,
		Status:     status,
		StatusCode: util.StatusCode(status),
		Data:       resp,
	}
}

func (api *API) ListReports(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	params := model.ListReportsParams{
		CreatorEmail: r.URL.Query().Get("email"),
	}
	if raw := r.URL.Query().Get("processed"); raw != "" {
		processed, err := strconv.ParseBool(raw)
		if err != nil {
			return respondWithError(err, "invalid processed filter", values.BadRequestBody, &tc)
		}
		params.Processed = &processed
	}

	reports, err := api.Deps.Store.ListReports(r.Context(), params)
	if err != nil {
		return respondWithError(err, "Failed to fetch reports", values.Error, &tc)
	}
	if reports == nil {
		reports = []model.Report{}
	}

	return &ServerResponse{
		Message:    "Reports fetched successfully",
		Status:     values.Success,
		StatusCode: util.StatusCode(values.Success),
		Data:       reports,
	}
}

func (api *API) GetReportByID(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	reportID := chi.URLParam(r, "reportID")

	report, err := api.Deps.Store.ReportByID(r.Context(), reportID)
	if err != nil {
		return respondWithError(err, "Failed to fetch report", values.Error, &tc)
	}
	if report == nil {
		return respondWithError(nil, "Report not found", values.NotFound, &tc)
	}

	return &ServerResponse{
		Message:    "Report fetched successfully",
		Status:     values.Success,
		StatusCode: util.StatusCode(values.Success),
		Data:       report,
	}
}

// UploadProofs accepts multipart image uploads, stores them in Cloudinary
// and appends the resulting URLs to the report. The poller waits a few
// cycles for these to land before reconciling.
func (api *API) UploadProofs(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	reportID := chi.URLParam(r, "reportID")

	if err := r.ParseMultipartForm(maxProofUploadBytes); err != nil {
		return respondWithError(err, "unable to parse multipart form", values.BadRequestBody, &tc)
	}

	files := r.MultipartForm.File["proofs"]
	if len(files) == 0 {
		return respondWithError(nil, "no proof files provided", values.BadRequestBody, &tc)
	}

	var urls []string
	for _, header := range files {
		if header.Size > maxProofUploadBytes {
			return respondWithError(nil, "proof file exceeds the 10MB limit", values.BadRequestBody, &tc)
		}
		if !allowedProofType(header.Header.Get("Content-Type")) {
			return respondWithError(nil, "proof files must be images", values.BadRequestBody, &tc)
		}

		file, err := header.Open()
		if err != nil {
			return respondWithError(err, "unable to read proof file", values.Error, &tc)
		}

		url, err := api.Deps.Cloudinary.UploadProof(r.Context(), file, proofFolder)
		file.Close()
		if err != nil {
			return respondWithError(err, "failed to upload proof", values.Error, &tc)
		}
		urls = append(urls, url)
	}

	report, status, message, err := api.AppendProofsHelper(r.Context(), reportID, urls)
	if err != nil {
		return respondWithError(err, message, status, &tc)
	}
	if report == nil {
		return respondWithError(nil, "Report not found", values.NotFound, &tc)
	}

	return &ServerResponse{
		Message:    message,
		Status:     status,
		StatusCode: util.StatusCode(status),
		Data:       report,
	}
}

func allowedProofType(contentType string) bool {
	switch contentType {
	case "image/jpeg", "image/png", "image/webp", "image/gif":
		return true
	}
	return false
}
