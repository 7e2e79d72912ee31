package rest

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/innodatatics/city_dashboard/util"
	"github.com/innodatatics/city_dashboard/util/tracing"
	"github.com/innodatatics/city_dashboard/util/values"
)

// ServerResponse is the uniform envelope every handler returns.
type ServerResponse struct {
	Status     string      `json:"status"`
	Message    string      `json:"message"`
	StatusCode int         `json:"-"`
	Data       interface{} `json:"data,omitempty"`
	RequestID  string      `json:"request_id,omitempty"`
}

func respondWithError(err error, message string, status string, tc *tracing.Context) *ServerResponse {
	if err != nil {
		log.Printf("[%s] %s: %v", tc.RequestID, message, err)
	} else {
		log.Printf("[%s] %s", tc.RequestID, message)
	}

	return &ServerResponse{
		Status:     status,
		Message:    message,
		StatusCode: util.StatusCode(status),
		RequestID:  tc.RequestID,
	}
}

func writeJSONResponse(w http.ResponseWriter, body []byte, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if _, err := w.Write(body); err != nil {
		log.Printf("unable to write response body: %v", err)
	}
}

func writeErrorResponse(w http.ResponseWriter, err error, status string, message string) {
	if err != nil {
		log.Printf("%s: %v", message, err)
	}

	resp := ServerResponse{
		Status:  status,
		Message: message,
	}
	body, marshalErr := json.Marshal(resp)
	if marshalErr != nil {
		http.Error(w, message, util.StatusCode(values.Error))
		return
	}
	writeJSONResponse(w, body, util.StatusCode(status))
}
