package middleware

import (
	"net/http"
	"time"

	"github.com/emicklei/go-restful/v3"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// CorrelationHeader carries the request correlation id. Inbound values are
// reused so callers can stitch traces across services.
const CorrelationHeader = "X-Correlation-ID"

const correlationAttribute = "correlation_id"

type ErrorResponse struct {
	Error         string `json:"error"`
	CorrelationID string `json:"correlation_id,omitempty"`
}

func HandleError(resp *restful.Response, err error, status int) {
	_ = resp.WriteHeaderAndEntity(status, ErrorResponse{Error: err.Error()})
}

func HandleErrorWithCorrelation(resp *restful.Response, err error, status int, correlationID string) {
	_ = resp.WriteHeaderAndEntity(status, ErrorResponse{Error: err.Error(), CorrelationID: correlationID})
}

// Correlation assigns every request a correlation id: the inbound header
// value when present, a fresh uuid otherwise. The id is echoed in the
// response header and exposed via CorrelationID.
func Correlation(req *restful.Request, resp *restful.Response, chain *restful.FilterChain) {
	id := req.Request.Header.Get(CorrelationHeader)
	if id == "" {
		id = uuid.NewString()
	}

	req.SetAttribute(correlationAttribute, id)
	resp.AddHeader(CorrelationHeader, id)

	chain.ProcessFilter(req, resp)
}

// CorrelationID returns the id assigned by the Correlation filter, or a new
// one if the filter did not run.
func CorrelationID(req *restful.Request) string {
	if id, ok := req.Attribute(correlationAttribute).(string); ok && id != "" {
		return id
	}
	return uuid.NewString()
}

func Logger(req *restful.Request, resp *restful.Response, chain *restful.FilterChain) {
	start := time.Now()

	chain.ProcessFilter(req, resp)

	log.Info().
		Str("method", req.Request.Method).
		Str("path", req.Request.URL.Path).
		Int("status", resp.StatusCode()).
		Dur("duration", time.Since(start)).
		Msg("request handled")
}

func RecoverPanic(req *restful.Request, resp *restful.Response, chain *restful.FilterChain) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().
				Interface("panic", r).
				Str("path", req.Request.URL.Path).
				Msg("panic recovered")
			_ = resp.WriteHeaderAndEntity(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		}
	}()

	chain.ProcessFilter(req, resp)
}
