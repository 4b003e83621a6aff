package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/alexanderramin/dealflow/internal/domain"
	"github.com/alexanderramin/dealflow/internal/intelligence"
	"github.com/alexanderramin/dealflow/internal/llm"
	"github.com/alexanderramin/dealflow/internal/repository"
	"github.com/alexanderramin/dealflow/internal/service"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
	Field  string `json:"field,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, logger *slog.Logger, err error) {
	status := mapHTTPStatus(err)
	body := ErrorBody{Error: err.Error()}

	var te *domain.TransitionError
	if errors.As(err, &te) {
		body.Reason = string(te.Reason)
	}
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		body.Field = ve.Field
	}

	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "status", status, "error", err)
	}
	respondJSON(w, status, body)
}

func mapHTTPStatus(err error) int {
	var te *domain.TransitionError
	switch {
	case errors.As(err, &te):
		return http.StatusConflict
	case errors.Is(err, repository.ErrNotFound),
		errors.Is(err, domain.ErrActionItemNotFound):
		return http.StatusNotFound
	case errors.Is(err, repository.ErrVersionConflict),
		errors.Is(err, domain.ErrNoCurrentStage),
		errors.Is(err, intelligence.ErrNotCurrentStage):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidValue),
		errors.Is(err, domain.ErrEmptyComment),
		errors.Is(err, service.ErrUnknownChecklistItem),
		errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, llm.ErrNoProviders):
		return http.StatusServiceUnavailable
	case errors.Is(err, llm.ErrRateLimited),
		errors.Is(err, llm.ErrTimeout),
		errors.Is(err, llm.ErrUnavailable),
		errors.Is(err, llm.ErrTokenLimit),
		errors.Is(err, llm.ErrProvider):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

var errBadRequest = errors.New("bad request")

// decodeJSON reads a JSON body into dst, rejecting unknown fields.
func decodeJSON(r *http.Request, dst any) error {
	return decodeBody(r, dst, false)
}

// decodeOptionalJSON is decodeJSON for endpoints whose body may be omitted;
// an empty body leaves dst untouched.
func decodeOptionalJSON(r *http.Request, dst any) error {
	return decodeBody(r, dst, true)
}

func decodeBody(r *http.Request, dst any, optional bool) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	err := dec.Decode(dst)
	if optional && errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}
