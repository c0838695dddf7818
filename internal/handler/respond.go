package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Abdurahmanit/GroupProject/estate-service/internal/auth"
	"github.com/Abdurahmanit/GroupProject/estate-service/internal/listing/domain"
	"github.com/Abdurahmanit/GroupProject/estate-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/estate-service/internal/salespost"
	"go.uber.org/zap"
)

type errorBody struct {
	Error   string            `json:"error"`
	Details map[string]string `json:"details,omitempty"`
}

// StatusFor maps a service error to its HTTP status.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrRemoteUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrPermissionDenied):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrPersistence), errors.Is(err, domain.ErrArchive):
		return http.StatusInternalServerError
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidListing):
		return http.StatusBadRequest
	case errors.Is(err, salespost.ErrExtraction):
		return http.StatusUnprocessableEntity
	case errors.Is(err, salespost.ErrGeneration):
		return http.StatusBadGateway
	case errors.Is(err, auth.ErrUnauthenticated), errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, auth.ErrDuplicateEmail):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// publicMessage hides internals of unexpected errors.
func publicMessage(err error, status int) string {
	if status == http.StatusInternalServerError && !errors.Is(err, domain.ErrPersistence) && !errors.Is(err, domain.ErrArchive) {
		return "internal server error"
	}
	return err.Error()
}

func writeJSON(w http.ResponseWriter, log *logger.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, log *logger.Logger, err error) {
	status := StatusFor(err)
	writeJSON(w, log, status, errorBody{Error: publicMessage(err, status)})
}

func writeBadRequest(w http.ResponseWriter, log *logger.Logger, msg string, details map[string]string) {
	writeJSON(w, log, http.StatusBadRequest, errorBody{Error: msg, Details: details})
}

// itemView is the wire form of domain.ItemResult.
type itemView struct {
	Name  string `json:"name"`
	URL   string `json:"url,omitempty"`
	Error string `json:"error,omitempty"`
}

func batchView(b domain.BatchResult) []itemView {
	out := make([]itemView, len(b.Items))
	for i, it := range b.Items {
		out[i] = itemView{Name: it.Name, URL: it.URL}
		if it.Err != nil {
			out[i].Error = it.Err.Error()
		}
	}
	return out
}
