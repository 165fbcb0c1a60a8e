package api

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/readraise/insights/internal/api/respond"
	"github.com/readraise/insights/internal/model"
)

// writeServiceError maps domain errors onto HTTP statuses. Anything not
// recognised is a 500 and gets logged with a stack.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, model.ErrNotFound):
		respond.WriteNotFound(w, "not found")
	case errors.Is(err, model.ErrValidation):
		respond.WriteBadRequest(w, err.Error())
	case errors.Is(err, model.ErrConflict):
		respond.WriteError(w, http.StatusConflict, err.Error())
	default:
		log.Error().Stack().Err(err).Msg("request failed")
		respond.WriteInternalError(w, "internal error")
	}
}
