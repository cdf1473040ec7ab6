package api

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/malwarebo/taskhub/utils"
)

// writeError maps service-layer failures onto failed envelopes.
// Validation errors keep their field structure; API errors keep their
// status code; anything else is a 500 without internal detail.
func writeError(w http.ResponseWriter, r *http.Request, err error, message string) {
	switch e := err.(type) {
	case utils.FieldErrors:
		WriteFailure(w, r, e, http.StatusBadRequest, message)
	case *utils.APIError:
		WriteFailure(w, r, DetailError{Detail: e.Message}, e.Code, message)
	default:
		utils.Error(r.Context(), "request failed", map[string]interface{}{
			"path":  r.URL.Path,
			"error": err.Error(),
		})
		WriteFailure(w, r, DetailError{Detail: "Internal server error"}, http.StatusInternalServerError, message)
	}
}

// pathID extracts the {id} route variable.
func pathID(r *http.Request) (uint, error) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, utils.NewAPIError(http.StatusBadRequest, "Invalid id")
	}
	return uint(id), nil
}
