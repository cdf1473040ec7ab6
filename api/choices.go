package api

import (
	"net/http"

	"github.com/malwarebo/taskhub/utils"
)

// ChoiceFieldsHandler exposes the valid values of enumerated model fields
// so clients can render pickers without hardcoding them.
type ChoiceFieldsHandler struct {
	resource string
	fields   map[string]map[string]string
}

func CreateChoiceFieldsHandler(resource string, fields map[string]map[string]string) (*ChoiceFieldsHandler, error) {
	if resource == "" {
		return nil, &utils.ConfigurationError{
			Setting: "resource",
			Reason:  "choice fields handler requires a resource name",
		}
	}
	if len(fields) == 0 {
		return nil, &utils.ConfigurationError{
			Setting: "fields",
			Reason:  "choice fields handler requires at least one field",
		}
	}
	return &ChoiceFieldsHandler{resource: resource, fields: fields}, nil
}

func (h *ChoiceFieldsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, r, h.fields, http.StatusOK, "Choice fields retrieved successfully")
}
