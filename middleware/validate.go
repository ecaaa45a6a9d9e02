package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"urbanvest/utils"
)

// ValidateJSON decodes the JSON payload into dst and runs struct validation.
// On failure the response is already written; callers just return.
func ValidateJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	if ct := r.Header.Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		utils.WriteError(w, http.StatusUnsupportedMediaType, utils.ErrKindValidation, "Content-Type must be application/json")
		return http.ErrNotSupported
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		utils.WriteError(w, http.StatusBadRequest, utils.ErrKindValidation, "Invalid JSON body")
		return err
	}
	if err := utils.ValidateStruct(dst); err != nil {
		utils.WriteError(w, http.StatusBadRequest, utils.ErrKindValidation, err.Error())
		return err
	}
	return nil
}
