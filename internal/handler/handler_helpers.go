package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"geochat/internal/service"
)

type jsonBody map[string]any

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(v)
}

func writeOK(w http.ResponseWriter) {
	writeJSON(w, jsonBody{"success": true})
}

func writeFail(w http.ResponseWriter, message string) {
	writeJSON(w, jsonBody{"success": false, "message": message})
}

// writeError maps a service error onto the envelope. Validation errors carry
// their own message; anything else is a store-level failure surfaced
// generically. Either way the status stays 200; the envelope is the contract.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrInvalidRequest),
		errors.Is(err, service.ErrInvalidUsername),
		errors.Is(err, service.ErrConflict),
		errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrUploadFailed):
		writeFail(w, err.Error())
	default:
		writeFail(w, "服务器错误")
	}
}

func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}
