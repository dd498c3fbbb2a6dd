package server

import (
	"encoding/json"
	"net/http"
)

// kosync wire error codes. Fixed by the client protocol; never renumber.
const (
	codeInternal             = 2000
	codeUnauthorized         = 2001
	codeAlreadyRegistered    = 2002
	codeInvalidRequest       = 2003
	codeMissingField         = 2004
	codeRegistrationDisabled = 3001
)

// errorBody is the protocol's error shape: {"message": ..., "code": ...}
type errorBody struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes a protocol error response
func writeError(w http.ResponseWriter, status int, message string, code int) {
	writeJSON(w, status, errorBody{Message: message, Code: code})
}

// readJSON decodes a JSON request body into v. Numbers decode as
// json.Number so loosely typed fields keep full precision until the
// service coerces them.
func readJSON(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	return dec.Decode(v)
}
