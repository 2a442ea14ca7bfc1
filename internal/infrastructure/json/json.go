package json

import (
	"encoding/json"
	"errors"
	"net/http"
)

const maxBodyBytes = 4 << 20 // generous: batch imports carry whole domain arrays

// Read decodes the request body into dst, rejecting unknown payloads larger
// than maxBodyBytes.
func Read(r *http.Request, dst any) error {
	if r.Body == nil {
		return errors.New("request body is empty")
	}
	r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes)

	decoder := json.NewDecoder(r.Body)
	return decoder.Decode(dst)
}

// Write encodes data as a JSON response with the given status.
func Write(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
