package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// maxBodyBytes caps request bodies; carts beyond this are rejected.
const maxBodyBytes = 1 << 20

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// decodeJSON decodes the request body into v and writes the error response itself
// when it cannot. It reports whether the handler should continue.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			RequestTooLargeError(w, r, fmt.Sprintf("request body must not exceed %d bytes", maxBodyBytes))
			return false
		}
		BadRequestError(w, r, ErrCodeInvalidJSON, "Request body must be valid JSON: "+err.Error())
		return false
	}
	return true
}

// etagFor derives a strong ETag from a stored metafield value.
func etagFor(value string) string {
	return fmt.Sprintf(`"%016x"`, xxhash.Sum64String(value))
}

// etagMatches reports whether an If-None-Match header selects etag.
// The header may be "*" or a comma separated list; weak validators compare equal to strong ones.
func etagMatches(header, etag string) bool {
	want := strings.TrimPrefix(etag, "W/")
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" || strings.TrimPrefix(candidate, "W/") == want {
			return true
		}
	}
	return false
}
