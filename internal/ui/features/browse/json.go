package browse

import (
	"encoding/json"
	"errors"
	"net/http"
)

var (
	errMissingEntry = errors.New("entryItemId signal is required")
	errUnknownTab   = errors.New("unknown tab")
)

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
