package web

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
)

const (
	DefaultLimit = 100
	MaxLimit     = 1000
)

// ParsePagination reads the optional limit and offset query parameters.
// limit must be in (0, MaxLimit] and defaults to DefaultLimit; offset must be >= 0 and defaults to 0.
func ParsePagination(w http.ResponseWriter, r *http.Request, logger *slog.Logger) (limit, offset int32, ok bool) {
	limit, ok = parseBounded(w, r, logger, "limit", DefaultLimit, 1, MaxLimit)
	if !ok {
		return 0, 0, false
	}
	offset, ok = parseBounded(w, r, logger, "offset", 0, 0, 1<<31-1)
	if !ok {
		return 0, 0, false
	}
	return limit, offset, true
}

func parseBounded(w http.ResponseWriter, r *http.Request, logger *slog.Logger, key string, def, lo, hi int64) (int32, bool) {
	value := r.URL.Query().Get(key)
	if value == "" {
		return int32(def), true
	}
	intValue, err := strconv.ParseInt(value, 10, 32)
	if err != nil || intValue < lo || intValue > hi {
		RespondError(w, logger, http.StatusBadRequest, fmt.Sprintf("Invalid %s number: %s", key, value))
		return 0, false
	}
	return int32(intValue), true
}
