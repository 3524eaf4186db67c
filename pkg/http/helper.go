package http

import (
	"net/http"
	"roomly/pkg/config"
	apperrors "roomly/pkg/errors"
	"strconv"
	"time"
)

func ExtractLimitOffset(r *http.Request) (int, int64, error) {
	query := r.URL.Query()

	limit := 0
	if s := query.Get("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return 0, 0, apperrors.InvalidInput("invalid limit parameter: " + s)
		}
		limit = v
	}

	var offset int64 = 0
	if s := query.Get("offset"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return 0, 0, apperrors.InvalidInput("invalid offset parameter: " + s)
		}
		offset = int64(v)
	}

	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	return limit, offset, nil
}

// ExtractTimeParam parses an RFC3339 query parameter. Required params that
// are absent, and any malformed value, yield an invalid-input error.
func ExtractTimeParam(r *http.Request, name string, required bool) (*time.Time, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		if required {
			return nil, apperrors.InvalidInput("missing required parameter: " + name)
		}
		return nil, nil
	}

	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, apperrors.InvalidInput("invalid " + name + " parameter, want RFC3339: " + s)
	}
	t = t.UTC()
	return &t, nil
}
