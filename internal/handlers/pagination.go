package handlers

import (
	"errors"
	"strconv"
)

const maxPageSize = 100

var errBadPagination = errors.New("invalid pagination parameters")

// parsePaginationParams reads page/limit query values with sane defaults.
// Order and wallet-history listings cap the page size so a client cannot
// pull the whole collection in one request.
func parsePaginationParams(pageStr, limitStr string) (page, limit int64, err error) {
	page, limit = 1, 20

	if pageStr != "" {
		p, err := strconv.ParseInt(pageStr, 10, 64)
		if err != nil || p < 1 {
			return 0, 0, errBadPagination
		}
		page = p
	}

	if limitStr != "" {
		l, err := strconv.ParseInt(limitStr, 10, 64)
		if err != nil || l < 1 || l > maxPageSize {
			return 0, 0, errBadPagination
		}
		limit = l
	}

	return page, limit, nil
}
