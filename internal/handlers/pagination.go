package handlers

import (
	"fmt"
	"strconv"
)

func parsePaginationParams(pageStr, pageSizeStr string) (int64, int64, error) {
	page := int64(1)
	pageSize := int64(10)

	if pageStr != "" {
		p, err := strconv.ParseInt(pageStr, 10, 64)
		if err != nil || p < 1 {
			return 0, 0, fmt.Errorf("invalid pagination params")
		}
		page = p
	}

	if pageSizeStr != "" {
		s, err := strconv.ParseInt(pageSizeStr, 10, 64)
		if err != nil || s < 1 {
			return 0, 0, fmt.Errorf("invalid pagination params")
		}
		pageSize = s
	}

	return page, pageSize, nil
}
