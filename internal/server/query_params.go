package server

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tallybook/tallybook/pkg/db/pagination"
)

const (
	defaultPageSize = 10
	maxPageSize     = 250
)

func parsePagination(c *gin.Context) pagination.Pagination {
	size := defaultPageSize
	if raw := strings.TrimSpace(c.Query("page_size")); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			size = parsed
		}
	}
	if size > maxPageSize {
		size = maxPageSize
	}

	return pagination.Pagination{
		PageToken: strings.TrimSpace(c.Query("page_token")),
		PageSize:  size,
	}
}
