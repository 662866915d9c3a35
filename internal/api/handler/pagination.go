package handler

import (
	"fmt"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/consitech/event-manager/internal/core/ports"
)

type paginationMeta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

type pageResponse[T any] struct {
	Data       []T            `json:"data"`
	Pagination paginationMeta `json:"pagination"`
}

func toPageResponse[T any](p *ports.PageResult[T]) pageResponse[T] {
	return pageResponse[T]{
		Data: p.Items,
		Pagination: paginationMeta{
			Total:      p.Total,
			Page:       p.Page,
			Limit:      p.Limit,
			TotalPages: p.TotalPages,
		},
	}
}

// pageRequest reads ?page= and ?limit=. Missing values fall back to the
// defaults, malformed ones are rejected.
func pageRequest(c echo.Context) (ports.PageRequest, error) {
	var req ports.PageRequest
	if v := c.QueryParam("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return req, badRequest("page must be a positive integer")
		}
		if n > ports.MaxPage {
			return req, badRequest(fmt.Sprintf("page must be at most %d", ports.MaxPage))
		}
		req.Page = n
	}
	if v := c.QueryParam("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return req, badRequest("limit must be a positive integer")
		}
		req.Limit = n
	}
	return req.Normalize(), nil
}
