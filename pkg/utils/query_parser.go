package utils

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/dcodingdev/gearguard/pkg/types"
)

const (
	DefaultLimit = 50
	MaxLimit     = 500
)

// ParseFilterFromQuery reads search, sort[field], filter[field], page, limit and offset.
// Plain query keys listed in shortcuts (for example ?status=new) are treated as filter[key].
func ParseFilterFromQuery(values url.Values, shortcuts ...string) types.Filter {
	filterReq := types.Filter{
		Sort:           make(map[string]string),
		Filter:         make(map[string]interface{}),
		Limit:          DefaultLimit,
		Page:           1,
		WithPagination: true,
	}

	if limitStr := values.Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			filterReq.Limit = min(l, MaxLimit)
		}
	}

	if pageStr := values.Get("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			filterReq.Page = p
		}
	}

	if offsetStr := values.Get("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			filterReq.Offset = o
			filterReq.Page = o/filterReq.Limit + 1
		}
	} else {
		filterReq.Offset = (filterReq.Page - 1) * filterReq.Limit
	}

	if values.Get("withPagination") == "false" {
		filterReq.WithPagination = false
	}

	for key, vals := range values {
		if len(vals) == 0 || vals[0] == "" {
			continue
		}

		if key == "search" {
			filterReq.Search = strings.TrimSpace(vals[0])
			continue
		}

		if strings.HasPrefix(key, "sort[") && strings.HasSuffix(key, "]") {
			field := key[5 : len(key)-1]
			direction := strings.ToLower(vals[0])
			if direction == "asc" || direction == "desc" {
				filterReq.Sort[field] = direction
			}
			continue
		}

		if strings.HasPrefix(key, "filter[") && strings.HasSuffix(key, "]") {
			addFilter(filterReq.Filter, key[7:len(key)-1], vals[0])
		}
	}

	for _, key := range shortcuts {
		if v := values.Get(key); v != "" {
			addFilter(filterReq.Filter, key, v)
		}
	}

	return filterReq
}

func addFilter(filters map[string]interface{}, field, value string) {
	if existing, ok := filters[field]; ok {
		filters[field] = fmt.Sprintf("%v,%s", existing, value)
		return
	}
	filters[field] = value
}
