package db

import (
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/dcodingdev/gearguard/pkg/types"
)

// Psql is the statement builder for PostgreSQL placeholders.
var Psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// ListSpec whitelists the json field names a listing accepts.
type ListSpec struct {
	Filters     map[string]string
	Sort        map[string]string
	SearchCols  []string
	DefaultSort string
}

// ApplyFilters adds WHERE clauses for whitelisted filters and the search term.
// Comma separated values become IN lists.
func ApplyFilters(builder sq.SelectBuilder, filter types.Filter, spec ListSpec) sq.SelectBuilder {
	for jsonField, val := range filter.Filter {
		dbCol, ok := spec.Filters[jsonField]
		if !ok {
			continue
		}

		if s, ok := val.(string); ok && strings.Contains(s, ",") {
			builder = builder.Where(sq.Eq{dbCol: strings.Split(s, ",")})
		} else {
			builder = builder.Where(sq.Eq{dbCol: val})
		}
	}

	if filter.Search != "" && len(spec.SearchCols) > 0 {
		or := sq.Or{}
		for _, col := range spec.SearchCols {
			or = append(or, sq.ILike{col: "%" + filter.Search + "%"})
		}
		builder = builder.Where(or)
	}

	return builder
}

// ApplyListParams adds filters, ordering and pagination.
func ApplyListParams(builder sq.SelectBuilder, filter types.Filter, spec ListSpec) sq.SelectBuilder {
	builder = ApplyFilters(builder, filter, spec)

	sorted := false
	for jsonField, dir := range filter.Sort {
		dbCol, ok := spec.Sort[jsonField]
		if !ok {
			continue
		}
		sqlDir := "ASC"
		if strings.ToLower(dir) == "desc" {
			sqlDir = "DESC"
		}
		builder = builder.OrderBy(fmt.Sprintf("%s %s", dbCol, sqlDir))
		sorted = true
	}
	if !sorted && spec.DefaultSort != "" {
		builder = builder.OrderBy(spec.DefaultSort)
	}

	if filter.WithPagination {
		if filter.Limit > 0 {
			builder = builder.Limit(uint64(filter.Limit))
		}
		if filter.Offset > 0 {
			builder = builder.Offset(uint64(filter.Offset))
		}
	}

	return builder
}
