package postgres

import (
	"database/sql"
	"strconv"
	"strings"
)

// placeholders renders n positional parameters starting at $start, e.g. "$2, $3, $4".
func placeholders(start, n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('$')
		b.WriteString(strconv.Itoa(start + i))
	}
	return b.String()
}

// int64Args converts ids into query arguments after the given leading args.
func int64Args(leading []any, ids []int64) []any {
	args := make([]any, 0, len(leading)+len(ids))
	args = append(args, leading...)
	for _, id := range ids {
		args = append(args, id)
	}
	return args
}

func nullInt64(v int64) sql.NullInt64 {
	return sql.NullInt64{Int64: v, Valid: v != 0}
}
