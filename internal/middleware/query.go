package middleware

import (
	"net/http"
	"reflect"
	"strconv"
	"time"

	"github.com/glowdesk/inventory-service/internal/apperror"
	"github.com/glowdesk/inventory-service/internal/result"
	"github.com/glowdesk/inventory-service/internal/validation"
)

// BindQuery populates a struct from URL query parameters using `query` tags,
// then runs struct validation. Supported field types: string, *string, int,
// bool, *time.Time (RFC 3339). Fields tagged "-" or untagged are skipped.
func BindQuery[Q any](r *http.Request) result.Result[Q] {
	var q Q
	values := r.URL.Query()

	v := reflect.ValueOf(&q).Elem()
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("query")
		if tag == "" || tag == "-" {
			continue
		}
		raw := values.Get(tag)
		if raw == "" {
			continue
		}

		field := v.Field(i)
		switch field.Interface().(type) {
		case string:
			field.SetString(raw)
		case *string:
			s := raw
			field.Set(reflect.ValueOf(&s))
		case int:
			n, err := strconv.Atoi(raw)
			if err != nil {
				return result.Err[Q](apperror.Validation("must be an integer", tag))
			}
			field.SetInt(int64(n))
		case bool:
			b, err := strconv.ParseBool(raw)
			if err != nil {
				return result.Err[Q](apperror.Validation("must be true or false", tag))
			}
			field.SetBool(b)
		case *time.Time:
			ts, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				return result.Err[Q](apperror.Validation("must be an RFC 3339 timestamp", tag))
			}
			field.Set(reflect.ValueOf(&ts))
		}
	}

	return validation.Struct(q)
}

// QueryHandler receives the bound, validated query struct.
type QueryHandler[Q, T any] func(r *http.Request, query Q) result.Result[T]

// WithQuery binds query parameters before the handler runs.
func WithQuery[Q, T any](h QueryHandler[Q, T], opts Options) http.HandlerFunc {
	return WithResult(func(r *http.Request) result.Result[T] {
		return result.FlatMap(BindQuery[Q](r), func(q Q) result.Result[T] {
			return h(r, q)
		})
	}, opts)
}
