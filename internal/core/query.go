// AngelaMos | 2026
// query.go

package core

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Where accumulates AND-ed conditions with positional Postgres arguments.
// Every %d in a condition is replaced by the index of its argument.
type Where struct {
	conditions []string
	args       []any
}

func NewWhere(conditions ...string) *Where {
	return &Where{conditions: append([]string(nil), conditions...)}
}

func (w *Where) Add(condition string, arg any) *Where {
	w.args = append(w.args, arg)
	w.conditions = append(
		w.conditions,
		strings.ReplaceAll(condition, "%d", strconv.Itoa(len(w.args))),
	)
	return w
}

// AddIf adds the condition only when ok is true.
func (w *Where) AddIf(ok bool, condition string, arg any) *Where {
	if ok {
		w.Add(condition, arg)
	}
	return w
}

func (w *Where) Args() []any {
	return w.args
}

// Next returns the placeholder index for an argument appended after the
// conditions, e.g. LIMIT and OFFSET.
func (w *Where) Next() int {
	return len(w.args) + 1
}

func (w *Where) String() string {
	if len(w.conditions) == 0 {
		return "TRUE"
	}
	return strings.Join(w.conditions, " AND ")
}

type PageParams struct {
	Page  int
	Limit int
}

func (p *PageParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = 10
	}
	if p.Limit > 100 {
		p.Limit = 100
	}
}

func (p *PageParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

func EscapeLike(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "%", "\\%")
	s = strings.ReplaceAll(s, "_", "\\_")
	return s
}

func QueryInt(r *http.Request, key string, defaultVal int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}

	parsed, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}

	return parsed
}

// PageFromQuery reads ?page= and ?limit= and clamps them.
func PageFromQuery(r *http.Request) PageParams {
	p := PageParams{
		Page:  QueryInt(r, "page", 1),
		Limit: QueryInt(r, "limit", 10),
	}
	p.Normalize()
	return p
}

// QueryBool treats "true" and "1" as true, anything else present as false,
// and returns nil when the parameter is absent.
func QueryBool(r *http.Request, key string) *bool {
	val := r.URL.Query().Get(key)
	if val == "" {
		return nil
	}
	b := val == "true" || val == "1"
	return &b
}

// QueryTime reads a YYYY-MM-DD date or an RFC 3339 timestamp. With
// endOfDay a bare date covers the whole day. It returns nil when absent.
func QueryTime(r *http.Request, key string, endOfDay bool) (*time.Time, error) {
	val := r.URL.Query().Get(key)
	if val == "" {
		return nil, nil
	}

	if t, err := time.Parse(time.DateOnly, val); err == nil {
		if endOfDay {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		return &t, nil
	}

	t, err := time.Parse(time.RFC3339, val)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// PathID reads a uuid route parameter. A malformed id names no row, so it
// is reported as ErrNotFound.
func PathID(r *http.Request, key string) (string, error) {
	id := chi.URLParam(r, key)
	if uuid.Validate(id) != nil {
		return "", fmt.Errorf("%s %q: %w", key, id, ErrNotFound)
	}
	return id, nil
}

// QueryID reads an optional uuid filter. It returns "" when absent.
func QueryID(r *http.Request, key string) (string, error) {
	id := r.URL.Query().Get(key)
	if id == "" {
		return "", nil
	}
	if uuid.Validate(id) != nil {
		return "", fmt.Errorf("%s must be a uuid: %w", key, ErrInvalidInput)
	}
	return id, nil
}
