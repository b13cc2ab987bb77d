// Package paging turns raw page/size/sort request parameters into a bounded,
// deterministic Plan for listing an owner's cards.
//
// Sort fields come from a fixed allow-list and are mapped to column names
// here, so nothing a client sends ever reaches the store's query text.
package paging

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/christianEkogha/basic-cash-card/internal/models"
)

const (
	DefaultPage = 0
	DefaultSize = 20
	MaxSize     = 100
)

// Field is an allow-listed sort key.
type Field string

const (
	FieldAmount Field = "amount"
	FieldID     Field = "id"
)

var allowedFields = map[string]Field{
	"amount": FieldAmount,
	"id":     FieldID,
}

// Column returns the store column backing the field.
func (f Field) Column() string {
	switch f {
	case FieldID:
		return "id"
	default:
		return "amount"
	}
}

// Direction is the sort order of a Plan.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// SQL returns the ORDER BY keyword for d.
func (d Direction) SQL() string {
	if d == Desc {
		return "DESC"
	}
	return "ASC"
}

// Plan is a validated list query. Ties on Field are always broken by
// ascending id so repeated calls page identically.
type Plan struct {
	Page      int
	Size      int
	Field     Field
	Direction Direction
}

// Offset is the number of records skipped before this page.
func (p Plan) Offset() int64 {
	return int64(p.Page) * int64(p.Size)
}

func (p Plan) String() string {
	return fmt.Sprintf("page=%d size=%d sort=%s,%s", p.Page, p.Size, p.Field, p.Direction)
}

// RawParams are the list parameters exactly as they arrived on the request.
// Empty strings mean "absent". Sort may repeat; only the first value is used.
type RawParams struct {
	Page string
	Size string
	Sort []string
}

// Resolver builds Plans. The zero value is not usable; see NewResolver.
type Resolver struct {
	defaultSize int
	maxSize     int
	strict      bool
}

// NewResolver returns a lenient resolver. defaultSize and maxSize fall back
// to DefaultSize and MaxSize when not positive.
func NewResolver(defaultSize, maxSize int) *Resolver {
	if maxSize <= 0 {
		maxSize = MaxSize
	}
	if defaultSize <= 0 {
		defaultSize = DefaultSize
	}
	if defaultSize > maxSize {
		defaultSize = maxSize
	}
	return &Resolver{defaultSize: defaultSize, maxSize: maxSize}
}

// Strict makes Resolve reject parameters it would otherwise default.
func (r *Resolver) Strict() *Resolver {
	cp := *r
	cp.strict = true
	return &cp
}

// DefaultPlan is the plan used when no parameters are supplied.
func (r *Resolver) DefaultPlan() Plan {
	return Plan{Page: DefaultPage, Size: r.defaultSize, Field: FieldAmount, Direction: Asc}
}

// Resolve never fails in lenient mode: each invalid parameter independently
// falls back to its default. In strict mode the first invalid parameter is
// reported as models.ErrInvalidPaging.
func (r *Resolver) Resolve(raw RawParams) (Plan, error) {
	plan := r.DefaultPlan()

	if raw.Page != "" {
		page, err := parseNonNegative(raw.Page)
		if err != nil {
			if r.strict {
				return Plan{}, fmt.Errorf("%w: page %q", models.ErrInvalidPaging, raw.Page)
			}
		} else {
			plan.Page = page
		}
	}

	if raw.Size != "" {
		size, err := parseNonNegative(raw.Size)
		switch {
		case err != nil || size == 0:
			if r.strict {
				return Plan{}, fmt.Errorf("%w: size %q", models.ErrInvalidPaging, raw.Size)
			}
		case size > r.maxSize:
			if r.strict {
				return Plan{}, fmt.Errorf("%w: size %d exceeds %d", models.ErrInvalidPaging, size, r.maxSize)
			}
			plan.Size = r.maxSize
		default:
			plan.Size = size
		}
	}

	if len(raw.Sort) > 0 && raw.Sort[0] != "" {
		field, dir, ok := parseSort(raw.Sort[0])
		if !ok && r.strict {
			return Plan{}, fmt.Errorf("%w: sort %q", models.ErrInvalidPaging, raw.Sort[0])
		}
		// An unknown field discards the whole sort, direction included.
		if field != "" {
			plan.Field = field
			plan.Direction = dir
		}
	}

	return plan, nil
}

// parseNonNegative accepts decimal integers in [0, MaxInt32].
func parseNonNegative(s string) (int, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 32)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, strconv.ErrRange
	}
	return int(n), nil
}

// parseSort reads "field[,direction]". An unknown field yields "" and an
// unknown direction yields Asc; ok is false if either was unrecognised.
func parseSort(s string) (Field, Direction, bool) {
	name, dirToken, hasDir := strings.Cut(s, ",")
	ok := true

	field, known := allowedFields[strings.ToLower(strings.TrimSpace(name))]
	if !known {
		ok = false
	}

	dir := Asc
	if hasDir {
		switch strings.ToLower(strings.TrimSpace(dirToken)) {
		case "asc":
		case "desc":
			dir = Desc
		default:
			ok = false
		}
	}
	return field, dir, ok
}
