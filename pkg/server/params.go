package server

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/syokota-cyber/study-tracker/pkg/query"
)

// params reads typed query parameters and collects every malformed one
type params struct {
	values url.Values
	errs   []string
}

func newParams(values url.Values) *params {
	return &params{values: values}
}

func (p *params) str(name string) string {
	return strings.TrimSpace(p.values.Get(name))
}

func (p *params) intPtr(name string) *int {
	raw := p.str(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		p.errs = append(p.errs, name+" must be an integer")
		return nil
	}
	return &v
}

func (p *params) intOr(name string, fallback int) int {
	if v := p.intPtr(name); v != nil {
		return *v
	}
	return fallback
}

func (p *params) boolean(name string) bool {
	raw := p.str(name)
	if raw == "" {
		return false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		p.errs = append(p.errs, name+" must be a boolean")
		return false
	}
	return v
}

func (p *params) criteria() query.Criteria {
	c := query.Criteria{
		Category:   p.str("category"),
		Difficulty: p.intPtr("difficulty"),
		MinTime:    p.intPtr("min_time"),
		MaxTime:    p.intPtr("max_time"),
		Keyword:    p.str("keyword"),
		Days:       p.intPtr("days"),
	}
	if c.Days != nil && *c.Days < 0 {
		p.errs = append(p.errs, "days must not be negative")
	}
	return c
}

func (p *params) err() error {
	if len(p.errs) == 0 {
		return nil
	}
	return &badRequestError{message: "Invalid query parameters", details: p.errs}
}
