package query

import (
	"maps"
	"net/url"
	"strconv"
	"strings"
)

const (
	ParamPage     = "page"
	ParamPageSize = "page_size"
	ParamOrdering = "ordering"
	descMarker    = "-"
)

// Direction is a sort order.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Pagination selects one zero-based page.
type Pagination struct {
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
}

// Sort orders a collection by one field.
type Sort struct {
	Field string    `json:"field"`
	Order Direction `json:"order,omitempty"`
}

// Params is the filter/sort/page state of one list view. Nil members are
// omitted from the built query.
type Params struct {
	Pagination *Pagination       `json:"pagination,omitempty"`
	Sort       *Sort             `json:"sort,omitempty"`
	Filters    map[string]string `json:"filters,omitempty"`
}

// Clone returns a deep copy of p.
func (p *Params) Clone() *Params {
	if p == nil {
		return nil
	}
	out := &Params{Filters: maps.Clone(p.Filters)}
	if p.Pagination != nil {
		pg := *p.Pagination
		out.Pagination = &pg
	}
	if p.Sort != nil {
		s := *p.Sort
		out.Sort = &s
	}
	return out
}

// Normalize returns a copy of p with an empty sort order set to Asc, so
// equivalent params yield one descriptor.
func (p *Params) Normalize() *Params {
	out := p.Clone()
	if out != nil && out.Sort != nil && out.Sort.Order == "" {
		out.Sort.Order = Asc
	}
	return out
}

// Descriptor is the canonical request target for a collection read.
type Descriptor struct {
	Collection string
	Path       string
	Query      string
}

// Target returns path plus query string. Equal inputs to Build yield
// byte-identical targets.
func (d Descriptor) Target() string {
	if d.Query == "" {
		return d.Path
	}
	return d.Path + "?" + d.Query
}

// Build turns params into the list target for collection. Params are
// normalized first.
func Build(collection string, params *Params) Descriptor {
	return Descriptor{
		Collection: collection,
		Path:       "/" + collection + "/",
		Query:      Encode(params.Normalize()),
	}
}

// Detail builds the target for one record, or a sub-resource of it.
func Detail(collection string, id string, sub ...string) Descriptor {
	parts := append([]string{collection, url.PathEscape(id)}, sub...)
	return Descriptor{
		Collection: collection,
		Path:       "/" + strings.Join(parts, "/") + "/",
	}
}

// Encode serializes params with keys in sorted order. Empty filter keys or
// values are dropped.
func Encode(params *Params) string {
	if params == nil {
		return ""
	}
	values := url.Values{}
	for k, v := range params.Filters {
		if k == "" || v == "" {
			continue
		}
		values.Set(k, v)
	}
	if p := params.Pagination; p != nil {
		values.Set(ParamPage, strconv.Itoa(p.Page))
		values.Set(ParamPageSize, strconv.Itoa(p.PerPage))
	}
	if s := params.Sort; s != nil && s.Field != "" {
		field := s.Field
		if s.Order == Desc {
			field = descMarker + field
		}
		values.Set(ParamOrdering, field)
	}
	return values.Encode()
}

// ParseSort reads "field" or "-field"; an empty string yields nil.
func ParseSort(raw string) *Sort {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == descMarker {
		return nil
	}
	if field, ok := strings.CutPrefix(raw, descMarker); ok {
		return &Sort{Field: field, Order: Desc}
	}
	return &Sort{Field: raw, Order: Asc}
}
