package graph

import (
	"net/url"
	"strconv"
)

// PageQuery carries the upstream pagination and filter parameters for one
// list call. Skip/Top follow the upstream 0-based convention; translation
// from the SCIM 1-based contract happens in the pagination bridge.
type PageQuery struct {
	Filter    string
	Skip      int
	Top       int
	WithCount bool
}

func (q PageQuery) Encode() string {
	query := url.Values{}

	if q.Filter != "" {
		query.Add("$filter", q.Filter)
	}

	if q.Skip > 0 {
		query.Add("$skip", strconv.Itoa(q.Skip))
	}

	if q.Top > 0 {
		query.Add("$top", strconv.Itoa(q.Top))
	}

	if q.WithCount {
		query.Add("$count", "true")
	}

	return query.Encode()
}

// Page is one upstream page of results. Count is only present when the
// upstream honored the count request.
//
//nolint:tagliatelle
type Page struct {
	Value []Resource `json:"value"`
	Count *int       `json:"@odata.count"`
}
