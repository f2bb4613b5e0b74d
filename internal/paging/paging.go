// Package paging bridges the SCIM 1-based startIndex/count pagination
// contract onto the upstream skip/top parameters and reassembles upstream
// pages into SCIM ListResponse envelopes.
package paging

import (
	"errors"

	"github.com/openkcm/scim-gateway/pkg/clients/graph"
)

const SchemaListResponse = "urn:ietf:params:scim:api:messages:2.0:ListResponse"

// ErrUnsupported is returned in first-page-only mode for any request beyond
// the first page.
var ErrUnsupported = errors.New("pagination beyond the first page is not supported")

// Mode selects the pagination behavior. ModeFull is the authoritative
// behavior; ModeFirstPageOnly reproduces the restricted legacy path, which
// never skips and rejects any startIndex other than 1.
type Mode string

const (
	ModeFull          Mode = "full"
	ModeFirstPageOnly Mode = "first-page-only"
)

// BuildPage converts a SCIM pagination request into the upstream query.
// startIndex is 1-based, the upstream skip is 0-based.
func (m Mode) BuildPage(startIndex, count int, filterFragment string) (graph.PageQuery, error) {
	if m == ModeFirstPageOnly {
		if startIndex != 1 {
			return graph.PageQuery{}, ErrUnsupported
		}

		return graph.PageQuery{Filter: filterFragment, Top: count}, nil
	}

	skip := startIndex - 1
	if skip < 0 {
		skip = 0
	}

	return graph.PageQuery{
		Filter:    filterFragment,
		Skip:      skip,
		Top:       count,
		WithCount: true,
	}, nil
}

// ListResponse is the SCIM paginated list envelope.
//
//nolint:tagliatelle
type ListResponse struct {
	Schemas      []string         `json:"schemas"`
	TotalResults int              `json:"totalResults"`
	StartIndex   int              `json:"startIndex"`
	ItemsPerPage int              `json:"itemsPerPage"`
	Resources    []map[string]any `json:"Resources"`
}

// Assemble wraps one upstream page into the SCIM envelope. totalResults is
// the upstream-reported total; when the upstream omitted it, the page length
// stands in as an approximation. itemsPerPage echoes the requested count, not
// the number of resources actually returned.
func Assemble(resources []map[string]any, upstreamCount *int, startIndex, count int) ListResponse {
	total := len(resources)
	if upstreamCount != nil {
		total = *upstreamCount
	}

	if resources == nil {
		resources = []map[string]any{}
	}

	return ListResponse{
		Schemas:      []string{SchemaListResponse},
		TotalResults: total,
		StartIndex:   startIndex,
		ItemsPerPage: count,
		Resources:    resources,
	}
}
