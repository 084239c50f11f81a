package api

import (
	"strings"

	"github.com/nihilcoder/promptlab/internal/domain"
)

// MessageResponse is a plain acknowledgement.
type MessageResponse struct {
	Message string `json:"message" doc:"Human-readable result"`
}

// MessageOutput wraps the message response for Huma.
type MessageOutput struct {
	Body MessageResponse
}

// PaginationResponse describes the window a list was cut from.
type PaginationResponse struct {
	Total   int64 `json:"total" doc:"Rows matching the filters"`
	Limit   int   `json:"limit" doc:"Page size used"`
	Offset  int   `json:"offset" doc:"Rows skipped"`
	HasMore bool  `json:"hasMore" doc:"More rows exist past this page"`
}

func newPaginationResponse(p domain.Pagination) PaginationResponse {
	return PaginationResponse{
		Total:   p.Total,
		Limit:   p.Limit,
		Offset:  p.Offset,
		HasMore: p.HasMore,
	}
}

// splitCSV splits a comma-separated query value, dropping blanks.
func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for part := range strings.SplitSeq(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
