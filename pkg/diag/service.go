// Package diag exposes the Edge Diagnostics API operations: DNS lookups
// through an edge server and error-reference translation.
package diag

import (
	"context"
	"encoding/json"

	"akcli/pkg/client"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	digEndpoint       = "/edge-diagnostics/v1/dig"
	translateEndpoint = "/edge-diagnostics/v1/error-translator"
)

// QueryTypes lists the DNS record types the dig operation accepts.
var QueryTypes = []string{"A", "AAAA", "SOA", "CNAME", "PTR", "NS", "TXT", "MX", "SRV", "CAA", "ANY"}

// IsValidQueryType reports whether queryType is a supported DNS record type.
func IsValidQueryType(queryType string) bool {
	for _, qt := range QueryTypes {
		if qt == queryType {
			return true
		}
	}
	return false
}

type digRequest struct {
	IsGTMHostname bool   `json:"isGtmHostname"`
	QueryType     string `json:"queryType"`
	Hostname      string `json:"hostname"`
}

type translateRequest struct {
	ErrorCode        string `json:"errorCode"`
	TraceForwardLogs bool   `json:"traceForwardLogs"`
}

// Service runs diagnostic operations through the request pipeline.
type Service struct {
	client *client.Client
	logger zerolog.Logger
}

// NewService creates a diagnostics service over c.
func NewService(c *client.Client) *Service {
	return &Service{
		client: c,
		logger: log.With().Str("component", "diag").Logger(),
	}
}

// Dig resolves hostname through an edge server.
func (s *Service) Dig(ctx context.Context, hostname, queryType string) (*DigResponse, error) {
	s.logger.Debug().
		Str("hostname", hostname).
		Str("query_type", queryType).
		Msg("Running dig")

	payload := digRequest{
		IsGTMHostname: false,
		QueryType:     queryType,
		Hostname:      hostname,
	}

	data, err := s.client.Post(ctx, digEndpoint, payload, nil)
	if err != nil {
		return nil, err
	}

	var resp DigResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, &client.APIError{
			Kind:    client.KindInvalidResponse,
			Message: "cannot parse dig response",
			Err:     err,
		}
	}
	return &resp, nil
}

// Translate resolves an error reference ID into edge server logs. With
// trace enabled the API collects logs from every edge server involved in
// serving the failed request.
func (s *Service) Translate(ctx context.Context, id string, trace bool) (*TranslateResponse, error) {
	s.logger.Debug().
		Str("reference_id", id).
		Bool("trace", trace).
		Msg("Running error translation")

	payload := translateRequest{
		ErrorCode:        id,
		TraceForwardLogs: trace,
	}

	data, err := s.client.Post(ctx, translateEndpoint, payload, nil)
	if err != nil {
		return nil, err
	}

	var resp TranslateResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, &client.APIError{
			Kind:    client.KindInvalidResponse,
			Message: "cannot parse translate response",
			Err:     err,
		}
	}
	return &resp, nil
}
