package efactura

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Document standards accepted by the public validation endpoints.
const (
	ValidateInvoice    = "FACT1"
	ValidateCreditNote = "FCN"
)

// ValidationResult is the verdict of the remote schematron validation.
type ValidationResult struct {
	State    string // "ok" or "nok"
	TraceID  string
	Messages []string
}

// Valid reports whether the document passed validation.
func (r *ValidationResult) Valid() bool { return r.State == "ok" }

type validationResponse struct {
	State    string `json:"stare"`
	TraceID  string `json:"trace_id"`
	Messages []struct {
		Message string `json:"message"`
	} `json:"Messages"`
}

// ValidateXML submits the document to the public validation endpoint, which
// runs the full legal schema and schematron ruleset remotely. No OAuth token
// is required.
func (c *Client) ValidateXML(ctx context.Context, xml []byte, standard string) (*ValidationResult, error) {
	if standard == "" {
		standard = ValidateInvoice
	}
	raw, err := c.doPublic(ctx, c.publicURL+"/validare/"+standard, xml)
	if err != nil {
		return nil, err
	}

	var resp validationResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("%w: unparseable validation response: %s", ErrAPI, excerpt(raw))
	}
	res := &ValidationResult{State: resp.State, TraceID: resp.TraceID}
	for _, m := range resp.Messages {
		res.Messages = append(res.Messages, m.Message)
	}
	return res, nil
}

// XMLToPDF converts an invoice document to the official PDF rendering via
// the public transformare endpoint. With validate=false the endpoint skips
// the validation step and converts as-is.
func (c *Client) XMLToPDF(ctx context.Context, xml []byte, standard string, validate bool) ([]byte, error) {
	if standard == "" {
		standard = ValidateInvoice
	}
	url := c.publicURL + "/transformare/" + standard
	if !validate {
		url += "/DA"
	}
	raw, err := c.doPublic(ctx, url, xml)
	if err != nil {
		return nil, err
	}

	// On failure the endpoint answers JSON instead of a PDF.
	if len(raw) < 4 || string(raw[:4]) != "%PDF" {
		var resp validationResponse
		if err := json.Unmarshal(raw, &resp); err == nil && len(resp.Messages) > 0 {
			return nil, fmt.Errorf("%w: %s", ErrAPI, resp.Messages[0].Message)
		}
		return nil, fmt.Errorf("%w: conversion refused: %s", ErrAPI, excerpt(raw))
	}
	return raw, nil
}

// doPublic posts an XML body to the unauthenticated webservicesp endpoints,
// bypassing the token source.
func (c *Client) doPublic(ctx context.Context, url string, xml []byte) ([]byte, error) {
	if len(xml) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrAPI)
	}
	pub := *c
	pub.tokens = nil
	return pub.do(ctx, http.MethodPost, url, "text/plain", bytes.NewReader(xml), maxDownloadBytes)
}
