package efactura

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/beevik/etree"
)

// UploadStandard selects the document standard declared on upload.
const (
	StandardUBL  = "UBL"
	StandardCN   = "CN" // credit note
	StandardCII  = "CII"
	StandardRASP = "RASP"
)

// UploadResult is the parsed upload acknowledgment.
type UploadResult struct {
	UploadIndex string // index_incarcare, used later with GetMessageState
	Errors      []string
}

// Accepted reports whether ANAF accepted the document for processing.
func (r *UploadResult) Accepted() bool { return len(r.Errors) == 0 && r.UploadIndex != "" }

// UploadOption adjusts the upload query.
type UploadOption func(url.Values)

// WithStandard overrides the declared standard (default UBL).
func WithStandard(standard string) UploadOption {
	return func(q url.Values) { q.Set("standard", standard) }
}

// AsSelfBilled marks the upload as a self-billed invoice (autofactura).
func AsSelfBilled() UploadOption {
	return func(q url.Values) { q.Set("autofactura", "DA") }
}

// Upload submits an invoice XML document for the given taxpayer CIF and
// returns the upload index assigned by ANAF, or the remote error messages.
func (c *Client) Upload(ctx context.Context, xml []byte, cif string, opts ...UploadOption) (*UploadResult, error) {
	if len(xml) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrAPI)
	}
	if cif == "" {
		return nil, fmt.Errorf("%w: cif is required", ErrAPI)
	}

	q := url.Values{}
	q.Set("standard", StandardUBL)
	q.Set("cif", cif)
	for _, opt := range opts {
		opt(q)
	}

	raw, err := c.do(ctx, http.MethodPost, c.baseURL+"/upload?"+q.Encode(),
		"text/plain", bytes.NewReader(xml), maxResponseBytes)
	if err != nil {
		return nil, err
	}
	return parseUploadResponse(raw)
}

// parseUploadResponse reads the XML acknowledgment:
//
//	<header ExecutionStatus="0" index_incarcare="5001234"/>
//
// ExecutionStatus "1" carries one or more <Errors errorMessage="..."/>
// children. An unparseable body is reported as ErrAPI rather than swallowed.
func parseUploadResponse(raw []byte) (*UploadResult, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(raw); err != nil {
		return nil, fmt.Errorf("%w: unparseable upload response: %s", ErrAPI, excerpt(raw))
	}
	header := doc.Root()
	if header == nil || header.Tag != "header" {
		return nil, fmt.Errorf("%w: unexpected upload response: %s", ErrAPI, excerpt(raw))
	}

	res := &UploadResult{UploadIndex: header.SelectAttrValue("index_incarcare", "")}
	for _, e := range header.SelectElements("Errors") {
		if msg := strings.TrimSpace(e.SelectAttrValue("errorMessage", "")); msg != "" {
			res.Errors = append(res.Errors, msg)
		}
	}
	if header.SelectAttrValue("ExecutionStatus", "") != "0" && len(res.Errors) == 0 {
		res.Errors = append(res.Errors, "upload rejected without detail")
	}
	return res, nil
}
