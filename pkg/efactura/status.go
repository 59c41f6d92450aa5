package efactura

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/beevik/etree"
)

// Processing states reported by stareMesaj.
const (
	StateOK         = "ok"          // processed, download id available
	StateFailed     = "nok"         // rejected; download the error report
	StateProcessing = "in prelucrare"
	StateXMLErrors  = "XML cu erori nepreluat de sistem"
)

// MessageState is the parsed stareMesaj response.
type MessageState struct {
	State      string
	DownloadID string // id_descarcare, set once processing finished
}

// Done reports whether processing has finished (successfully or not).
func (s *MessageState) Done() bool { return s.State != StateProcessing }

// GetMessageState queries the processing state of a previously uploaded
// document by its upload index.
func (c *Client) GetMessageState(ctx context.Context, uploadIndex string) (*MessageState, error) {
	if uploadIndex == "" {
		return nil, fmt.Errorf("%w: upload index is required", ErrAPI)
	}

	q := url.Values{}
	q.Set("id_incarcare", uploadIndex)
	raw, err := c.do(ctx, http.MethodGet, c.baseURL+"/stareMesaj?"+q.Encode(), "", nil, maxResponseBytes)
	if err != nil {
		return nil, err
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(raw); err != nil {
		return nil, fmt.Errorf("%w: unparseable state response: %s", ErrAPI, excerpt(raw))
	}
	header := doc.Root()
	if header == nil || header.Tag != "header" {
		return nil, fmt.Errorf("%w: unexpected state response: %s", ErrAPI, excerpt(raw))
	}
	if errs := header.SelectElements("Errors"); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrAPI, errs[0].SelectAttrValue("errorMessage", "state query rejected"))
	}

	return &MessageState{
		State:      header.SelectAttrValue("stare", ""),
		DownloadID: header.SelectAttrValue("id_descarcare", ""),
	}, nil
}
