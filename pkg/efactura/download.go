package efactura

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// Download retrieves the processed document archive (a ZIP holding the
// signed invoice, or the error report for rejected uploads) by its download
// id, as returned by GetMessageState or the message list.
func (c *Client) Download(ctx context.Context, downloadID string) ([]byte, error) {
	if downloadID == "" {
		return nil, fmt.Errorf("%w: download id is required", ErrAPI)
	}

	q := url.Values{}
	q.Set("id", downloadID)
	raw, err := c.do(ctx, http.MethodGet, c.baseURL+"/descarcare?"+q.Encode(), "", nil, maxDownloadBytes)
	if err != nil {
		return nil, err
	}

	// A JSON body here means the API refused the request (invalid id,
	// expired archive); real archives start with the ZIP magic.
	if len(raw) < 4 || string(raw[:2]) != "PK" {
		return nil, fmt.Errorf("%w: download refused: %s", ErrAPI, excerpt(raw))
	}
	return raw, nil
}
