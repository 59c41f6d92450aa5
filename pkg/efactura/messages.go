package efactura

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Message types returned by the message list endpoints.
const (
	MessageTypeReceived  = "FACTURA PRIMITA"
	MessageTypeSent      = "FACTURA TRIMISA"
	MessageTypeErrors    = "ERORI FACTURA"
	MessageTypeRCMessage = "MESAJ CUMPARATOR PRIMIT"
)

// Message is one entry of the taxpayer message list.
type Message struct {
	ID        string `json:"id"`
	CreatedAt string `json:"data_creare"` // yyyyMMddHHmm, as sent by ANAF
	CIF       string `json:"cif"`
	RequestID string `json:"id_solicitare"`
	Details   string `json:"detalii"`
	Type      string `json:"tip"`
}

// Created parses the ANAF timestamp of the message.
func (m Message) Created() (time.Time, error) {
	return time.Parse("200601021504", m.CreatedAt)
}

// MessageList is the parsed listaMesajeFactura response.
type MessageList struct {
	Messages []Message `json:"mesaje"`
	Serial   string    `json:"serial"`
	CUI      string    `json:"cui"`
	Title    string    `json:"titlu"`
	Error    string    `json:"eroare"`
}

// ListMessages fetches the messages of the last `days` days (1..60) for the
// given CIF. An empty list is not an error; ANAF reports it in the `eroare`
// field, which is surfaced as ErrAPI only when no messages came back.
func (c *Client) ListMessages(ctx context.Context, cif string, days int) (*MessageList, error) {
	if cif == "" {
		return nil, fmt.Errorf("%w: cif is required", ErrAPI)
	}
	if days < 1 || days > 60 {
		return nil, fmt.Errorf("%w: days must be between 1 and 60", ErrAPI)
	}

	q := url.Values{}
	q.Set("zile", strconv.Itoa(days))
	q.Set("cif", cif)
	return c.fetchMessages(ctx, c.baseURL+"/listaMesajeFactura?"+q.Encode())
}

// ListMessagesPaged fetches one page of messages in the [start, end)
// interval (unix milliseconds, at most 60 days apart). Pages are 1-based.
func (c *Client) ListMessagesPaged(ctx context.Context, cif string, start, end time.Time, page int) (*MessageList, error) {
	if cif == "" {
		return nil, fmt.Errorf("%w: cif is required", ErrAPI)
	}
	if page < 1 {
		return nil, fmt.Errorf("%w: page must be at least 1", ErrAPI)
	}

	q := url.Values{}
	q.Set("startTime", strconv.FormatInt(start.UnixMilli(), 10))
	q.Set("endTime", strconv.FormatInt(end.UnixMilli(), 10))
	q.Set("cif", cif)
	q.Set("pagina", strconv.Itoa(page))
	return c.fetchMessages(ctx, c.baseURL+"/listaMesajePaginatieFactura?"+q.Encode())
}

func (c *Client) fetchMessages(ctx context.Context, url string) (*MessageList, error) {
	raw, err := c.do(ctx, http.MethodGet, url, "", nil, maxResponseBytes)
	if err != nil {
		return nil, err
	}

	var list MessageList
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("%w: unparseable message list: %s", ErrAPI, excerpt(raw))
	}
	if list.Error != "" && len(list.Messages) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrAPI, list.Error)
	}
	return &list, nil
}
