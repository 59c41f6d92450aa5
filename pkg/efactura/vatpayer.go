package efactura

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Company is the registry record of one taxpayer, as returned by the public
// PlatitorTvaRest service.
type Company struct {
	CUI       string
	Name      string
	Address   string
	VATPayer  bool
	VATOnCash bool // plata TVA la incasare
	Inactive  bool
}

type registryQuery struct {
	CUI  int64  `json:"cui"`
	Date string `json:"data"`
}

type registryResponse struct {
	Code    int    `json:"cod"`
	Message string `json:"message"`
	Found   []struct {
		General struct {
			CUI     int64  `json:"cui"`
			Name    string `json:"denumire"`
			Address string `json:"adresa"`
		} `json:"date_generale"`
		VATRegistration struct {
			VATPayer bool `json:"scpTVA"`
		} `json:"inregistrare_scop_Tva"`
		VATOnCash struct {
			Active bool `json:"statusTvaIncasare"`
		} `json:"inregistrare_RTVAI"`
		Inactive struct {
			Inactive bool `json:"statusInactivi"`
		} `json:"stare_inactiv"`
	} `json:"found"`
	NotFound []int64 `json:"notFound"`
}

// LookupCompany queries the public VAT registry for a company by CUI at the
// given reference date (today when zero). The VATPayer flag feeds directly
// into ubl.Party. No OAuth token is required.
func (c *Client) LookupCompany(ctx context.Context, cui string, date time.Time) (*Company, error) {
	digits := strings.TrimPrefix(strings.TrimSpace(strings.ToUpper(cui)), "RO")
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid cui %q", ErrAPI, cui)
	}
	if date.IsZero() {
		date = time.Now()
	}

	body, err := json.Marshal([]registryQuery{{CUI: n, Date: date.Format("2006-01-02")}})
	if err != nil {
		return nil, err
	}

	pub := *c
	pub.tokens = nil
	raw, err := pub.do(ctx, http.MethodPost, c.registryURL, "application/json", bytes.NewReader(body), maxResponseBytes)
	if err != nil {
		return nil, err
	}

	var resp registryResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("%w: unparseable registry response: %s", ErrAPI, excerpt(raw))
	}
	if resp.Code != 200 {
		return nil, fmt.Errorf("%w: registry answered %d: %s", ErrAPI, resp.Code, resp.Message)
	}
	if len(resp.Found) == 0 {
		return nil, fmt.Errorf("%w: cui %s not found in registry", ErrAPI, digits)
	}

	f := resp.Found[0]
	return &Company{
		CUI:       strconv.FormatInt(f.General.CUI, 10),
		Name:      f.General.Name,
		Address:   f.General.Address,
		VATPayer:  f.VATRegistration.VATPayer,
		VATOnCash: f.VATOnCash.Active,
		Inactive:  f.Inactive.Inactive,
	}, nil
}
