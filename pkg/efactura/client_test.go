package efactura_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facturis/efactura-go/pkg/efactura"
)

func newTestClient(t *testing.T, handler http.Handler) (*efactura.Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := efactura.NewClient(efactura.EnvTest, efactura.StaticToken("test-token"),
		efactura.WithBaseURL(srv.URL),
		efactura.WithPublicBaseURL(srv.URL),
		efactura.WithRegistryURL(srv.URL+"/tva"),
	)
	require.NoError(t, err)
	return c, srv
}

func TestNewClient_UnknownEnvironment(t *testing.T) {
	_, err := efactura.NewClient("staging", efactura.StaticToken("x"))
	require.Error(t, err)
	assert.ErrorIs(t, err, efactura.ErrAPI)
}

func TestUpload_Accepted(t *testing.T) {
	var gotAuth, gotQuery string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/upload", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`<header xmlns="mfp:anaf:dgti:spv:respUploadFisier:v1" dateResponse="202506151200" ExecutionStatus="0" index_incarcare="5001234"/>`))
	}))

	res, err := c.Upload(context.Background(), []byte("<Invoice/>"), "12345678")
	require.NoError(t, err)
	assert.True(t, res.Accepted())
	assert.Equal(t, "5001234", res.UploadIndex)
	assert.Equal(t, "Bearer test-token", gotAuth)
	assert.Contains(t, gotQuery, "standard=UBL")
	assert.Contains(t, gotQuery, "cif=12345678")
}

func TestUpload_RemoteErrors(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<header ExecutionStatus="1"><Errors errorMessage="cif invalid"/></header>`))
	}))

	res, err := c.Upload(context.Background(), []byte("<Invoice/>"), "000")
	require.NoError(t, err)
	assert.False(t, res.Accepted())
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "cif invalid", res.Errors[0])
}

func TestUpload_InputChecks(t *testing.T) {
	c, _ := newTestClient(t, http.NotFoundHandler())

	_, err := c.Upload(context.Background(), nil, "123")
	assert.ErrorIs(t, err, efactura.ErrAPI)
	_, err = c.Upload(context.Background(), []byte("<Invoice/>"), "")
	assert.ErrorIs(t, err, efactura.ErrAPI)
}

func TestGetMessageState(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/stareMesaj", r.URL.Path)
		require.Equal(t, "5001234", r.URL.Query().Get("id_incarcare"))
		w.Write([]byte(`<header stare="ok" id_descarcare="987654"/>`))
	}))

	st, err := c.GetMessageState(context.Background(), "5001234")
	require.NoError(t, err)
	assert.Equal(t, efactura.StateOK, st.State)
	assert.Equal(t, "987654", st.DownloadID)
	assert.True(t, st.Done())
}

func TestGetMessageState_InProgress(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<header stare="in prelucrare"/>`))
	}))

	st, err := c.GetMessageState(context.Background(), "5001234")
	require.NoError(t, err)
	assert.False(t, st.Done())
	assert.Empty(t, st.DownloadID)
}

func TestListMessages(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/listaMesajeFactura", r.URL.Path)
		require.Equal(t, "30", r.URL.Query().Get("zile"))
		w.Write([]byte(`{"mesaje":[{"data_creare":"202506151330","cif":"12345678","id_solicitare":"5001234","detalii":"Factura cu id_incarcare=5001234","tip":"FACTURA TRIMISA","id":"333222"}],"serial":"abc","cui":"12345678","titlu":"Lista Mesaje"}`))
	}))

	list, err := c.ListMessages(context.Background(), "12345678", 30)
	require.NoError(t, err)
	require.Len(t, list.Messages, 1)
	m := list.Messages[0]
	assert.Equal(t, efactura.MessageTypeSent, m.Type)
	assert.Equal(t, "5001234", m.RequestID)

	created, err := m.Created()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 6, 15, 13, 30, 0, 0, time.UTC), created)
}

func TestListMessages_RangeChecks(t *testing.T) {
	c, _ := newTestClient(t, http.NotFoundHandler())
	_, err := c.ListMessages(context.Background(), "123", 0)
	assert.ErrorIs(t, err, efactura.ErrAPI)
	_, err = c.ListMessages(context.Background(), "123", 61)
	assert.ErrorIs(t, err, efactura.ErrAPI)
}

func TestListMessages_EmptyReportedAsError(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"eroare":"Nu exista mesaje in ultimele 30 zile","titlu":"Lista Mesaje"}`))
	}))

	_, err := c.ListMessages(context.Background(), "12345678", 30)
	require.Error(t, err)
	assert.ErrorIs(t, err, efactura.ErrAPI)
	assert.Contains(t, err.Error(), "Nu exista mesaje")
}

func TestDownload(t *testing.T) {
	payload := append([]byte("PK\x03\x04"), []byte("zip-payload")...)
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/descarcare", r.URL.Path)
		require.Equal(t, "987654", r.URL.Query().Get("id"))
		w.Write(payload)
	}))

	got, err := c.Download(context.Background(), "987654")
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestDownload_RefusedJSON(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"eroare":"id invalid"}`))
	}))

	_, err := c.Download(context.Background(), "987654")
	require.Error(t, err)
	assert.ErrorIs(t, err, efactura.ErrAPI)
}

func TestValidateXML(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/validare/FACT1", r.URL.Path)
		// The public endpoint must not receive the bearer token.
		require.Empty(t, r.Header.Get("Authorization"))
		w.Write([]byte(`{"stare":"nok","Messages":[{"message":"E: validari globale eroare"}],"trace_id":"abc-123"}`))
	}))

	res, err := c.ValidateXML(context.Background(), []byte("<Invoice/>"), "")
	require.NoError(t, err)
	assert.False(t, res.Valid())
	assert.Equal(t, "abc-123", res.TraceID)
	require.Len(t, res.Messages, 1)
}

func TestXMLToPDF(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/transformare/FACT1/DA", r.URL.Path)
		w.Write([]byte("%PDF-1.7 fake"))
	}))

	pdf, err := c.XMLToPDF(context.Background(), []byte("<Invoice/>"), "", false)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.7 fake", string(pdf))
}

func TestLookupCompany(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/tva", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.Write([]byte(`{"cod":200,"message":"SUCCESS","found":[{"date_generale":{"cui":12345678,"denumire":"FURNIZOR SRL","adresa":"CLUJ-NAPOCA, STR. PRINCIPALA 10"},"inregistrare_scop_Tva":{"scpTVA":true},"inregistrare_RTVAI":{"statusTvaIncasare":false},"stare_inactiv":{"statusInactivi":false}}],"notFound":[]}`))
	}))

	// The RO prefix is stripped before the query.
	company, err := c.LookupCompany(context.Background(), "RO12345678", time.Time{})
	require.NoError(t, err)
	assert.Equal(t, "12345678", company.CUI)
	assert.Equal(t, "FURNIZOR SRL", company.Name)
	assert.True(t, company.VATPayer)
	assert.False(t, company.Inactive)
}

func TestLookupCompany_NotFound(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"cod":200,"message":"SUCCESS","found":[],"notFound":[99999]}`))
	}))

	_, err := c.LookupCompany(context.Background(), "99999", time.Time{})
	require.Error(t, err)
	assert.ErrorIs(t, err, efactura.ErrAPI)
}

func TestLookupCompany_InvalidCUI(t *testing.T) {
	c, _ := newTestClient(t, http.NotFoundHandler())
	_, err := c.LookupCompany(context.Background(), "not-a-cui", time.Time{})
	assert.ErrorIs(t, err, efactura.ErrAPI)
}

func TestDo_HTTPErrorSurfaced(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	}))

	_, err := c.GetMessageState(context.Background(), "5001234")
	require.Error(t, err)
	assert.ErrorIs(t, err, efactura.ErrAPI)
	assert.Contains(t, err.Error(), "HTTP 401")
}
