package httpx

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ariefcatur/go-cake-orders.git/internal/metrics"
	"github.com/ariefcatur/go-cake-orders.git/internal/orders"
	"github.com/ariefcatur/go-cake-orders.git/internal/session"
	"github.com/ariefcatur/go-cake-orders.git/internal/wizard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopPublisher struct{}

func (nopPublisher) PublishConfirmed(_ context.Context, _ orders.Envelope) error { return nil }

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	m := metrics.New("test")
	svc := wizard.NewService(
		session.NewMemoryStore(time.Hour),
		orders.NewFormatter("wa.me", "19453425041", "$"),
		"simulated-form.com",
		nopPublisher{},
		m, log, "cake-wizard",
	)
	r := NewRouter(m)
	(&WizardHandler{Wizard: svc, Log: log}).Register(r)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, method, url, body string) (int, map[string]any) {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, rd)
	require.NoError(t, err)
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	out := map[string]any{}
	if res.StatusCode != http.StatusNoContent {
		require.NoError(t, json.NewDecoder(res.Body).Decode(&out))
	}
	return res.StatusCode, out
}

func TestWizardHandler_Flow(t *testing.T) {
	srv := newTestServer(t)

	code, body := do(t, http.MethodPost, srv.URL+"/sessions", "")
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "input", body["stage"])
	base := srv.URL + "/sessions/" + body["sessionId"].(string)

	code, body = do(t, http.MethodPatch, base+"/fields",
		`{"fields":{"customerName":"Aisha Khan","occasion":"Birthday","totalPrice":"75.00","amountPaidToday":"25.00"}}`)
	require.Equal(t, http.StatusOK, code)
	rec := body["record"].(map[string]any)
	assert.Equal(t, "Aisha Khan", rec["customerName"])
	assert.Equal(t, "50", rec["amountDueAtPickup"])
	amounts := body["amounts"].(map[string]any)
	assert.Equal(t, "75.00", amounts["totalPrice"])
	assert.Equal(t, "25.00", amounts["amountPaidToday"])
	assert.Equal(t, "50.00", amounts["amountDueAtPickup"])

	start := time.Now()
	code, body = do(t, http.MethodPatch, base+"/fields", `{"field":"totalPrice","value":"1e99999999"}`)
	require.Equal(t, http.StatusOK, code)
	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, "-25.00", body["amounts"].(map[string]any)["amountDueAtPickup"])
	code, _ = do(t, http.MethodPatch, base+"/fields", `{"field":"totalPrice","value":"75.00"}`)
	require.Equal(t, http.StatusOK, code)

	code, body = do(t, http.MethodPatch, base+"/fields", `{"field":"amountDueAtPickup","value":"1"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, codeReadOnlyField, body["code"])

	code, body = do(t, http.MethodPost, base+"/confirm", "")
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, codeInvalidTransition, body["code"])

	code, body = do(t, http.MethodPost, base+"/link", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "link_generated", body["stage"])
	assert.Contains(t, body["reviewLink"], "https://simulated-form.com/order-review?data=")

	code, body = do(t, http.MethodPatch, base+"/fields", `{"field":"occasion","value":"Wedding"}`)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, codeRecordFrozen, body["code"])

	code, _ = do(t, http.MethodPost, base+"/access", "")
	require.Equal(t, http.StatusOK, code)

	code, body = do(t, http.MethodPost, base+"/confirm", "")
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, codeTermsNotAccepted, body["code"])

	code, _ = do(t, http.MethodPost, base+"/terms", `{"accepted":true}`)
	require.Equal(t, http.StatusOK, code)

	code, body = do(t, http.MethodPost, base+"/confirm", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "confirmed", body["stage"])
	conf := body["confirmation"].(map[string]any)
	assert.Contains(t, conf["message"], "Customer Name: Aisha Khan")
	assert.Contains(t, conf["link"], "https://wa.me/19453425041?text=")
	assert.Contains(t, conf["link"], "Aisha%20Khan")

	code, body = do(t, http.MethodPost, base+"/reset", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "input", body["stage"])
	assert.Nil(t, body["confirmation"])

	code, _ = do(t, http.MethodDelete, base, "")
	assert.Equal(t, http.StatusNoContent, code)
	code, body = do(t, http.MethodGet, base, "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, codeSessionNotFound, body["code"])
}

func TestWizardHandler_BadRequests(t *testing.T) {
	srv := newTestServer(t)
	_, body := do(t, http.MethodPost, srv.URL+"/sessions", "")
	base := srv.URL + "/sessions/" + body["sessionId"].(string)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
		code   string
	}{
		{"invalid json", http.MethodPatch, "/fields", `{`, http.StatusBadRequest, codeInvalidJSON},
		{"empty edit", http.MethodPatch, "/fields", `{}`, http.StatusBadRequest, codeInvalidJSON},
		{"unknown field", http.MethodPatch, "/fields", `{"field":"colour","value":"pink"}`, http.StatusBadRequest, codeUnknownField},
		{"terms before review", http.MethodPost, "/terms", `{"accepted":true}`, http.StatusConflict, codeInvalidTransition},
		{"terms invalid json", http.MethodPost, "/terms", `nope`, http.StatusBadRequest, codeInvalidJSON},
		{"access before link", http.MethodPost, "/access", ``, http.StatusConflict, codeInvalidTransition},
		{"oversized edit", http.MethodPatch, "/fields", `{"field":"decorationDetails","value":"` + strings.Repeat("x", maxBodyBytes) + `"}`, http.StatusBadRequest, codeInvalidJSON},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			code, body := do(t, tc.method, base+tc.path, tc.body)
			assert.Equal(t, tc.status, code)
			assert.Equal(t, tc.code, body["code"])
		})
	}
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	srv := newTestServer(t)

	res, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	b, _ := io.ReadAll(res.Body)
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "ok", string(b))

	res, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	b, _ = io.ReadAll(res.Body)
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, string(b), "go_goroutines")
}
