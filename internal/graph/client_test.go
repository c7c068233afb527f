package graph

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := NewClient(Options{
		BaseURL: srv.URL + "/beta/",
		Tokens:  StaticToken("secret-token"),
	})

	return client, srv
}

func TestClient_URL(t *testing.T) {
	c := NewClient(Options{BaseURL: "https://graph.microsoft.com/beta/"})

	assert.Equal(t, "https://graph.microsoft.com/beta/deviceManagement/intents", c.URL("deviceManagement/intents"))
	assert.Equal(t, "https://graph.microsoft.com/beta/deviceManagement/intents", c.URL("/deviceManagement/intents"))
	assert.Equal(t, "https://other.example/next?$skiptoken=1", c.URL("https://other.example/next?$skiptoken=1"))
}

func TestClient_FetchPage_SendsHeaders(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/beta/deviceManagement/deviceCompliancePolicies", r.URL.Path)
		assert.Equal(t, "Bearer secret-token", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))

		_, err := uuid.Parse(r.Header.Get("client-request-id"))
		assert.NoError(t, err, "client-request-id must be a UUID")

		fmt.Fprint(w, `{"value":[{"id":"c1","displayName":"Baseline"}],"@odata.nextLink":"https://next.example/page2"}`)
	})

	page, err := client.FetchPage(context.Background(), "deviceManagement/deviceCompliancePolicies")
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "c1", page.Items[0].String("id"))
	assert.Equal(t, "https://next.example/page2", page.NextLink)
}

func TestClient_FetchOne(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "settings", r.URL.Query().Get("$expand"))
		fmt.Fprint(w, `{"id":"p1","settings":[{"id":"0"}]}`)
	})

	record, err := client.FetchOne(context.Background(), "deviceManagement/configurationPolicies/p1?$expand=settings")
	require.NoError(t, err)
	assert.Equal(t, "p1", record.String("id"))
	assert.Len(t, record.Slice("settings"), 1)
}

func TestClient_StatusError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("request-id", "req-42")
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"error":{"code":"Forbidden","message":"Missing scope DeviceManagementConfiguration.Read.All"}}`)
	})

	_, err := client.FetchPage(context.Background(), "deviceManagement/deviceConfigurations")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnexpectedStatusCode))

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusForbidden, statusErr.StatusCode)
	assert.Equal(t, "Forbidden", statusErr.Code)
	assert.Equal(t, "req-42", statusErr.RequestID)
	assert.Contains(t, err.Error(), "Missing scope")
}

func TestClient_StatusErrorWithoutEnvelope(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		fmt.Fprint(w, strings.Repeat("x", 500))
	})

	_, err := client.FetchOne(context.Background(), "deviceManagement/intents/1")

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, strings.Repeat("x", errorSnippetLength)+"...", statusErr.Message)
}

func TestClient_ResponseTooLarge(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintf(w, `{"value":[],"pad":%q}`, strings.Repeat("a", 2048))
	}))
	defer srv.Close()

	client := NewClient(Options{BaseURL: srv.URL, BufferSizeKb: 1})

	_, err := client.FetchPage(context.Background(), "big")
	assert.True(t, errors.Is(err, ErrResponseTooLarge))
}

func TestClient_TokenError(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true }))
	defer srv.Close()

	client := NewClient(Options{BaseURL: srv.URL, Tokens: StaticToken("")})

	_, err := client.FetchOne(context.Background(), "x")
	assert.True(t, errors.Is(err, ErrNoToken))
	assert.False(t, called, "no request may be sent without a token")
}

func TestClient_InvalidJSON(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"value": [`)
	})

	_, err := client.FetchPage(context.Background(), "broken")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode response")
}

func TestClient_ContextCanceled(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{}`)
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.FetchOne(ctx, "x")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEnvToken(t *testing.T) {
	t.Setenv("POLICYSCOPE_GRAPH_TOKEN", " tok ")

	token, err := EnvToken("POLICYSCOPE_GRAPH_TOKEN").Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok", token)

	_, err = EnvToken("POLICYSCOPE_UNSET_TOKEN_VAR").Token(context.Background())
	assert.ErrorIs(t, err, ErrNoToken)
}
