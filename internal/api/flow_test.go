package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"policyscope/internal/aggregator"
	"policyscope/internal/graph"
	"policyscope/internal/models"
)

// newGraphStub serves two compliance pages and rejects intents.
func newGraphStub(t *testing.T) *httptest.Server {
	t.Helper()

	var srv *httptest.Server

	mux := http.NewServeMux()
	mux.HandleFunc("/beta/deviceManagement/deviceCompliancePolicies", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		page := map[string]any{
			"value": []any{map[string]any{
				"@odata.type":      "#microsoft.graph.windows10CompliancePolicy",
				"id":               "c1",
				"displayName":      "Windows compliance",
				"passwordRequired": true,
			}},
		}

		if r.URL.Query().Get("page") != "2" {
			page["@odata.nextLink"] = srv.URL + "/beta/deviceManagement/deviceCompliancePolicies?page=2"
		} else {
			page["value"] = []any{map[string]any{
				"@odata.type": "#microsoft.graph.iosCompliancePolicy",
				"id":          "c2",
				"displayName": "iOS compliance",
			}}
		}

		_ = json.NewEncoder(w).Encode(page)
	})
	mux.HandleFunc("/beta/deviceManagement/intents", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"code":"Forbidden","message":"missing scope"}}`))
	})

	srv = httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return srv
}

func TestFlow_GraphToAPI(t *testing.T) {
	stub := newGraphStub(t)

	client := graph.NewClient(graph.Options{
		BaseURL: stub.URL + "/beta",
		Tokens:  graph.StaticToken("test-token"),
	})

	agg := aggregator.New(client, []aggregator.Source{
		{Kind: models.SourceCompliancePolicies, Endpoints: []string{"deviceManagement/deviceCompliancePolicies"}},
		{Kind: models.SourceIntents, Endpoints: []string{"deviceManagement/intents"}},
	}, aggregator.Options{})

	s := NewServer(agg, nil, nil, nil)

	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/policies?platform=Windows", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp PoliciesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if len(resp.FailedSources) != 1 || resp.FailedSources[0] != "Security Baselines" {
		t.Errorf("FailedSources = %v, want [Security Baselines]", resp.FailedSources)
	}

	if resp.Total != 1 {
		t.Fatalf("Total = %d, want 1 Windows policy", resp.Total)
	}

	p := resp.Policies[0]
	if p.ID != "c1" || p.Family != models.FamilyCompliancePolicy {
		t.Errorf("policy = %+v", p)
	}

	if len(p.Settings) != 1 || p.Settings[0].Key != "Password Required" {
		t.Errorf("Settings = %+v", p.Settings)
	}

	rec = httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/policies/c2", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("GET /api/policies/c2 status = %d", rec.Code)
	}
}
