package rest_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/remaclabs/remac/pkg/adapters/rest"
	"github.com/remaclabs/remac/pkg/domain"
)

func TestIssuer_Issue(t *testing.T) {
	var gotMethod, gotPath, gotKey string
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotKey = r.Header.Get("X-API-Key")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{"uuid": "abc-123"})
	}))
	defer srv.Close()

	issuer := rest.New(srv.URL, rest.WithAPIKey("secret"))

	resp, err := issuer.Issue(context.Background(), domain.Call{
		Method:  domain.MethodPost,
		Path:    "/firewall/rules",
		Payload: map[string]any{"interface": "wan"},
	})
	require.NoError(t, err)

	assert.Equal(t, "POST", gotMethod)
	assert.Equal(t, "/firewall/rules", gotPath)
	assert.Equal(t, "secret", gotKey)
	assert.Equal(t, "wan", gotBody["interface"])

	assert.Equal(t, http.StatusCreated, resp.Status)
	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "abc-123", data["uuid"])
}

func TestIssuer_QueryParams(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("limit")
		_ = json.NewEncoder(w).Encode(map[string]any{"rows": []any{}})
	}))
	defer srv.Close()

	issuer := rest.New(srv.URL)
	_, err := issuer.Issue(context.Background(), domain.Call{
		Method: domain.MethodGet,
		Path:   "/firewall/rules",
		Params: map[string]any{"limit": 50},
	})
	require.NoError(t, err)
	assert.Equal(t, "50", gotQuery)
}

func TestIssuer_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_ = json.NewEncoder(w).Encode(map[string]any{"message": "validation failed"})
	}))
	defer srv.Close()

	issuer := rest.New(srv.URL)
	resp, err := issuer.Issue(context.Background(), domain.Call{
		Method: domain.MethodPost,
		Path:   "/interfaces",
	})

	require.Error(t, err)
	// The body still comes back so callers can inspect the failure.
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Status)
	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "validation failed", data["message"])
}

func TestIssuer_NonJSONBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("pong"))
	}))
	defer srv.Close()

	issuer := rest.New(srv.URL)
	resp, err := issuer.Issue(context.Background(), domain.Call{
		Method: domain.MethodGet,
		Path:   "/ping",
	})
	require.NoError(t, err)
	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "pong", data["body"])
}
