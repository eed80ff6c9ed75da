package cep

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/backoffice/internal/apperr"
)

func TestLookup(t *testing.T) {
	ctx := context.Background()

	t.Run("maps the provider fields", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/ws/01001000/json/", r.URL.Path)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{
				"cep": "01001-000",
				"logradouro": "Praça da Sé",
				"bairro": "Sé",
				"localidade": "São Paulo",
				"uf": "SP"
			}`))
		}))
		defer srv.Close()

		addr, err := NewClient(srv.URL, nil).Lookup(ctx, "01001000")
		require.NoError(t, err)
		assert.Equal(t, "Praça da Sé", addr.Street)
		assert.Equal(t, "Sé", addr.Neighborhood)
		assert.Equal(t, "São Paulo", addr.City)
		assert.Equal(t, "SP", addr.Region)
	})

	t.Run("strips the hyphen before calling out", func(t *testing.T) {
		var gotPath string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			_, _ = w.Write([]byte(`{"localidade": "São Paulo", "uf": "SP"}`))
		}))
		defer srv.Close()

		_, err := NewClient(srv.URL, nil).Lookup(ctx, "01001-000")
		require.NoError(t, err)
		assert.Equal(t, "/ws/01001000/json/", gotPath)
	})

	t.Run("unknown code answers 200 with erro", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"erro": true}`))
		}))
		defer srv.Close()

		_, err := NewClient(srv.URL, nil).Lookup(ctx, "99999999")
		require.Error(t, err)
		assert.True(t, apperr.IsBusiness(err))
	})

	t.Run("malformed code answers 400", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
		}))
		defer srv.Close()

		_, err := NewClient(srv.URL, nil).Lookup(ctx, "abc")
		require.Error(t, err)
		assert.True(t, apperr.IsBusiness(err))
	})

	t.Run("server errors are transient, not business", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		_, err := NewClient(srv.URL, nil).Lookup(ctx, "01001000")
		require.Error(t, err)
		assert.False(t, apperr.IsBusiness(err))
		assert.False(t, apperr.IsNotFound(err))
	})

	t.Run("blank code never calls out", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("unexpected request")
		}))
		defer srv.Close()

		_, err := NewClient(srv.URL, nil).Lookup(ctx, "   ")
		require.Error(t, err)
		assert.True(t, apperr.IsBusiness(err))
	})
}
