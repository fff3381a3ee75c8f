package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/storefront/internal/domain/product"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := New(srv.URL, WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	return c
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestClient_List_EndpointDispatch(t *testing.T) {
	tests := []struct {
		name      string
		params    product.ListParams
		wantPath  string
		wantQuery map[string]string
	}{
		{
			name:      "plain list",
			params:    product.ListParams{Limit: 12, Skip: 24},
			wantPath:  "/products",
			wantQuery: map[string]string{"limit": "12", "skip": "24"},
		},
		{
			name:      "category routes to category endpoint",
			params:    product.ListParams{Limit: 12, Category: "beauty"},
			wantPath:  "/products/category/beauty",
			wantQuery: map[string]string{"limit": "12", "skip": "0"},
		},
		{
			name:      "all sentinel uses plain list",
			params:    product.ListParams{Limit: 12, Category: "all"},
			wantPath:  "/products",
			wantQuery: map[string]string{"limit": "12", "skip": "0"},
		},
		{
			name:      "search takes precedence over category",
			params:    product.ListParams{Limit: 12, Category: "beauty", Query: "phone"},
			wantPath:  "/products/search",
			wantQuery: map[string]string{"limit": "12", "skip": "0", "q": "phone"},
		},
		{
			name:      "whitespace-only query is not a search",
			params:    product.ListParams{Limit: 12, Query: "   "},
			wantPath:  "/products",
			wantQuery: map[string]string{"limit": "12", "skip": "0"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, tt.wantPath, r.URL.Path)
				for k, v := range tt.wantQuery {
					assert.Equal(t, v, r.URL.Query().Get(k), "query param %s", k)
				}
				writeJSON(t, w, product.Page{Total: 1})
			})

			page, err := c.List(context.Background(), tt.params)
			require.NoError(t, err)
			assert.Equal(t, 1, page.Total)
		})
	}
}

func TestClient_List_DecodesPage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"products": [{"id": 1, "title": "Mascara", "price": 9.99, "rating": 4.5}],
			"total": 194, "skip": 0, "limit": 12
		}`))
	})

	page, err := c.List(context.Background(), product.ListParams{Limit: 12})
	require.NoError(t, err)
	require.Len(t, page.Products, 1)
	assert.EqualValues(t, 1, page.Products[0].ID)
	assert.Equal(t, "9.99", page.Products[0].Price.String())
	require.NotNil(t, page.Products[0].Rating)
	assert.InDelta(t, 4.5, *page.Products[0].Rating, 1e-9)
	assert.Equal(t, 194, page.Total)
}

func TestClient_Get_NotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products/999", r.URL.Path)
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"Product with id '999' not found"}`))
	})

	_, err := c.Get(context.Background(), 999)
	require.ErrorIs(t, err, product.ErrNotFound)
}

func TestClient_Get_ServerErrorMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"message":"database exploded"}`))
	})

	_, err := c.Get(context.Background(), 1)
	require.Error(t, err)

	var ce *Error
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, http.StatusInternalServerError, ce.Status)
	assert.Equal(t, "database exploded", ce.Message)
}

func TestClient_Get_StatusTextFallback(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`not json`))
	})

	_, err := c.Get(context.Background(), 1)
	var ce *Error
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, http.StatusBadGateway, ce.Status)
	assert.Equal(t, http.StatusText(http.StatusBadGateway), ce.Message)
}

func TestClient_Create(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/products/add", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "New thing", body["title"])

		writeJSON(t, w, product.Product{ID: 195, Title: "New thing"})
	})

	title := "New thing"
	p, err := c.Create(context.Background(), product.Draft{Title: &title})
	require.NoError(t, err)
	assert.EqualValues(t, 195, p.ID)
}

func TestClient_UpdateDelete(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products/7", r.URL.Path)
		switch r.Method {
		case http.MethodPut:
			writeJSON(t, w, product.Product{ID: 7, Title: "Renamed"})
		case http.MethodDelete:
			writeJSON(t, w, product.Product{ID: 7, Title: "Gone"})
		default:
			t.Errorf("unexpected method %s", r.Method)
		}
	})

	title := "Renamed"
	p, err := c.Update(context.Background(), 7, product.Draft{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", p.Title)

	p, err = c.Delete(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "Gone", p.Title)
}

func TestClient_Categories(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products/categories", r.URL.Path)
		_, _ = w.Write([]byte(`[{"slug":"beauty","name":"Beauty"},"groceries"]`))
	})

	opts, err := c.Categories(context.Background())
	require.NoError(t, err)
	require.Len(t, opts, 2)
	assert.Equal(t, "beauty", opts[0].Value)
	assert.Equal(t, "Beauty", opts[0].Label)
	assert.Equal(t, "groceries", opts[1].Value)
}

func TestClient_Login(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/login", r.URL.Path)

		var creds map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		assert.Equal(t, "emilys", creds["username"])
		assert.Equal(t, "emilyspass", creds["password"])

		_, _ = w.Write([]byte(`{"id":1,"username":"emilys","accessToken":"token-123"}`))
	})

	s, err := c.Login(context.Background(), "emilys", "emilyspass")
	require.NoError(t, err)
	assert.Equal(t, "token-123", s.Token)
	assert.Equal(t, "emilys", s.Username)
}

func TestClient_TransportErrorNormalized(t *testing.T) {
	// Point at a closed server so the dial fails.
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	c, err := New(srv.URL, WithTimeout(time.Second))
	require.NoError(t, err)

	_, err = c.List(context.Background(), product.ListParams{Limit: 1})
	require.Error(t, err)

	var ce *Error
	require.True(t, errors.As(err, &ce))
	assert.Zero(t, ce.Status)
	assert.NotEmpty(t, ce.Message)
}
