package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/TimurManjosov/volumediscount/internal/api"
	"github.com/TimurManjosov/volumediscount/internal/function"
	"github.com/TimurManjosov/volumediscount/internal/rules"
	"github.com/TimurManjosov/volumediscount/internal/store"
)

// NewTestServer creates a test server with in-memory store for testing.
// Logs are discarded.
func NewTestServer(t *testing.T, adminKey string) (*api.Server, *store.MemoryStore) {
	t.Helper()
	return NewTestServerWithOptions(t, adminKey, api.Options{Logger: zerolog.Nop()})
}

// NewTestServerWithOptions is NewTestServer with explicit server options.
func NewTestServerWithOptions(t *testing.T, adminKey string, opts api.Options) (*api.Server, *store.MemoryStore) {
	t.Helper()
	memStore := store.NewMemoryStore()
	server := api.NewServer(memStore, adminKey, opts)
	return server, memStore
}

// HTTPRequest is a helper for making test HTTP requests.
type HTTPRequest struct {
	Method  string
	Path    string
	Body    string
	Headers map[string]string
}

// Do executes the HTTP request and returns the response recorder.
func (r *HTTPRequest) Do(t *testing.T, handler http.Handler) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	if r.Body != "" {
		body = bytes.NewBufferString(r.Body)
	}
	req := httptest.NewRequest(r.Method, r.Path, body)
	if r.Body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range r.Headers {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

// Bearer returns an Authorization header map for the given key.
func Bearer(key string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + key}
}

// SeedSettings writes a discount config for shopID directly to the store.
func SeedSettings(ctx context.Context, st store.Store, shopID string, cfg rules.DiscountConfig) error {
	value, err := cfg.Encode()
	if err != nil {
		return err
	}
	return SeedRawSettings(ctx, st, shopID, value)
}

// SeedRawSettings writes an arbitrary metafield value for shopID, including malformed ones.
func SeedRawSettings(ctx context.Context, st store.Store, shopID, value string) error {
	_, err := st.SetMetafield(ctx, store.SetParams{
		OwnerID:   shopID,
		Namespace: rules.Namespace,
		Key:       rules.Key,
		Type:      rules.MetafieldType,
		Value:     value,
	})
	return err
}

// VariantLine builds a ProductVariant cart line.
func VariantLine(id, productID string, quantity int) function.CartLine {
	return function.CartLine{
		ID:       id,
		Quantity: quantity,
		Merchandise: function.Merchandise{
			Typename: function.TypeNameProductVariant,
			ID:       "gid://shopify/ProductVariant/" + id,
			Product:  &function.Product{ID: productID},
		},
	}
}

// CartBody encodes lines as the body of the shop evaluate endpoint.
func CartBody(t *testing.T, lines ...function.CartLine) string {
	t.Helper()
	if lines == nil {
		lines = []function.CartLine{}
	}
	b, err := json.Marshal(map[string]any{"cart": function.Cart{Lines: lines}})
	if err != nil {
		t.Fatalf("encode cart: %v", err)
	}
	return string(b)
}
