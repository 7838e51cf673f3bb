package testutil

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/TimurManjosov/volumediscount/internal/rules"
)

func TestNewTestServer(t *testing.T) {
	server, memStore := NewTestServer(t, "test-key")

	if server == nil {
		t.Fatal("Expected non-nil server")
	}
	if memStore == nil {
		t.Fatal("Expected non-nil store")
	}
}

func TestHTTPRequest_Do(t *testing.T) {
	server, _ := NewTestServer(t, "test-key")
	handler := server.Router()

	req := &HTTPRequest{
		Method: http.MethodGet,
		Path:   "/healthz",
	}

	rr := req.Do(t, handler)

	if rr.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rr.Code)
	}
	if rr.Body.String() != "ok" {
		t.Errorf("Expected body 'ok', got '%s'", rr.Body.String())
	}
}

func TestHTTPRequest_DoWithBodyAndHeaders(t *testing.T) {
	server, _ := NewTestServer(t, "test-key")
	handler := server.Router()

	req := &HTTPRequest{
		Method:  http.MethodPut,
		Path:    "/v1/shops/shop-1/volume-discount",
		Body:    `{"products":["gid://P/1"],"percentOff":10}`,
		Headers: Bearer("test-key"),
	}

	rr := req.Do(t, handler)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestSeedSettings(t *testing.T) {
	server, memStore := NewTestServer(t, "test-key")
	ctx := context.Background()

	cfg := rules.NewDiscountConfig([]string{"gid://P/1"}, 25)
	if err := SeedSettings(ctx, memStore, "shop-1", cfg); err != nil {
		t.Fatalf("SeedSettings failed: %v", err)
	}

	rr := (&HTTPRequest{Method: http.MethodGet, Path: "/v1/shops/shop-1/volume-discount"}).Do(t, server.Router())
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `"percentOff":25`) {
		t.Errorf("Expected seeded config in body, got %s", rr.Body.String())
	}
}

func TestCartBody(t *testing.T) {
	got := CartBody(t, VariantLine("L1", "gid://P/1", 3))
	for _, want := range []string{`"cart"`, `"id":"L1"`, `"__typename":"ProductVariant"`, `"quantity":3`} {
		if !strings.Contains(got, want) {
			t.Errorf("CartBody missing %s: %s", want, got)
		}
	}
	if empty := CartBody(t); !strings.Contains(empty, `"lines":[]`) {
		t.Errorf("empty CartBody = %s, want empty lines array", empty)
	}
}
