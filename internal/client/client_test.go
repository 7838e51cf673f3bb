package client_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/TimurManjosov/volumediscount/internal/client"
	"github.com/TimurManjosov/volumediscount/internal/function"
	"github.com/TimurManjosov/volumediscount/internal/testutil"
)

func newClient(t *testing.T, key string) *client.Client {
	t.Helper()
	srv, _ := testutil.NewTestServer(t, "admin-key")
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return client.NewClient(ts.URL+"/", key)
}

func TestClient_SettingsLifecycle(t *testing.T) {
	c := newClient(t, "admin-key")
	ctx := context.Background()
	shop := "gid://shopify/Shop/42"

	got, err := c.GetSettings(ctx, shop)
	if err != nil {
		t.Fatalf("GetSettings: %v", err)
	}
	if got.ShopID != shop || got.Config != nil {
		t.Fatalf("GetSettings = %+v, want empty settings for %s", got, shop)
	}

	saved, err := c.SaveSettings(ctx, shop, []string{"gid://P/1"}, 30)
	if err != nil {
		t.Fatalf("SaveSettings: %v", err)
	}
	if saved.MinQty != 2 || saved.PercentOff != 30 {
		t.Fatalf("SaveSettings = %+v", saved)
	}

	result, err := c.EvaluateShop(ctx, shop, function.Cart{Lines: []function.CartLine{
		testutil.VariantLine("L1", "gid://P/1", 2),
	}})
	if err != nil {
		t.Fatalf("EvaluateShop: %v", err)
	}
	if len(result.Operations) != 1 {
		t.Fatalf("EvaluateShop operations = %d, want 1", len(result.Operations))
	}

	if err := c.DeleteSettings(ctx, shop); err != nil {
		t.Fatalf("DeleteSettings: %v", err)
	}
	got, err = c.GetSettings(ctx, shop)
	if err != nil {
		t.Fatalf("GetSettings: %v", err)
	}
	if got.Config != nil {
		t.Fatalf("Config = %+v after delete, want nil", got.Config)
	}
}

func TestClient_ValidationErrorIsAPIError(t *testing.T) {
	c := newClient(t, "admin-key")

	_, err := c.SaveSettings(context.Background(), "shop", nil, 90)
	var apiErr *client.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusBadRequest {
		t.Fatalf("StatusCode = %d, want 400", apiErr.StatusCode)
	}
}

func TestClient_WrongKey(t *testing.T) {
	c := newClient(t, "wrong")

	_, err := c.SaveSettings(context.Background(), "shop", []string{"p"}, 10)
	var apiErr *client.APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusForbidden {
		t.Fatalf("err = %v, want 403 APIError", err)
	}
}

func TestClient_Run(t *testing.T) {
	c := newClient(t, "")
	value := `{"products":["gid://P/1"],"percentOff":5}`

	result, err := c.Run(context.Background(), function.RunInput{
		Shop: &function.Shop{Metafield: &function.Metafield{Value: &value}},
		Cart: function.Cart{Lines: []function.CartLine{testutil.VariantLine("L1", "gid://P/1", 2)}},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	c0 := result.Operations[0].ProductDiscountsAdd.Candidates[0]
	if c0.Message != "Buy 2, get 5% off" {
		t.Fatalf("Message = %q", c0.Message)
	}
}
