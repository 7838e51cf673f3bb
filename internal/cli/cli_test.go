package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/TimurManjosov/volumediscount/internal/client"
	"github.com/TimurManjosov/volumediscount/internal/function"
	"github.com/TimurManjosov/volumediscount/internal/rules"
)

func useTempConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	old := configPath
	configPath = func() (string, error) { return path, nil }
	t.Cleanup(func() { configPath = old })
	t.Setenv(EnvBaseURL, "")
	t.Setenv(EnvAPIKey, "")
	return path
}

func TestInitAndLoadConfig(t *testing.T) {
	path := useTempConfig(t)

	if err := InitConfig(); err != nil {
		t.Fatalf("InitConfig: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file not written: %v", err)
	}

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.DefaultEnv != "dev" || cfg.Environments["dev"].BaseURL != "http://localhost:8080" {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestLoadConfig_Missing(t *testing.T) {
	useTempConfig(t)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if len(cfg.Environments) != 0 {
		t.Fatalf("Environments = %v, want empty", cfg.Environments)
	}
}

func TestGetEnvConfig_Precedence(t *testing.T) {
	useTempConfig(t)
	if err := InitConfig(); err != nil {
		t.Fatalf("InitConfig: %v", err)
	}

	// config file
	env, name, err := GetEnvConfig("", "", "")
	if err != nil {
		t.Fatalf("GetEnvConfig: %v", err)
	}
	if name != "dev" || env.BaseURL != "http://localhost:8080" || env.APIKey != "admin-123" {
		t.Fatalf("file config = %+v (%s)", env, name)
	}

	// env vars override the file
	t.Setenv(EnvAPIKey, "from-env")
	env, _, err = GetEnvConfig("dev", "", "")
	if err != nil {
		t.Fatalf("GetEnvConfig: %v", err)
	}
	if env.APIKey != "from-env" {
		t.Fatalf("APIKey = %s, want from-env", env.APIKey)
	}

	// flags override everything
	env, _, err = GetEnvConfig("dev", "http://flag:1", "from-flag")
	if err != nil {
		t.Fatalf("GetEnvConfig: %v", err)
	}
	if env.BaseURL != "http://flag:1" || env.APIKey != "from-flag" {
		t.Fatalf("flag config = %+v", env)
	}
}

func TestGetEnvConfig_UnknownEnv(t *testing.T) {
	useTempConfig(t)

	if _, _, err := GetEnvConfig("staging", "", ""); err == nil {
		t.Fatal("expected error for unknown environment")
	}
}

func TestGetEnvConfig_MissingBaseURL(t *testing.T) {
	useTempConfig(t)
	if err := InitConfig(); err != nil {
		t.Fatalf("InitConfig: %v", err)
	}
	cfg, _ := LoadConfig()
	cfg.Environments["empty"] = EnvConfig{}
	if err := SaveConfig(cfg); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}

	if _, _, err := GetEnvConfig("empty", "", ""); err == nil {
		t.Fatal("expected error when base_url is missing")
	}
}

func TestPrintSettings(t *testing.T) {
	cfg := rules.NewDiscountConfig([]string{"gid://P/1"}, 15)
	s := &client.Settings{ShopID: "shop-1", Config: &cfg}

	tests := []struct {
		format OutputFormat
		want   []string
	}{
		{format: FormatJSON, want: []string{`"shopId": "shop-1"`, `"percentOff": 15`}},
		{format: FormatYAML, want: []string{"shopId: shop-1", "percentOff: 15", "minQty: 2"}},
		{format: FormatTable, want: []string{"shop-1", "gid://P/1", "15%"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			var buf bytes.Buffer
			if err := PrintSettings(&buf, s, tt.format); err != nil {
				t.Fatalf("PrintSettings: %v", err)
			}
			for _, want := range tt.want {
				if !strings.Contains(buf.String(), want) {
					t.Errorf("output missing %q:\n%s", want, buf.String())
				}
			}
		})
	}
}

func TestPrintSettings_NotConfigured(t *testing.T) {
	var buf bytes.Buffer
	if err := PrintSettings(&buf, &client.Settings{ShopID: "shop-1"}, FormatTable); err != nil {
		t.Fatalf("PrintSettings: %v", err)
	}
	if !strings.Contains(buf.String(), "(not configured)") {
		t.Errorf("output = %s", buf.String())
	}
}

func TestPrintResult(t *testing.T) {
	value := `{"products":["gid://P/1"],"percentOff":12.5}`
	result := function.Run(function.RunInput{
		Shop: &function.Shop{Metafield: &function.Metafield{Value: &value}},
		Cart: function.Cart{Lines: []function.CartLine{{
			ID:          "L1",
			Quantity:    2,
			Merchandise: function.Merchandise{Typename: function.TypeNameProductVariant, Product: &function.Product{ID: "gid://P/1"}},
		}}},
	})

	var buf bytes.Buffer
	if err := PrintResult(&buf, &result, FormatTable); err != nil {
		t.Fatalf("PrintResult: %v", err)
	}
	for _, want := range []string{"L1", "Buy 2, get 12.5% off", "12.5%", "ALL"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("table missing %q:\n%s", want, buf.String())
		}
	}

	if err := PrintResult(&buf, &result, OutputFormat("xml")); err == nil {
		t.Error("expected error for unsupported format")
	}
}
