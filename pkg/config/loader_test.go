package config

import "testing"

type testConfig struct {
	BaseURL  string `env:"TEST_STOREFRONT_URL" envDefault:"http://localhost:9090/api"`
	LogLevel string `env:"TEST_LOG_LEVEL" envDefault:"info"`
	Timeout  int    `env:"TEST_TIMEOUT_SECONDS" envDefault:"30"`
}

func TestLoad_Defaults(t *testing.T) {
	var cfg testConfig
	if err := Load(&cfg); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BaseURL != "http://localhost:9090/api" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
	if cfg.Timeout != 30 {
		t.Errorf("Timeout = %d", cfg.Timeout)
	}
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("TEST_STOREFRONT_URL", "https://api.example.com")
	t.Setenv("TEST_TIMEOUT_SECONDS", "5")

	var cfg testConfig
	if err := Load(&cfg); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BaseURL != "https://api.example.com" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.Timeout != 5 {
		t.Errorf("Timeout = %d", cfg.Timeout)
	}
}

func TestLoad_InvalidValue(t *testing.T) {
	t.Setenv("TEST_TIMEOUT_SECONDS", "not-a-number")

	var cfg testConfig
	if err := Load(&cfg); err == nil {
		t.Fatal("expected error for invalid integer value")
	}
}
