package config

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestMaskSecret(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"short fully masked", "secret", maskedValue},
		{"exactly eight fully masked", "12345678", maskedValue},
		{"long keeps edges", "my_long_secret_key_123", "my<" + maskedValue + ">23"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := maskSecret(tt.input); got != tt.want {
				t.Errorf("maskSecret(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestMarshalJSONMasksSecrets(t *testing.T) {
	cfg := Config{
		OpenAIAPIKey:     "sk-test-0123456789abcdef",
		GeminiAPIKey:     "AIza-test-0123456789",
		PostgresPassword: "super_secret_password",
		PostgresHost:     "localhost",
	}

	data, err := json.Marshal(cfg)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	out := string(data)

	for _, secret := range []string{"sk-test-0123456789abcdef", "AIza-test-0123456789", "super_secret_password"} {
		if strings.Contains(out, secret) {
			t.Errorf("marshaled config leaks secret %q", secret)
		}
	}
	if !strings.Contains(out, "localhost") {
		t.Error("marshaled config should keep non-sensitive fields")
	}
}

func TestStringDoesNotLeakSecrets(t *testing.T) {
	cfg := Config{PostgresPassword: "another_secret_pw"}
	if strings.Contains(cfg.String(), "another_secret_pw") {
		t.Error("String() leaks the PostgreSQL password")
	}
}
