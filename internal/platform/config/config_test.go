package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadWithDefaults(t *testing.T) {
	env := map[string]string{
		"API_FIREBASE_PROJECT_ID":   "silai-dev",
		"API_STORAGE_IMAGES_BUCKET": "silai-images-dev",
	}

	cfg, err := Load(context.Background(), WithEnvMap(env), WithoutSystemEnv(), WithEnvFile(""))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout != 15*time.Second {
		t.Errorf("unexpected read timeout: %s", cfg.Server.ReadTimeout)
	}
	if cfg.Firestore.ProjectID != "silai-dev" {
		t.Errorf("expected firestore project to default to firebase project, got %s", cfg.Firestore.ProjectID)
	}
	if cfg.PubSub.ProjectID != "silai-dev" {
		t.Errorf("expected pubsub project to follow firestore, got %s", cfg.PubSub.ProjectID)
	}
	if cfg.Storage.ImagePrefix != "button-images" {
		t.Errorf("unexpected image prefix %q", cfg.Storage.ImagePrefix)
	}
	if cfg.Redis.Addr != "" {
		t.Errorf("expected cache disabled by default, got %q", cfg.Redis.Addr)
	}
	if cfg.Redis.CatalogTTL != defaultCatalogTTL || cfg.Redis.StatsTTL != defaultStatsTTL {
		t.Errorf("unexpected cache ttls: %s %s", cfg.Redis.CatalogTTL, cfg.Redis.StatsTTL)
	}
	if cfg.Security.Environment != "local" {
		t.Errorf("expected default security environment local, got %s", cfg.Security.Environment)
	}
	if len(cfg.Security.OIDC.Issuers) != 1 || cfg.Security.OIDC.Issuers[0] != defaultOIDCIssuer {
		t.Errorf("expected default issuer, got %v", cfg.Security.OIDC.Issuers)
	}
}

func TestLoadWithOverridesAndSecrets(t *testing.T) {
	env := map[string]string{
		"API_SERVER_PORT":               "9090",
		"API_SERVER_ALLOWED_ORIGINS":    "https://silaisathi.in, https://admin.silaisathi.in",
		"API_FIREBASE_PROJECT_ID":       "silai-prod",
		"API_FIRESTORE_PROJECT_ID":      "silai-db",
		"API_STORAGE_IMAGES_BUCKET":     "silai-images",
		"API_STORAGE_IMAGE_PREFIX":      "/refs/",
		"API_REDIS_ADDR":                "10.0.0.3:6379",
		"API_REDIS_PASSWORD":            "sm://redis/password",
		"API_REDIS_CATALOG_TTL":         "1m",
		"API_SECURITY_ENVIRONMENT":      "PROD",
		"API_SECURITY_OIDC_AUDIENCE":    "https://api.silaisathi.in",
		"API_SECURITY_OIDC_ISSUERS":     "https://accounts.google.com,accounts.google.com",
		"API_PUBSUB_ORDER_EVENTS_TOPIC": "orders",
	}

	var resolvedRef string
	resolver := SecretResolverFunc(func(_ context.Context, ref string) (string, error) {
		resolvedRef = ref
		return "hunter2", nil
	})

	cfg, err := Load(context.Background(), WithEnvMap(env), WithoutSystemEnv(), WithEnvFile(""), WithSecretResolver(resolver))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("unexpected port %s", cfg.Server.Port)
	}
	if len(cfg.Server.AllowedOrigins) != 2 || cfg.Server.AllowedOrigins[1] != "https://admin.silaisathi.in" {
		t.Errorf("unexpected origins %v", cfg.Server.AllowedOrigins)
	}
	if cfg.Firestore.ProjectID != "silai-db" {
		t.Errorf("unexpected firestore project %s", cfg.Firestore.ProjectID)
	}
	if cfg.Storage.ImagePrefix != "refs" {
		t.Errorf("expected trimmed prefix, got %q", cfg.Storage.ImagePrefix)
	}
	if resolvedRef != "secret://redis/password" {
		t.Errorf("expected normalised secret ref, got %q", resolvedRef)
	}
	if cfg.Redis.Password != "hunter2" {
		t.Errorf("expected resolved redis password, got %q", cfg.Redis.Password)
	}
	if cfg.Redis.CatalogTTL != time.Minute {
		t.Errorf("unexpected catalog ttl %s", cfg.Redis.CatalogTTL)
	}
	if cfg.Security.Environment != "prod" {
		t.Errorf("expected lower-cased environment, got %s", cfg.Security.Environment)
	}
	if cfg.PubSub.OrderEventsTopic != "orders" {
		t.Errorf("unexpected topic %s", cfg.PubSub.OrderEventsTopic)
	}
}

func TestLoadValidationErrors(t *testing.T) {
	env := map[string]string{"API_SECURITY_ENVIRONMENT": "prod"}

	_, err := Load(context.Background(), WithEnvMap(env), WithoutSystemEnv(), WithEnvFile(""))
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}

	want := map[string]bool{
		"Firebase.ProjectID":     true,
		"Firestore.ProjectID":    true,
		"Storage.ImagesBucket":   true,
		"Security.OIDC.Audience": true,
	}
	for _, field := range vErr.Fields() {
		delete(want, field)
	}
	if len(want) != 0 {
		t.Fatalf("missing expected fields %v in %v", want, vErr.Fields())
	}
}

func TestLoadSecretWithoutResolver(t *testing.T) {
	env := map[string]string{
		"API_FIREBASE_PROJECT_ID":   "silai-dev",
		"API_STORAGE_IMAGES_BUCKET": "bucket",
		"API_REDIS_PASSWORD":        "secret://redis/password",
	}

	_, err := Load(context.Background(), WithEnvMap(env), WithoutSystemEnv(), WithEnvFile(""), WithSecretResolver(nil))
	var sErr *SecretError
	if !errors.As(err, &sErr) {
		t.Fatalf("expected SecretError, got %v", err)
	}
	if !errors.Is(err, errSecretResolverNotConfigured) {
		t.Fatalf("expected unwrap to resolver error, got %v", err)
	}
}

func TestLoadReadsDotEnvBelowExplicitValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "API_FIREBASE_PROJECT_ID=from-file\nAPI_STORAGE_IMAGES_BUCKET=\"file-bucket\"\nAPI_SERVER_PORT=7000\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}

	cfg, err := Load(context.Background(),
		WithEnvFile(path),
		WithoutSystemEnv(),
		WithEnvMap(map[string]string{"API_SERVER_PORT": "7100"}),
	)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Firebase.ProjectID != "from-file" {
		t.Errorf("expected dotenv project, got %s", cfg.Firebase.ProjectID)
	}
	if cfg.Storage.ImagesBucket != "file-bucket" {
		t.Errorf("expected unquoted bucket, got %s", cfg.Storage.ImagesBucket)
	}
	if cfg.Server.Port != "7100" {
		t.Errorf("expected env map to win over dotenv, got %s", cfg.Server.Port)
	}
}

func TestLoadMissingDotEnvIsIgnored(t *testing.T) {
	env := map[string]string{
		"API_FIREBASE_PROJECT_ID":   "silai-dev",
		"API_STORAGE_IMAGES_BUCKET": "bucket",
	}
	if _, err := Load(context.Background(), WithEnvFile(filepath.Join(t.TempDir(), "missing.env")), WithEnvMap(env), WithoutSystemEnv()); err != nil {
		t.Fatalf("expected missing dotenv to be ignored, got %v", err)
	}
}
