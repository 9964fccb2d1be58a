package store

import (
	"context"
	"testing"
)

func TestGetJWTSecretGeneratesAndPersists(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()

	// First call should generate a secret.
	secret1, err := GetJWTSecret(ctx, database)
	if err != nil {
		t.Fatal(err)
	}
	if len(secret1) != 64 { // 32 bytes = 64 hex chars
		t.Fatalf("expected 64 hex chars, got %d", len(secret1))
	}

	// Second call should return the same secret.
	secret2, err := GetJWTSecret(ctx, database)
	if err != nil {
		t.Fatal(err)
	}
	if secret1 != secret2 {
		t.Fatalf("expected same secret, got %q and %q", secret1, secret2)
	}
}

func TestGetAPIKeyGeneratesAndPersists(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()

	key1, err := GetAPIKey(ctx, database)
	if err != nil {
		t.Fatal(err)
	}
	if len(key1) != 48 { // 24 bytes = 48 hex chars
		t.Fatalf("expected 48 hex chars, got %d", len(key1))
	}

	key2, err := GetAPIKey(ctx, database)
	if err != nil {
		t.Fatal(err)
	}
	if key1 != key2 {
		t.Fatalf("expected same key, got %q and %q", key1, key2)
	}

	// The JWT secret and API key live under different settings keys.
	secret, err := GetJWTSecret(ctx, database)
	if err != nil {
		t.Fatal(err)
	}
	if secret == key1 {
		t.Error("expected api key and jwt secret to differ")
	}
}
