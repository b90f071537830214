package pagination

import (
	"errors"
	"net/url"
	"testing"
	"time"
)

func TestTokenRoundTripPreservesCursor(t *testing.T) {
	cursor := Cursor{CreatedAt: time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC), ID: "01HZX"}

	token, err := EncodeToken(cursor)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := DecodeToken(token)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !got.CreatedAt.Equal(cursor.CreatedAt) || got.ID != cursor.ID {
		t.Fatalf("expected %+v, got %+v", cursor, got)
	}

	if token, _ := EncodeToken(Cursor{}); token != "" {
		t.Fatalf("expected empty token for zero cursor, got %q", token)
	}
}

func TestDecodeTokenRejectsGarbage(t *testing.T) {
	if _, err := DecodeToken("%%%"); !errors.Is(err, ErrInvalidPageToken) {
		t.Fatalf("expected ErrInvalidPageToken, got %v", err)
	}
}

func TestParseParams(t *testing.T) {
	params, err := ParseParams(url.Values{})
	if err != nil || params.PageSize != DefaultPageSize {
		t.Fatalf("expected defaults, got %+v %v", params, err)
	}

	params, err = ParseParams(url.Values{"page_size": {"500"}})
	if err != nil || params.PageSize != MaxPageSize {
		t.Fatalf("expected clamp to %d, got %+v %v", MaxPageSize, params, err)
	}

	if _, err := ParseParams(url.Values{"page_size": {"-1"}}); err == nil {
		t.Fatal("expected error for negative page size")
	}
	if _, err := ParseParams(url.Values{"page_token": {"bogus!"}}); !errors.Is(err, ErrInvalidPageToken) {
		t.Fatalf("expected invalid token error, got %v", err)
	}
}
