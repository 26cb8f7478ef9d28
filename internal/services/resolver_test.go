package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paiforbusiness1-rgb/LiveSHOW-Promo-Control/internal/status"
	"github.com/paiforbusiness1-rgb/LiveSHOW-Promo-Control/internal/store"
)

func setupResolverStore() *store.MemoryStore {
	st := store.NewMemoryStore()
	st.Seed("abc", map[string]any{
		"name":        "Key Holder",
		"email":       "key@example.com",
		"qrCodeValue": "xyz",
		"status":      "PENDING",
	})
	st.Seed("def", map[string]any{
		"name":   "Quiet Record",
		"email":  "a@b.com",
		"qrCode": "legacy-token",
		"status": "PENDING",
	})
	st.Seed("ghi", map[string]any{
		"name":          "Blob Only",
		"qrCodeDataUrl": "data:image/png;base64,QUJDRO-embedded-token-QUJDRA==",
		"status":        "PENDING",
	})
	return st
}

func TestExtractSearchKey_EmailBlock(t *testing.T) {
	key := ExtractSearchKey("Name: Ana Lopez\nEmail: a@b.com\nOther: text")
	assert.Equal(t, "a@b.com", key)

	// Case-insensitive label, surrounding whitespace stripped.
	key = ExtractSearchKey("  EMAIL:   someone@example.com  \r\nTicket: VIP")
	assert.Equal(t, "someone@example.com", key)

	// No email line: the trimmed payload is the key.
	assert.Equal(t, "bare-token", ExtractSearchKey("  bare-token \n"))
}

func TestResolver_KeyLookupWinsFirst(t *testing.T) {
	resolver := NewResolver(setupResolverStore())

	rec, strategy, err := resolver.Resolve(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", rec.Key)
	assert.Equal(t, "record_id", strategy)
}

func TestResolver_QRCodeValuePrecedesFullScan(t *testing.T) {
	resolver := NewResolver(setupResolverStore())

	rec, strategy, err := resolver.Resolve(context.Background(), "xyz")
	require.NoError(t, err)
	assert.Equal(t, "abc", rec.Key)
	assert.Equal(t, "qr_code_value", strategy)
}

func TestResolver_LegacyQRCodeField(t *testing.T) {
	resolver := NewResolver(setupResolverStore())

	rec, strategy, err := resolver.Resolve(context.Background(), "legacy-token")
	require.NoError(t, err)
	assert.Equal(t, "def", rec.Key)
	assert.Equal(t, "qr_code", strategy)
}

func TestResolver_EmailExtractionFromFormattedBlock(t *testing.T) {
	resolver := NewResolver(setupResolverStore())

	rec, strategy, err := resolver.Resolve(context.Background(), "Email: a@b.com\nOther: text")
	require.NoError(t, err)
	assert.Equal(t, "def", rec.Key)
	assert.Equal(t, "email", strategy)
}

func TestResolver_FullScanMatchesEmbeddedBlob(t *testing.T) {
	resolver := NewResolver(setupResolverStore())

	rec, strategy, err := resolver.Resolve(context.Background(), "embedded-token")
	require.NoError(t, err)
	assert.Equal(t, "ghi", rec.Key)
	assert.Equal(t, "full_scan", strategy)
}

func TestResolver_FullScanIsCaseInsensitive(t *testing.T) {
	resolver := NewResolver(setupResolverStore())

	// Indexed email lookup is exact, so the upper-cased form falls through
	// to the full scan.
	rec, strategy, err := resolver.Resolve(context.Background(), "A@B.COM")
	require.NoError(t, err)
	assert.Equal(t, "def", rec.Key)
	assert.Equal(t, "full_scan", strategy)
}

func TestResolver_NotFound(t *testing.T) {
	resolver := NewResolver(setupResolverStore())

	_, _, err := resolver.Resolve(context.Background(), "nonexistent-code")
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrNotFound))
	assert.Contains(t, err.Error(), "nonexistent-code")
}

func TestResolver_EmptyInput(t *testing.T) {
	resolver := NewResolver(setupResolverStore())

	_, _, err := resolver.Resolve(context.Background(), "   \n  ")
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrNotFound))
}

func TestResolver_IdempotentResolution(t *testing.T) {
	resolver := NewResolver(setupResolverStore())
	ctx := context.Background()

	first, _, err := resolver.Resolve(ctx, "xyz")
	require.NoError(t, err)
	second, _, err := resolver.Resolve(ctx, "xyz")
	require.NoError(t, err)

	assert.Equal(t, first.Key, second.Key)
}
