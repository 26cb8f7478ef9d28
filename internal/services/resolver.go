package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/paiforbusiness1-rgb/LiveSHOW-Promo-Control/internal/status"
	"github.com/paiforbusiness1-rgb/LiveSHOW-Promo-Control/internal/store"
)

// Resolver locates the stored record a scanned payload refers to. The payload
// comes from an upstream QR generator this system does not control: it may be
// a record id, a bare email, or a formatted multi-line block with an
// "Email: <addr>" line. Strategies run in a fixed order and the first hit
// wins, so resolution is deterministic; a failing store query degrades into
// the next strategy instead of aborting.
type Resolver struct {
	store store.Store
}

func NewResolver(st store.Store) *Resolver {
	return &Resolver{store: st}
}

var emailLinePattern = regexp.MustCompile(`(?i)email:\s*([^\r\n]+)`)

// ExtractSearchKey trims the scanned payload and, for formatted
// pre-registration blocks, pulls out the embedded email address as the
// effective search key.
func ExtractSearchKey(rawScan string) string {
	key := strings.TrimSpace(rawScan)
	if m := emailLinePattern.FindStringSubmatch(key); m != nil {
		return strings.TrimSpace(m[1])
	}
	return key
}

type resolveStrategy struct {
	name string
	run  func(ctx context.Context, key string) (*store.Record, error)
}

// Resolve returns the matching record and the name of the strategy that found
// it. Resolution only reads; repeating it against unchanged state yields the
// same record. A payload that matches nothing returns status.ErrNotFound
// carrying the attempted key.
func (r *Resolver) Resolve(ctx context.Context, rawScan string) (*store.Record, string, error) {
	key := ExtractSearchKey(rawScan)
	if key == "" {
		return nil, "", fmt.Errorf("%w: empty scan payload", status.ErrNotFound)
	}

	strategies := []resolveStrategy{
		{"record_id", r.byKey},
		{"qr_code_value", r.byField("qrCodeValue")},
		{"qr_code", r.byField("qrCode")},
		{"email", r.byField("email")},
		{"full_scan", r.byFullScan},
	}

	for _, strategy := range strategies {
		rec, err := strategy.run(ctx, key)
		if err != nil {
			if !errors.Is(err, status.ErrNotFound) {
				slog.Warn("registration lookup failed, trying next strategy",
					"strategy", strategy.name,
					"error", err,
				)
			}
			continue
		}
		return rec, strategy.name, nil
	}

	return nil, "", fmt.Errorf("%w: %q", status.ErrNotFound, truncate(key, 30))
}

func (r *Resolver) byKey(ctx context.Context, key string) (*store.Record, error) {
	return r.store.Get(ctx, key)
}

func (r *Resolver) byField(field string) func(ctx context.Context, key string) (*store.Record, error) {
	return func(ctx context.Context, key string) (*store.Record, error) {
		recs, err := r.store.QueryEqual(ctx, field, key)
		if err != nil {
			return nil, err
		}
		if len(recs) == 0 {
			return nil, status.ErrNotFound
		}
		return recs[0], nil
	}
}

// byFullScan is the O(n) last resort: it guarantees a match is found whenever
// one exists, at the cost of enumerating the whole collection. Acceptable for
// event-sized collections (hundreds to low thousands of records).
func (r *Resolver) byFullScan(ctx context.Context, key string) (*store.Record, error) {
	recs, err := r.store.ScanAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, rec := range recs {
		if matchesRecord(rec, key) {
			return rec, nil
		}
	}
	return nil, status.ErrNotFound
}

func matchesRecord(rec *store.Record, key string) bool {
	if strings.EqualFold(rec.Key, key) ||
		strings.EqualFold(rec.String("qrCodeValue"), key) ||
		strings.EqualFold(rec.String("qrCode"), key) {
		return true
	}
	if email := rec.String("email"); email != "" && strings.EqualFold(strings.TrimSpace(email), key) {
		return true
	}
	// Embedded blobs may contain the scanned token anywhere inside them.
	if blob := rec.String("qrCodeDataUrl"); blob != "" && strings.Contains(blob, key) {
		return true
	}
	if content := rec.String("qrContent"); content != "" && strings.Contains(content, key) {
		return true
	}
	return false
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
