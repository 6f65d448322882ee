package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const dedupTTL = 24 * time.Hour

// DedupChecker skips messages whose text has already been processed.
// Forwarded adverts reappear across channels with identical bodies, so the
// key is a hash of the normalized text rather than chat/message identity.
// Key format: dedup:msg:<sha256 of text>
type DedupChecker struct {
	client *redis.Client
}

// NewDedupChecker creates a DedupChecker wrapping the given Redis client.
func NewDedupChecker(client *redis.Client) *DedupChecker {
	return &DedupChecker{client: client}
}

// IsDuplicate reports whether a message with this text has been seen within
// the dedup window.
func (d *DedupChecker) IsDuplicate(ctx context.Context, text string) (bool, error) {
	n, err := d.client.Exists(ctx, d.key(text)).Result()
	if err != nil {
		return false, fmt.Errorf("dedup check: %w", err)
	}
	return n > 0, nil
}

// Mark records that a message with this text has been processed (expires
// after dedupTTL).
func (d *DedupChecker) Mark(ctx context.Context, text string) error {
	return d.client.Set(ctx, d.key(text), "1", dedupTTL).Err()
}

func (d *DedupChecker) key(text string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(text)))
	return "dedup:msg:" + hex.EncodeToString(sum[:])
}
