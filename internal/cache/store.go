package cache

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_store.go -package=mocks sage-ai/internal/cache Store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strconv"
	"strings"
	"time"
)

// TTLs. Query answers are cached briefly because underlying papers can
// change; the popular-topic insight is far more expensive to recompute and
// gets a longer window.
const (
	AnswerTTL       = 60 * time.Second
	PopularTopicTTL = 5 * time.Minute
)

// PopularTopicKey is the cache key for the latest popular-topic insight.
const PopularTopicKey = "popular:topic:latest"

// answerKeyPrefix namespaces query answer cache keys.
const answerKeyPrefix = "query:ret:"

// Store defines the interface for the key/value response cache.
type Store interface {
	// Get returns the cached value for key, or ErrMiss-equivalent behavior
	// via (value "", found false).
	Get(ctx context.Context, key string) (string, bool, error)
	// SetWithExpiry stores value under key with the given time-to-live.
	SetWithExpiry(ctx context.Context, key, value string, ttl time.Duration) error
}

// NormalizeQuestion canonicalizes a question for caching and aggregation:
// trimmed, lowercased, with internal whitespace runs collapsed to single
// spaces.
func NormalizeQuestion(question string) string {
	return strings.Join(strings.Fields(strings.ToLower(question)), " ")
}

// AnswerKey derives a deterministic cache key from the query signature.
// The same question modulo whitespace/case, the same topK and the same
// paper-id set (in any order) always produce the same key.
func AnswerKey(question string, topK int, paperIDs []string) string {
	sortedIDs := "*"
	if len(paperIDs) > 0 {
		ids := make([]string, len(paperIDs))
		copy(ids, paperIDs)
		sort.Strings(ids)
		sortedIDs = strings.Join(ids, ",")
	}

	input := NormalizeQuestion(question) + "|" + strconv.Itoa(topK) + "|" + sortedIDs
	sum := sha256.Sum256([]byte(input))
	return answerKeyPrefix + hex.EncodeToString(sum[:])[:16]
}
