package storage

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
)

// CollectionPrefix is the common prefix of all routed collection names.
const CollectionPrefix = "documents_"

var nonAlnumRun = regexp.MustCompile(`[^A-Za-z0-9_]+`)

// SanitizeMethod reduces an embedding method name to a collection-safe
// suffix: non-alphanumeric runs collapse to a single underscore.
func SanitizeMethod(method string) string {
	return nonAlnumRun.ReplaceAllString(strings.ReplaceAll(strings.TrimSpace(method), " ", "_"), "_")
}

// CollectionName routes an embedding method to its isolated collection.
// The mapping is pure and stable across restarts; one collection exists per
// distinct embedding method so vectors of incompatible dimensions never mix.
func CollectionName(method string) string {
	return CollectionPrefix + SanitizeMethod(method)
}

// Exists probes a collection for any fragment of the given document identity.
// A probe failure is logged at warning level and reported as "not found":
// the guard is advisory and ingestion is allowed to proceed (fail-open).
func Exists(ctx context.Context, col Collection, documentID string) bool {
	fragments, err := col.Fetch(ctx, Filter{DocumentId: documentID}, 1)
	if err != nil {
		slog.Default().Warn("document existence probe failed, assuming new document",
			"document_id", documentID, "collection", col.Name(), "err", err)
		return false
	}
	return len(fragments) > 0
}
