package search

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"sync"

	"github.com/shopscout/backend/internal/domain/search"
	"golang.org/x/text/cases"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// FingerprintVersion is bumped whenever the key derivation changes so stale
// entries are never read back.
const FingerprintVersion = "v2"

var foldPool = sync.Pool{
	New: func() any {
		return transform.Chain(norm.NFKC, width.Fold, cases.Fold())
	},
}

// NormalizeQuery folds case and width, applies NFKC and collapses whitespace
func NormalizeQuery(q string) string {
	t := foldPool.Get().(transform.Transformer)
	defer foldPool.Put(t)
	t.Reset()

	folded, _, err := transform.String(t, q)
	if err != nil {
		folded = strings.ToLower(q)
	}
	return strings.Join(strings.Fields(folded), " ")
}

// Fingerprint derives the cache key for a request from its normalized query,
// limit and region. The caller token is not part of the key.
// Fields are length-prefixed so no two requests share an encoding.
func Fingerprint(req search.SearchRequest) string {
	region := req.Region()

	var b strings.Builder
	for _, field := range [...]string{
		NormalizeQuery(req.Query()),
		strconv.Itoa(req.Limit()),
		strings.ToLower(region.Country),
		strings.ToLower(region.State),
		strings.ToLower(region.City),
	} {
		b.WriteString(strconv.Itoa(len(field)))
		b.WriteByte(':')
		b.WriteString(field)
	}

	sum := sha256.Sum256([]byte(b.String()))
	return "search:" + FingerprintVersion + ":" + hex.EncodeToString(sum[:])
}
