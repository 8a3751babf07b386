package search

import "github.com/shopscout/backend/internal/domain/search"

// Dedup merges per-provider lists in the given order and drops later items whose
// canonical URL was already seen. Items without a usable URL are always kept.
func Dedup(lists [][]search.CanonicalProduct) []search.CanonicalProduct {
	total := 0
	for _, l := range lists {
		total += len(l)
	}

	seen := make(map[string]struct{}, total)
	out := make([]search.CanonicalProduct, 0, total)
	for _, list := range lists {
		for _, item := range list {
			key, ok := CanonicalURL(item.SourceURL)
			if ok {
				if _, dup := seen[key]; dup {
					continue
				}
				seen[key] = struct{}{}
			}
			out = append(out, item)
		}
	}
	return out
}
