package search

import (
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
	"github.com/shopscout/backend/internal/domain/search"
	"github.com/shopspring/decimal"
)

// productNamespace scopes the name-based product ids
var productNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://shopscout.dev/product"))

// maxDescriptionLength caps descriptions after HTML stripping, in runes
const maxDescriptionLength = 2000

// NormalizerConfig controls item rejection
type NormalizerConfig struct {
	// RequirePrice rejects items whose price is missing or unparsable
	RequirePrice bool
	// DefaultCurrencies fills in the currency when a provider omits it
	DefaultCurrencies map[search.ProviderID]string
}

// Normalizer maps intermediate provider items into canonical products
type Normalizer struct {
	config NormalizerConfig
}

// NewNormalizer creates a Normalizer
func NewNormalizer(cfg NormalizerConfig) *Normalizer {
	return &Normalizer{config: cfg}
}

// Normalize converts raw items in order, dropping malformed ones.
// It returns the accepted products and the number of rejected items.
func (n *Normalizer) Normalize(provider search.ProviderID, items []search.RawItem) ([]search.CanonicalProduct, int) {
	out := make([]search.CanonicalProduct, 0, len(items))
	rejected := 0
	for _, item := range items {
		p, ok := n.normalizeItem(provider, item)
		if !ok {
			rejected++
			continue
		}
		out = append(out, p)
	}
	return out, rejected
}

func (n *Normalizer) normalizeItem(provider search.ProviderID, item search.RawItem) (search.CanonicalProduct, bool) {
	title := collapseSpace(StripHTML(item.Title))
	sourceURL := strings.TrimSpace(item.URL)
	if title == "" || sourceURL == "" {
		return search.CanonicalProduct{}, false
	}

	price, ok := ParsePrice(item.Price.String())
	if !ok {
		price = nil
	}
	if price == nil && n.config.RequirePrice {
		return search.CanonicalProduct{}, false
	}

	brand := collapseSpace(item.Brand)
	currency := strings.ToUpper(strings.TrimSpace(item.Currency))
	if currency == "" {
		currency = strings.ToUpper(n.config.DefaultCurrencies[provider])
	}
	return search.CanonicalProduct{
		ID:          ProductID(sourceURL, brand, title),
		Title:       title,
		Brand:       brand,
		Category:    collapseSpace(item.Category),
		Price:       price,
		Currency:    currency,
		ImageURL:    normalizeImageURL(item.ImageURL),
		Marketplace: provider,
		SourceURL:   sourceURL,
		Description: truncateRunes(collapseSpace(StripHTML(item.Description)), maxDescriptionLength),
		Metadata:    copyMetadata(item.Metadata),
	}, true
}

// ProductID derives a stable id from the listing URL, brand and title.
// The canonical URL is used when available so tracking noise does not change the id.
func ProductID(sourceURL, brand, title string) uuid.UUID {
	key, ok := CanonicalURL(sourceURL)
	if !ok {
		key = strings.TrimSpace(sourceURL)
	}
	name := key + "|" + strings.ToLower(strings.TrimSpace(brand)) + "|" + strings.ToLower(strings.TrimSpace(title))
	return uuid.NewSHA1(productNamespace, []byte(name))
}

// ParsePrice coerces a provider price string into a decimal.
// It accepts currency symbols, spaces and both "1,299.50" and "1.299,50" styles.
// ok is false for empty, negative or unparsable input.
func ParsePrice(s string) (*decimal.Decimal, bool) {
	// Plain and exponent numbers ("12.5", "1.5e2") parse exactly.
	if d, err := decimal.NewFromString(strings.TrimSpace(s)); err == nil {
		if d.IsNegative() {
			return nil, false
		}
		return &d, true
	}
	if strings.ContainsAny(s, "eE") && hasExponent(s) {
		return nil, false
	}

	var b strings.Builder
scan:
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r == '.', r == ',':
			b.WriteRune(r)
		case r == '-' && b.Len() == 0:
			return nil, false
		case r == '-':
			// price range such as "10-20": keep the lower bound
			break scan
		}
	}
	cleaned := b.String()
	if cleaned == "" {
		return nil, false
	}

	lastDot := strings.LastIndexByte(cleaned, '.')
	lastComma := strings.LastIndexByte(cleaned, ',')
	switch {
	case lastDot >= 0 && lastComma >= 0:
		if lastComma > lastDot {
			cleaned = strings.ReplaceAll(cleaned, ".", "")
			cleaned = strings.Replace(cleaned, ",", ".", 1)
		} else {
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		}
	case lastComma >= 0:
		decimals := len(cleaned) - lastComma - 1
		if strings.Count(cleaned, ",") == 1 && decimals > 0 && decimals <= 2 {
			cleaned = strings.Replace(cleaned, ",", ".", 1)
		} else {
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		}
	case strings.Count(cleaned, ".") > 1:
		cleaned = strings.ReplaceAll(cleaned, ".", "")
	}

	d, err := decimal.NewFromString(strings.Trim(cleaned, "."))
	if err != nil {
		return nil, false
	}
	return &d, true
}

// hasExponent reports whether s holds a digit followed by e or E and a digit or
// sign, which the separator heuristics would misread.
func hasExponent(s string) bool {
	for i := 1; i+1 < len(s); i++ {
		if s[i] != 'e' && s[i] != 'E' {
			continue
		}
		prev, next := s[i-1], s[i+1]
		if prev >= '0' && prev <= '9' && (next >= '0' && next <= '9' || next == '+' || next == '-') {
			return true
		}
	}
	return false
}

// StripHTML returns the text content of an HTML fragment.
// Plain text is returned unchanged.
func StripHTML(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return s
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return s
	}
	doc.Find("script, style").Remove()
	return doc.Text()
}

func collapseSpace(s string) string {
	return strings.Join(strings.FieldsFunc(s, unicode.IsSpace), " ")
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func normalizeImageURL(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "//") {
		return "https:" + s
	}
	return s
}

func copyMetadata(m map[string]any) map[string]any {
	if len(m) == 0 {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
