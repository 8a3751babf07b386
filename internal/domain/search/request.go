package search

import "strings"

const (
	// DefaultResultLimit is used when the caller does not specify a limit
	DefaultResultLimit = 20
	// MaxResultLimit is the server-side clamp for limit
	MaxResultLimit = 100
)

// Region carries optional location hints. Each field is independently defaultable by adapters.
type Region struct {
	Country string `json:"country,omitempty"`
	State   string `json:"state,omitempty"`
	City    string `json:"city,omitempty"`
}

// IsZero reports whether no region hint is set
func (r Region) IsZero() bool {
	return r.Country == "" && r.State == "" && r.City == ""
}

// LimitPolicy controls default and maximum result limits
type LimitPolicy struct {
	Default int
	Max     int
}

// DefaultLimitPolicy returns the built-in limit policy
func DefaultLimitPolicy() LimitPolicy {
	return LimitPolicy{Default: DefaultResultLimit, Max: MaxResultLimit}
}

// Apply resolves the effective limit for a requested value
func (p LimitPolicy) Apply(limit int) int {
	def, ceiling := p.Default, p.Max
	if ceiling <= 0 {
		ceiling = MaxResultLimit
	}
	if def <= 0 || def > ceiling {
		def = min(DefaultResultLimit, ceiling)
	}
	if limit <= 0 {
		return def
	}
	return min(limit, ceiling)
}

// SearchRequest is an immutable, validated search query.
// Use NewSearchRequest to construct one.
type SearchRequest struct {
	query       string
	limit       int
	region      Region
	callerToken string
}

// NewSearchRequest validates and normalizes the caller input.
// Returns ErrEmptyQuery if the query is empty after trimming.
func NewSearchRequest(query string, limit int, region Region, callerToken string, policy LimitPolicy) (SearchRequest, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return SearchRequest{}, ErrEmptyQuery
	}
	return SearchRequest{
		query: q,
		limit: policy.Apply(limit),
		region: Region{
			Country: strings.TrimSpace(region.Country),
			State:   strings.TrimSpace(region.State),
			City:    strings.TrimSpace(region.City),
		},
		callerToken: strings.TrimSpace(callerToken),
	}, nil
}

// Query returns the trimmed query text
func (r SearchRequest) Query() string { return r.query }

// Limit returns the effective result limit
func (r SearchRequest) Limit() int { return r.limit }

// Region returns the region hints
func (r SearchRequest) Region() Region { return r.region }

// CallerToken returns the opaque caller identity token, if any
func (r SearchRequest) CallerToken() string { return r.callerToken }

// IsZero reports whether the request was never constructed
func (r SearchRequest) IsZero() bool { return r.query == "" }
