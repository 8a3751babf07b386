package search

import "time"

// ProviderOutcome is the execution record of one adapter for one dispatch.
// Error is set iff Success is false.
type ProviderOutcome struct {
	Provider  ProviderID    `json:"provider"`
	Success   bool          `json:"success"`
	ItemCount int           `json:"item_count"`
	RawCount  int           `json:"raw_count"`
	Error     string        `json:"error,omitempty"`
	TimedOut  bool          `json:"timed_out,omitempty"`
	Elapsed   time.Duration `json:"elapsed_ns"`
}

// NewSuccessOutcome creates a successful outcome
func NewSuccessOutcome(provider ProviderID, rawCount, itemCount int, elapsed time.Duration) ProviderOutcome {
	return ProviderOutcome{
		Provider:  provider,
		Success:   true,
		ItemCount: itemCount,
		RawCount:  rawCount,
		Elapsed:   elapsed,
	}
}

// NewFailureOutcome creates a failed outcome from an adapter error
func NewFailureOutcome(provider ProviderID, err error, timedOut bool, elapsed time.Duration) ProviderOutcome {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return ProviderOutcome{
		Provider: provider,
		Success:  false,
		Error:    msg,
		TimedOut: timedOut,
		Elapsed:  elapsed,
	}
}

// CompositeResult is the request-scoped aggregate handed to the caller.
// It is never mutated after being returned.
type CompositeResult struct {
	Fingerprint string             `json:"fingerprint"`
	Items       []CanonicalProduct `json:"items"`
	Outcomes    []ProviderOutcome  `json:"outcomes"`
	Succeeded   int                `json:"succeeded"`
	Failed      int                `json:"failed"`
	Elapsed     time.Duration      `json:"elapsed_ns"`
	Cached      bool               `json:"cached"`
	GeneratedAt time.Time          `json:"generated_at"`
}

// NewCompositeResult builds the statistics envelope from outcomes
func NewCompositeResult(fingerprint string, items []CanonicalProduct, outcomes []ProviderOutcome, elapsed time.Duration) *CompositeResult {
	if items == nil {
		items = []CanonicalProduct{}
	}
	if outcomes == nil {
		outcomes = []ProviderOutcome{}
	}
	r := &CompositeResult{
		Fingerprint: fingerprint,
		Items:       items,
		Outcomes:    outcomes,
		Elapsed:     elapsed,
		GeneratedAt: time.Now().UTC(),
	}
	for _, o := range outcomes {
		if o.Success {
			r.Succeeded++
		} else {
			r.Failed++
		}
	}
	return r
}

// ProvidersAttempted returns the number of providers dispatched
func (r *CompositeResult) ProvidersAttempted() int {
	return len(r.Outcomes)
}
