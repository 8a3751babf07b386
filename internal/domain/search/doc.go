// Package search contains the product search bounded context.
// It defines the canonical model shared by every marketplace integration and the ports
// the aggregator depends on.
//
// Key concepts:
//   - SearchRequest: Immutable, validated query with limit, region hints and caller token
//   - Adapter: Port implemented once per marketplace (Taobao, Douyin, eBay, OLX)
//   - CanonicalProduct: Provider-neutral product representation
//   - ProviderOutcome: Per-provider execution record of one dispatch
//   - CompositeResult: Deduplicated, ranked result plus statistics envelope
//   - ResultCache: Port for the advisory result cache
//
// Design Pattern: Ports & Adapters
//   - Ports (interfaces) are defined here in the domain layer
//   - Adapters (implementations) are in the infrastructure layer
package search
