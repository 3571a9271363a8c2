package persistence

// IAuthorityPersistence stores the key authority's durable state.
// All implementations must be thread-safe.
//
// The interface supports:
// - The sealed master secret and the public parameters it belongs to
// - An append-only log of private key issuances
// - Lifecycle management (close, health check)
type IAuthorityPersistence interface {
	// SaveAuthorityState persists the authority state, overwriting any existing state.
	SaveAuthorityState(state *AuthorityState) error

	// LoadAuthorityState retrieves the authority state.
	// Returns nil if none exists (first run), error only on storage failure.
	LoadAuthorityState() (*AuthorityState, error)

	// SaveIssuance records a private key issuance, keyed by record ID.
	SaveIssuance(record *IssuanceRecord) error

	// LoadIssuance retrieves an issuance by ID.
	// Returns nil if it doesn't exist, error only on storage failure.
	LoadIssuance(id string) (*IssuanceRecord, error)

	// ListIssuances returns all issuances sorted by IssuedAt, then ID.
	// Returns empty slice if there are none.
	ListIssuances() ([]*IssuanceRecord, error)

	// Close cleanly shuts down the persistence layer.
	// Idempotent. After Close, all other operations return errors.
	Close() error

	// HealthCheck returns nil if the persistence layer is operational.
	HealthCheck() error
}
