package memory

import (
	"fmt"
	"sync"

	"github.com/Layr-Labs/eigenx-ibe-go/pkg/persistence"
)

// MemoryPersistence is an in-memory implementation of IAuthorityPersistence.
// This implementation is intended for TESTING ONLY.
//
// All data is lost when the process exits, including the sealed master secret.
// Thread-safe using sync.RWMutex. Deep copies data to prevent external mutation.
type MemoryPersistence struct {
	mu sync.RWMutex

	state *persistence.AuthorityState

	// issuance ID -> record
	issuances map[string]*persistence.IssuanceRecord

	closed bool
}

var _ persistence.IAuthorityPersistence = (*MemoryPersistence)(nil)

// NewMemoryPersistence creates a new in-memory persistence layer.
// Prints a loud warning since this should only be used for testing.
func NewMemoryPersistence() *MemoryPersistence {
	fmt.Println("⚠️  WARNING: Using in-memory persistence - THE MASTER SECRET WILL BE LOST ON RESTART")
	fmt.Println("⚠️  This should ONLY be used for testing. Set IBE_PERSISTENCE_TYPE=badger for production")

	return &MemoryPersistence{
		issuances: make(map[string]*persistence.IssuanceRecord),
	}
}

// SaveAuthorityState persists the authority state.
func (m *MemoryPersistence) SaveAuthorityState(state *persistence.AuthorityState) error {
	if state == nil {
		return fmt.Errorf("cannot save nil AuthorityState")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return persistence.ErrClosed
	}

	m.state = persistence.CopyAuthorityState(state)
	return nil
}

// LoadAuthorityState retrieves the authority state.
func (m *MemoryPersistence) LoadAuthorityState() (*persistence.AuthorityState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, persistence.ErrClosed
	}

	return persistence.CopyAuthorityState(m.state), nil
}

// SaveIssuance records a private key issuance.
func (m *MemoryPersistence) SaveIssuance(record *persistence.IssuanceRecord) error {
	if record == nil {
		return fmt.Errorf("cannot save nil IssuanceRecord")
	}
	if record.ID == "" {
		return fmt.Errorf("issuance record ID cannot be empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return persistence.ErrClosed
	}

	m.issuances[record.ID] = persistence.CopyIssuanceRecord(record)
	return nil
}

// LoadIssuance retrieves an issuance by ID.
func (m *MemoryPersistence) LoadIssuance(id string) (*persistence.IssuanceRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, persistence.ErrClosed
	}

	record, exists := m.issuances[id]
	if !exists {
		return nil, nil // Not found is not an error
	}
	return persistence.CopyIssuanceRecord(record), nil
}

// ListIssuances returns all issuances in log order.
func (m *MemoryPersistence) ListIssuances() ([]*persistence.IssuanceRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, persistence.ErrClosed
	}

	result := make([]*persistence.IssuanceRecord, 0, len(m.issuances))
	for _, record := range m.issuances {
		result = append(result, persistence.CopyIssuanceRecord(record))
	}
	persistence.SortIssuances(result)
	return result, nil
}

// Close shuts down the persistence layer.
func (m *MemoryPersistence) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	return nil
}

// HealthCheck verifies the persistence layer is operational.
func (m *MemoryPersistence) HealthCheck() error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return persistence.ErrClosed
	}
	return nil
}
