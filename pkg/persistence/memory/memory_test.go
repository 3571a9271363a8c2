package memory

import (
	"fmt"
	"sync"
	"testing"

	"github.com/Layr-Labs/eigenx-ibe-go/pkg/persistence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryPersistence_SaveAndLoadAuthorityState(t *testing.T) {
	mp := NewMemoryPersistence()
	defer func() { _ = mp.Close() }()

	loaded, err := mp.LoadAuthorityState()
	require.NoError(t, err)
	assert.Nil(t, loaded, "first run has no state")

	state := &persistence.AuthorityState{
		Curve:              "toy83",
		Pairing:            "weil",
		SealedMasterSecret: []byte{0x05},
		Sealer:             "plaintext",
		MasterPublicKey:    []byte{0x01, 0x02},
		CreatedAt:          42,
	}
	require.NoError(t, mp.SaveAuthorityState(state))

	loaded, err = mp.LoadAuthorityState()
	require.NoError(t, err)
	assert.Equal(t, state, loaded)

	// mutating the loaded copy must not affect the stored state
	loaded.SealedMasterSecret[0] = 0xff
	again, err := mp.LoadAuthorityState()
	require.NoError(t, err)
	assert.Equal(t, byte(0x05), again.SealedMasterSecret[0])
}

func TestMemoryPersistence_SaveAuthorityState_Nil(t *testing.T) {
	mp := NewMemoryPersistence()
	defer func() { _ = mp.Close() }()

	err := mp.SaveAuthorityState(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nil AuthorityState")
}

func TestMemoryPersistence_Issuances(t *testing.T) {
	mp := NewMemoryPersistence()
	defer func() { _ = mp.Close() }()

	list, err := mp.ListIssuances()
	require.NoError(t, err)
	assert.Empty(t, list)

	records := []*persistence.IssuanceRecord{
		{ID: "b", Identity: "bob", Kind: "textual", IssuedAt: 20},
		{ID: "a", Identity: "alice", Kind: "textual", IssuedAt: 10},
		{ID: "c", Identity: "42", Kind: "numeric", IssuedAt: 20},
	}
	for _, r := range records {
		require.NoError(t, mp.SaveIssuance(r))
	}

	list, err = mp.ListIssuances()
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{list[0].ID, list[1].ID, list[2].ID})

	loaded, err := mp.LoadIssuance("c")
	require.NoError(t, err)
	assert.Equal(t, records[2], loaded)

	missing, err := mp.LoadIssuance("zzz")
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.Error(t, mp.SaveIssuance(&persistence.IssuanceRecord{}))
}

func TestMemoryPersistence_Closed(t *testing.T) {
	mp := NewMemoryPersistence()
	require.NoError(t, mp.HealthCheck())
	require.NoError(t, mp.Close())
	require.NoError(t, mp.Close(), "close is idempotent")

	require.ErrorIs(t, mp.HealthCheck(), persistence.ErrClosed)
	_, err := mp.LoadAuthorityState()
	require.ErrorIs(t, err, persistence.ErrClosed)
	require.ErrorIs(t, mp.SaveIssuance(&persistence.IssuanceRecord{ID: "x"}), persistence.ErrClosed)
	_, err = mp.ListIssuances()
	require.ErrorIs(t, err, persistence.ErrClosed)
}

func TestMemoryPersistence_ConcurrentIssuances(t *testing.T) {
	mp := NewMemoryPersistence()
	defer func() { _ = mp.Close() }()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = mp.SaveIssuance(&persistence.IssuanceRecord{
				ID:       fmt.Sprintf("id-%03d", i),
				Identity: fmt.Sprintf("user-%d", i),
				Kind:     "textual",
				IssuedAt: int64(i),
			})
		}(i)
	}
	wg.Wait()

	list, err := mp.ListIssuances()
	require.NoError(t, err)
	assert.Len(t, list, 50)
}
