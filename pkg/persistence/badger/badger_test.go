package badger

import (
	"fmt"
	"sync"
	"testing"

	"github.com/Layr-Labs/eigenx-ibe-go/pkg/logger"
	"github.com/Layr-Labs/eigenx-ibe-go/pkg/persistence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPersistence(t *testing.T, dir string) *BadgerPersistence {
	t.Helper()
	testLogger, err := logger.NewLogger(&logger.LoggerConfig{Debug: false})
	require.NoError(t, err)
	bp, err := NewBadgerPersistence(dir, testLogger)
	require.NoError(t, err)
	return bp
}

func TestBadgerPersistence_SaveAndLoadAuthorityState(t *testing.T) {
	bp := newTestPersistence(t, t.TempDir())
	defer func() { _ = bp.Close() }()

	loaded, err := bp.LoadAuthorityState()
	require.NoError(t, err)
	assert.Nil(t, loaded)

	state := &persistence.AuthorityState{
		Curve:              "bls12381",
		Pairing:            "weil",
		SealedMasterSecret: []byte{1, 2, 3},
		Sealer:             "aws-kms",
		MasterPublicKey:    []byte{4, 5, 6},
		CreatedAt:          99,
	}
	require.NoError(t, bp.SaveAuthorityState(state))

	loaded, err = bp.LoadAuthorityState()
	require.NoError(t, err)
	assert.Equal(t, state, loaded)
}

func TestBadgerPersistence_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()

	bp := newTestPersistence(t, dir)
	require.NoError(t, bp.SaveAuthorityState(&persistence.AuthorityState{Curve: "ss65", SealedMasterSecret: []byte{7}}))
	require.NoError(t, bp.SaveIssuance(&persistence.IssuanceRecord{ID: "r1", Identity: "alice", Kind: "textual", IssuedAt: 1}))
	require.NoError(t, bp.Close())

	reopened := newTestPersistence(t, dir)
	defer func() { _ = reopened.Close() }()

	state, err := reopened.LoadAuthorityState()
	require.NoError(t, err)
	require.NotNil(t, state)
	assert.Equal(t, "ss65", state.Curve)

	record, err := reopened.LoadIssuance("r1")
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, "alice", record.Identity)
}

func TestBadgerPersistence_ListIssuancesSorted(t *testing.T) {
	bp := newTestPersistence(t, t.TempDir())
	defer func() { _ = bp.Close() }()

	for i, ts := range []int64{30, 10, 20} {
		require.NoError(t, bp.SaveIssuance(&persistence.IssuanceRecord{
			ID:       fmt.Sprintf("id-%d", i),
			Identity: fmt.Sprintf("user-%d", i),
			Kind:     "textual",
			IssuedAt: ts,
		}))
	}

	list, err := bp.ListIssuances()
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, int64(10), list[0].IssuedAt)
	assert.Equal(t, int64(20), list[1].IssuedAt)
	assert.Equal(t, int64(30), list[2].IssuedAt)

	missing, err := bp.LoadIssuance("nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestBadgerPersistence_Closed(t *testing.T) {
	bp := newTestPersistence(t, t.TempDir())
	require.NoError(t, bp.HealthCheck())
	require.NoError(t, bp.Close())
	require.NoError(t, bp.Close())

	require.ErrorIs(t, bp.HealthCheck(), persistence.ErrClosed)
	_, err := bp.LoadAuthorityState()
	require.ErrorIs(t, err, persistence.ErrClosed)
	require.ErrorIs(t, bp.SaveIssuance(&persistence.IssuanceRecord{ID: "x"}), persistence.ErrClosed)
}

func TestBadgerPersistence_ConcurrentIssuances(t *testing.T) {
	bp := newTestPersistence(t, t.TempDir())
	defer func() { _ = bp.Close() }()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = bp.SaveIssuance(&persistence.IssuanceRecord{ID: fmt.Sprintf("id-%02d", i), IssuedAt: int64(i)})
		}(i)
	}
	wg.Wait()

	list, err := bp.ListIssuances()
	require.NoError(t, err)
	assert.Len(t, list, 20)
}
