package redis

import (
	"fmt"
	"os"
	"testing"

	"github.com/Layr-Labs/eigenx-ibe-go/pkg/logger"
	"github.com/Layr-Labs/eigenx-ibe-go/pkg/persistence"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// requireRedis connects to REDIS_TEST_ADDRESS and skips the test when it is unset.
// Every test uses its own key prefix on DB 15 so runs don't collide.
func requireRedis(t *testing.T) *RedisPersistence {
	t.Helper()

	addr := os.Getenv("REDIS_TEST_ADDRESS")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDRESS not set")
	}

	testLogger, err := logger.NewLogger(&logger.LoggerConfig{Debug: false})
	require.NoError(t, err)

	rp, err := NewRedisPersistence(&RedisConfig{
		Address:   addr,
		DB:        15,
		KeyPrefix: fmt.Sprintf("test-%s:", uuid.NewString()),
	}, testLogger)
	require.NoError(t, err, "Redis not available at %s", addr)
	return rp
}

func TestNewRedisPersistence_InvalidConfig(t *testing.T) {
	testLogger, err := logger.NewLogger(&logger.LoggerConfig{Debug: false})
	require.NoError(t, err)

	_, err = NewRedisPersistence(nil, testLogger)
	require.Error(t, err)

	_, err = NewRedisPersistence(&RedisConfig{}, testLogger)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "address")
}

func TestRedisPersistence_SaveAndLoadAuthorityState(t *testing.T) {
	rp := requireRedis(t)
	defer func() { _ = rp.Close() }()

	loaded, err := rp.LoadAuthorityState()
	require.NoError(t, err)
	assert.Nil(t, loaded)

	state := &persistence.AuthorityState{
		Curve:              "ss65",
		Pairing:            "tate",
		SealedMasterSecret: []byte{9, 9, 9},
		Sealer:             "plaintext",
		MasterPublicKey:    []byte{1},
		CreatedAt:          5,
	}
	require.NoError(t, rp.SaveAuthorityState(state))

	loaded, err = rp.LoadAuthorityState()
	require.NoError(t, err)
	assert.Equal(t, state, loaded)
}

func TestRedisPersistence_Issuances(t *testing.T) {
	rp := requireRedis(t)
	defer func() { _ = rp.Close() }()

	for i, ts := range []int64{3, 1, 2} {
		require.NoError(t, rp.SaveIssuance(&persistence.IssuanceRecord{
			ID:       fmt.Sprintf("id-%d", i),
			Identity: fmt.Sprintf("user-%d", i),
			Kind:     "textual",
			IssuedAt: ts,
		}))
	}

	list, err := rp.ListIssuances()
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "id-1", list[0].ID)
	assert.Equal(t, "id-2", list[1].ID)
	assert.Equal(t, "id-0", list[2].ID)

	record, err := rp.LoadIssuance("id-2")
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, "user-2", record.Identity)

	require.NoError(t, rp.HealthCheck())
}

func TestRedisPersistence_Closed(t *testing.T) {
	rp := requireRedis(t)
	require.NoError(t, rp.Close())
	require.NoError(t, rp.Close())

	require.ErrorIs(t, rp.HealthCheck(), persistence.ErrClosed)
	_, err := rp.ListIssuances()
	require.ErrorIs(t, err, persistence.ErrClosed)
}
