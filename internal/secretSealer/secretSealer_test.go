package secretSealer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_CanonicalContext(t *testing.T) {
	a := CanonicalContext(map[string]string{"b": "2", "a": "1"})
	b := CanonicalContext(map[string]string{"a": "1", "b": "2"})
	require.Equal(t, a, b)
	require.Equal(t, "a=1\nb=2\n", string(a))
	require.Empty(t, CanonicalContext(nil))
}
