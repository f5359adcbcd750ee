package idx_test

import (
	"testing"

	"github.com/lecenter/dashboard/pkg/idx"
	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/require"
)

func TestNewIsCanonicalULID(t *testing.T) {
	id := idx.New().String()
	require.Len(t, id, ulid.EncodedSize)

	_, err := ulid.ParseStrict(id)
	require.NoError(t, err)
}

func TestNewIsMonotonic(t *testing.T) {
	prev := idx.New().String()
	for range 1000 {
		next := idx.New().String()
		require.Less(t, prev, next)
		prev = next
	}
}
