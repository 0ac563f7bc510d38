package idgen_test

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/rpg-palette/internal/pkg/idgen"
)

func TestSequentialGenerator(t *testing.T) {
	gen := idgen.NewSequential("attempt")
	assert.Equal(t, "attempt_1", gen.Generate())
	assert.Equal(t, "attempt_2", gen.Generate())

	bare := idgen.NewSequential("")
	assert.Equal(t, "1", bare.Generate())
}

func TestUUIDGenerator(t *testing.T) {
	id := idgen.NewUUID("attempt").Generate()
	require.True(t, strings.HasPrefix(id, "attempt_"))
	_, err := uuid.Parse(strings.TrimPrefix(id, "attempt_"))
	assert.NoError(t, err)
}

func TestTimeOrderedGenerator(t *testing.T) {
	gen := idgen.NewTimeOrdered("attempt")

	first := gen.Generate()
	second := gen.Generate()
	require.True(t, strings.HasPrefix(first, "attempt_"))

	parsed, err := uuid.Parse(strings.TrimPrefix(first, "attempt_"))
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())
	assert.Less(t, first, second)
}
