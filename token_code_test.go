package uptask_test

import (
	"testing"

	"github.com/goliatone/go-uptask"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfirmationCode(t *testing.T) {
	seen := map[string]bool{}

	for i := 0; i < 200; i++ {
		code, err := uptask.NewConfirmationCode()
		require.NoError(t, err)

		assert.Len(t, code, 6)
		for _, r := range code {
			assert.True(t, r >= '0' && r <= '9', "code should be digits only, got %q", code)
		}

		seen[code] = true
	}

	// 200 draws out of a million possible codes should not collapse to a
	// handful of values.
	assert.Greater(t, len(seen), 150)
}
