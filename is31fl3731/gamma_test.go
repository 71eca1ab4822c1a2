package is31fl3731

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGamma(t *testing.T) {
	assert.Equal(t, uint8(0), Gamma(0))
	assert.Equal(t, uint8(255), Gamma(255))
	for v := 1; v < 256; v++ {
		require.GreaterOrEqual(t, Gamma(uint8(v)), Gamma(uint8(v-1)), "gamma decreases at %d", v)
	}
	tbl := GammaTable()
	tbl[255] = 0
	assert.Equal(t, uint8(255), Gamma(255), "GammaTable returned a shared table")
}
