package codes_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"league/codes"
)

func TestTicketCode(t *testing.T) {
	gen, err := codes.NewGenerator("test-salt")
	require.NoError(t, err)

	code, err := gen.TicketCode(1)
	require.NoError(t, err)
	assert.Len(t, code, 6)
	for _, r := range code {
		assert.Contains(t, codes.Alphabet, string(r))
	}

	again, err := gen.TicketCode(1)
	require.NoError(t, err)
	assert.Equal(t, code, again)
}

func TestTicketCode_NoCollisions(t *testing.T) {
	gen, err := codes.NewGenerator("test-salt")
	require.NoError(t, err)

	seen := map[string]int64{}
	for id := int64(1); id <= 200; id++ {
		code, err := gen.TicketCode(id)
		require.NoError(t, err)

		prev, ok := seen[code]
		require.Falsef(t, ok, "code %q generated for both %d and %d", code, prev, id)
		seen[code] = id
	}
}

func TestTicketCode_SaltChangesCodes(t *testing.T) {
	genA, err := codes.NewGenerator("salt-a")
	require.NoError(t, err)
	genB, err := codes.NewGenerator("salt-b")
	require.NoError(t, err)

	codeA, err := genA.TicketCode(42)
	require.NoError(t, err)
	codeB, err := genB.TicketCode(42)
	require.NoError(t, err)

	assert.NotEqual(t, codeA, codeB)
}

func TestOTP(t *testing.T) {
	gen, err := codes.NewGenerator("test-salt")
	require.NoError(t, err)

	otp, err := gen.OTP(7)
	require.NoError(t, err)
	assert.Len(t, otp, 8)
}
