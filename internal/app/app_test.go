package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmehdipour/omnichannel/internal/transport"
)

func TestClientNeedsToken(t *testing.T) {
	a, err := Load("")
	require.NoError(t, err)

	_, err = a.Client()
	assert.ErrorIs(t, err, transport.ErrMissingToken)
}

func TestClientFromEnv(t *testing.T) {
	t.Setenv("OMNI_API_TOKEN", "tok")
	t.Setenv("OMNI_API_BREAKER_ENABLED", "true")

	a, err := Load("")
	require.NoError(t, err)
	assert.True(t, a.Config.API.Breaker.Enabled)

	c, err := a.Client()
	require.NoError(t, err)
	assert.NotNil(t, c.Transport())
}
