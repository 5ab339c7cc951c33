package session

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studiowebux/adminctl/internal/adminapi"
)

func TestSession_Credential(t *testing.T) {
	s := New()

	_, err := s.Credential()
	require.ErrorIs(t, err, adminapi.ErrMissingCredential)
	assert.False(t, s.HasCredential())

	s.SetCredential("  secret \n")
	key, err := s.Credential()
	require.NoError(t, err)
	assert.Equal(t, "secret", key)

	s.SetCredential("   ")
	assert.False(t, s.HasCredential(), "blank input clears the key")
}

func TestSession_ConcurrentAccess(t *testing.T) {
	s := New()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.SetCredential("k")
		}()
		go func() {
			defer wg.Done()
			s.HasCredential()
		}()
	}
	wg.Wait()
	assert.True(t, s.HasCredential())
}
