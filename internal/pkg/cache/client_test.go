package cache_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gowms/internal/pkg/cache"
)

func TestNewRedisClient_UnreachableReturnsNil(t *testing.T) {
	// Porta 1 em loopback recusa a conexão imediatamente.
	client, err := cache.NewRedisClient("127.0.0.1:1")

	require.Error(t, err)
	assert.Nil(t, client)
}
