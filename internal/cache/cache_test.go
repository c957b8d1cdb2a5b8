package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "clarity:dashboard_stats:42", Key("dashboard_stats", "42"))
	assert.Equal(t, "clarity:refresh_token:abc", Key("refresh_token", "abc"))
}

func TestNilClientBehavesAsEmptyCache(t *testing.T) {
	ctx := context.Background()
	var c *Client

	data, err := c.Get(ctx, Key("anything"))
	assert.NoError(t, err)
	assert.Nil(t, data)

	assert.NoError(t, c.Set(ctx, Key("anything"), []byte("v"), time.Minute))
	assert.NoError(t, c.Delete(ctx, Key("anything")))
}
