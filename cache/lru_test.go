// Copyright (c) 2025 The Koby Labs developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cache

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLRU_GetOrLoad(t *testing.T) {
	c, err := NewLRU(2)
	require.NoError(t, err)

	loads := 0
	loader := func(key any) (any, error) {
		loads++
		return key.(string) + "-v", nil
	}

	v, err := c.GetOrLoad("a", loader)
	require.NoError(t, err)
	assert.Equal(t, "a-v", v)

	v, err = c.GetOrLoad("a", loader)
	require.NoError(t, err)
	assert.Equal(t, "a-v", v)
	assert.Equal(t, 1, loads)

	stats, changed := c.Stats()
	assert.True(t, changed)
	assert.Equal(t, Stats{Hits: 1, Misses: 1}, stats)
	assert.Equal(t, 0.5, stats.HitRate())

	_, changed = c.Stats()
	assert.False(t, changed, "rate unchanged since last call")

	_, err = c.GetOrLoad("b", func(any) (any, error) { return nil, errors.New("boom") })
	assert.Error(t, err)
	_, ok := c.Get("b")
	assert.False(t, ok, "failed loads must not be cached")
}

func TestStats_HitRate(t *testing.T) {
	assert.Zero(t, Stats{}.HitRate())
	assert.Equal(t, 0.75, Stats{Hits: 3, Misses: 1}.HitRate())
}

func TestNewLRU_InvalidSize(t *testing.T) {
	_, err := NewLRU(0)
	assert.Error(t, err)
}
