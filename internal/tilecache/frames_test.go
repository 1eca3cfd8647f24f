package tilecache

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameIndex_BoundedFrames(t *testing.T) {
	ix := newFrameIndex()

	for i := 0; i < 10; i++ {
		ix.recordURL(fmt.Sprintf("frame-%d", i), fmt.Sprintf("https://t.example/%d.png", i), 8, 3)
		assert.LessOrEqual(t, ix.frameCount(), 3)
	}

	assert.Equal(t, 3, ix.frameCount())
	// Only the three most recent frames survive
	assert.Nil(t, ix.urls("frame-6"))
	assert.NotNil(t, ix.urls("frame-7"))
	assert.NotNil(t, ix.urls("frame-9"))
}

func TestFrameIndex_BoundedURLsPerFrame(t *testing.T) {
	ix := newFrameIndex()

	for i := 0; i < 10; i++ {
		evicted := ix.recordURL("f", fmt.Sprintf("https://t.example/%d.png", i), 4, 8)
		if i < 4 {
			assert.Empty(t, evicted)
		}
	}

	urls := ix.urls("f")
	require.Len(t, urls, 4)
	// Oldest first: 6,7,8,9 remain
	assert.Equal(t, "https://t.example/6.png", urls[0])
	assert.Equal(t, "https://t.example/9.png", urls[3])
}

func TestFrameIndex_TouchMovesFrameToFront(t *testing.T) {
	ix := newFrameIndex()

	ix.recordURL("a", "u1", 8, 3)
	ix.recordURL("b", "u2", 8, 3)
	ix.recordURL("c", "u3", 8, 3)

	// Touch a so b becomes the eviction candidate
	ix.recordURL("a", "u1", 8, 3)
	evicted := ix.recordURL("d", "u4", 8, 3)

	assert.Equal(t, []string{"u2"}, evicted)
	assert.NotNil(t, ix.urls("a"))
	assert.Nil(t, ix.urls("b"))
}

func TestFrameIndex_TouchMovesURLToFront(t *testing.T) {
	ix := newFrameIndex()

	ix.recordURL("f", "u1", 2, 8)
	ix.recordURL("f", "u2", 2, 8)
	// Touch u1; u2 becomes the eviction candidate
	ix.recordURL("f", "u1", 2, 8)
	evicted := ix.recordURL("f", "u3", 2, 8)

	assert.Equal(t, []string{"u2"}, evicted)
	assert.Equal(t, []string{"u1", "u3"}, ix.urls("f"))
}

func TestFrameIndex_EmptyInputsIgnored(t *testing.T) {
	ix := newFrameIndex()

	assert.Nil(t, ix.recordURL("", "u", 8, 8))
	assert.Nil(t, ix.recordURL("f", "", 8, 8))
	assert.Nil(t, ix.recordURL("  ", "  ", 8, 8))
	assert.Equal(t, 0, ix.frameCount())
}

func TestFrameIndex_NormalizesWhitespace(t *testing.T) {
	ix := newFrameIndex()

	ix.recordURL(" f ", " u1 ", 8, 8)
	assert.Equal(t, []string{"u1"}, ix.urls("f"))
	assert.True(t, ix.references("u1"))
}

func TestFrameIndex_References(t *testing.T) {
	ix := newFrameIndex()

	ix.recordURL("a", "shared", 8, 8)
	ix.recordURL("b", "shared", 8, 8)
	ix.recordURL("b", "only-b", 8, 8)

	assert.True(t, ix.references("shared"))
	assert.True(t, ix.references("only-b"))
	assert.False(t, ix.references("unknown"))

	// Evicting frame a leaves "shared" reachable through b
	evicted := ix.recordURL("c", "u", 8, 2)
	require.Equal(t, []string{"shared"}, evicted)
	assert.True(t, ix.references("shared"))
	assert.True(t, ix.references("only-b"))

	// Evicting frame b finally drops both
	evicted = ix.recordURL("d", "v", 8, 2)
	assert.ElementsMatch(t, []string{"shared", "only-b"}, evicted)
	assert.False(t, ix.references("shared"))
	assert.False(t, ix.references("only-b"))
}

func TestFrameIndex_WholesaleFrameEvictionReturnsAllURLs(t *testing.T) {
	ix := newFrameIndex()

	ix.recordURL("old", "u1", 8, 2)
	ix.recordURL("old", "u2", 8, 2)
	ix.recordURL("mid", "u3", 8, 2)
	evicted := ix.recordURL("new", "u4", 8, 2)

	assert.ElementsMatch(t, []string{"u1", "u2"}, evicted)
	assert.Equal(t, 2, ix.frameCount())
}
