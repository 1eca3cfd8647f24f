package tilecache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildTileURL_BasicPlaceholders(t *testing.T) {
	p := &stubProvider{template: "https://t.example/{z}/{x}/{y}.png"}

	url := BuildTileURL(p, 1, 2, 3)
	assert.Equal(t, "https://t.example/3/1/2.png", url)
}

func TestBuildTileURL_ReversePlaceholders(t *testing.T) {
	p := &fullProvider{
		stub:     stubProvider{template: "https://t.example/{reverseZ}/{reverseX}/{reverseY}/{width}x{height}.png"},
		maxLevel: 10,
		width:    256,
		height:   256,
	}

	// At level 3 there are 8 tiles per axis: reverseX = 8-1-1, reverseY = 8-2-1
	url := BuildTileURL(p, 1, 2, 3)
	assert.Equal(t, "https://t.example/7/6/5/256x256.png", url)
}

func TestBuildTileURL_ReverseFallsBackToRawCoordinates(t *testing.T) {
	p := &stubProvider{template: "https://t.example/{reverseZ}/{reverseX}/{reverseY}.png"}

	url := BuildTileURL(p, 1, 2, 3)
	assert.Equal(t, "https://t.example/3/1/2.png", url)
}

func TestBuildTileURL_UnresolvablePlaceholdersLeftVerbatim(t *testing.T) {
	p := &stubProvider{template: "https://t.example/{z}/{x}/{y}.png?size={width}"}

	url := BuildTileURL(p, 0, 0, 0)
	assert.Equal(t, "https://t.example/0/0/0.png?size={width}", url)
}

func TestBuildTileURL_NoTemplate(t *testing.T) {
	assert.Empty(t, BuildTileURL(&bareProvider{}, 0, 0, 0))
	assert.Empty(t, BuildTileURL(&stubProvider{template: "   "}, 0, 0, 0))
}

func TestPredictFrameURL_PathSegment(t *testing.T) {
	url := "https://t.example/wx/2024060100/TMP/0/0/0.png"

	predicted, ok := PredictFrameURL(url, "2024060100", "2024060106")
	require.True(t, ok)
	assert.Equal(t, "https://t.example/wx/2024060106/TMP/0/0/0.png", predicted)
}

func TestPredictFrameURL_SubstringFallback(t *testing.T) {
	url := "https://t.example/tiles?time=2024060100&layer=TMP"

	predicted, ok := PredictFrameURL(url, "2024060100", "2024060106")
	require.True(t, ok)
	assert.Equal(t, "https://t.example/tiles?time=2024060106&layer=TMP", predicted)
}

func TestPredictFrameURL_KeyAbsent(t *testing.T) {
	_, ok := PredictFrameURL("https://t.example/a/b.png", "2024060100", "2024060106")
	assert.False(t, ok)
}

func TestPredictFrameURL_EmptyInputs(t *testing.T) {
	_, ok := PredictFrameURL("", "a", "b")
	assert.False(t, ok)
	_, ok = PredictFrameURL("https://t.example/a/x.png", " ", "b")
	assert.False(t, ok)
	_, ok = PredictFrameURL("https://t.example/a/x.png", "a", "")
	assert.False(t, ok)
}

func TestPredictFrameURL_PercentEncodedKeys(t *testing.T) {
	url := "https://t.example/frame%20a/0/0/0.png"

	predicted, ok := PredictFrameURL(url, "frame a", "frame b")
	require.True(t, ok)
	assert.Equal(t, "https://t.example/frame%20b/0/0/0.png", predicted)
}

func TestPredictFrameURL_RoundTrip(t *testing.T) {
	original := "https://t.example/wx/A/TMP/3/1/2.png"

	forward, ok := PredictFrameURL(original, "A", "B")
	require.True(t, ok)
	back, ok := PredictFrameURL(forward, "B", "A")
	require.True(t, ok)
	assert.Equal(t, original, back)
}
