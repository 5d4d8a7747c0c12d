package ljdl_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/fwojciec/ljdl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostRef_URL(t *testing.T) {
	t.Parallel()

	ref := ljdl.PostRef{Journal: "probertson", ID: "46158"}

	assert.Equal(t, "https://probertson.livejournal.com/46158.html", ref.URL())
}

func TestPost_Empty(t *testing.T) {
	t.Parallel()

	assert.True(t, (&ljdl.Post{}).Empty())
	assert.True(t, (*ljdl.Post)(nil).Empty())
	assert.False(t, (&ljdl.Post{ID: "1"}).Empty())
}

func TestPost_JournalName(t *testing.T) {
	t.Parallel()

	p := &ljdl.Post{Journal: map[string]any{"username": "probertson"}}

	assert.Equal(t, "probertson", p.JournalName())
	assert.Empty(t, (&ljdl.Post{}).JournalName())
}

func TestPost_Clone(t *testing.T) {
	t.Parallel()

	p := &ljdl.Post{ID: "1", Journal: map[string]any{"username": "a"}, Num: 1}

	c := p.Clone()
	c.Journal["username"] = "b"
	c.Num = 2

	assert.Equal(t, "a", p.Journal["username"])
	assert.Equal(t, 1, p.Num)
}

func TestPost_Keywords(t *testing.T) {
	t.Parallel()

	p := &ljdl.Post{ID: "46158", Journal: map[string]any{"username": "probertson"}, Num: 2, Extension: "jpg"}

	kw := p.Keywords()

	assert.Equal(t, "livejournal", kw["category"])
	assert.Equal(t, "46158", kw["id"])
	assert.Equal(t, 2, kw["num"])
	assert.Equal(t, "jpg", kw["extension"])
}

func TestPost_MarshalJSON(t *testing.T) {
	t.Parallel()

	t.Run("encodes an unavailable post as an empty object", func(t *testing.T) {
		t.Parallel()

		data, err := json.Marshal(&ljdl.Post{})

		require.NoError(t, err)
		assert.JSONEq(t, `{}`, string(data))
	})

	t.Run("encodes an unknown date as null", func(t *testing.T) {
		t.Parallel()

		data, err := json.Marshal(&ljdl.Post{ID: "46158", Title: "Lamps & Chairs"})

		require.NoError(t, err)
		var got map[string]any
		require.NoError(t, json.Unmarshal(data, &got))
		assert.Contains(t, got, "date")
		assert.Nil(t, got["date"])
		assert.Equal(t, "Lamps & Chairs", got["title"])
	})

	t.Run("encodes known fields", func(t *testing.T) {
		t.Parallel()

		post := ljdl.Post{
			URL:        "https://probertson.livejournal.com/46158.html",
			ID:         "46158",
			Journal:    map[string]any{"username": "probertson"},
			Title:      "Lamps",
			Date:       time.Date(2020, 1, 1, 12, 0, 0, 0, time.UTC),
			ReplyCount: 3,
		}

		data, err := json.Marshal(post)

		require.NoError(t, err)
		var got map[string]any
		require.NoError(t, json.Unmarshal(data, &got))
		assert.Equal(t, "2020-01-01T12:00:00Z", got["date"])
		assert.Equal(t, "46158", got["id"])
		assert.Equal(t, map[string]any{"username": "probertson"}, got["journal"])
		assert.Equal(t, float64(3), got["replycount"])
		assert.NotContains(t, got, "num")
	})
}

func TestExtensionFromURL(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"https://imgprx.livejournal.net/a.jpg":              "jpg",
		"https://imgprx.livejournal.net/x/B.PNG?w=100":      "png",
		"https://imgprx.livejournal.net/abc/def":            "",
		"https://imgprx.livejournal.net/abc/def.toolongext": "",
		"https://imgprx.livejournal.net/abc/d.e-f":          "",
	}

	for in, want := range tests {
		assert.Equal(t, want, ljdl.ExtensionFromURL(in), in)
	}
}
