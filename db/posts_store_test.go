package db

import (
	"context"
	"errors"
	"pocketblog/models"
	"pocketblog/validation"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePosts() models.Collection {
	return models.Collection{
		{Title: "Third", Date: "2024-05-03", Text: "newest"},
		{Title: "Second", Date: "2024-05-02", Text: "middle"},
		{Title: "First", Date: "2024-05-01", Text: "oldest"},
	}
}

// failingKV fails every call with err.
type failingKV struct{ err error }

func (f failingKV) Get(context.Context, string) (string, bool, error) { return "", false, f.err }
func (f failingKV) Set(context.Context, string, string) error         { return f.err }
func (f failingKV) Close() error                                      { return nil }

func TestPostStore_LoadAbsentKeyIsEmpty(t *testing.T) {
	store := NewPostStore(NewMemoryKV(), nil)

	posts, err := store.Load(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, posts)
	assert.Empty(t, posts)
}

func TestPostStore_LoadAfterSave(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	store := NewPostStore(kv, nil)

	require.NoError(t, store.Save(ctx, samplePosts()))
	posts, err := store.Load(ctx)

	require.NoError(t, err)
	assert.Equal(t, samplePosts(), posts)

	raw, ok, err := kv.Get(ctx, PostsKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `{"version":1,"posts":[
		{"title":"Third","date":"2024-05-03","text":"newest"},
		{"title":"Second","date":"2024-05-02","text":"middle"},
		{"title":"First","date":"2024-05-01","text":"oldest"}]}`, raw)
}

func TestPostStore_SaveEmptyWritesArray(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	store := NewPostStore(kv, nil)

	require.NoError(t, store.Save(ctx, nil))

	raw, _, _ := kv.Get(ctx, PostsKey)
	assert.JSONEq(t, `{"version":1,"posts":[]}`, raw)
}

func TestPostStore_LoadLegacyArrayDropsPlaceholder(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	legacy := `[{"title":"Hello","date":"2024-05-01","text":"World"},{"title":"","date":"","text":""}]`
	require.NoError(t, kv.Set(ctx, PostsKey, legacy))

	posts, err := NewPostStore(kv, nil).Load(ctx)

	require.NoError(t, err)
	assert.Equal(t, models.Collection{{Title: "Hello", Date: "2024-05-01", Text: "World"}}, posts)
}

func TestPostStore_LoadCorrupt(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", "definitely not json"},
		{"empty", "   "},
		{"wrong field type", `[{"title":1,"date":"2024-05-01","text":"x"}]`},
		{"unknown field", `{"version":1,"posts":[],"extra":true}`},
		{"future version", `{"version":99,"posts":[]}`},
		{"missing version", `{"posts":[]}`},
		{"bad date", `{"version":1,"posts":[{"title":"a","date":"yesterday","text":"b"}]}`},
		{"blank post in envelope", `{"version":1,"posts":[{"title":"","date":"","text":""}]}`},
		{"scalar", `42`},
		{"stray closing brace", `{"version":1,"posts":[]}}`},
		{"stray closing bracket", `[]]`},
		{"second value", `{"version":1,"posts":[]} {"version":1,"posts":[]}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			kv := NewMemoryKV()
			require.NoError(t, kv.Set(ctx, PostsKey, tc.raw))

			posts, err := NewPostStore(kv, nil).Load(ctx)

			assert.Nil(t, posts)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrCorruptStore), "got %v", err)
		})
	}
}

func TestPostStore_ResetRecoversCorruptStore(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	require.NoError(t, kv.Set(ctx, PostsKey, "{broken"))
	store := NewPostStore(kv, nil)

	require.NoError(t, store.Reset(ctx))
	posts, err := store.Load(ctx)

	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestPostStore_BackendErrorsAreNotCorruption(t *testing.T) {
	boom := errors.New("connection refused")
	store := NewPostStore(failingKV{err: boom}, nil)

	_, err := store.Load(context.Background())
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrCorruptStore))
	assert.True(t, errors.Is(err, boom))

	err = store.Save(context.Background(), samplePosts())
	assert.True(t, errors.Is(err, boom))
}

func TestPostStore_SaveRefusesUnloadableCollection(t *testing.T) {
	tests := []struct {
		name string
		c    models.Collection
	}{
		{"missing date", models.Collection{{Title: "a", Date: "", Text: "b"}}},
		{"bad date", models.Collection{{Title: "a", Date: "15/06/2024", Text: "b"}}},
		{"blank title", append(samplePosts(), models.Post{Title: "", Date: "2024-05-01", Text: "b"})},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			kv := NewMemoryKV()
			store := NewPostStore(kv, nil)
			require.NoError(t, store.Save(ctx, samplePosts()))

			err := store.Save(ctx, tc.c)

			var ve *validation.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.False(t, errors.Is(err, ErrCorruptStore))

			posts, err := store.Load(ctx)
			require.NoError(t, err, "the previous collection is still readable")
			assert.Equal(t, samplePosts(), posts)
		})
	}
}

func TestPostStore_SavedCollectionsLoadBack(t *testing.T) {
	ctx := context.Background()
	store := NewPostStore(NewMemoryKV(), nil)

	for _, c := range []models.Collection{{}, samplePosts()[:1], samplePosts()} {
		require.NoError(t, store.Save(ctx, c))
		posts, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, c, posts)
	}
}
