package usecase

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/Abdurahmanit/GroupProject/estate-service/internal/listing/domain"
	"github.com/Abdurahmanit/GroupProject/estate-service/internal/platform/logger"
	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)

func newTestImageManager(store domain.BlobStore) *ImageManager {
	m := NewImageManager(store, logger.NewNop(), nil)
	m.now = func() time.Time { return fixedNow }
	return m
}

func images(names ...string) []domain.ImageFile {
	files := make([]domain.ImageFile, len(names))
	for i, n := range names {
		files[i] = domain.ImageFile{Name: n, ContentType: "image/jpeg", Data: []byte("data-" + n)}
	}
	return files
}

func TestObjectKey(t *testing.T) {
	assert.Equal(t, "listings/abc/1714550400000-front.jpg", ObjectKey("abc", 1714550400000, "front.jpg"))
	assert.Equal(t, "listings/abc/7-evil.png", ObjectKey("abc", 7, "../../evil.png"))
	assert.Equal(t, "listings/abc/7-x.png", ObjectKey("abc", 7, `C:\photos\x.png`))
	assert.Equal(t, "listings/abc/7-image", ObjectKey("abc", 7, ""))
}

func TestImageManager_NextTokenIsStrictlyIncreasing(t *testing.T) {
	m := newTestImageManager(newMemBlobStore())

	first := m.nextToken()
	second := m.nextToken()
	third := m.nextToken()

	assert.Equal(t, fixedNow.UnixMilli(), first)
	assert.Equal(t, first+1, second)
	assert.Equal(t, second+1, third)
}

func TestImageManager_Upload(t *testing.T) {
	ctx := context.Background()

	t.Run("all files in input order", func(t *testing.T) {
		store := newMemBlobStore()
		m := newTestImageManager(store)

		res := m.Upload(ctx, "L1", images("a.jpg", "b.jpg", "a.jpg"))

		require.False(t, res.HasFailures())
		urls := res.URLs()
		require.Len(t, urls, 3)
		assert.True(t, strings.HasSuffix(urls[0], "-a.jpg"))
		assert.True(t, strings.HasSuffix(urls[1], "-b.jpg"))
		assert.NotEqual(t, urls[0], urls[2], "same file name must not collide")
		for _, u := range urls {
			assert.True(t, strings.HasPrefix(u, testBlobBase+"listings/L1/"))
			assert.True(t, store.has(u))
		}
	})

	t.Run("one failure does not stop the others", func(t *testing.T) {
		store := newMemBlobStore()
		store.failPut = func(key string) bool { return strings.HasSuffix(key, "-bad.jpg") }
		m := newTestImageManager(store)

		res := m.Upload(ctx, "L1", images("ok1.jpg", "bad.jpg", "ok2.jpg"))

		assert.True(t, res.HasFailures())
		require.Len(t, res.Failed(), 1)
		assert.Equal(t, "bad.jpg", res.Failed()[0].Name)
		urls := res.URLs()
		require.Len(t, urls, 2)
		assert.True(t, strings.HasSuffix(urls[0], "-ok1.jpg"))
		assert.True(t, strings.HasSuffix(urls[1], "-ok2.jpg"))
		assert.Error(t, res.Err())
	})

	t.Run("no files", func(t *testing.T) {
		m := newTestImageManager(newMemBlobStore())
		res := m.Upload(ctx, "L1", nil)
		assert.Empty(t, res.Items)
		assert.Empty(t, res.URLs())
	})
}

func TestImageManager_Delete(t *testing.T) {
	ctx := context.Background()
	store := newMemBlobStore()
	m := newTestImageManager(store)
	urls := m.Upload(ctx, "L1", images("a.jpg")).URLs()
	require.Len(t, urls, 1)

	assert.NoError(t, m.Delete(ctx, urls[0]))
	assert.False(t, store.has(urls[0]))

	assert.Error(t, m.Delete(ctx, urls[0]), "already gone is reported, not fatal")
	assert.Error(t, m.Delete(ctx, "https://elsewhere.test/pic.jpg"))
}

func TestImageManager_DeleteAll(t *testing.T) {
	ctx := context.Background()
	store := newMemBlobStore()
	m := newTestImageManager(store)
	urls := m.Upload(ctx, "L1", images("a.jpg", "b.jpg")).URLs()

	res := m.DeleteAll(ctx, []string{urls[0], "https://elsewhere.test/x.jpg", urls[1]})

	require.Len(t, res.Items, 3)
	assert.True(t, res.Items[0].OK())
	assert.False(t, res.Items[1].OK())
	assert.True(t, res.Items[2].OK())
	assert.Len(t, store.deleted, 2)
}

func TestImageManager_Archive(t *testing.T) {
	ctx := context.Background()

	t.Run("bundles every blob of the listing", func(t *testing.T) {
		store := newMemBlobStore()
		m := newTestImageManager(store)
		m.Upload(ctx, "L1", images("a.jpg", "b.jpg"))
		m.Upload(ctx, "L2", images("other.jpg"))

		var buf bytes.Buffer
		n, err := m.Archive(ctx, "L1", &buf)
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
		require.NoError(t, err)
		require.Len(t, zr.File, 2)
		contents := map[string]string{}
		for _, f := range zr.File {
			rc, err := f.Open()
			require.NoError(t, err)
			data, err := io.ReadAll(rc)
			require.NoError(t, err)
			rc.Close()
			assert.NotContains(t, f.Name, "/")
			contents[f.Name] = string(data)
		}
		assert.Contains(t, contents, "1714550400000-a.jpg")
		assert.Equal(t, "data-b.jpg", contents["1714550400001-b.jpg"])
	})

	t.Run("fetch failure aborts without output", func(t *testing.T) {
		store := newMemBlobStore()
		m := newTestImageManager(store)
		m.Upload(ctx, "L1", images("a.jpg", "b.jpg"))
		store.failGet = func(key string) bool { return strings.HasSuffix(key, "-b.jpg") }

		var buf bytes.Buffer
		_, err := m.Archive(ctx, "L1", &buf)
		assert.ErrorIs(t, err, domain.ErrArchive)
		assert.Zero(t, buf.Len())
	})
}
