package storage

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

func newLocal(t *testing.T) *LocalStorage {
	t.Helper()
	s, err := NewLocalStorage(Config{Type: "local", BasePath: t.TempDir(), BaseURL: "http://cdn.test/uploads/"})
	require.NoError(t, err)
	return s
}

func TestLocalStorage_SaveExistsDelete(t *testing.T) {
	s := newLocal(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "a/b.txt", strings.NewReader("hello"), "text/plain"))

	data, err := os.ReadFile(filepath.Join(s.BasePath(), "a", "b.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	ok, err := s.Exists(ctx, "a/b.txt")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "http://cdn.test/uploads/a/b.txt", s.URL("a/b.txt"))

	require.NoError(t, s.Delete(ctx, "a/b.txt"))
	ok, err = s.Exists(ctx, "a/b.txt")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLocalStorage_RejectsTraversal(t *testing.T) {
	s := newLocal(t)
	err := s.Save(context.Background(), "../escape.txt", strings.NewReader("x"), "text/plain")
	assert.ErrorIs(t, err, ErrInvalidPath)
}

func TestNewStorage_UnknownType(t *testing.T) {
	_, err := NewStorage(Config{Type: "ftp"})
	assert.Error(t, err)

	_, err = NewStorage(Config{Type: "cloudflare_r2", Bucket: "b"})
	assert.Error(t, err)
}

func TestProofKey(t *testing.T) {
	key := ProofKey("Seller@X.com ", "Receipt.PNG")
	assert.True(t, strings.HasPrefix(key, "payment-proofs/"))
	assert.True(t, strings.HasSuffix(key, ".png"))
	assert.NotContains(t, key, "seller")
	assert.Equal(t, strings.Split(ProofKey("seller@x.com", "a.png"), "/")[1], strings.Split(key, "/")[1])
}

func TestProofUploader_Upload(t *testing.T) {
	s := newLocal(t)
	u := NewProofUploader(s, 1024, []string{"image/png", "application/pdf"})
	ctx := context.Background()

	url, err := u.Upload(ctx, "s@x.com", "proof.png", int64(len(pngHeader)), bytes.NewReader(pngHeader))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "http://cdn.test/uploads/payment-proofs/"))

	key := strings.TrimPrefix(url, "http://cdn.test/uploads/")
	ok, err := s.Exists(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = u.Upload(ctx, "s@x.com", "proof.txt", 5, strings.NewReader("hello"))
	assert.ErrorIs(t, err, ErrProofTypeDenied)

	_, err = u.Upload(ctx, "s@x.com", "big.png", 4096, bytes.NewReader(pngHeader))
	assert.ErrorIs(t, err, ErrProofTooLarge)

	_, err = u.Upload(ctx, "s@x.com", "empty.png", 0, bytes.NewReader(nil))
	assert.ErrorIs(t, err, ErrProofEmpty)
}
