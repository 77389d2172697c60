package storage

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const proofPrefix = "payment-proofs"

var (
	ErrProofTooLarge   = errors.New("payment proof exceeds the size limit")
	ErrProofTypeDenied = errors.New("payment proof type is not allowed")
	ErrProofEmpty      = errors.New("payment proof is empty")
)

// ProofUploader stores seller payment proofs (receipts, screenshots).
type ProofUploader struct {
	store        Storage
	maxSize      int64
	allowedTypes map[string]bool
}

func NewProofUploader(store Storage, maxSize int64, allowedTypes []string) *ProofUploader {
	allowed := make(map[string]bool, len(allowedTypes))
	for _, t := range allowedTypes {
		allowed[strings.ToLower(t)] = true
	}
	return &ProofUploader{store: store, maxSize: maxSize, allowedTypes: allowed}
}

// Upload validates and stores a proof file, returning its public URL. The
// content type is sniffed from the data, not taken from the client.
func (u *ProofUploader) Upload(ctx context.Context, sellerEmail, filename string, size int64, r io.Reader) (string, error) {
	if size == 0 {
		return "", ErrProofEmpty
	}
	if u.maxSize > 0 && size > u.maxSize {
		return "", ErrProofTooLarge
	}

	head := make([]byte, 512)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read payment proof: %w", err)
	}
	if n == 0 {
		return "", ErrProofEmpty
	}
	head = head[:n]

	contentType := http.DetectContentType(head)
	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil {
		contentType = mediaType
	}
	if !u.allowedTypes[contentType] {
		return "", ErrProofTypeDenied
	}

	key := ProofKey(sellerEmail, filename)
	body := io.MultiReader(bytes.NewReader(head), r)
	if u.maxSize > 0 {
		body = io.LimitReader(body, u.maxSize)
	}

	if err := u.store.Save(ctx, key, body, contentType); err != nil {
		return "", err
	}
	return u.store.URL(key), nil
}

// ProofKey builds payment-proofs/<seller hash>/<uuid><ext>. The email is
// hashed so that object keys do not expose it.
func ProofKey(sellerEmail, filename string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(sellerEmail))))
	ext := strings.ToLower(filepath.Ext(filename))
	if len(ext) > 10 {
		ext = ""
	}
	return fmt.Sprintf("%s/%s/%s%s", proofPrefix, hex.EncodeToString(sum[:8]), uuid.NewString(), ext)
}
