package covers

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/SmileofHaven/Audion-Changes/internal/util"
)

func writeTemp(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestHashDeterminism(t *testing.T) {
	dir := t.TempDir()
	data := bytes.Repeat([]byte("cover-bytes"), 1000)

	a := writeTemp(t, dir, "a.jpg", data)
	b := writeTemp(t, dir, "b.jpg", data)

	hashA1, err := HashFile(a)
	if err != nil {
		t.Fatalf("failed to hash: %v", err)
	}
	hashA2, err := HashFile(a)
	if err != nil {
		t.Fatalf("failed to hash: %v", err)
	}
	hashB, err := HashFile(b)
	if err != nil {
		t.Fatalf("failed to hash: %v", err)
	}

	if hashA1 != hashA2 {
		t.Errorf("hashing the same file twice differed: %s vs %s", hashA1, hashA2)
	}
	if hashA1 != hashB {
		t.Errorf("identical content at different paths hashed differently")
	}
}

func TestHashSingleByteDifference(t *testing.T) {
	dir := t.TempDir()
	data := bytes.Repeat([]byte{0xAB}, 4096)
	a := writeTemp(t, dir, "a.jpg", data)

	altered := append([]byte(nil), data...)
	altered[2048] ^= 0x01
	b := writeTemp(t, dir, "b.jpg", altered)

	hashA, err := HashFile(a)
	if err != nil {
		t.Fatalf("failed to hash: %v", err)
	}
	hashB, err := HashFile(b)
	if err != nil {
		t.Fatalf("failed to hash: %v", err)
	}

	if hashA == hashB {
		t.Errorf("files differing by one byte produced the same digest")
	}
}

func TestHashSpansChunkBoundary(t *testing.T) {
	dir := t.TempDir()
	// Larger than one read buffer so the chunked loop runs more than once
	data := bytes.Repeat([]byte{0x5A}, hashChunkSize+8192)
	path := writeTemp(t, dir, "big.png", data)

	got, err := HashFile(path)
	if err != nil {
		t.Fatalf("failed to hash: %v", err)
	}

	sum := sha256.Sum256(data)
	want := hex.EncodeToString(sum[:])
	if got != want {
		t.Errorf("expected digest %s, got %s", want, got)
	}
}

func TestHashMissingFile(t *testing.T) {
	_, err := HashFile(filepath.Join(t.TempDir(), "nope.jpg"))
	if !errors.Is(err, util.ErrNotFound) {
		t.Errorf("expected not-found error hashing a missing file, got %v", err)
	}
}
