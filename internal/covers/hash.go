package covers

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/SmileofHaven/Audion-Changes/internal/util"
)

// hashChunkSize is the read buffer used when hashing cover files, so memory
// use stays constant regardless of file size
const hashChunkSize = 64 * 1024

// HashFile streams a file through SHA-256 in fixed-size chunks and returns
// the lowercase hex digest of its exact byte content. Filesystem metadata
// (path, mtime, permissions) never influences the digest.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("cover file %s: %w", path, util.ErrNotFound)
		}
		return "", fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	h := sha256.New()
	buf := make([]byte, hashChunkSize)
	for {
		n, rerr := f.Read(buf)
		if n > 0 {
			h.Write(buf[:n])
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return "", fmt.Errorf("failed to read %s: %w", path, rerr)
		}
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}
