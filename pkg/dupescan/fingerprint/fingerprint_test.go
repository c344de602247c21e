package fingerprint

import (
	"bytes"
	"context"
	"crypto/sha256"
	"os"
	"path/filepath"
	"testing"

	"github.com/jamesainslie/dupescan/pkg/dupescan/types"
)

// writeFile creates a file with the given content.
func writeFile(t *testing.T, dir, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

func TestFileKnownContent(t *testing.T) {
	dir := t.TempDir()
	content := []byte("hello world\n")
	path := writeFile(t, dir, "hello.txt", content)

	sum, n, err := File(context.Background(), path)
	if err != nil {
		t.Fatalf("File failed: %v", err)
	}

	want := types.Fingerprint(sha256.Sum256(content))
	if sum != want {
		t.Errorf("fingerprint = %s, want %s", sum.Hex(), want.Hex())
	}
	if n != int64(len(content)) {
		t.Errorf("bytes read = %d, want %d", n, len(content))
	}
}

func TestFileEmpty(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "empty", nil)

	sum, n, err := File(context.Background(), path)
	if err != nil {
		t.Fatalf("File failed: %v", err)
	}

	if sum != types.EmptyFingerprint() {
		t.Errorf("empty file fingerprint = %s, want %s", sum.Hex(), types.EmptyFingerprint().Hex())
	}
	if n != 0 {
		t.Errorf("bytes read = %d, want 0", n)
	}
}

// TestFileMultiBlock verifies streaming across several read blocks produces
// the same digest as hashing the content in one pass.
func TestFileMultiBlock(t *testing.T) {
	dir := t.TempDir()
	content := bytes.Repeat([]byte("abcdefgh"), 3*BlockSize/8+17)
	path := writeFile(t, dir, "big.bin", content)

	sum, n, err := File(context.Background(), path)
	if err != nil {
		t.Fatalf("File failed: %v", err)
	}

	want := types.Fingerprint(sha256.Sum256(content))
	if sum != want {
		t.Errorf("fingerprint = %s, want %s", sum.Hex(), want.Hex())
	}
	if n != int64(len(content)) {
		t.Errorf("bytes read = %d, want %d", n, len(content))
	}
}

// TestFileContentNotName verifies that identical content under different
// names produces identical fingerprints, and different content does not.
func TestFileContentNotName(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.txt", []byte("same bytes"))
	b := writeFile(t, dir, "b.dat", []byte("same bytes"))
	c := writeFile(t, dir, "c.txt", []byte("other bytes"))

	sumA, _, err := File(context.Background(), a)
	if err != nil {
		t.Fatalf("File(a) failed: %v", err)
	}
	sumB, _, err := File(context.Background(), b)
	if err != nil {
		t.Fatalf("File(b) failed: %v", err)
	}
	sumC, _, err := File(context.Background(), c)
	if err != nil {
		t.Fatalf("File(c) failed: %v", err)
	}

	if sumA != sumB {
		t.Error("identical content produced different fingerprints")
	}
	if sumA == sumC {
		t.Error("different content produced identical fingerprints")
	}
}

func TestFileMissing(t *testing.T) {
	_, _, err := File(context.Background(), "/this/path/does/not/exist")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if kind := Classify(err); kind != types.KindVanished {
		t.Errorf("Classify = %v, want %v", kind, types.KindVanished)
	}
}

func TestFileUnreadable(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("skipping permission test as root")
	}

	dir := t.TempDir()
	path := writeFile(t, dir, "secret", []byte("data"))
	if err := os.Chmod(path, 0o000); err != nil {
		t.Fatalf("chmod failed: %v", err)
	}
	defer func() { _ = os.Chmod(path, 0o644) }()

	_, _, err := File(context.Background(), path)
	if err == nil {
		t.Fatal("expected error for unreadable file")
	}
	if kind := Classify(err); kind != types.KindOpen {
		t.Errorf("Classify = %v, want %v", kind, types.KindOpen)
	}
}

func TestFileCancelledContext(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "data", bytes.Repeat([]byte("x"), 2*BlockSize))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := File(ctx, path)
	if err == nil {
		t.Fatal("expected error for cancelled context")
	}
	if kind := Classify(err); kind != types.KindTimeout {
		t.Errorf("Classify = %v, want %v", kind, types.KindTimeout)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want types.ErrorKind
	}{
		{name: "nil error", err: nil, want: types.KindNone},
		{name: "context cancelled", err: context.Canceled, want: types.KindTimeout},
		{name: "deadline exceeded", err: context.DeadlineExceeded, want: types.KindTimeout},
		{name: "not exist", err: os.ErrNotExist, want: types.KindVanished},
		{name: "permission", err: os.ErrPermission, want: types.KindOpen},
		{name: "other", err: os.ErrClosed, want: types.KindRead},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.err); got != tt.want {
				t.Errorf("Classify(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
