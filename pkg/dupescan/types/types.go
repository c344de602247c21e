// Package types provides core data types for the dupescan duplicate finder.
// It includes the fingerprint and hash-result types that flow through the
// scan pipeline, the duplicate-group and metadata structures exported in
// reports, and utility functions for parsing and formatting file sizes.
package types

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// Size constants for binary (IEC) units.
const (
	KiB int64 = 1024
	MiB int64 = 1024 * KiB
	GiB int64 = 1024 * MiB
	TiB int64 = 1024 * GiB
)

// Fingerprint is a SHA-256 digest of a file's full byte content.
// Equal fingerprints are treated as equal content; dupescan relies on the
// collision resistance of the 256-bit digest and performs no byte-level
// confirmation pass. This is a deliberate, documented assumption.
type Fingerprint [sha256.Size]byte

// Hex returns the lowercase hex encoding of the fingerprint.
func (f Fingerprint) Hex() string {
	return hex.EncodeToString(f[:])
}

// Compare orders fingerprints by their raw bytes. It returns a negative
// number when f sorts before other, zero when equal, positive otherwise.
func (f Fingerprint) Compare(other Fingerprint) int {
	return bytes.Compare(f[:], other[:])
}

// EmptyFingerprint returns the digest of empty input, the fingerprint every
// zero-length file hashes to.
func EmptyFingerprint() Fingerprint {
	return sha256.Sum256(nil)
}

// ErrorKind classifies a fingerprinting failure.
type ErrorKind int

// Failure classifications for hash results.
const (
	// KindNone means the result is a success.
	KindNone ErrorKind = iota

	// KindOpen means the file could not be opened (permissions, special file).
	KindOpen

	// KindVanished means the file disappeared between enumeration and read.
	KindVanished

	// KindRead means the file failed mid-stream (device error, truncation).
	KindRead

	// KindTimeout means the per-file deadline expired before the read finished.
	KindTimeout
)

// String returns the string representation of the error kind.
func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindOpen:
		return "open"
	case KindVanished:
		return "vanished"
	case KindRead:
		return "read"
	case KindTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// HashResult is the outcome of fingerprinting one enumerated path.
// Exactly one HashResult is produced per enumerated path: either Sum is
// valid and Err is nil, or Err describes the failure and Kind classifies it.
type HashResult struct {
	// Path is the file the result belongs to.
	Path string `json:"path"`

	// Sum is the content fingerprint. Only valid when Err is nil.
	Sum Fingerprint `json:"sum"`

	// Err is the read failure, nil on success.
	Err error `json:"-"`

	// Kind classifies the failure; KindNone on success.
	Kind ErrorKind `json:"kind,omitempty"`
}

// Failed reports whether the result records a read failure.
func (r HashResult) Failed() bool {
	return r.Err != nil
}

// DuplicateGroup is a set of at least two distinct paths sharing one
// fingerprint. Paths are sorted lexically and groups carry a stable
// 1-based index assigned in fingerprint-byte order, so reports are
// reproducible regardless of hash completion order.
type DuplicateGroup struct {
	// Index is the stable 1-based group number.
	Index int `json:"index"`

	// Sum is the shared content fingerprint.
	Sum Fingerprint `json:"sum"`

	// Paths are the member files, sorted lexically. Always len >= 2.
	Paths []string `json:"paths"`
}

// Label returns the report label for the group ("Duplicate Group N").
func (g DuplicateGroup) Label() string {
	return fmt.Sprintf("Duplicate Group %d", g.Index)
}

// FileMetadata describes one member of a duplicate group.
// Owner degrades to a placeholder string when the lookup fails; metadata
// collection never drops a file from its group.
type FileMetadata struct {
	// Size is the file size in bytes.
	Size int64 `json:"size"`

	// SizeMB is the size in mebibytes, rounded to 4 decimal places.
	SizeMB float64 `json:"size_mb"`

	// ModTime is the last modification time of the file.
	ModTime time.Time `json:"mod_time"`

	// CreateTime is the creation time (may equal ModTime on some systems).
	CreateTime time.Time `json:"create_time"`

	// Owner is the owning user, or a placeholder with the lookup failure.
	Owner string `json:"owner"`
}

// HumanSize returns the file size formatted as a human-readable string.
func (m *FileMetadata) HumanSize() string {
	return FormatSize(m.Size)
}

// ScanError pairs a path with the error encountered while processing it.
// It is used for enumeration warnings and surfaced hash failures.
type ScanError struct {
	// Path is the file or directory path where the error occurred.
	Path string `json:"path"`

	// Error is the error message describing what went wrong.
	Error string `json:"error"`
}

// ScanStats contains aggregate statistics for one scan session.
type ScanStats struct {
	// FilesEnumerated is the number of candidate paths yielded by enumeration.
	FilesEnumerated int64 `json:"files_enumerated"`

	// FilesHashed is the number of paths fingerprinted successfully.
	FilesHashed int64 `json:"files_hashed"`

	// HashFailures is the number of paths that failed to read.
	HashFailures int64 `json:"hash_failures"`

	// BytesHashed is the total bytes streamed through the digest.
	BytesHashed int64 `json:"bytes_hashed"`

	// DirsSkipped is the number of unlistable directories skipped.
	DirsSkipped int64 `json:"dirs_skipped"`

	// Elapsed is the total scan duration.
	Elapsed time.Duration `json:"elapsed"`
}

// sizePattern matches size strings like "100M", "2G", "500K", "1.5GB", etc.
var sizePattern = regexp.MustCompile(`(?i)^\s*([0-9]+(?:\.[0-9]+)?)\s*([KMGT]?(?:i?B)?)\s*$`)

// ErrInvalidSize indicates that the size string could not be parsed.
var ErrInvalidSize = errors.New("invalid size format")

// ErrNegativeSize indicates that a negative size value was provided.
var ErrNegativeSize = errors.New("size cannot be negative")

// ParseSize parses a human-readable size string and returns the size in bytes.
// It supports plain bytes ("1024"), byte suffixes ("512B"), and K/M/G/T with
// optional B or iB suffixes ("100K", "50MiB", "2GB"). Decimal values are
// truncated to the nearest byte.
func ParseSize(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty string", ErrInvalidSize)
	}

	if strings.HasPrefix(s, "-") {
		return 0, ErrNegativeSize
	}

	matches := sizePattern.FindStringSubmatch(s)
	if matches == nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSize, s)
	}

	value, err := strconv.ParseFloat(matches[1], 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSize, s)
	}

	suffix := strings.ToUpper(matches[2])
	suffix = strings.TrimSuffix(suffix, "IB")
	suffix = strings.TrimSuffix(suffix, "B")

	var multiplier int64
	switch suffix {
	case "":
		multiplier = 1
	case "K":
		multiplier = KiB
	case "M":
		multiplier = MiB
	case "G":
		multiplier = GiB
	case "T":
		multiplier = TiB
	default:
		return 0, fmt.Errorf("%w: unknown suffix %q", ErrInvalidSize, suffix)
	}

	return int64(value * float64(multiplier)), nil
}

// FormatSize converts a size in bytes to a human-readable string using
// binary (IEC) units for consistency with common filesystem tools.
func FormatSize(bytes int64) string {
	return humanize.IBytes(uint64(bytes))
}

// SizeMB converts a byte count to mebibytes rounded to 4 decimal places.
func SizeMB(size int64) float64 {
	mb := float64(size) / float64(MiB)
	return float64(int64(mb*10000+0.5)) / 10000
}
