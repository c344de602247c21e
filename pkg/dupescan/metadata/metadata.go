// Package metadata enriches duplicate groups with per-file metadata
// (size, timestamps, owner). Lookups go through the Provider interface so
// the engine stays platform-agnostic; the OS-backed provider lives here
// behind build tags. A failed owner lookup degrades to a placeholder value
// and never drops a file from its group.
package metadata

import (
	"fmt"
	"os"
	"time"

	"github.com/jamesainslie/dupescan/pkg/dupescan/logging"
	"github.com/jamesainslie/dupescan/pkg/dupescan/types"
)

// Provider supplies per-file metadata from the operating system.
type Provider interface {
	// Owner returns the owning user identity for the file.
	Owner(path string) (string, error)

	// Size returns the file size in bytes.
	Size(path string) (int64, error)

	// Times returns the modification and creation times for the file.
	// On platforms without a birth time, created equals modified.
	Times(path string) (modified, created time.Time, err error)
}

// FileEntry pairs a duplicate-group member with its metadata.
type FileEntry struct {
	// Path is the member file.
	Path string `json:"path"`

	// Meta is the collected metadata.
	Meta types.FileMetadata `json:"metadata"`
}

// EnrichedGroup is a duplicate group with metadata attached to each member.
// Member order matches the input group.
type EnrichedGroup struct {
	// Index is the stable 1-based group number.
	Index int `json:"index"`

	// Sum is the shared content fingerprint.
	Sum types.Fingerprint `json:"sum"`

	// Files are the members with their metadata.
	Files []FileEntry `json:"files"`
}

// Label returns the report label for the group ("Duplicate Group N").
func (g EnrichedGroup) Label() string {
	return fmt.Sprintf("Duplicate Group %d", g.Index)
}

// Enricher gathers metadata for every member of every duplicate group.
type Enricher struct {
	provider Provider
	logger   *logging.Logger
}

// NewEnricher creates an Enricher backed by the given provider.
func NewEnricher(provider Provider) *Enricher {
	return &Enricher{
		provider: provider,
		logger:   logging.Get("metadata"),
	}
}

// Enrich collects metadata for each path in each group. Lookup failures
// degrade field by field: a missing owner becomes a placeholder carrying
// the reason, missing times stay zero. No failure removes a file or
// aborts the remaining lookups.
func (e *Enricher) Enrich(groups []types.DuplicateGroup) []EnrichedGroup {
	out := make([]EnrichedGroup, len(groups))
	for i, group := range groups {
		enriched := EnrichedGroup{
			Index: group.Index,
			Sum:   group.Sum,
			Files: make([]FileEntry, len(group.Paths)),
		}
		for j, path := range group.Paths {
			enriched.Files[j] = FileEntry{
				Path: path,
				Meta: e.collect(path),
			}
		}
		out[i] = enriched
	}
	return out
}

// collect gathers one file's metadata, degrading per field on failure.
func (e *Enricher) collect(path string) types.FileMetadata {
	var meta types.FileMetadata

	size, err := e.provider.Size(path)
	if err != nil {
		e.logger.Debug("size lookup failed", "path", path, "error", err)
	} else {
		meta.Size = size
		meta.SizeMB = types.SizeMB(size)
	}

	modified, created, err := e.provider.Times(path)
	if err != nil {
		e.logger.Debug("time lookup failed", "path", path, "error", err)
	} else {
		meta.ModTime = modified
		meta.CreateTime = created
	}

	owner, err := e.provider.Owner(path)
	if err != nil {
		meta.Owner = fmt.Sprintf("owner unavailable: %v", err)
	} else {
		meta.Owner = owner
	}

	return meta
}

// OSProvider implements Provider using stat calls on the local filesystem.
type OSProvider struct{}

// NewOSProvider returns the OS-backed metadata provider.
func NewOSProvider() *OSProvider {
	return &OSProvider{}
}

// Size returns the file size in bytes.
func (p *OSProvider) Size(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// Times returns the modification and creation times for the file.
func (p *OSProvider) Times(path string) (modified, created time.Time, err error) {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return info.ModTime(), getCreateTime(info), nil
}

// Owner returns the owning user for the file.
func (p *OSProvider) Owner(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	return getOwner(info)
}
