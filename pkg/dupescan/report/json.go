package report

import (
	"bytes"
	"encoding/json"

	"github.com/jamesainslie/dupescan/pkg/dupescan/metadata"
)

// jsonOutput represents the full JSON report structure.
type jsonOutput struct {
	Duplicates orderedGroups `json:"duplicates"`
	Stats      jsonStats     `json:"stats"`
	Meta       jsonMeta      `json:"meta"`
}

// jsonEntry represents one duplicate-group member in JSON output.
type jsonEntry struct {
	Path     string       `json:"path"`
	Metadata jsonMetadata `json:"metadata"`
}

// jsonMetadata represents per-file metadata in JSON output.
type jsonMetadata struct {
	Size          int64   `json:"size"`
	SizeMB        float64 `json:"size_mb"`
	SizeHuman     string  `json:"size_human"`
	LastWriteTime string  `json:"last_write_time"`
	CreationTime  string  `json:"creation_time"`
	Owner         string  `json:"owner"`
}

// jsonStats represents scan statistics in JSON output.
type jsonStats struct {
	FilesEnumerated int64  `json:"files_enumerated"`
	FilesHashed     int64  `json:"files_hashed"`
	HashFailures    int64  `json:"hash_failures"`
	BytesHashed     int64  `json:"bytes_hashed"`
	DirsSkipped     int64  `json:"dirs_skipped"`
	Duration        string `json:"duration"`
}

// jsonMeta represents report metadata in JSON output.
type jsonMeta struct {
	SessionID   string   `json:"session_id"`
	Roots       []string `json:"roots"`
	GroupCount  int      `json:"group_count"`
	GeneratedAt string   `json:"generated_at"`
	Warnings    []string `json:"warnings,omitempty"`
}

// orderedGroups marshals duplicate groups as a JSON object whose keys are
// the "Duplicate Group N" labels in index order. encoding/json sorts map
// keys lexically ("Duplicate Group 10" before "Duplicate Group 2"), so the
// object is assembled by hand to keep the deterministic numeric order.
type orderedGroups []metadata.EnrichedGroup

// MarshalJSON implements json.Marshaler.
func (g orderedGroups) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	for i, group := range g {
		if i > 0 {
			buf.WriteByte(',')
		}

		key, err := json.Marshal(group.Label())
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		entries := make([]jsonEntry, len(group.Files))
		for j, file := range group.Files {
			entries[j] = jsonEntry{
				Path:     file.Path,
				Metadata: buildJSONMetadata(file),
			}
		}

		value, err := json.Marshal(entries)
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// buildJSONMetadata converts a file entry's metadata for JSON output.
func buildJSONMetadata(file metadata.FileEntry) jsonMetadata {
	return jsonMetadata{
		Size:          file.Meta.Size,
		SizeMB:        file.Meta.SizeMB,
		SizeHuman:     file.Meta.HumanSize(),
		LastWriteTime: formatTime(file.Meta.ModTime),
		CreationTime:  formatTime(file.Meta.CreateTime),
		Owner:         file.Meta.Owner,
	}
}

// JSONFormatter formats the report as a single indented JSON object.
type JSONFormatter struct{}

// Format writes the formatted report to the buffer.
func (f *JSONFormatter) Format(w *bytes.Buffer, r *Result) error {
	output := jsonOutput{
		Duplicates: orderedGroups(r.Groups),
		Stats: jsonStats{
			FilesEnumerated: r.Stats.FilesEnumerated,
			FilesHashed:     r.Stats.FilesHashed,
			HashFailures:    r.Stats.HashFailures,
			BytesHashed:     r.Stats.BytesHashed,
			DirsSkipped:     r.Stats.DirsSkipped,
			Duration:        r.Stats.Elapsed.String(),
		},
		Meta: jsonMeta{
			SessionID:   r.SessionID,
			Roots:       r.Roots,
			GroupCount:  len(r.Groups),
			GeneratedAt: r.GeneratedAt.Format(timeFormat),
			Warnings:    r.Warnings,
		},
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

func init() {
	Register("json", func() Formatter {
		return &JSONFormatter{}
	})
}

// Ensure JSONFormatter implements Formatter.
var _ Formatter = (*JSONFormatter)(nil)
