package report

import (
	"bytes"

	"github.com/jamesainslie/dupescan/pkg/dupescan/metadata"
	"gopkg.in/yaml.v3"
)

// yamlEntry represents one duplicate-group member in YAML output.
type yamlEntry struct {
	Path     string       `yaml:"path"`
	Metadata yamlMetadata `yaml:"metadata"`
}

// yamlMetadata represents per-file metadata in YAML output.
type yamlMetadata struct {
	Size          int64   `yaml:"size"`
	SizeMB        float64 `yaml:"size_mb"`
	SizeHuman     string  `yaml:"size_human"`
	LastWriteTime string  `yaml:"last_write_time"`
	CreationTime  string  `yaml:"creation_time"`
	Owner         string  `yaml:"owner"`
}

// yamlStats represents scan statistics in YAML output.
type yamlStats struct {
	FilesEnumerated int64  `yaml:"files_enumerated"`
	FilesHashed     int64  `yaml:"files_hashed"`
	HashFailures    int64  `yaml:"hash_failures"`
	BytesHashed     int64  `yaml:"bytes_hashed"`
	DirsSkipped     int64  `yaml:"dirs_skipped"`
	Duration        string `yaml:"duration"`
}

// yamlMeta represents report metadata in YAML output.
type yamlMeta struct {
	SessionID   string   `yaml:"session_id"`
	Roots       []string `yaml:"roots"`
	GroupCount  int      `yaml:"group_count"`
	GeneratedAt string   `yaml:"generated_at"`
	Warnings    []string `yaml:"warnings,omitempty"`
}

// YAMLFormatter formats the report as YAML.
// It produces the same structure as JSONFormatter but in YAML format.
// The duplicates mapping is built as an explicit node tree because
// yaml.v3 would otherwise reorder map keys.
type YAMLFormatter struct{}

// Format writes the formatted report to the buffer.
func (f *YAMLFormatter) Format(w *bytes.Buffer, r *Result) error {
	duplicates := &yaml.Node{Kind: yaml.MappingNode}
	for _, group := range r.Groups {
		key := &yaml.Node{Kind: yaml.ScalarNode, Value: group.Label()}

		entries := make([]yamlEntry, len(group.Files))
		for j, file := range group.Files {
			entries[j] = buildYAMLEntry(file)
		}

		value := &yaml.Node{}
		if err := value.Encode(entries); err != nil {
			return err
		}

		duplicates.Content = append(duplicates.Content, key, value)
	}

	stats := &yaml.Node{}
	if err := stats.Encode(yamlStats{
		FilesEnumerated: r.Stats.FilesEnumerated,
		FilesHashed:     r.Stats.FilesHashed,
		HashFailures:    r.Stats.HashFailures,
		BytesHashed:     r.Stats.BytesHashed,
		DirsSkipped:     r.Stats.DirsSkipped,
		Duration:        r.Stats.Elapsed.String(),
	}); err != nil {
		return err
	}

	meta := &yaml.Node{}
	if err := meta.Encode(yamlMeta{
		SessionID:   r.SessionID,
		Roots:       r.Roots,
		GroupCount:  len(r.Groups),
		GeneratedAt: r.GeneratedAt.Format(timeFormat),
		Warnings:    r.Warnings,
	}); err != nil {
		return err
	}

	root := &yaml.Node{
		Kind: yaml.MappingNode,
		Content: []*yaml.Node{
			{Kind: yaml.ScalarNode, Value: "duplicates"}, duplicates,
			{Kind: yaml.ScalarNode, Value: "stats"}, stats,
			{Kind: yaml.ScalarNode, Value: "meta"}, meta,
		},
	}

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(root); err != nil {
		return err
	}
	return encoder.Close()
}

// buildYAMLEntry converts a file entry for YAML output.
func buildYAMLEntry(file metadata.FileEntry) yamlEntry {
	return yamlEntry{
		Path: file.Path,
		Metadata: yamlMetadata{
			Size:          file.Meta.Size,
			SizeMB:        file.Meta.SizeMB,
			SizeHuman:     file.Meta.HumanSize(),
			LastWriteTime: formatTime(file.Meta.ModTime),
			CreationTime:  formatTime(file.Meta.CreateTime),
			Owner:         file.Meta.Owner,
		},
	}
}

func init() {
	Register("yaml", func() Formatter {
		return &YAMLFormatter{}
	})
}

// Ensure YAMLFormatter implements Formatter.
var _ Formatter = (*YAMLFormatter)(nil)
