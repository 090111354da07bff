// Package docs serves the built-in documentation topics.
package docs

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

//go:embed *.md
var topics embed.FS

// GetTopic returns the content of one documentation topic. The special
// topic "*" expands to all topics concatenated.
func GetTopic(topic string) (string, error) {
	if topic == "*" {
		all, err := AllTopics()
		if err != nil {
			return "", err
		}
		return GetTopics(all...)
	}
	content, err := topics.ReadFile(topic + ".md")
	if err != nil {
		return "", fmt.Errorf("topic %q not found: %w", topic, err)
	}
	return string(content), nil
}

// GetTopics concatenates the content of several topics.
func GetTopics(names ...string) (string, error) {
	var b bytes.Buffer
	for _, name := range names {
		content, err := GetTopic(name)
		if err != nil {
			return "", err
		}
		b.WriteString(content)
		b.WriteString("\n")
	}
	return b.String(), nil
}

// AllTopics lists every available topic, sorted. The readme is an index,
// not a topic.
func AllTopics() ([]string, error) {
	var names []string
	err := fs.WalkDir(topics, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		if base == "readme" {
			return nil
		}
		names = append(names, base)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}
