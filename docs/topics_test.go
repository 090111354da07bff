package docs

import (
	"bufio"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

func readmeTopics(t *testing.T) []string {
	t.Helper()
	file, err := os.Open("readme.md")
	if err != nil {
		t.Fatalf("failed to open readme.md: %v", err)
	}
	defer file.Close()

	var names []string
	scanner := bufio.NewScanner(file)
	topicRegex := regexp.MustCompile(`^\*\s+([^:]+):.*$`)
	for scanner.Scan() {
		if matches := topicRegex.FindStringSubmatch(scanner.Text()); len(matches) > 1 {
			names = append(names, strings.TrimSpace(matches[1]))
		}
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("error scanning readme.md: %v", err)
	}
	return names
}

func TestTopics(t *testing.T) {
	// The readme is the index; it must stay in sync with the topic
	// files both ways.
	listed := readmeTopics(t)

	for _, topic := range listed {
		t.Run("load_"+topic, func(t *testing.T) {
			if _, err := GetTopic(topic); err != nil {
				t.Errorf("failed to get topic %q: %v", topic, err)
			}
		})
	}

	files, err := filepath.Glob("*.md")
	if err != nil {
		t.Fatalf("failed to glob *.md: %v", err)
	}
	for _, file := range files {
		base := strings.TrimSuffix(filepath.Base(file), ".md")
		if base == "readme" {
			continue
		}
		found := false
		for _, topic := range listed {
			if topic == base {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("topic %q is not listed in readme.md", base)
		}
	}
}

func TestTopicStructure(t *testing.T) {
	// Every topic must parse as markdown and open with a level-1
	// heading, so concatenated output stays readable.
	all, err := AllTopics()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) == 0 {
		t.Fatal("no topics found")
	}

	for _, topic := range all {
		t.Run(topic, func(t *testing.T) {
			content, err := GetTopic(topic)
			if err != nil {
				t.Fatal(err)
			}
			source := []byte(content)
			root := goldmark.DefaultParser().Parse(text.NewReader(source))

			first := root.FirstChild()
			if first == nil {
				t.Fatal("topic is empty")
			}
			h, ok := first.(*ast.Heading)
			if !ok || h.Level != 1 {
				t.Errorf("topic must start with a level-1 heading, got %T", first)
			}
		})
	}
}

func TestGetAllExpandsStar(t *testing.T) {
	content, err := GetTopic("*")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"# Categories", "# Budget", "# Analysis"} {
		if !strings.Contains(content, want) {
			t.Errorf("expanded topics missing %q", want)
		}
	}
}
