package frontmatter

import (
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Serialize renders fm as a YAML frontmatter block delimited by "---" lines.
// Keys are sorted for deterministic output.
func Serialize(fm map[string]any) (string, error) {
	if len(fm) == 0 {
		return "", nil
	}

	ordered := make(map[string]any, len(fm))
	keys := make([]string, 0, len(fm))
	for k, v := range fm {
		keys = append(keys, k)
		ordered[k] = v
	}
	sort.Strings(keys)

	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, k := range keys {
		keyNode := &yaml.Node{}
		if err := keyNode.Encode(k); err != nil {
			return "", fmt.Errorf("frontmatter: encoding key %q: %w", k, err)
		}
		valNode := &yaml.Node{}
		if err := valNode.Encode(ordered[k]); err != nil {
			return "", fmt.Errorf("frontmatter: encoding value for key %q: %w", k, err)
		}
		node.Content = append(node.Content, keyNode, valNode)
	}

	body, err := yaml.Marshal(node)
	if err != nil {
		return "", fmt.Errorf("frontmatter: marshaling yaml: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("---\n")
	sb.Write(body)
	sb.WriteString("---\n")
	return sb.String(), nil
}
