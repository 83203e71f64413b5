package nolint

import (
	"errors"
	"strings"

	"github.com/gnolang/py3port/internal/pytree"
)

const directivePrefix = "py3port:"

var errNotDirective = errors.New("not an ignore directive")

// Manager knows which lines of one file are excluded from which passes.
type Manager struct {
	scopes []ignoreScope
}

// ignoreScope is an inclusive line range where the listed passes, or all
// passes when the list is empty, are suppressed.
type ignoreScope struct {
	passes map[string]struct{}
	start  int
	end    int
}

// ParseComments collects `# py3port: ignore[=pass,...]` directives from the
// tree. A directive trailing code covers the statement it ends; one on its
// own line covers the header of the statement that follows.
func ParseComments(tree *pytree.Node) *Manager {
	m := &Manager{}
	lines := leafLines(tree)

	line := 1
	for leaf := range pytree.Leaves(tree) {
		prefix := leaf.Prefix
		prev := leaf.PrevLeaf()
		inline := prev != nil && prev.Type != pytree.Newline
		for len(prefix) > 0 {
			nl := strings.IndexByte(prefix, '\n')
			text := prefix
			if nl >= 0 {
				text = prefix[:nl]
			}
			if hash := strings.IndexByte(text, '#'); hash >= 0 {
				if passes, err := parseDirective(text[hash+1:]); err == nil {
					m.scopes = append(m.scopes, scopeFor(leaf, line, inline, passes, lines))
				}
			}
			if nl < 0 {
				break
			}
			prefix = prefix[nl+1:]
			line++
			inline = false
		}
		line += strings.Count(leaf.Value, "\n")
	}
	return m
}

// parseDirective parses the text following '#'.
func parseDirective(text string) (map[string]struct{}, error) {
	text = strings.TrimSpace(text)
	rest, ok := strings.CutPrefix(text, directivePrefix)
	if !ok {
		return nil, errNotDirective
	}
	rest = strings.TrimSpace(rest)
	if rest == "ignore" {
		return map[string]struct{}{}, nil
	}
	names, ok := strings.CutPrefix(rest, "ignore=")
	if !ok {
		return nil, errNotDirective
	}
	passes := parseIgnoreRuleNames(names)
	if len(passes) == 0 {
		return nil, errNotDirective
	}
	return passes, nil
}

func scopeFor(owner *pytree.Node, line int, inline bool, passes map[string]struct{}, lines map[*pytree.Node]int) ignoreScope {
	s := ignoreScope{passes: passes, start: line, end: line}
	if inline {
		if prev := owner.PrevLeaf(); prev != nil {
			if stmt := prev.Statement(); stmt != nil {
				s.start = lines[stmt.FirstLeaf()]
			}
		}
		return s
	}
	if stmt := owner.Statement(); stmt != nil {
		s.end = headerEnd(stmt, lines)
	}
	return s
}

// headerEnd returns the line of the first NEWLINE of stmt: the end of a
// simple statement or of a compound statement's header.
func headerEnd(stmt *pytree.Node, lines map[*pytree.Node]int) int {
	for leaf := range pytree.Leaves(stmt) {
		if leaf.Type == pytree.Newline {
			return lines[leaf]
		}
	}
	return lines[stmt.FirstLeaf()]
}

// leafLines maps every leaf to the line its value starts on.
func leafLines(tree *pytree.Node) map[*pytree.Node]int {
	lines := make(map[*pytree.Node]int)
	line := 1
	for leaf := range pytree.Leaves(tree) {
		line += strings.Count(leaf.Prefix, "\n")
		lines[leaf] = line
		line += strings.Count(leaf.Value, "\n")
	}
	return lines
}

// parseIgnoreRuleNames parses the comma separated pass list of a directive.
func parseIgnoreRuleNames(text string) map[string]struct{} {
	rulesMap := make(map[string]struct{})
	if text == "" {
		return rulesMap
	}
	for _, rule := range strings.Split(text, ",") {
		rule = strings.TrimSpace(rule)
		if rule != "" {
			rulesMap[rule] = struct{}{}
		}
	}
	return rulesMap
}

// IsNolint reports whether pass is suppressed on line. A nil Manager
// suppresses nothing.
func (m *Manager) IsNolint(line int, pass string) bool {
	if m == nil {
		return false
	}
	for _, s := range m.scopes {
		if line < s.start || line > s.end {
			continue
		}
		if len(s.passes) == 0 {
			return true
		}
		if _, ok := s.passes[pass]; ok {
			return true
		}
	}
	return false
}
