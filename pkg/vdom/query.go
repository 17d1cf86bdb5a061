package vdom

import "strings"

// selector is a compound selector: tag, #id and any number of .class parts.
type selector struct {
	tag     string
	id      string
	classes []string
}

func parseSelector(s string) (selector, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.ContainsAny(s, " >+~[:,") {
		return selector{}, false
	}

	var sel selector
	for len(s) > 0 {
		var part string
		kind := byte(0)
		if s[0] == '#' || s[0] == '.' {
			kind = s[0]
			s = s[1:]
		}
		end := strings.IndexAny(s, "#.")
		if end < 0 {
			end = len(s)
		}
		part, s = s[:end], s[end:]
		if part == "" {
			return selector{}, false
		}

		switch kind {
		case '#':
			sel.id = part
		case '.':
			sel.classes = append(sel.classes, part)
		default:
			if sel.tag != "" {
				return selector{}, false
			}
			sel.tag = strings.ToLower(part)
		}
	}
	return sel, true
}

func (s selector) matches(v *VNode) bool {
	if v.Kind != KindElement {
		return false
	}
	if s.tag != "" && s.tag != "*" && s.tag != v.Tag {
		return false
	}
	if s.id != "" {
		if id, _ := v.GetAttr("id"); id != s.id {
			return false
		}
	}
	if len(s.classes) > 0 {
		class, _ := v.GetAttr("class")
		have := strings.Fields(class)
		for _, want := range s.classes {
			if !containsString(have, want) {
				return false
			}
		}
	}
	return true
}

// Query returns the first element under root, in document order, matching a
// compound selector such as "div", "#app", ".card" or "section#main.wide".
// Combinators and attribute selectors are not supported.
func Query(root *VNode, sel string) *VNode {
	s, ok := parseSelector(sel)
	if !ok {
		return nil
	}
	return find(root, s.matches)
}

func find(node *VNode, match func(*VNode) bool) *VNode {
	if node == nil {
		return nil
	}
	if match(node) {
		return node
	}
	for _, child := range node.Children {
		if found := find(child, match); found != nil {
			return found
		}
	}
	return nil
}

func walk(node *VNode, fn func(*VNode)) {
	if node == nil {
		return
	}
	fn(node)
	for _, child := range node.Children {
		walk(child, fn)
	}
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
