package vdom

import (
	"bufio"
	"bytes"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Parse reads template markup into a tree. Input that starts with a doctype
// or an <html> tag is parsed as a full document; anything else is parsed as
// body content. The result is always a fragment holding the top-level nodes.
// Comments and doctypes are dropped.
func Parse(r io.Reader) (*VNode, error) {
	br := bufio.NewReader(r)
	head, _ := br.Peek(512)

	if isDocument(head) {
		doc, err := html.Parse(br)
		if err != nil {
			return nil, err
		}
		root := Fragment()
		for c := doc.FirstChild; c != nil; c = c.NextSibling {
			if n := convert(c); n != nil {
				root.Children = append(root.Children, n)
			}
		}
		return root, nil
	}

	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(br, body)
	if err != nil {
		return nil, err
	}
	root := Fragment()
	for _, c := range nodes {
		if n := convert(c); n != nil {
			root.Children = append(root.Children, n)
		}
	}
	return root, nil
}

// ParseString is Parse over a string.
func ParseString(markup string) (*VNode, error) {
	return Parse(strings.NewReader(markup))
}

func isDocument(head []byte) bool {
	trimmed := bytes.ToLower(bytes.TrimSpace(head))
	return bytes.HasPrefix(trimmed, []byte("<!doctype")) || bytes.HasPrefix(trimmed, []byte("<html"))
}

func convert(n *html.Node) *VNode {
	switch n.Type {
	case html.TextNode:
		return Text(n.Data)
	case html.ElementNode:
		el := &VNode{Kind: KindElement, Tag: n.Data}
		for _, a := range n.Attr {
			name := a.Key
			if a.Namespace != "" {
				name = a.Namespace + ":" + a.Key
			}
			el.Attrs = append(el.Attrs, Attr(name, a.Val))
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if child := convert(c); child != nil {
				el.Children = append(el.Children, child)
			}
		}
		return el
	}
	return nil
}
