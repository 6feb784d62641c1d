package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// NodeKind identifies the variant of a rich-text node.
type NodeKind int

// Rich-text node kinds. Anything the extractor does not know is NodeOther.
const (
	NodeOther NodeKind = iota
	NodeParagraph
	NodeOrderedList
	NodeBulletList
	NodeListItem
	NodeText
)

var nodeKindsByType = map[string]NodeKind{
	"paragraph":   NodeParagraph,
	"orderedList": NodeOrderedList,
	"bulletList":  NodeBulletList,
	"listItem":    NodeListItem,
	"text":        NodeText,
}

// String returns the document type name of the kind.
func (k NodeKind) String() string {
	for name, kind := range nodeKindsByType {
		if kind == k {
			return name
		}
	}
	return "other"
}

// Node is one block or inline span of a rich-text document.
// Fields are ordered to minimize memory padding.
type Node struct {
	Content []Node   // Child blocks, list items or inline spans
	Type    string   // Raw type name as received
	Text    string   // Inline text (text nodes only)
	Order   int      // Starting index of an ordered list
	Kind    NodeKind // Resolved variant
}

// UnmarshalJSON decodes a node leniently: unknown types become NodeOther and
// fields with unexpected shapes are dropped instead of failing the decode.
func (n *Node) UnmarshalJSON(data []byte) error {
	*n = Node{}

	var raw struct {
		Type    json.RawMessage `json:"type"`
		Text    json.RawMessage `json:"text"`
		Attrs   json.RawMessage `json:"attrs"`
		Content json.RawMessage `json:"content"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}

	_ = json.Unmarshal(raw.Type, &n.Type)
	_ = json.Unmarshal(raw.Text, &n.Text)
	n.Kind = nodeKindsByType[n.Type]

	var content []Node
	if err := json.Unmarshal(raw.Content, &content); err == nil {
		n.Content = content
	}

	if n.Kind == NodeOrderedList {
		n.Order = 1
		var attrs struct {
			Order *float64 `json:"order"`
		}
		if err := json.Unmarshal(raw.Attrs, &attrs); err == nil && attrs.Order != nil {
			n.Order = int(*attrs.Order)
		}
	}
	return nil
}

// TextNode builds an inline text span.
func TextNode(text string) Node {
	return Node{Kind: NodeText, Type: "text", Text: text}
}

// Paragraph builds a paragraph of inline text spans.
func Paragraph(texts ...string) Node {
	spans := make([]Node, len(texts))
	for i, t := range texts {
		spans[i] = TextNode(t)
	}
	return Node{Kind: NodeParagraph, Type: "paragraph", Content: spans}
}

// ListItem builds a list item holding the given blocks.
func ListItem(blocks ...Node) Node {
	return Node{Kind: NodeListItem, Type: "listItem", Content: blocks}
}

// OrderedList builds an ordered list numbered from start.
func OrderedList(start int, items ...Node) Node {
	return Node{Kind: NodeOrderedList, Type: "orderedList", Order: start, Content: items}
}

// BulletList builds a bulleted list.
func BulletList(items ...Node) Node {
	return Node{Kind: NodeBulletList, Type: "bulletList", Content: items}
}

// ExtractText flattens rich-text blocks into plain text.
// Blocks are separated by a blank line; list items keep their markers.
func ExtractText(nodes []Node) string {
	if len(nodes) == 0 {
		return ""
	}
	parts := make([]string, len(nodes))
	for i := range nodes {
		parts[i] = extractBlock(&nodes[i])
	}
	return strings.Join(parts, "\n\n")
}

func extractBlock(n *Node) string {
	switch n.Kind {
	case NodeParagraph:
		spans := make([]string, len(n.Content))
		for i := range n.Content {
			spans[i] = n.Content[i].Text
		}
		return strings.Join(spans, " ")
	case NodeOrderedList:
		lines := make([]string, len(n.Content))
		for i := range n.Content {
			lines[i] = fmt.Sprintf("%d. %s", n.Order+i, ExtractText(n.Content[i].Content))
		}
		return strings.Join(lines, "\n")
	case NodeBulletList:
		lines := make([]string, len(n.Content))
		for i := range n.Content {
			lines[i] = "- " + ExtractText(n.Content[i].Content)
		}
		return strings.Join(lines, "\n")
	default:
		return ""
	}
}
