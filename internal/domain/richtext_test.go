package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractText(t *testing.T) {
	tests := []struct {
		name  string
		nodes []Node
		want  string
	}{
		{
			name:  "nil input",
			nodes: nil,
			want:  "",
		},
		{
			name:  "empty input",
			nodes: []Node{},
			want:  "",
		},
		{
			name:  "paragraph joins spans with a space",
			nodes: []Node{Paragraph("Hello", "world")},
			want:  "Hello world",
		},
		{
			name:  "blocks separated by blank line",
			nodes: []Node{Paragraph("First"), Paragraph("Second")},
			want:  "First\n\nSecond",
		},
		{
			name: "ordered list starts at declared order",
			nodes: []Node{OrderedList(3,
				ListItem(Paragraph("a")),
				ListItem(Paragraph("b")),
			)},
			want: "3. a\n4. b",
		},
		{
			name:  "ordered list item without content keeps its number",
			nodes: []Node{OrderedList(1, ListItem(), ListItem(Paragraph("x")))},
			want:  "1. \n2. x",
		},
		{
			name:  "bullet list",
			nodes: []Node{BulletList(ListItem(Paragraph("one")), ListItem(Paragraph("two")))},
			want:  "- one\n- two",
		},
		{
			name: "nested list inside item",
			nodes: []Node{BulletList(
				ListItem(Paragraph("outer"), OrderedList(1, ListItem(Paragraph("inner")))),
			)},
			want: "- outer\n\n1. inner",
		},
		{
			name:  "unknown block contributes empty text",
			nodes: []Node{Paragraph("a"), {Type: "codeBlock"}, Paragraph("b")},
			want:  "a\n\n\n\nb",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractText(tt.nodes))
		})
	}
}

func TestNode_UnmarshalJSON(t *testing.T) {
	raw := `[
		{"type":"paragraph","content":[{"type":"text","text":"Hi"},{"type":"text","text":"there"}]},
		{"type":"orderedList","attrs":{"order":5},"content":[
			{"type":"listItem","content":[{"type":"paragraph","content":[{"type":"text","text":"step"}]}]}
		]},
		{"type":"orderedList","content":[{"type":"listItem"}]},
		{"type":"mediaSingle","attrs":{"layout":"center"}},
		{"type":42,"content":"not a list"}
	]`

	var nodes []Node
	require.NoError(t, json.Unmarshal([]byte(raw), &nodes))
	require.Len(t, nodes, 5)

	assert.Equal(t, NodeParagraph, nodes[0].Kind)
	assert.Equal(t, NodeOrderedList, nodes[1].Kind)
	assert.Equal(t, 5, nodes[1].Order)
	assert.Equal(t, 1, nodes[2].Order, "order defaults to 1")
	assert.Equal(t, NodeOther, nodes[3].Kind)
	assert.Equal(t, "mediaSingle", nodes[3].Type)
	assert.Equal(t, NodeOther, nodes[4].Kind)
	assert.Empty(t, nodes[4].Content)

	assert.Equal(t, "Hi there\n\n5. step\n\n1. \n\n\n\n", ExtractText(nodes))
}

func TestNodeKind_String(t *testing.T) {
	assert.Equal(t, "orderedList", NodeOrderedList.String())
	assert.Equal(t, "other", NodeOther.String())
}
