package goodreads

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"
)

// Node is one element of a Goodreads XML document.
// The accessors distinguish children every record must carry from optional ones,
// so a missing element surfaces as a MalformedRecordError naming the record and tag.
type Node struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Content  string     `xml:",chardata"`
	Children []*Node    `xml:",any"`
}

// ParseXML decodes a whole document and returns its root element.
func ParseXML(body []byte) (*Node, error) {
	decoder := xml.NewDecoder(bytes.NewReader(body))
	decoder.Strict = false
	decoder.Entity = xml.HTMLEntity

	var root Node
	if err := decoder.Decode(&root); err != nil {
		return nil, fmt.Errorf("xml.Decode > %w", err)
	}
	return &root, nil
}

// Name returns the element's tag name.
func (n *Node) Name() string {
	return n.XMLName.Local
}

// Text returns the element's own text, trimmed.
func (n *Node) Text() string {
	return strings.TrimSpace(n.Content)
}

// Attr returns the named attribute, or "" when absent.
func (n *Node) Attr(name string) string {
	for _, attr := range n.Attrs {
		if attr.Name.Local == name {
			return attr.Value
		}
	}
	return ""
}

// Child returns the first child element with the tag, or nil.
func (n *Node) Child(tag string) *Node {
	for _, child := range n.Children {
		if child.Name() == tag {
			return child
		}
	}
	return nil
}

// RequiredChild returns the first child element with the tag.
func (n *Node) RequiredChild(tag string) (*Node, error) {
	child := n.Child(tag)
	if child == nil {
		return nil, &MalformedRecordError{Record: n.Name(), Tag: tag}
	}
	return child, nil
}

// RequiredText returns the text of a child element that must be present. The text itself may be empty.
func (n *Node) RequiredText(tag string) (string, error) {
	child, err := n.RequiredChild(tag)
	if err != nil {
		return "", err
	}
	return child.Text(), nil
}

// OptionalText returns the text of a child element, or "" when it is absent.
func (n *Node) OptionalText(tag string) string {
	child := n.Child(tag)
	if child == nil {
		return ""
	}
	return child.Text()
}

// IntAttr parses a required integer attribute.
func (n *Node) IntAttr(name string) (int, error) {
	raw := n.Attr(name)
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &MalformedRecordError{Record: n.Name(), Tag: "@" + name, Reason: fmt.Sprintf("is not an integer: %q", raw)}
	}
	return value, nil
}
