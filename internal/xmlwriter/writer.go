// =============================================================================
// ojsconvert - XML Writer Module
// =============================================================================
//
// This module holds the generic element tree the document builders produce
// and the serializer that renders it. The serializer preserves element order
// exactly as constructed: attribute order is not significant per XML, but
// element order is part of the native-XML contract, so nothing here sorts
// or reorders.
//
// OUTPUT SHAPE:
//   <?xml version="1.0" encoding="UTF-8"?>
//   <issues xmlns="http://pkp.sfu.ca"
//           xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance"
//           xsi:schemaLocation="http://pkp.sfu.ca native.xsd">
//     <issue>...</issue>
//   </issues>
//
// =============================================================================

package xmlwriter

import (
	"bytes"
	"fmt"
)

// Namespace declarations for the native-XML import schema. These appear
// verbatim on the root element of every produced document.
const (
	Namespace      = "http://pkp.sfu.ca"
	NamespaceXSI   = "http://www.w3.org/2001/XMLSchema-instance"
	SchemaLocation = "http://pkp.sfu.ca native.xsd"
)

// Attr is a single XML attribute.
type Attr struct {
	Name  string
	Value string
}

// Element is a node in the output tree: a name, ordered attributes, either
// text content or ordered children.
type Element struct {
	Name     string
	Attrs    []Attr
	Text     string
	Children []*Element
}

// New creates an element with the given attributes.
func New(name string, attrs ...Attr) *Element {
	return &Element{Name: name, Attrs: attrs}
}

// Leaf creates an element holding only text content.
func Leaf(name, text string) *Element {
	return &Element{Name: name, Text: text}
}

// Add appends children in order and returns the element for chaining.
func (e *Element) Add(children ...*Element) *Element {
	e.Children = append(e.Children, children...)
	return e
}

// SetAttr appends an attribute and returns the element for chaining.
func (e *Element) SetAttr(name, value string) *Element {
	e.Attrs = append(e.Attrs, Attr{Name: name, Value: value})
	return e
}

// AttrValue returns the value of the named attribute, or "" when absent.
func (e *Element) AttrValue(name string) string {
	for _, a := range e.Attrs {
		if a.Name == name {
			return a.Value
		}
	}
	return ""
}

// Find returns the first direct child with the given name, or nil.
func (e *Element) Find(name string) *Element {
	for _, c := range e.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// FindAll returns all direct children with the given name, in order.
func (e *Element) FindAll(name string) []*Element {
	var out []*Element
	for _, c := range e.Children {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

// =============================================================================
// SERIALIZATION
// =============================================================================

// Serialize renders the tree as an indented XML document with the standard
// declaration.
func Serialize(root *Element, indent string) []byte {
	var buffer bytes.Buffer
	buffer.WriteString("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	writeElement(&buffer, root, indent, 0)
	return buffer.Bytes()
}

// writeElement writes one element and its subtree to the buffer.
func writeElement(buffer *bytes.Buffer, element *Element, indent string, level int) {
	for i := 0; i < level; i++ {
		buffer.WriteString(indent)
	}

	buffer.WriteString("<")
	buffer.WriteString(element.Name)
	for _, attr := range element.Attrs {
		buffer.WriteString(fmt.Sprintf(" %s=\"%s\"", attr.Name, escape(attr.Value)))
	}

	if len(element.Children) == 0 && element.Text == "" {
		buffer.WriteString("/>\n")
		return
	}

	buffer.WriteString(">")

	if len(element.Children) == 0 {
		buffer.WriteString(escape(element.Text))
	} else {
		buffer.WriteString("\n")
		for _, child := range element.Children {
			writeElement(buffer, child, indent, level+1)
		}
		for i := 0; i < level; i++ {
			buffer.WriteString(indent)
		}
	}

	buffer.WriteString("</")
	buffer.WriteString(element.Name)
	buffer.WriteString(">\n")
}

// escape escapes the characters XML reserves in text and attribute values.
func escape(s string) string {
	var buffer bytes.Buffer
	for _, r := range s {
		switch r {
		case '&':
			buffer.WriteString("&amp;")
		case '<':
			buffer.WriteString("&lt;")
		case '>':
			buffer.WriteString("&gt;")
		case '"':
			buffer.WriteString("&quot;")
		case '\'':
			buffer.WriteString("&apos;")
		default:
			buffer.WriteRune(r)
		}
	}
	return buffer.String()
}
