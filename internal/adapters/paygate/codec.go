package paygate

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"unicode"

	pkgerrors "github.com/cardwell-io/gateway/pkg/errors"
)

// Element is one node of a PayGate request or response document. Attribute
// and child order is preserved because the processor validates element order.
type Element struct {
	Name     string
	Attrs    []Attr
	Text     string
	Children []*Element
}

// Attr is a single XML attribute
type Attr struct {
	Key   string
	Value string
}

// NewElement creates an element with the given tag name
func NewElement(name string) *Element {
	return &Element{Name: name}
}

// SetAttr appends an attribute and returns the element for chaining
func (e *Element) SetAttr(key, value string) *Element {
	e.Attrs = append(e.Attrs, Attr{Key: key, Value: value})
	return e
}

// Add appends a leaf child with the given text and returns the child
func (e *Element) Add(name, text string) *Element {
	child := &Element{Name: name, Text: text}
	e.Children = append(e.Children, child)
	return child
}

// AddChild appends an empty child element and returns it
func (e *Element) AddChild(name string) *Element {
	child := &Element{Name: name}
	e.Children = append(e.Children, child)
	return child
}

// Append appends an already-built child element
func (e *Element) Append(child *Element) {
	e.Children = append(e.Children, child)
}

// Encode serializes the element as a complete XML document
func (e *Element) Encode() []byte {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	e.write(&buf)
	return buf.Bytes()
}

func (e *Element) write(buf *bytes.Buffer) {
	buf.WriteByte('<')
	buf.WriteString(e.Name)
	for _, a := range e.Attrs {
		buf.WriteByte(' ')
		buf.WriteString(a.Key)
		buf.WriteString(`="`)
		xml.EscapeText(buf, []byte(a.Value))
		buf.WriteByte('"')
	}
	if e.Text == "" && len(e.Children) == 0 {
		buf.WriteString("/>")
		return
	}
	buf.WriteByte('>')
	if e.Text != "" {
		xml.EscapeText(buf, []byte(e.Text))
	}
	for _, child := range e.Children {
		child.write(buf)
	}
	buf.WriteString("</")
	buf.WriteString(e.Name)
	buf.WriteByte('>')
}

// DecodeResponse parses a processor reply into a flat snake_case field map.
// A leaf element without attributes contributes one entry; a leaf with
// attributes contributes its attribute map under the element name plus the
// body text under name + "_response", so neither overwrites the other.
// Container elements recurse into the same map, last write winning on
// repeated tags.
func DecodeResponse(body []byte) (map[string]any, error) {
	root, err := parseDocument(body)
	if err != nil {
		return nil, pkgerrors.NewMalformedResponseError(string(body), err)
	}

	fields := make(map[string]any)
	flatten(root, fields)
	return fields, nil
}

func parseDocument(body []byte) (*Element, error) {
	dec := xml.NewDecoder(bytes.NewReader(body))
	var root *Element
	var stack []*Element

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			el := &Element{Name: t.Name.Local}
			for _, a := range t.Attr {
				el.Attrs = append(el.Attrs, Attr{Key: a.Name.Local, Value: a.Value})
			}
			if len(stack) == 0 {
				if root != nil {
					return nil, fmt.Errorf("multiple root elements")
				}
				root = el
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, el)
			}
			stack = append(stack, el)
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].Text += string(t)
			}
		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		}
	}

	if root == nil {
		return nil, fmt.Errorf("empty document")
	}
	return root, nil
}

func flatten(el *Element, acc map[string]any) {
	for _, child := range el.Children {
		key := snakeCase(child.Name)
		if len(child.Children) > 0 {
			flatten(child, acc)
			continue
		}
		text := strings.TrimSpace(child.Text)
		if len(child.Attrs) > 0 {
			attrs := make(map[string]string, len(child.Attrs))
			for _, a := range child.Attrs {
				attrs[a.Key] = a.Value
			}
			acc[key] = attrs
			acc[key+"_response"] = text
		} else {
			acc[key] = text
		}
	}
}

// snakeCase converts wire tag names like "CardCheck" or "CAReference" to
// "card_check" and "ca_reference". Already-lowercase tags pass through.
func snakeCase(name string) string {
	runes := []rune(name)
	var b strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) {
			prevLower := i > 0 && (unicode.IsLower(runes[i-1]) || unicode.IsDigit(runes[i-1]))
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if i > 0 && (prevLower || nextLower) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
