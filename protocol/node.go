package protocol

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/slices"
)

// Node is an in-memory XML element. Namespaces are dropped.
type Node struct {
	Name       string
	Content    string
	Attributes map[string]string
	Children   []*Node
}

func NewNode(name string) *Node {
	return &Node{Name: name, Attributes: make(map[string]string)}
}

// WithAttr sets an attribute and returns the node for chaining.
func (n *Node) WithAttr(key, value string) *Node {
	if n.Attributes == nil {
		n.Attributes = make(map[string]string)
	}
	n.Attributes[key] = value
	return n
}

func (n *Node) WithChildren(children ...*Node) *Node {
	n.Children = append(n.Children, children...)
	return n
}

func (n *Node) WithContent(content string) *Node {
	n.Content = content
	return n
}

// Attr returns the attribute or a DecodeError of kind ErrMissingField.
func (n *Node) Attr(key string) (string, error) {
	v, ok := n.Attributes[key]
	if !ok {
		return "", &DecodeError{Kind: ErrMissingField, Element: n.Name, Attribute: key}
	}
	return v, nil
}

func (n *Node) IntAttr(key string) (int, error) {
	raw, err := n.Attr(key)
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &DecodeError{Kind: ErrMalformedNumber, Element: n.Name, Attribute: key, Value: raw, Err: err}
	}
	return v, nil
}

func (n *Node) BoolAttr(key string) (bool, error) {
	raw, err := n.Attr(key)
	if err != nil {
		return false, err
	}
	return parseBool(n.Name, key, raw)
}

func parseBool(element, key, raw string) (bool, error) {
	switch raw {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return false, &DecodeError{Kind: ErrUnrecognizedLiteral, Element: element, Attribute: key, Value: raw}
}

// Child returns the first child with the given name.
func (n *Node) Child(name string) (*Node, error) {
	for _, c := range n.Children {
		if c.Name == name {
			return c, nil
		}
	}
	return nil, &DecodeError{Kind: ErrMissingField, Element: n.Name, Child: name}
}

// ChildrenNamed returns every child with the given name, in document order.
func (n *Node) ChildrenNamed(name string) []*Node {
	var result []*Node
	for _, c := range n.Children {
		if c.Name == name {
			result = append(result, c)
		}
	}
	return result
}

// ReadNode reads the next complete element from the decoder. Tokens before
// the first start element are skipped. Reaching the end of an enclosing
// element (such as </protocol>) before any start element returns io.EOF.
func ReadNode(dec *xml.Decoder) (*Node, error) {
	var stack []*Node
	for {
		tok, err := dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) && len(stack) > 0 {
				return nil, io.ErrUnexpectedEOF
			}
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			node := NewNode(t.Name.Local)
			for _, a := range t.Attr {
				node.Attributes[a.Name.Local] = a.Value
			}
			stack = append(stack, node)
		case xml.EndElement:
			if len(stack) == 0 {
				log.Debug().Str("element", t.Name.Local).Msg("enclosing element closed")
				return nil, io.EOF
			}
			node := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				return node, nil
			}
			parent := stack[len(stack)-1]
			parent.Children = append(parent.Children, node)
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].Content += string(t)
			} else if len(bytes.TrimSpace(t)) > 0 {
				log.Warn().Str("content", string(t)).Msg("found characters outside of any element")
			}
		}
	}
}

// ParseNode reads a single element from raw XML text.
func ParseNode(raw string) (*Node, error) {
	return ReadNode(xml.NewDecoder(bytes.NewBufferString(raw)))
}

// Write encodes the node and its children. Attributes are written in sorted
// order so that the output is stable.
func (n *Node) Write(enc *xml.Encoder) error {
	start := xml.StartElement{Name: xml.Name{Local: n.Name}}
	keys := make([]string, 0, len(n.Attributes))
	for k := range n.Attributes {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: k}, Value: n.Attributes[k]})
	}

	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	if n.Content != "" {
		if err := enc.EncodeToken(xml.CharData(n.Content)); err != nil {
			return err
		}
	}
	for _, c := range n.Children {
		if err := c.Write(enc); err != nil {
			return fmt.Errorf("writing <%s>: %w", c.Name, err)
		}
	}
	return enc.EncodeToken(start.End())
}

// Bytes returns the compact XML encoding of the node.
func (n *Node) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	enc := xml.NewEncoder(&buf)
	if err := n.Write(enc); err != nil {
		return nil, err
	}
	if err := enc.Flush(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (n *Node) String() string {
	var buf bytes.Buffer
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := n.Write(enc); err != nil {
		return fmt.Sprintf("<%s><!-- %v --></%s>", n.Name, err, n.Name)
	}
	enc.Flush()
	return buf.String()
}
