package xmlsax

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// MaxIncludeDepth bounds nested external-entity inclusion.
const MaxIncludeDepth = 16

// Entity markers. Entity references expand to markerOpen + name +
// markerClose, which cannot appear in well-formed input text.
const (
	markerOpen  = "\uE000"
	markerClose = "\uE001"
)

var (
	// ErrIncludeDepth is logged when inclusion nests deeper than MaxIncludeDepth.
	ErrIncludeDepth = errors.New("xmlsax: include depth exceeded")

	doctypeRe = regexp.MustCompile(`^DOCTYPE\s+[^\s\[>]+\s+(?:SYSTEM|PUBLIC\s+(?:"[^"]*"|'[^']*'))\s+(?:"([^"]*)"|'([^']*)')`)
	entityRe  = regexp.MustCompile(`<!ENTITY\s+([^\s%]+)\s+SYSTEM\s+(?:"([^"]*)"|'([^']*)')\s*>`)
)

// Attr is one attribute of an element.
type Attr struct {
	Name  string
	Value string
}

// Attrs is an element's attribute list in document order.
type Attrs []Attr

// Get returns the value of the named attribute.
func (a Attrs) Get(name string) (string, bool) {
	for _, at := range a {
		if at.Name == name {
			return at.Value, true
		}
	}
	return "", false
}

// Handler receives element callbacks in document order.
type Handler interface {
	StartElement(name string, attrs Attrs)
	EndElement(name string)
}

// DoctypeHandler is implemented by handlers that want the DOCTYPE
// system identifier.
type DoctypeHandler interface {
	Doctype(systemID string)
}

// CommentHandler is implemented by handlers that want the comments
// appearing before the root element of the top-level document.
type CommentHandler interface {
	Comment(text string)
}

// Resolver opens the file an external entity points at.
type Resolver func(path string) (io.ReadCloser, error)

// OpenFile is the default Resolver.
func OpenFile(path string) (io.ReadCloser, error) {
	return os.Open(path)
}

// Parser drives a Handler from an XML byte stream.
type Parser struct {
	Handler  Handler
	Resolver Resolver     // nil means OpenFile
	BaseDir  string       // directory relative entity paths resolve against
	Logger   *slog.Logger // nil means discard

	depth    int
	entities map[string]string
}

// ParseFile opens path and parses it, resolving entities relative to the
// file's directory.
func (p *Parser) ParseFile(path string) error {
	rc, err := p.resolver()(path)
	if err != nil {
		return err
	}
	defer rc.Close()

	sub := *p
	sub.BaseDir = filepath.Dir(path)
	return sub.Parse(rc)
}

// Parse reads the whole document from r.
func (p *Parser) Parse(r io.Reader) error {
	if p.Handler == nil {
		return errors.New("xmlsax: nil handler")
	}
	p.entities = make(map[string]string)

	dec := xml.NewDecoder(skipBOM(r))
	dec.Strict = true
	dec.CharsetReader = charsetReader
	dec.Entity = make(map[string]string)

	seenRoot := false
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			seenRoot = true
			attrs := make(Attrs, len(t.Attr))
			for i, a := range t.Attr {
				attrs[i] = Attr{Name: qualified(a.Name), Value: a.Value}
			}
			p.Handler.StartElement(qualified(t.Name), attrs)

		case xml.EndElement:
			p.Handler.EndElement(qualified(t.Name))

		case xml.CharData:
			if strings.Contains(string(t), markerOpen) {
				p.expand(string(t))
			}

		case xml.Comment:
			if !seenRoot && p.depth == 0 {
				if ch, ok := p.Handler.(CommentHandler); ok {
					ch.Comment(string(t))
				}
			}

		case xml.Directive:
			p.directive(string(t), dec)
		}
	}
}

// directive records the DOCTYPE system id and declares SYSTEM entities
// on the decoder.
func (p *Parser) directive(text string, dec *xml.Decoder) {
	if m := doctypeRe.FindStringSubmatch(text); m != nil && p.depth == 0 {
		if dh, ok := p.Handler.(DoctypeHandler); ok {
			dh.Doctype(m[1] + m[2])
		}
	}
	for _, m := range entityRe.FindAllStringSubmatch(text, -1) {
		name, sysID := m[1], m[2]+m[3]
		p.entities[name] = sysID
		dec.Entity[name] = markerOpen + name + markerClose
	}
}

// expand parses every entity referenced in text, in order.
func (p *Parser) expand(text string) {
	for {
		start := strings.Index(text, markerOpen)
		if start < 0 {
			return
		}
		rest := text[start+len(markerOpen):]
		end := strings.Index(rest, markerClose)
		if end < 0 {
			return
		}
		name := rest[:end]
		text = rest[end+len(markerClose):]

		if err := p.include(name); err != nil {
			p.logger().Error("external entity failed", "entity", name, "err", err)
		}
	}
}

func (p *Parser) include(name string) error {
	sysID, ok := p.entities[name]
	if !ok {
		return fmt.Errorf("xmlsax: undeclared entity %q", name)
	}
	if p.depth+1 > MaxIncludeDepth {
		return ErrIncludeDepth
	}

	path := sysID
	if !filepath.IsAbs(path) {
		path = filepath.Join(p.BaseDir, path)
	}

	sub := &Parser{
		Handler:  p.Handler,
		Resolver: p.Resolver,
		Logger:   p.Logger,
		depth:    p.depth + 1,
	}
	return sub.ParseFile(path)
}

func (p *Parser) resolver() Resolver {
	if p.Resolver != nil {
		return p.Resolver
	}
	return OpenFile
}

func (p *Parser) logger() *slog.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return slog.New(slog.DiscardHandler)
}

func qualified(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}
