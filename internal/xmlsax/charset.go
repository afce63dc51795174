package xmlsax

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// charsets maps lower-cased encoding labels to decoders.
var charsets = map[string]encoding.Encoding{
	"iso-8859-1":   charmap.ISO8859_1,
	"iso8859-1":    charmap.ISO8859_1,
	"latin1":       charmap.ISO8859_1,
	"iso-8859-15":  charmap.ISO8859_15,
	"windows-1252": charmap.Windows1252,
	"cp1252":       charmap.Windows1252,
}

// charsetReader implements xml.Decoder.CharsetReader.
func charsetReader(label string, input io.Reader) (io.Reader, error) {
	enc, ok := charsets[strings.ToLower(strings.TrimSpace(label))]
	if !ok {
		return nil, fmt.Errorf("xmlsax: unsupported charset %q", label)
	}
	return enc.NewDecoder().Reader(input), nil
}

// skipBOM drops a leading UTF-8 byte order mark.
func skipBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}
	return br
}
