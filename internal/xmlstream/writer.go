package xmlstream

import (
	"bufio"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Writer emits an XML document incrementally to an underlying stream.
// Element pairs every start tag with its end tag around a content callback,
// so nesting stays balanced without manual bookkeeping. Nothing is buffered
// beyond the bufio window; Flush must be called once the document is done.
type Writer struct {
	bw *bufio.Writer

	// open is true while the current start tag still accepts attributes.
	open bool
}

// New wraps w in a streaming XML writer.
func New(w io.Writer) *Writer {
	return &Writer{bw: bufio.NewWriter(w)}
}

// StartDocument writes the XML declaration.
func (w *Writer) StartDocument() error {
	_, err := w.bw.WriteString(xml.Header)
	return err
}

// Element writes a start tag for name, runs content, and writes the matching
// end tag on every exit path, including content failure.
func (w *Writer) Element(name string, content func(*Writer) error) error {
	if err := w.closeStartTag(); err != nil {
		return err
	}
	if _, err := w.bw.WriteString("<" + name); err != nil {
		return err
	}
	w.open = true

	cerr := content(w)

	if err := w.closeStartTag(); err != nil {
		return err
	}
	if _, err := w.bw.WriteString("</" + name + ">"); err != nil {
		return err
	}
	return cerr
}

// WriteElement writes a leaf element with escaped text content.
func (w *Writer) WriteElement(name, text string) error {
	return w.Element(name, func(w *Writer) error {
		return w.Text(text)
	})
}

// Attr writes an attribute on the currently open start tag. Attributes are
// only legal before the element's first content write.
func (w *Writer) Attr(name, value string) error {
	if !w.open {
		return fmt.Errorf("attribute %q written outside a start tag", name)
	}
	if _, err := w.bw.WriteString(" " + name + `="`); err != nil {
		return err
	}
	if err := xml.EscapeText(w.bw, []byte(value)); err != nil {
		return err
	}
	return w.bw.WriteByte('"')
}

// AttrInt writes an integer attribute in its literal decimal form.
func (w *Writer) AttrInt(name string, value int) error {
	return w.Attr(name, strconv.Itoa(value))
}

// Text writes escaped character data.
func (w *Writer) Text(s string) error {
	if err := w.closeStartTag(); err != nil {
		return err
	}
	return xml.EscapeText(w.bw, []byte(s))
}

// CData writes s unescaped inside a CDATA section. An embedded "]]>" is
// split across two sections so the output stays well-formed.
func (w *Writer) CData(s string) error {
	if err := w.closeStartTag(); err != nil {
		return err
	}
	s = strings.ReplaceAll(s, "]]>", "]]]]><![CDATA[>")
	_, err := w.bw.WriteString("<![CDATA[" + s + "]]>")
	return err
}

// Flush drains buffered output to the underlying stream.
func (w *Writer) Flush() error {
	return w.bw.Flush()
}

func (w *Writer) closeStartTag() error {
	if !w.open {
		return nil
	}
	w.open = false
	return w.bw.WriteByte('>')
}
