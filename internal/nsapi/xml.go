package nsapi

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strings"

	"golang.org/x/net/html/charset"

	"github.com/vk/nne/internal/apperr"
)

// findElement returns the trimmed character data of the first element named
// name anywhere in doc. ok is false when no such element exists.
func findElement(doc []byte, name string) (text string, ok bool, err error) {
	dec := xml.NewDecoder(bytes.NewReader(doc))
	// Some shards declare a non-UTF-8 encoding.
	dec.CharsetReader = charset.NewReaderLabel
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return "", false, nil
		}
		if err != nil {
			return "", false, err
		}
		se, isStart := tok.(xml.StartElement)
		if !isStart || se.Name.Local != name {
			continue
		}
		var s string
		if err := dec.DecodeElement(&s, &se); err != nil {
			return "", false, err
		}
		return strings.TrimSpace(s), true, nil
	}
}

// field extracts a required element, converting absence into a ParseError
// that carries any API error text.
func field(doc []byte, name string) (string, error) {
	text, ok, err := findElement(doc, name)
	if err != nil {
		return "", &apperr.ParseError{Field: name, Err: err}
	}
	if !ok {
		if msg, found, _ := findElement(doc, "ERROR"); found && msg != "" {
			return "", &apperr.ParseError{Field: name, Err: errors.New(msg)}
		}
		return "", &apperr.ParseError{Field: name}
	}
	return text, nil
}

// splitRoster splits a comma-delimited handle list. An empty field is an
// empty roster. Entries are kept verbatim and in order.
func splitRoster(text string) []string {
	if text == "" {
		return []string{}
	}
	return strings.Split(text, ",")
}
