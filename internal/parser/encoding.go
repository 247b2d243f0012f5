package parser

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
)

var (
	utf8BOM  = []byte{0xEF, 0xBB, 0xBF}
	codingRe = regexp.MustCompile(`^[ \t\f]*#.*?coding[:=][ \t]*([-\w.]+)`)
	blankRe  = regexp.MustCompile(`^[ \t\f]*(?:[#\r\n]|$)`)
)

// decodeSource strips a byte order mark and converts the source to UTF-8
// according to its coding cookie.
func decodeSource(src []byte) (text, enc string, bom bool, err error) {
	if bytes.HasPrefix(src, utf8BOM) {
		src = src[len(utf8BOM):]
		bom = true
	}

	name := codingCookie(src)
	if name == "" || isUTF8Name(name) {
		if !utf8.Valid(src) {
			return "", "", false, &SyntaxError{Line: 1, Msg: "source is not valid utf-8"}
		}
		return string(src), "utf-8", bom, nil
	}
	if bom {
		return "", "", false, &SyntaxError{Line: 1, Msg: fmt.Sprintf("encoding problem: %s with BOM", name)}
	}

	e, err := lookupEncoding(name)
	if err != nil {
		return "", "", false, err
	}
	out, err := e.NewDecoder().Bytes(src)
	if err != nil {
		return "", "", false, &SyntaxError{Line: 1, Msg: fmt.Sprintf("decoding %s: %v", name, err)}
	}
	return string(out), name, false, nil
}

// codingCookie finds a PEP 263 declaration on the first or second line.
func codingCookie(src []byte) string {
	lines := bytes.SplitN(src, []byte("\n"), 3)
	for i, line := range lines {
		if i == 2 {
			break
		}
		if m := codingRe.FindSubmatch(line); m != nil {
			return strings.ToLower(string(m[1]))
		}
		// Only a blank or comment first line lets the second line count.
		if !blankRe.Match(line) {
			break
		}
	}
	return ""
}

func isUTF8Name(name string) bool {
	switch strings.ReplaceAll(name, "_", "-") {
	case "utf-8", "utf8", "utf-8-sig":
		return true
	}
	return strings.HasPrefix(name, "utf-8-") || strings.HasPrefix(name, "utf8-")
}

func lookupEncoding(name string) (encoding.Encoding, error) {
	candidates := []string{
		name,
		strings.ReplaceAll(name, "_", "-"),
		strings.ReplaceAll(strings.ReplaceAll(name, "_", ""), "-", ""),
	}
	for _, c := range candidates {
		for _, idx := range []*ianaindex.Index{ianaindex.IANA, ianaindex.MIME} {
			if e, err := idx.Encoding(c); err == nil && e != nil {
				return e, nil
			}
		}
	}
	return nil, &SyntaxError{Line: 1, Msg: fmt.Sprintf("unknown encoding: %s", name)}
}

// Encode converts printed source back to the module's original encoding
// and restores its byte order mark.
func (m *Module) Encode(code string) ([]byte, error) {
	var out []byte
	if m.Encoding == "" || isUTF8Name(m.Encoding) {
		out = []byte(code)
	} else {
		e, err := lookupEncoding(m.Encoding)
		if err != nil {
			return nil, err
		}
		out, err = e.NewEncoder().Bytes([]byte(code))
		if err != nil {
			return nil, fmt.Errorf("encoding %s: %w", m.Encoding, err)
		}
	}
	if m.BOM {
		out = append(append([]byte{}, utf8BOM...), out...)
	}
	return out, nil
}
