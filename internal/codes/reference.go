package codes

import (
	"io"
	"strings"
)

const referenceHeader = `E is for "error" (you should probably change this)

W is for "warning" (you might want to change this)

Some warnings are disabled by default; enable them with ` + "``--enable``" + `.
`

// Reference renders the visible codes as reStructuredText.
func Reference() string {
	var b strings.Builder
	b.WriteString(referenceHeader)

	for _, c := range All {
		if c.Hidden {
			continue
		}
		b.WriteString("\n")
		b.WriteString(c.Code + "\n")
		b.WriteString(strings.Repeat("-", len(c.Code)) + "\n")
		b.WriteString("\n")
		if c.DefaultDisabled {
			b.WriteString("*disabled by default*\n\n")
		}
		b.WriteString(c.Message + "\n")
		b.WriteString("\n")
		b.WriteString(".. code-block:: python\n")
		b.WriteString("\n")
		b.WriteString(indent(c.Example, "    ") + "\n")
	}
	return b.String()
}

// Reference markers delimit the generated block in an existing document.
const (
	ReferenceStart = ".. generate-reference-insert-start\n"
	ReferenceEnd   = ".. generate-reference-insert-end\n"
)

// WriteReference writes the reference to w.
func WriteReference(w io.Writer) error {
	_, err := io.WriteString(w, Reference())
	return err
}

// SpliceReference replaces the text between the reference markers of doc
// with a freshly generated reference. It reports whether doc changed; doc
// without both markers is returned unchanged.
func SpliceReference(doc string) (string, bool) {
	start := strings.Index(doc, ReferenceStart)
	if start < 0 {
		return doc, false
	}
	start += len(ReferenceStart)
	end := strings.Index(doc[start:], ReferenceEnd)
	if end < 0 {
		return doc, false
	}
	end += start

	out := doc[:start] + "\n" + Reference() + "\n" + doc[end:]
	return out, out != doc
}
