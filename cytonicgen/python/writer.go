package python

import (
	"strings"

	"github.com/broady/cytonic/cytonicgen/codewriter"
)

// maxWidth is the column docstrings are wrapped at.
const maxWidth = 119

type field struct {
	name  string
	hint  string
	value string
	docs  string
}

type function struct {
	name       string
	args       []string
	returns    string
	docs       string
	decorators []string
	body       []string
	async      bool
}

type class struct {
	name       string
	docs       string
	decorators []string
	bases      []string
	fields     []field
	methods    []function
}

func writeDocstring(w *codewriter.Writer, docs string) {
	docs = strings.TrimSpace(docs)
	if docs == "" {
		return
	}
	width := maxWidth - w.PrefixLen()
	lines := codewriter.Wrap(docs, width)
	if len(lines) == 1 && len(lines[0]) < width-2 {
		w.Linef(`" %s "`, strings.ReplaceAll(lines[0], `"`, `\"`))
		return
	}
	w.Line(`"""`)
	for _, line := range lines {
		w.Line(strings.ReplaceAll(line, `"""`, `\"\"\"`))
	}
	w.Line(`"""`)
}

func writeField(w *codewriter.Writer, f field) {
	line := f.name
	if f.hint != "" {
		line += ": " + f.hint
	}
	if f.value != "" {
		line += " = " + f.value
	}
	w.Line(line)
	writeDocstring(w, f.docs)
}

func writeFunction(w *codewriter.Writer, fn function) {
	for _, d := range fn.decorators {
		w.Line(d)
	}
	def := "def "
	if fn.async {
		def = "async def "
	}
	sig := def + fn.name + "(" + strings.Join(fn.args, ", ") + ")"
	if fn.returns != "" {
		sig += " -> " + fn.returns
	}
	w.Line(sig + ":")
	w.Indented(func() {
		writeDocstring(w, fn.docs)
		for _, line := range fn.body {
			w.Line(line)
		}
	})
}

func writeClass(w *codewriter.Writer, c class) {
	for _, d := range c.decorators {
		w.Line(d)
	}
	head := "class " + c.name
	if len(c.bases) > 0 {
		head += "(" + strings.Join(c.bases, ", ") + ")"
	}
	w.Line(head + ":")
	w.Indented(func() {
		writeDocstring(w, c.docs)
		if len(c.fields) > 0 && strings.TrimSpace(c.docs) != "" {
			w.Blank(1)
		}
		for _, f := range c.fields {
			writeField(w, f)
		}
		for _, m := range c.methods {
			w.Blank(1)
			writeFunction(w, m)
		}
		if strings.TrimSpace(c.docs) == "" && len(c.fields) == 0 && len(c.methods) == 0 {
			w.Line("pass")
		}
	})
}
