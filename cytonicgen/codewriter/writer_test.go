package codewriter

import (
	"reflect"
	"testing"
)

func TestWriter_Indentation(t *testing.T) {
	w := New("  ")
	w.Line("class A:")
	w.Indented(func() {
		w.Line("x: int   ")
		w.Line("")
		w.Indented(func() {
			w.Linef("%s = %d", "y", 1)
		})
	})
	w.Line("done")

	want := "class A:\n  x: int\n\n    y = 1\ndone\n"
	if got := w.String(); got != want {
		t.Errorf("got:\n%q\nwant:\n%q", got, want)
	}
	if w.Level() != 0 {
		t.Errorf("Level() = %d after Indented returned", w.Level())
	}
}

func TestWriter_Block(t *testing.T) {
	w := New("\t")
	w.Block("type A interface {", func() {
		w.Line("Get() string")
	}, "}")
	want := "type A interface {\n\tGet() string\n}\n"
	if got := w.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestWriter_Section(t *testing.T) {
	w := New("  ")
	w.Line("# header")
	imports := w.Section()
	w.Blank(1)
	w.Line("body()")

	if !imports.Empty() {
		t.Fatal("new section is not empty")
	}
	imports.Line("import abc")
	imports.Line("import typing")

	want := "# header\nimport abc\nimport typing\n\nbody()\n"
	if got := w.String(); got != want {
		t.Errorf("got:\n%q\nwant:\n%q", got, want)
	}
}

func TestWriter_SectionInheritsLevel(t *testing.T) {
	w := New("  ")
	var s *Writer
	w.Indented(func() {
		s = w.Section()
	})
	s.Line("x")
	if got := w.String(); got != "  x\n" {
		t.Errorf("got %q", got)
	}
}

func TestWriter_Lines(t *testing.T) {
	w := New("    ")
	w.Indented(func() {
		w.Lines("a\n\nb\n")
	})
	if got, want := w.String(), "    a\n\n    b\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestWriter_Empty(t *testing.T) {
	w := New("  ")
	if !w.Empty() {
		t.Error("new writer not empty")
	}
	w.Section().Line("x")
	if w.Empty() {
		t.Error("writer with non-empty section reported empty")
	}
}

func TestWrap(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width int
		want  []string
	}{
		{"short", "A simple todo list API.", 80, []string{"A simple todo list API."}},
		{"wraps", "one two three four", 9, []string{"one two", "three", "four"}},
		{"long word", "supercalifragilistic x", 5, []string{"supercalifragilistic", "x"}},
		{"paragraphs", "first para\n\nsecond", 80, []string{"first para", "", "second"}},
		{"empty", "   ", 80, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Wrap(tt.text, tt.width); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Wrap() = %q, want %q", got, tt.want)
			}
		})
	}
}
