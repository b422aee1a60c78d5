package probe

import (
	"strings"
	"testing"
)

func mustBuild(t *testing.T, b *Builder) Config {
	t.Helper()
	cfg, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return cfg
}

func TestRender_SingleMacroNoExpl3(t *testing.T) {
	cfg := mustBuild(t, NewBuilder("latex").DocumentClass("article").Macros("foo"))
	src := Render(cfg)

	query := `\expandafter\show\csname foo\endcsname`
	if n := strings.Count(src, query); n != 1 {
		t.Errorf("query count = %d, want 1\n%s", n, src)
	}
	if strings.Contains(src, "expl3") || strings.Contains(src, `\ExplSyntaxOn`) {
		t.Errorf("unexpected expl3 directive:\n%s", src)
	}
}

func TestRender_PreludeLayout(t *testing.T) {
	cfg := mustBuild(t, NewBuilder("latex").
		DocumentClass("article").
		Package("amsmath", "").
		Package("geometry", "margin=1in").
		Macros("foo", "bar"))

	want := "\\documentclass{article}\n" +
		"\\usepackage{amsmath}\n" +
		"\\usepackage[margin=1in]{geometry}\n" +
		"\n\n\n\n\n\n\n\n\n" +
		"\\expandafter\\show\\csname foo\\endcsname\n\n" +
		"\\expandafter\\show\\csname bar\\endcsname\n\n" +
		"\\begin{document}\n" +
		"\\end{document}\n"
	if got := Render(cfg); got != want {
		t.Errorf("Render mismatch\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestRender_DocumentLayout(t *testing.T) {
	cfg := mustBuild(t, NewBuilder("latex").Macros("foo").Context(ContextDocument))

	want := "\n\n\n\n\n\n\n\n\n" +
		"\\begin{document}\n" +
		"\\expandafter\\show\\csname foo\\endcsname\n\n" +
		"\\end{document}\n"
	if got := Render(cfg); got != want {
		t.Errorf("Render mismatch\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestRender_Expl3Placement(t *testing.T) {
	tests := []struct {
		name string
		ctx  Context
		// Directives that must appear in this relative order.
		order []string
	}{
		{
			"prelude defers ExplSyntaxOff past begin document",
			ContextPrelude,
			[]string{`\ExplSyntaxOn`, `\show\csname bool_new:N`, `\begin{document}`, `\ExplSyntaxOff`, `\end{document}`},
		},
		{
			"document closes expl3 right after the probes",
			ContextDocument,
			[]string{`\ExplSyntaxOn`, `\begin{document}`, `\show\csname bool_new:N`, `\ExplSyntaxOff`, `\end{document}`},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := mustBuild(t, NewBuilder("latex").Expl3(true).Context(tt.ctx).Macros("bool_new:N"))
			src := Render(cfg)
			if !strings.Contains(src, "\\usepackage{expl3}\n\\ExplSyntaxOn\n") {
				t.Fatalf("missing expl3 enable block:\n%s", src)
			}
			last := -1
			for _, d := range tt.order {
				i := strings.Index(src, d)
				if i < 0 {
					t.Fatalf("missing %q:\n%s", d, src)
				}
				if i < last {
					t.Errorf("%q out of order:\n%s", d, src)
				}
				last = i
			}
			if n := strings.Count(src, `\ExplSyntaxOff`); n != 1 {
				t.Errorf("ExplSyntaxOff count = %d, want 1", n)
			}
			if n := strings.Count(src, `\begin{document}`); n != 1 {
				t.Errorf("begin{document} count = %d, want 1", n)
			}
		})
	}
}

func TestRender_Deterministic(t *testing.T) {
	cfg := mustBuild(t, NewBuilder("latex").DocumentClass("book").Macros("a", "b", "c"))
	if Render(cfg) != Render(cfg) {
		t.Error("Render is not deterministic")
	}
}

func TestBuilder_StripsLeadingBackslash(t *testing.T) {
	cfg := mustBuild(t, NewBuilder("latex").Macros(`\foo`, "@author", `\`))
	want := []string{"foo", "@author", `\`}
	for i, m := range cfg.Macros {
		if m != want[i] {
			t.Errorf("Macros[%d] = %q, want %q", i, m, want[i])
		}
	}
}

func TestBuilder_BuildIsolatesSlices(t *testing.T) {
	b := NewBuilder("latex").Macros("a").Package("amsmath", "")
	cfg := mustBuild(t, b)
	b.Macros("b").Package("amssymb", "")
	if len(cfg.Macros) != 1 || len(cfg.Packages) != 1 {
		t.Errorf("built config changed after builder mutation: %+v", cfg)
	}
}

func TestBuilder_Errors(t *testing.T) {
	tests := []struct {
		name string
		b    *Builder
	}{
		{"empty engine", NewBuilder("").Macros("foo")},
		{"no macros", NewBuilder("latex")},
		{"empty macro", NewBuilder("latex").Macros("")},
		{"empty package", NewBuilder("latex").Macros("foo").Package("", "x")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.b.Build(); err == nil {
				t.Error("Build() should fail")
			}
		})
	}
}

func TestParsePackage(t *testing.T) {
	tests := []struct {
		in      string
		want    Package
		wantErr bool
	}{
		{"amsmath", Package{Name: "amsmath"}, false},
		{" hyperref ", Package{Name: "hyperref"}, false},
		{"[margin=1in]geometry", Package{Name: "geometry", Options: "margin=1in"}, false},
		{"[T1]fontenc", Package{Name: "fontenc", Options: "T1"}, false},
		{"[T1", Package{}, true},
		{"[T1]", Package{}, true},
		{"", Package{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePackage(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParsePackage(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParsePackage(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestPackage_StringRoundTrip(t *testing.T) {
	for _, s := range []string{"amsmath", "[T1]fontenc"} {
		p, err := ParsePackage(s)
		if err != nil {
			t.Fatal(err)
		}
		if p.String() != s {
			t.Errorf("String() = %q, want %q", p.String(), s)
		}
	}
}

func TestParseContext(t *testing.T) {
	tests := []struct {
		in      string
		want    Context
		wantErr bool
	}{
		{"prelude", ContextPrelude, false},
		{"Document", ContextDocument, false},
		{"", ContextPrelude, false},
		{"body", ContextPrelude, true},
	}
	for _, tt := range tests {
		got, err := ParseContext(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseContext(%q) = %v, %v", tt.in, got, err)
		}
	}
}
