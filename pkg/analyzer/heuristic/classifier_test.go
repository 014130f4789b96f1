package heuristic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/panbanda/linegauge/pkg/models"
)

func TestClassify_GenericIfElse(t *testing.T) {
	lines := []string{
		"if (x > 0) {",
		"  doA();",
		"} else {",
		"  doB();",
		"}",
	}

	c := Classify(lines, VariantGeneric)

	assert.Equal(t, 2, c.ComplexitySeed)
	assert.Equal(t, 5, c.CodeLines)
	assert.Equal(t, 0, c.BlankLines)
	assert.Equal(t, 0, c.CommentLines)
	assert.Equal(t, 5, c.TotalLines)
}

func TestClassify_Generic(t *testing.T) {
	tests := []struct {
		name        string
		lines       []string
		wantCode    int
		wantComment int
		wantBlank   int
		wantSeed    int
		wantMethods int
		wantClasses int
	}{
		{
			name:        "comment prefixes",
			lines:       []string{"// line", "# hash", "/* block", " * star", "x = 1"},
			wantCode:    1,
			wantComment: 4,
			wantSeed:    1,
		},
		{
			name:      "blank lines include whitespace only",
			lines:     []string{"", "   ", "\t", "y"},
			wantCode:  1,
			wantBlank: 3,
			wantSeed:  1,
		},
		{
			name:     "one increment per group per line",
			lines:    []string{"if (a) { if (b) { c(); } }"},
			wantCode: 1,
			wantSeed: 2,
		},
		{
			name:     "several groups on one line",
			lines:    []string{"for (i = 0; i < n; i++) { while(x) { switch (y) {} } }"},
			wantCode: 1,
			wantSeed: 4,
		},
		{
			name:     "catch and except share a group",
			lines:    []string{"} catch (e) {", "except ValueError:"},
			wantCode: 2,
			wantSeed: 3,
		},
		{
			name:        "decision keywords in comments are ignored",
			lines:       []string{"// if (x) while (y)", "z();"},
			wantCode:    1,
			wantComment: 1,
			wantSeed:    1,
		},
		{
			name:        "methods and classes",
			lines:       []string{"public class Foo {", "  private int run(int x) {", "  }", "}", "struct point;", "def go(a):"},
			wantCode:    6,
			wantSeed:    1,
			wantMethods: 2,
			wantClasses: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Classify(tt.lines, VariantGeneric)
			assert.Equal(t, tt.wantCode, c.CodeLines, "code")
			assert.Equal(t, tt.wantComment, c.CommentLines, "comment")
			assert.Equal(t, tt.wantBlank, c.BlankLines, "blank")
			assert.Equal(t, tt.wantSeed, c.ComplexitySeed, "seed")
			assert.Equal(t, tt.wantMethods, c.MethodCount, "methods")
			assert.Equal(t, tt.wantClasses, c.ClassCount, "classes")
			assert.True(t, c.Consistent())
		})
	}
}

func TestClassify_Python(t *testing.T) {
	lines := []string{
		`"""Module docstring.`,
		`spans two lines.`,
		`"""`,
		``,
		`# a comment`,
		`class Greeter:`,
		`    # Greets people.`,
		`    def greet(self, name):`,
		`        if not name:`,
		`            return None`,
		`        elif name == "x":`,
		`            pass`,
		`        else:`,
		`            pass`,
		`        for c in name:`,
		`            while c:`,
		`                break`,
		`        try:`,
		`            pass`,
		`        except ValueError:`,
		`            pass`,
		`        with open(name) as f:`,
		`            return f`,
	}

	c := Classify(lines, VariantPython)

	assert.Equal(t, 23, c.TotalLines)
	assert.Equal(t, 1, c.BlankLines)
	assert.Equal(t, 5, c.CommentLines)
	assert.Equal(t, 17, c.CodeLines)
	assert.Equal(t, 1, c.MethodCount)
	assert.Equal(t, 1, c.ClassCount)
	// base + if + elif + else + for + while + except + with
	assert.Equal(t, 8, c.ComplexitySeed)
	assert.True(t, c.Consistent())
}

func TestClassify_PythonDocstringState(t *testing.T) {
	tests := []struct {
		name        string
		lines       []string
		wantComment int
		wantCode    int
	}{
		{
			name:        "block docstring swallows code-like lines",
			lines:       []string{`'''`, `if x:`, `'''`, `y = 1`},
			wantComment: 3,
			wantCode:    1,
		},
		{
			name:        "single line docstring toggles into a docstring",
			lines:       []string{`"""doc"""`, `y = 1`},
			wantComment: 2,
		},
		{
			name: "one line docstring in a function swallows the body",
			lines: []string{
				`def f():`,
				`    """One-line doc."""`,
				`    x = 1`,
				`    return x`,
			},
			wantComment: 3,
			wantCode:    1,
		},
		{
			name:        "closing quotes at line end do not leave the docstring",
			lines:       []string{`"""Summary`, `details"""`, `x = 1`},
			wantComment: 3,
		},
		{
			name:        "either delimiter toggles",
			lines:       []string{`"""`, `'''`, `code()`},
			wantComment: 2,
			wantCode:    1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Classify(tt.lines, VariantPython)
			assert.Equal(t, tt.wantComment, c.CommentLines)
			assert.Equal(t, tt.wantCode, c.CodeLines)
		})
	}
}

func TestClassify_JavaScript(t *testing.T) {
	lines := []string{
		"/**",
		" * Adds numbers.",
		" */",
		"// line comment",
		"class Calc {",
		"  add(a, b) {",
		"    if (a > b) { return a; }",
		"    for (const x of xs) {}",
		"    while (true) { break; }",
		"    switch (a) {}",
		"    try { f(); } catch (e) {}",
		"  }",
		"}",
		"function helper() {}",
		"const twice = (x) => x * 2;",
	}

	c := Classify(lines, VariantJavaScript)

	assert.Equal(t, 4, c.CommentLines)
	assert.Equal(t, 11, c.CodeLines)
	assert.Equal(t, 1, c.ClassCount)
	assert.Equal(t, 2, c.MethodCount)
	assert.Equal(t, 6, c.ComplexitySeed)
	assert.True(t, c.Consistent())
}

func TestClassify_JavaScriptBlockComments(t *testing.T) {
	tests := []struct {
		name        string
		lines       []string
		wantComment int
		wantCode    int
	}{
		{
			name:        "block opener line keeps the block open",
			lines:       []string{"/* note */", "run();"},
			wantComment: 2,
		},
		{
			name:        "doc comment opener swallows the function",
			lines:       []string{"/** doc */", "function f() {", "  return 1;", "}"},
			wantComment: 4,
		},
		{
			name:        "line ending the block closes it",
			lines:       []string{"/* a", "b */", "run();"},
			wantComment: 2,
			wantCode:    1,
		},
		{
			name:        "close and reopen stays inside the comment",
			lines:       []string{"/* start", "*/ run(); /*", "more", "end */", "run();"},
			wantComment: 4,
			wantCode:    1,
		},
		{
			name:        "bare opener",
			lines:       []string{"/*", "x();", "*/"},
			wantComment: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Classify(tt.lines, VariantJavaScript)
			assert.Equal(t, tt.wantComment, c.CommentLines)
			assert.Equal(t, tt.wantCode, c.CodeLines)
		})
	}
}

func TestClassify_LineCountInvariant(t *testing.T) {
	lines := []string{
		"", "  ", "/* a", "b */", "'''", "doc", "'''", "# h", "// s",
		"if (x) {", "}", "def f():", "  return 1", "\"\"\"x\"\"\"", "*",
	}

	for _, v := range Variants() {
		t.Run(string(v), func(t *testing.T) {
			c := Classify(lines, v)
			require.Equal(t, len(lines), c.TotalLines)
			assert.True(t, c.Consistent(), "%+v", c)
			assert.GreaterOrEqual(t, c.ComplexitySeed, 1)
		})
	}
}

func TestClassify_Empty(t *testing.T) {
	for _, v := range Variants() {
		c := Classify(nil, v)
		assert.Equal(t, models.LineClassification{ComplexitySeed: 1}, c)
		assert.Zero(t, c.CommentRatio())
	}
}

func TestClassify_Deterministic(t *testing.T) {
	lines := []string{"if (a && b) {", "  // c", "}", ""}
	assert.Equal(t, Classify(lines, VariantGeneric), Classify(lines, VariantGeneric))
}
