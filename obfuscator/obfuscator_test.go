package obfuscator

import (
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/shibukawa/gpcforge/testhelper"
	"github.com/shibukawa/gpcforge/tokenizer"
)

const sampleProgram = `int MyStatus = 0;

function MyPress(button) {
    set_val(button, 100);
}

combo MyCombo {
    set_val(PS5_R2, 100);
    wait(50);
    set_val(PS5_R2, 0);
}

main {
    if (event_press(PS5_R1)) {
        combo_run(MyCombo);
    }
}
`

func TestClampLevel(t *testing.T) {
	assert.Equal(t, LevelMinify, ClampLevel(-3))
	assert.Equal(t, LevelMinify, ClampLevel(0))
	assert.Equal(t, LevelEncodeStrings, ClampLevel(3))
	assert.Equal(t, LevelControlFlow, ClampLevel(9))
}

func TestLevel1StripsComments(t *testing.T) {
	result := Obfuscate("int x = 5; // my variable\n/* block */\nint y = 10;", 1)

	assert.Equal(t, "int x = 5;\nint y = 10;", result.Output)
	assert.Equal(t, 2, result.Stats.CommentsRemoved)
	assert.Equal(t, 3, result.Stats.LinesBefore)
	assert.Equal(t, 2, result.Stats.LinesAfter)
	assert.Equal(t, 0, result.Stats.IdentifiersRenamed)
}

func TestLevel1Minify(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		expected string
	}{
		{"collapse spaces and blank lines", "int    x   =   5;\n\n\nint y = 10;", "int x = 5;\nint y = 10;"},
		{"drop indentation", "main {\n    set_val(0, 1);\n}\n", "main {\nset_val(0, 1);\n}"},
		{"trim leading space", "   \n  int x;", "int x;"},
		{"space before newline", "int x;   \nint y;", "int x;\nint y;"},
		{"block comment keeps tokens apart", "int/* c */x;", "int x;"},
		{"string content untouched", `puts("a  // b");`, `puts("a  // b");`},
		{"preprocessor line kept", "#define X 1\nint x;", "#define X 1\nint x;"},
		{"only comments", "// a\n/* b */\n", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Obfuscate(tt.source, 1).Output)
		})
	}
}

func TestLevel2RenamesUserIdentifiers(t *testing.T) {
	result := Obfuscate("function myFunc(){ int myVar=5; set_val(0,myVar); }", 2)

	assert.NotContains(t, result.Output, "myFunc")
	assert.NotContains(t, result.Output, "myVar")
	assert.Contains(t, result.Output, "set_val")
	assert.Contains(t, result.Output, "function _f0()")
	assert.Contains(t, result.Output, "_v0")
	assert.Equal(t, 2, result.Stats.IdentifiersRenamed)
}

func TestLevel2Program(t *testing.T) {
	result := Obfuscate(sampleProgram, 2)

	expected := testhelper.TrimIndent(t, `
		int _v0 = 0;
		function _f0(_v1) {
		set_val(_v1, 100);
		}
		combo _c0 {
		set_val(PS5_R2, 100);
		wait(50);
		set_val(PS5_R2, 0);
		}
		main {
		if (event_press(PS5_R1)) {
		combo_run(_c0);
		}
		}`)

	assert.Equal(t, expected, result.Output)
	assert.Equal(t, 4, result.Stats.IdentifiersRenamed)
}

func TestLevel2PreservesReservedNames(t *testing.T) {
	result := Obfuscate("function test() {\n    if (TRUE) {\n        set_val(PS5_RY, clamp(get_val(PS5_RY) + 5, -100, 100));\n        return;\n    }\n}\n", 2)

	for _, name := range []string{"if", "TRUE", "return", "set_val", "PS5_RY", "clamp", "get_val", "function"} {
		assert.Contains(t, result.Output, name)
	}
	assert.NotContains(t, result.Output, "test")
	assert.Equal(t, 1, result.Stats.IdentifiersRenamed)
}

func TestRenameIsDeterministic(t *testing.T) {
	first := Obfuscate(sampleProgram, 2)
	for range 5 {
		assert.Equal(t, first.Output, Obfuscate(sampleProgram, 2).Output)
	}
}

func TestDeclContext(t *testing.T) {
	tokens := tokenizer.Tokenize("function f(a, b) combo c x")

	find := func(name string) int {
		for i, token := range tokens {
			if token.Value == name {
				return i
			}
		}
		t.Fatalf("token %s not found", name)
		return -1
	}

	assert.Equal(t, declFunction, declContext(tokens, find("f")))
	assert.Equal(t, declVariable, declContext(tokens, find("a")))
	assert.Equal(t, declVariable, declContext(tokens, find("b")))
	assert.Equal(t, declCombo, declContext(tokens, find("c")))
	assert.Equal(t, declVariable, declContext(tokens, find("x")))
	assert.Equal(t, declVariable, declContext(tokens, 0))
}

func TestLevel3EncodesStrings(t *testing.T) {
	t.Run("ArrayInitializer", func(t *testing.T) {
		result := Obfuscate("const string label[] = {\"Hello\"};\n", 3)

		assert.Equal(t, "const int _v0[] = {72, 101, 108, 108, 111};", result.Output)
		assert.Equal(t, 1, result.Stats.StringsEncoded)
	})

	t.Run("ShortStringKept", func(t *testing.T) {
		result := Obfuscate("const string s[] = {\"ab\"};", 3)

		assert.Contains(t, result.Output, `"ab"`)
		assert.Contains(t, result.Output, "const string")
		assert.Equal(t, 0, result.Stats.StringsEncoded)
	})

	t.Run("CallArgumentKept", func(t *testing.T) {
		result := Obfuscate("main {\n    puts_oled(0, \"Hello\");\n}", 3)

		assert.Contains(t, result.Output, `"Hello"`)
		assert.Equal(t, 0, result.Stats.StringsEncoded)
	})

	t.Run("MultiByteCodePoints", func(t *testing.T) {
		result := Obfuscate("const string s[] = {\"héé\"};", 3)

		assert.Contains(t, result.Output, "{104, 233, 233}")
	})

	t.Run("NotAppliedBelowLevel3", func(t *testing.T) {
		result := Obfuscate("const string label[] = {\"Hello\"};", 2)

		assert.Contains(t, result.Output, `"Hello"`)
	})
}

func TestLiteralContent(t *testing.T) {
	content, ok := literalContent(`"abc"`)
	assert.True(t, ok)
	assert.Equal(t, "abc", content)

	content, ok = literalContent(`"a\"b"`)
	assert.True(t, ok)
	assert.Equal(t, `a\"b`, content)

	_, ok = literalContent(`"unterminated`)
	assert.False(t, ok)

	_, ok = literalContent(`"escaped end\"`)
	assert.False(t, ok)
}

func TestLevel4InjectsDeadCode(t *testing.T) {
	result := Obfuscate(sampleProgram, 4)

	assert.True(t, strings.HasPrefix(result.Output, "int _d0 = 0;\nint _d1 = 1;\n"))
	assert.Contains(t, result.Output, "function _df0() {\n    int _dt = 3;\n    if (FALSE) { set_val(0, _dt); }\n}\n")
	assert.Contains(t, result.Output, "int _d2 = 69;\n")
	assert.Contains(t, result.Output, "if (FALSE) { int _dd = 66; }\n")
	assert.Contains(t, result.Output, "int _d3 = 100;\n")
	assert.Contains(t, result.Output, "int _d4 = 131;\n")
	assert.NotContains(t, result.Output, "_df1")
	assert.Equal(t, 7, result.Stats.DeadCodeBlocks)
}

func TestInjectDeadCodeLimits(t *testing.T) {
	var source strings.Builder
	for i := range 20 {
		source.WriteString("combo c")
		source.WriteString(strings.Repeat("x", i+1))
		source.WriteString(" {\nwait(1);\n}\n")
	}

	output, count := injectDeadCode(source.String())

	assert.Equal(t, 3, strings.Count(output, "function _df"))
	assert.Contains(t, output, "int _d9 = ")
	assert.NotContains(t, output, "int _d10 = ")
	assert.Equal(t, 4, strings.Count(output, "if (FALSE) { int _dd"))
	assert.Equal(t, 17, count)
}

func TestBraceDeltaIgnoresLiterals(t *testing.T) {
	assert.Equal(t, 1, braceDelta(`main { puts("}}");`))
	assert.Equal(t, -1, braceDelta("} '{'"))
}

func TestRewriteLine(t *testing.T) {
	tests := []struct {
		line     string
		expected string
	}{
		{"    if (x > 5) {", "    if (((x > 5)) && (TRUE || (0 == 1))) {"},
		{"if(a == b) {", "if (((a == b)) && (TRUE || (0 == 1))) {"},
		{"if (get_val(PS5_R2) > 50) {", "if (((get_val(PS5_R2) > 50)) && (TRUE || (0 == 1))) {"},
		{"x = y + 1;", "x = ((y + 1)) + 0;"},
		{"int _d0 = 0;", "int _d0 = ((0)) + 0;"},
		{"iffy = 2;", "iffy = ((2)) + 0;"},
		{"while (i < 10) {", "while (((i < 10)) && TRUE) {"},
		{"x = a == b;", "x = a == b;"},
		{`label = "abc";`, `label = "abc";`},
		{"// x = 1;", "// x = 1;"},
		{"a = 1; b = 2;", "a = 1; b = 2;"},
		{"x = 1 + 2 + 3 + 4 + 5 + 6 + 7 + 8 + 9 + 10 + 11;", "x = 1 + 2 + 3 + 4 + 5 + 6 + 7 + 8 + 9 + 10 + 11;"},
		{"for (i = 0; i < 3; i++) {", "for (i = 0; i < 3; i++) {"},
		{"if (unbalanced {", "if (unbalanced {"},
		{"x += 1;", "x += 1;"},
		{`if (x == ")") {`, `if (((x == ")")) && (TRUE || (0 == 1))) {`},
		{`if (c == '(') {`, `if (((c == '(')) && (TRUE || (0 == 1))) {`},
		{`if (x == "(") {`, `if (((x == "(")) && (TRUE || (0 == 1))) {`},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.expected, rewriteLine(tt.line))
		})
	}
}

func TestObfuscateControlFlowKeepsTrailingNewline(t *testing.T) {
	assert.Equal(t, "x = ((1)) + 0;", obfuscateControlFlow("x = 1;"))
	assert.Equal(t, "x = ((1)) + 0;\n", obfuscateControlFlow("x = 1;\n"))
	assert.Equal(t, "", obfuscateControlFlow(""))
}

func TestLevel5(t *testing.T) {
	result := Obfuscate(sampleProgram, 5)

	assert.Contains(t, result.Output, "if (((event_press(PS5_R1))) && (TRUE || (0 == 1))) {")
	assert.Contains(t, result.Output, "int _v0 = ((0)) + 0;")
	assert.Contains(t, result.Output, "if (((FALSE)) && (TRUE || (0 == 1))) { int _dd = 66; }")
	assert.NotContains(t, result.Output, "MyCombo")
	assert.Equal(t, countLines(result.Output), result.Stats.LinesAfter)
}

func TestObfuscateNeverFails(t *testing.T) {
	inputs := []string{
		"",
		"\"unterminated",
		"/* open comment",
		"const string s[] = {\"abc",
		"}}}} {{{{",
		"if (",
		"\xff\xfe garbage \xc3",
		"日本語 = 1;",
	}

	for _, input := range inputs {
		for level := range 7 {
			result := Obfuscate(input, level)
			assert.Equal(t, countLines(result.Output), result.Stats.LinesAfter, "input %q level %d", input, level)
		}
	}
}
