package rsfmt

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dagger/testctx"
	"github.com/dagger/testctx/oteltest"
	"github.com/stretchr/testify/require"
	"github.com/vito/rsfmt/pkg/layout"
	"github.com/vito/rsfmt/pkg/syntax"
	"gotest.tools/v3/golden"
)

func TestMain(m *testing.M) {
	os.Exit(oteltest.Main(m))
}

type FormatSuite struct{}

func TestFormat(tT *testing.T) {
	testctx.New(tT,
		oteltest.WithTracing[*testing.T](),
		oteltest.WithLogging[*testing.T](),
	).RunTests(FormatSuite{})
}

func format(ctx context.Context, t *testctx.T, src string, cfg Config) string {
	res, err := Format(ctx, []byte(src), cfg)
	require.NoError(t, err)
	require.Empty(t, res.Lost)
	return res.Text
}

func withWidth(width int) Config {
	cfg := DefaultConfig()
	cfg.MaxWidth = width
	return cfg
}

func withThreshold(n int) Config {
	cfg := DefaultConfig()
	cfg.SplitBraceThreshold = n
	return cfg
}

func (FormatSuite) TestLists(ctx context.Context, t *testctx.T) {
	tests := []struct {
		name     string
		cfg      Config
		input    string
		expected string
	}{
		{
			name:  "parameters stay inline when they fit",
			cfg:   DefaultConfig(),
			input: "fn f(a: i32, b: i32) {}",
			expected: `fn f(a: i32, b: i32) {}
`,
		},
		{
			name:  "parameters split one per line with a trailing comma",
			cfg:   withWidth(10),
			input: "fn f(a: i32, b: i32) {}",
			expected: `fn f(
    a: i32,
    b: i32,
) {}
`,
		},
		{
			name:  "empty arguments",
			cfg:   DefaultConfig(),
			input: "fn main() { f(); }",
			expected: `fn main() {
    f();
}
`,
		},
		{
			name:  "trailing comma dropped when inline",
			cfg:   DefaultConfig(),
			input: "fn main() { f(a, b,); }",
			expected: `fn main() {
    f(a, b);
}
`,
		},
		{
			name:  "single element tuple keeps its comma",
			cfg:   DefaultConfig(),
			input: "const T: (i32,) = (1,);",
			expected: `const T: (i32,) = (1,);
`,
		},
		{
			name:  "struct literal splits at the brace threshold",
			cfg:   DefaultConfig(),
			input: "fn main() { let x = A { a: 1 }; }",
			expected: `fn main() {
    let x = A {
        a: 1,
    };
}
`,
		},
		{
			name: "struct literal stays inline without a threshold",
			cfg: func() Config {
				cfg := DefaultConfig()
				cfg.SplitBraceThreshold = 0
				return cfg
			}(),
			input: "fn main() { let x = A { a: 1, ..B::default() }; }",
			expected: `fn main() {
    let x = A { a: 1, ..B::default() };
}
`,
		},
		{
			name:  "threshold splits literals with enough members",
			cfg:   withThreshold(2),
			input: "fn main() { let x = A { a: 1, b: 2 }; }",
			expected: `fn main() {
    let x = A {
        a: 1,
        b: 2,
    };
}
`,
		},
		{
			name:  "threshold leaves smaller literals inline",
			cfg:   withThreshold(2),
			input: "fn main() { let x = A { a: 1 }; }",
			expected: `fn main() {
    let x = A { a: 1 };
}
`,
		},
		{
			name:  "empty struct literal",
			cfg:   DefaultConfig(),
			input: "fn main() { let x = A {}; }",
			expected: `fn main() {
    let x = A {};
}
`,
		},
		{
			name: "extra element alone is padded",
			cfg: func() Config {
				cfg := DefaultConfig()
				cfg.SplitBraceThreshold = 0
				return cfg
			}(),
			input: "fn main() { let x = A { ..B::default() }; }",
			expected: `fn main() {
    let x = A { ..B::default() };
}
`,
		},
		{
			name:  "use lists",
			cfg:   DefaultConfig(),
			input: "use std::{fmt,io};",
			expected: `use std::{fmt, io};
`,
		},
		{
			name:  "macro arguments",
			cfg:   DefaultConfig(),
			input: `fn main() { println!("{}",x); }`,
			expected: `fn main() {
    println!("{}", x);
}
`,
		},
		{
			name:  "macro with statements stays verbatim",
			cfg:   DefaultConfig(),
			input: "fn main() { m!(a;  b); }",
			expected: `fn main() {
    m!(a;  b);
}
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(ctx context.Context, t *testctx.T) {
			require.Equal(t, tt.expected, format(ctx, t, tt.input, tt.cfg))
		})
	}
}

func (FormatSuite) TestWidth(ctx context.Context, t *testctx.T) {
	tests := []struct {
		name     string
		width    int
		input    string
		expected string
	}{
		{
			name:  "closing punctuation counts toward the width",
			width: 21,
			input: "fn main() { foo(aaaa, bbbbbb); }",
			expected: `fn main() {
    foo(
        aaaa,
        bbbbbb,
    );
}
`,
		},
		{
			name:  "call that fits with its semicolon stays inline",
			width: 22,
			input: "fn main() { foo(aaaa, bbbbbb); }",
			expected: `fn main() {
    foo(aaaa, bbbbbb);
}
`,
		},
		{
			name:  "operator chains split before each operator",
			width: 30,
			input: "fn main() { let x = aaaaaaaaaa + bbbbbbbbbb + cccccccccc + dddddddddd; }",
			expected: `fn main() {
    let x = aaaaaaaaaa
        + bbbbbbbbbb
        + cccccccccc
        + dddddddddd;
}
`,
		},
		{
			name:  "method chains split before each step",
			width: 40,
			input: "fn main() { let v = items.iter().filter(|x| x.enabled).map(|x| x.weight * 2).collect::<Vec<_>>(); }",
			expected: `fn main() {
    let v = items
        .iter()
        .filter(|x| x.enabled)
        .map(|x| x.weight * 2)
        .collect::<Vec<_>>();
}
`,
		},
		{
			name:  "bounds split before each plus",
			width: 40,
			input: "fn f<T>(x: T) where T: Clone + Copy + Default + std::fmt::Debug {}",
			expected: `fn f<T>(x: T)
where
    T: Clone
        + Copy
        + Default
        + std::fmt::Debug,
{}
`,
		},
		{
			name:  "empty arguments never split",
			width: 30,
			input: "fn main() { let value = some_object.method_name(); }",
			expected: `fn main() {
    let value = some_object.method_name();
}
`,
		},
		{
			name:  "empty parameters never split",
			width: 30,
			input: "fn a_rather_long_function_name() {}",
			expected: `fn a_rather_long_function_name() {}
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(ctx context.Context, t *testctx.T) {
			cfg := withWidth(tt.width)
			out := format(ctx, t, tt.input, cfg)
			require.Equal(t, tt.expected, out)
			require.Equal(t, out, format(ctx, t, out, cfg))
		})
	}
}

func (FormatSuite) TestWidthBound(ctx context.Context, t *testctx.T) {
	inputs := []string{
		"fn main() { let total = first_value + second_value + third_value + fourth_value; }",
		"fn main() { if first_condition && second_condition && third_condition { run(); } }",
		"fn main() { outer_function(inner_function(alpha, beta), gamma_value); }",
		"fn main() { let v = items.iter().filter(|x| x.enabled).map(|x| x.weight * 2).count(); }",
		"fn f<T, U>(x: T, y: U) where T: Clone + Copy + Default, U: Send + Sync + 'static {}",
		"struct Pair { left: Option<Box<Node>>, right: Option<Box<Node>> }",
	}

	cfg := withWidth(40)
	for _, input := range inputs {
		t.Run(input, func(ctx context.Context, t *testctx.T) {
			out := format(ctx, t, input, cfg)
			for _, line := range strings.Split(out, "\n") {
				require.LessOrEqual(t, layout.VisibleWidth(line), cfg.MaxWidth, line)
			}
			require.Equal(t, out, format(ctx, t, out, cfg))
		})
	}
}

func (FormatSuite) TestReferences(ctx context.Context, t *testctx.T) {
	require.Equal(t, "fn f(x: &&str) {}\n", format(ctx, t, "fn f(x: &&str) {}", DefaultConfig()))
	require.Equal(t, "fn main() {\n    let a = b && c;\n}\n", format(ctx, t, "fn main() { let a = b&&c; }", DefaultConfig()))
}

func (FormatSuite) TestRootSplits(ctx context.Context, t *testctx.T) {
	inputs, err := filepath.Glob(filepath.Join("testdata", "*.rs"))
	require.NoError(t, err)

	for _, input := range inputs {
		t.Run(filepath.Base(input), func(ctx context.Context, t *testctx.T) {
			src, err := os.ReadFile(input)
			require.NoError(t, err)

			for _, width := range []int{20, 40, 120} {
				cfg := withWidth(width)
				plain := format(ctx, t, string(src), cfg)
				cfg.RootSplits = true
				require.Equal(t, plain, format(ctx, t, string(src), cfg))
			}
		})
	}
}

func (FormatSuite) TestCommentErrorsFatal(ctx context.Context, t *testctx.T) {
	cfg := DefaultConfig()
	cfg.CommentErrorsFatal = true

	src := `// head
fn f(a: i32 /* a */, b: i32) -> i32 {
    // body
    a + /* op */ b // tail
}
// end`
	res, err := Format(ctx, []byte(src), cfg)
	require.NoError(t, err)
	require.Empty(t, res.Lost)

	after, err := syntax.Parse(ctx, []byte(res.Text))
	require.NoError(t, err)
	require.Len(t, after.Comments, 6)
}

func (FormatSuite) TestAttributes(ctx context.Context, t *testctx.T) {
	src := "#[inline] fn f() {}"

	require.Equal(t, "#[inline]\nfn f() {}\n", format(ctx, t, src, DefaultConfig()))

	cfg := DefaultConfig()
	cfg.SplitAttributes = false
	require.Equal(t, "#[inline] fn f() {}\n", format(ctx, t, src, cfg))
}

func (FormatSuite) TestWhereClauses(ctx context.Context, t *testctx.T) {
	src := "fn f<T: Clone>(x: T) -> T where T: Copy { x }"

	require.Equal(t, `fn f<T: Clone>(x: T) -> T
where
    T: Copy,
{
    x
}
`, format(ctx, t, src, DefaultConfig()))

	cfg := DefaultConfig()
	cfg.SplitWhere = false
	require.Equal(t, `fn f<T: Clone>(x: T) -> T where T: Copy {
    x
}
`, format(ctx, t, src, cfg))
}

func (FormatSuite) TestComments(ctx context.Context, t *testctx.T) {
	tests := []struct {
		name     string
		cfg      Config
		input    string
		expected string
	}{
		{
			name: "comment before a statement",
			cfg:  DefaultConfig(),
			input: `fn f() {
    // hello
    let x = 1;
}`,
			expected: `fn f() {
    // hello
    let x = 1;
}
`,
		},
		{
			name: "trailing comment moves to its own line",
			cfg:  DefaultConfig(),
			input: `fn f() {
    let x = 1; // one
}`,
			expected: `fn f() {
    let x = 1;
    // one
}
`,
		},
		{
			name: "comment between list elements",
			cfg:  DefaultConfig(),
			input: `fn f(
    // first
    a: i32,
) {}`,
			expected: `fn f(
    // first
    a: i32,
) {}
`,
		},
		{
			name:  "comment between elements splits the list",
			cfg:   DefaultConfig(),
			input: "fn main() { f(a, /* c */ b); }",
			expected: `fn main() {
    f(
        a,
        /* c */
        b,
    );
}
`,
		},
		{
			name:  "comment before a separator follows it",
			cfg:   DefaultConfig(),
			input: "fn main() { f(a /* x */, b); }",
			expected: `fn main() {
    f(
        a,
        /* x */
        b,
    );
}
`,
		},
		{
			name: "comment at end of file",
			cfg:  DefaultConfig(),
			input: `fn a() {}

// end`,
			expected: `fn a() {}

// end
`,
		},
		{
			name: "long comments wrap when enabled",
			cfg: func() Config {
				cfg := DefaultConfig()
				cfg.CommentWidth = 10
				return cfg
			}(),
			input: `// aaa bbb ccc
fn f() {}`,
			expected: `// aaa bbb
// ccc
fn f() {}
`,
		},
		{
			name: "doc comments never wrap",
			cfg: func() Config {
				cfg := DefaultConfig()
				cfg.CommentWidth = 10
				return cfg
			}(),
			input: `/// aaa bbb ccc
fn f() {}`,
			expected: `/// aaa bbb ccc
fn f() {}
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(ctx context.Context, t *testctx.T) {
			require.Equal(t, tt.expected, format(ctx, t, tt.input, tt.cfg))
		})
	}
}

func (FormatSuite) TestBlankLines(ctx context.Context, t *testctx.T) {
	src := "fn a() {}\n\n\n\nfn b() {}\nfn c() {}\n"
	require.Equal(t, "fn a() {}\n\nfn b() {}\nfn c() {}\n", format(ctx, t, src, DefaultConfig()))
}

func (FormatSuite) TestEmpty(ctx context.Context, t *testctx.T) {
	require.Equal(t, "", format(ctx, t, "", DefaultConfig()))
	require.Equal(t, "", format(ctx, t, "\n\n", DefaultConfig()))
}

func (FormatSuite) TestParseError(ctx context.Context, t *testctx.T) {
	_, err := Format(ctx, []byte("fn f( {"), DefaultConfig())
	var perr *syntax.ParseError
	require.ErrorAs(t, err, &perr)
}

func (FormatSuite) TestGolden(ctx context.Context, t *testctx.T) {
	inputs, err := filepath.Glob(filepath.Join("testdata", "*.rs"))
	require.NoError(t, err)
	require.NotEmpty(t, inputs)

	for _, input := range inputs {
		name := strings.TrimSuffix(filepath.Base(input), ".rs")
		t.Run(name, func(ctx context.Context, t *testctx.T) {
			src, err := os.ReadFile(input)
			require.NoError(t, err)

			out := format(ctx, t, string(src), DefaultConfig())
			golden.Assert(t, out, name+".golden")
		})
	}
}

func (FormatSuite) TestProperties(ctx context.Context, t *testctx.T) {
	inputs, err := filepath.Glob(filepath.Join("testdata", "*.rs"))
	require.NoError(t, err)

	for _, input := range inputs {
		t.Run(filepath.Base(input), func(ctx context.Context, t *testctx.T) {
			src, err := os.ReadFile(input)
			require.NoError(t, err)

			cfg := DefaultConfig()
			once := format(ctx, t, string(src), cfg)

			t.Run("idempotent", func(ctx context.Context, t *testctx.T) {
				require.Equal(t, once, format(ctx, t, once, cfg))
			})

			t.Run("width", func(ctx context.Context, t *testctx.T) {
				for _, line := range strings.Split(once, "\n") {
					require.LessOrEqual(t, layout.VisibleWidth(line), cfg.MaxWidth, line)
				}
			})

			t.Run("comments kept", func(ctx context.Context, t *testctx.T) {
				before, err := syntax.Parse(ctx, src)
				require.NoError(t, err)
				after, err := syntax.Parse(ctx, []byte(once))
				require.NoError(t, err)
				require.Len(t, after.Comments, len(before.Comments))
			})

			t.Run("no trailing whitespace", func(ctx context.Context, t *testctx.T) {
				for _, line := range strings.Split(once, "\n") {
					require.Equal(t, strings.TrimRight(line, " \t"), line)
				}
			})
		})
	}
}
