package questions

import (
	"strings"
	"testing"
)

func TestDecodeEntities(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"basic tags", "&lt;b&gt;Hi&#39;s&lt;/b&gt;", "<b>Hi's</b>"},
		{"quotes", "&quot;quoted&quot;", `"quoted"`},
		{"ampersand", "a &amp;&amp; b", "a && b"},
		{"nbsp", "a&nbsp;b", "a b"},
		{"curly quotes", "&ldquo;hi&rdquo; &lsquo;there&rsquo;", "“hi” ‘there’"},
		{"unknown entity passes through", "&copy; 2024", "&copy; 2024"},
		{"plain text untouched", "no entities here", "no entities here"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DecodeEntities(tt.input); got != tt.want {
				t.Errorf("DecodeEntities(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestCleanBody_PreCodeBlock(t *testing.T) {
	got := CleanBody("<pre><code>x=1</code></pre>")

	if !strings.Contains(got, "```") {
		t.Fatalf("expected a fenced code block, got %q", got)
	}
	if !strings.Contains(got, "x=1") {
		t.Errorf("fence should contain the code, got %q", got)
	}
	if strings.Contains(got, "<") || strings.Contains(got, ">") {
		t.Errorf("no residual tags expected, got %q", got)
	}
}

func TestCleanBody_InlineCode(t *testing.T) {
	got := CleanBody("<p>Use <code>fmt.Println</code> here</p>")

	want := "Use `fmt.Println` here"
	if got != want {
		t.Errorf("CleanBody = %q, want %q", got, want)
	}
}

func TestCleanBody_StripsTags(t *testing.T) {
	got := CleanBody("<p>Hello <b>world</b></p>")
	if got != "Hello world" {
		t.Errorf("CleanBody = %q, want %q", got, "Hello world")
	}
}

func TestCleanBody_DoubleEncodedEntities(t *testing.T) {
	// Bodies may arrive double-encoded; a second decode pass applies after
	// tag stripping.
	got := CleanBody("<p>a &lt; b &amp;&amp; b &gt; c</p>")
	if got != "a < b && b > c" {
		t.Errorf("CleanBody = %q", got)
	}
}

func TestCleanBody_Empty(t *testing.T) {
	if got := CleanBody(""); got != "" {
		t.Errorf("CleanBody(\"\") = %q, want empty", got)
	}
}

func TestCleanBody_MultilinePre(t *testing.T) {
	html := "<pre class=\"lang-go\"><code>func main() {\n\tfmt.Println(1)\n}</code></pre>"
	got := CleanBody(html)

	if !strings.Contains(got, "func main() {") {
		t.Errorf("expected multiline code preserved, got %q", got)
	}
	if strings.Contains(got, "lang-go") {
		t.Errorf("pre attributes should be stripped, got %q", got)
	}
}

func TestCodeBlocks(t *testing.T) {
	body := CleanBody("<p>intro</p><pre><code>first</code></pre><p>mid</p><pre><code>second\nline</code></pre>")

	blocks := CodeBlocks(body)
	if len(blocks) != 2 {
		t.Fatalf("expected 2 code blocks, got %d: %v", len(blocks), blocks)
	}
	if blocks[0] != "first" {
		t.Errorf("blocks[0] = %q", blocks[0])
	}
	if blocks[1] != "second\nline" {
		t.Errorf("blocks[1] = %q", blocks[1])
	}
}

func TestCodeBlocks_None(t *testing.T) {
	if blocks := CodeBlocks("plain text, `inline` only"); blocks != nil {
		t.Errorf("expected nil, got %v", blocks)
	}
}
