package questions

import (
	"regexp"
	"strings"
)

// entityReplacer reverses the fixed set of HTML character entities the
// upstream API emits in titles and bodies. Anything outside this set passes
// through unchanged.
var entityReplacer = strings.NewReplacer(
	"&quot;", `"`,
	"&#39;", "'",
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&nbsp;", " ",
	"&rsquo;", "’",
	"&lsquo;", "‘",
	"&ldquo;", "“",
	"&rdquo;", "”",
)

// basicEntityReplacer covers the four entities that bodies carry a second
// time because upstream double-encodes markup inside code spans.
var basicEntityReplacer = strings.NewReplacer(
	"&lt;", "<",
	"&gt;", ">",
	"&amp;", "&",
	"&quot;", `"`,
)

var (
	preBlockRe   = regexp.MustCompile(`(?s)<pre[^>]*>(.*?)</pre>`)
	inlineCodeRe = regexp.MustCompile(`<code[^>]*>([^<]*)</code>`)
	codeTagRe    = regexp.MustCompile(`</?code[^>]*>`)
	anyTagRe     = regexp.MustCompile(`<[^>]*>`)
	fencedCodeRe = regexp.MustCompile("(?s)```\n?(.*?)\n?```")
)

// DecodeEntities reverses the fixed entity set to literal characters.
// Empty input yields an empty string.
func DecodeEntities(text string) string {
	if text == "" {
		return ""
	}
	return entityReplacer.Replace(text)
}

// CleanBody converts an upstream HTML body to plain text with code
// preserved: <pre> blocks become fenced code blocks, inline <code> becomes
// backtick-quoted, all remaining tags are stripped, and the basic entities
// are decoded once more. The code rewrites must run before the generic tag
// strip or the code boundaries are lost.
func CleanBody(html string) string {
	if html == "" {
		return ""
	}

	// Fenced blocks first. A <pre> usually wraps a <code> tag; drop the
	// inner tags so the fence holds bare code.
	out := preBlockRe.ReplaceAllStringFunc(html, func(m string) string {
		inner := preBlockRe.FindStringSubmatch(m)[1]
		inner = codeTagRe.ReplaceAllString(inner, "")
		return "\n```\n" + strings.Trim(inner, "\n") + "\n```\n"
	})

	out = inlineCodeRe.ReplaceAllString(out, "`$1`")
	out = anyTagRe.ReplaceAllString(out, "")
	out = basicEntityReplacer.Replace(out)

	return strings.TrimSpace(out)
}

// CodeBlocks extracts the contents of fenced code blocks from a normalized
// body. Used to feed the boosted code field of the search index.
func CodeBlocks(text string) []string {
	matches := fencedCodeRe.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}
	blocks := make([]string, 0, len(matches))
	for _, m := range matches {
		if block := strings.TrimSpace(m[1]); block != "" {
			blocks = append(blocks, block)
		}
	}
	return blocks
}
