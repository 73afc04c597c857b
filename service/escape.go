package service

import "strings"

// typographicEntities maps the named and numeric entities the analyzer
// emits for typographic characters back to their code points. Decoding
// happens before the strict escape so curly quotes and dashes survive as
// characters instead of double-escaped entity text.
var typographicEntities = strings.NewReplacer(
	"&#8216;", "‘",
	"&#8217;", "’",
	"&#8220;", "“",
	"&#8221;", "”",
	"&#8211;", "–",
	"&#8212;", "—",
	"&#8230;", "…",
	"&lsquo;", "‘",
	"&rsquo;", "’",
	"&ldquo;", "“",
	"&rdquo;", "”",
	"&ndash;", "–",
	"&mdash;", "—",
	"&hellip;", "…",
)

// strictEscaper encodes the five characters that must never reach markup
// unescaped. Applied unconditionally after entity normalization.
var strictEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// EscapeText produces a fragment safe to concatenate into HTML. It never
// panics; any input comes back escaped, and empty input stays empty.
func EscapeText(text string) string {
	if text == "" {
		return ""
	}
	return strictEscaper.Replace(typographicEntities.Replace(text))
}

// safeInlineTags is the whitelist for table-cell content. This is a
// string-replacement pass over already-escaped text, intentionally
// narrower than an HTML sanitizer. b and i normalize to strong and em.
var safeInlineTags = strings.NewReplacer(
	"&lt;code&gt;", "<code>",
	"&lt;/code&gt;", "</code>",
	"&lt;strong&gt;", "<strong>",
	"&lt;/strong&gt;", "</strong>",
	"&lt;em&gt;", "<em>",
	"&lt;/em&gt;", "</em>",
	"&lt;b&gt;", "<strong>",
	"&lt;/b&gt;", "</strong>",
	"&lt;i&gt;", "<em>",
	"&lt;/i&gt;", "</em>",
)

// EscapeCellText escapes table-cell content, then re-enables the escaped
// whitelist of inline formatting tags. Only the table renderer uses this;
// every other content path takes EscapeText.
func EscapeCellText(text string) string {
	if text == "" {
		return ""
	}
	return safeInlineTags.Replace(EscapeText(text))
}

// EscapeAttr escapes text for use inside a double-quoted HTML attribute.
func EscapeAttr(text string) string {
	return EscapeText(text)
}
