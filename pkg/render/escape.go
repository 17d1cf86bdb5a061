package render

import (
	"strings"

	"golang.org/x/net/html"
)

// attrWhitespace encodes the whitespace a bound value may carry into an
// attribute, so a multi-line v-model value round-trips through the value
// attribute unchanged.
var attrWhitespace = strings.NewReplacer(
	"\n", "&#10;",
	"\r", "&#13;",
	"\t", "&#9;",
)

// escapeAttr escapes an attribute value, including the value slot.
func escapeAttr(s string) string {
	return attrWhitespace.Replace(html.EscapeString(s))
}
