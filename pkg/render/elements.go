package render

// voidElements are elements that cannot have children and have no closing tag.
var voidElements = map[string]bool{
	"area":   true,
	"base":   true,
	"br":     true,
	"col":    true,
	"embed":  true,
	"hr":     true,
	"img":    true,
	"input":  true,
	"link":   true,
	"meta":   true,
	"param":  true,
	"source": true,
	"track":  true,
	"wbr":    true,
}

// isVoidElement returns true if the tag is a void element.
func isVoidElement(tag string) bool {
	return voidElements[tag]
}

// inlineElements are rendered without surrounding newlines in pretty mode.
var inlineElements = map[string]bool{
	"a":      true,
	"abbr":   true,
	"b":      true,
	"br":     true,
	"button": true,
	"code":   true,
	"em":     true,
	"i":      true,
	"input":  true,
	"label":  true,
	"option": true,
	"small":  true,
	"span":   true,
	"strong": true,
	"sub":    true,
	"sup":    true,
}

// isInlineElement returns true if the tag is typically rendered inline.
func isInlineElement(tag string) bool {
	return inlineElements[tag]
}
