package compiler

import (
	"errors"
	"strings"
	"unicode"

	verrors "github.com/vango-dev/vbind/internal/errors"
)

// ErrMalformedCall is returned for an event directive that is not of the
// form methodName(arg).
var ErrMalformedCall = errors.New("compiler: malformed event directive")

// ErrUnknownMethod is returned for an event directive naming a method that
// is not in scope.
var ErrUnknownMethod = errors.New("compiler: unknown method")

// Call is a parsed event directive value.
type Call struct {
	Method string
	Arg    string
}

// ParseCall parses "methodName(arg)". The argument is optional, taken
// literally after trimming, and may not contain commas or parentheses.
func ParseCall(s string) (Call, error) {
	src := strings.TrimSpace(s)
	open := strings.IndexByte(src, '(')
	if open < 0 || !strings.HasSuffix(src, ")") {
		return Call{}, malformed(s, "missing parentheses")
	}

	name := strings.TrimSpace(src[:open])
	if !isIdentifier(name) {
		return Call{}, malformed(s, "method name must be an identifier")
	}

	arg := src[open+1 : len(src)-1]
	if strings.ContainsAny(arg, "(),") {
		return Call{}, malformed(s, "only one argument without nested calls is supported")
	}

	return Call{Method: name, Arg: strings.TrimSpace(arg)}, nil
}

func malformed(src, why string) error {
	return verrors.New("E010").
		WithTarget(src).
		WithSuggestion(why).
		Wrap(ErrMalformedCall)
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || r == '$' || unicode.IsLetter(r):
		case i > 0 && unicode.IsDigit(r):
		default:
			return false
		}
	}
	return true
}
