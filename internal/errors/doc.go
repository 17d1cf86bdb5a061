// Package errors provides coded, actionable error values for vbind.
//
// Every failure the binding engine can raise (an unknown property, a path
// walking through an undefined value, a malformed event directive, a bad
// configuration file) has a registered code that maps to a category, a short
// message and a longer explanation.
//
// # Usage
//
//	err := errors.New("E001").
//	    WithTarget("user.nmae").
//	    WithSuggestion("Check the spelling of the data key").
//	    Wrap(reactive.ErrNoSuchProperty)
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR E001: No such property
//	//
//	//   user.nmae
//	//   ...
//
// Errors wrap the public sentinel of the package that raised them so callers
// can match with errors.Is without importing this package.
package errors
