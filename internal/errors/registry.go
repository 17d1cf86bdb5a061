package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Runtime Errors (E001-E009)
	// ============================================

	"E001": {
		Category: CategoryRuntime,
		Message:  "No such property",
		Detail:   "The name is not a method, a computed property or a data key, and data keys cannot be added after construction.",
	},
	"E002": {
		Category: CategoryRuntime,
		Message:  "Cannot read property of undefined value",
		Detail:   "A dotted path walked through a value that is nil before reaching its last segment.",
	},
	"E003": {
		Category: CategoryRuntime,
		Message:  "Cannot traverse into non-composite value",
		Detail:   "Only nested mappings and sequences have properties. A scalar, computed result or method was found in the middle of a path.",
	},
	"E004": {
		Category: CategoryRuntime,
		Message:  "Invalid sequence index",
		Detail:   "Sequence segments must be decimal indexes within the sequence bounds.",
	},

	// ============================================
	// Compile Errors (E010-E019)
	// ============================================

	"E010": {
		Category: CategoryCompile,
		Message:  "Malformed event directive",
		Detail:   "Event directives must have the form methodName(arg) with at most one argument and no nested calls.",
	},
	"E011": {
		Category: CategoryCompile,
		Message:  "Unknown method",
		Detail:   "The event directive names a method that is not in the method table.",
	},
	"E012": {
		Category: CategoryCompile,
		Message:  "Root element not found",
		Detail:   "The el selector matched no element in the document.",
	},
	"E013": {
		Category: CategoryCompile,
		Message:  "Root node cannot hold children",
		Detail:   "The compile root must support detaching and reattaching its children.",
	},

	// ============================================
	// Config Errors (E020-E029)
	// ============================================

	"E020": {
		Category: CategoryConfig,
		Message:  "Invalid configuration file",
		Detail:   "The configuration file could not be parsed.",
	},
	"E021": {
		Category: CategoryConfig,
		Message:  "Unsupported data format",
		Detail:   "Data files must be .json, .yaml or .yml and hold a mapping at the top level.",
	},

	// ============================================
	// Source Errors (E030-E039)
	// ============================================

	"E030": {
		Category: CategorySource,
		Message:  "Source not found",
		Detail:   "The template or data source could not be read.",
	},
	"E031": {
		Category: CategorySource,
		Message:  "Unsupported source scheme",
		Detail:   "Sources are local paths or s3://bucket/key URLs.",
	},
}

// GetAllCodes returns all registered error codes.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
