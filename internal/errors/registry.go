package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category   Category
	Message    string
	Detail     string
	Suggestion string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Usage Errors (E001-E099)
	// ============================================

	"E001": {
		Category:   CategoryUsage,
		Message:    "Self-listening is forbidden",
		Detail:     "A reactive node may not subscribe to its own updates; this creates a trivial cycle the scheduler cannot resolve.",
		Suggestion: "Derive a new cell with Map/Filter and subscribe that instead.",
	},
	"E002": {
		Category:   CategoryUsage,
		Message:    "Cell already destroyed",
		Detail:     "The reactive cell has been destroyed; destroyed cells never reanimate.",
		Suggestion: "Rebuild the cell from its host table, or check lifecycle ordering.",
	},
	"E003": {
		Category:   CategoryUsage,
		Message:    "Splice out of range",
		Detail:     "The splice index or delete count falls outside the sequence's backing range.",
		Suggestion: "Clamp indexes against Len() before splicing.",
	},

	// ============================================
	// Config Errors (E100-E119)
	// ============================================

	"E100": {
		Category:   CategoryConfig,
		Message:    "Invalid configuration file",
		Detail:     "cellflow.json could not be parsed.",
		Suggestion: "Validate the JSON syntax and compare against the documented schema.",
	},
	"E101": {
		Category:   CategoryConfig,
		Message:    "Invalid listen address",
		Detail:     "The inspector listen address is not a valid host:port.",
		Suggestion: "Use a value like \"localhost:6060\".",
	},
}
