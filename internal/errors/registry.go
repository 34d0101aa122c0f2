package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
	DocURL   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Runtime Errors (E001-E039)
	// ============================================

	"E001": {
		Category: CategoryRuntime,
		Message:  "Hook called outside component render",
		Detail:   "Hooks such as UseState and UseEffect must run inside a component's render function, where a reactive scope is active.",
		DocURL:   "https://lumen.dev/docs/errors/E001",
	},
	"E002": {
		Category: CategoryRuntime,
		Message:  "Hook order violation",
		Detail:   "A component called hooks in a different order or count than its previous render. Hooks must run unconditionally and in the same sequence every render.",
		DocURL:   "https://lumen.dev/docs/errors/E002",
	},
	"E003": {
		Category: CategoryRuntime,
		Message:  "Scope disposed",
		Detail:   "The component's reactive scope has been disposed. This usually means a handler or goroutine outlived its component.",
		DocURL:   "https://lumen.dev/docs/errors/E003",
	},
	"E004": {
		Category: CategoryRuntime,
		Message:  "Effect panicked",
		Detail:   "An effect body or its cleanup panicked. The panic was contained; other effects still ran.",
		DocURL:   "https://lumen.dev/docs/errors/E004",
	},

	// ============================================
	// Render Errors (E040-E079)
	// ============================================

	"E040": {
		Category: CategoryRender,
		Message:  "Component render panicked",
		Detail:   "A component's Render function panicked. The previous document is kept on screen until the next successful render.",
		DocURL:   "https://lumen.dev/docs/errors/E040",
	},
	"E041": {
		Category: CategoryRender,
		Message:  "Handler not found",
		Detail:   "The event targeted a node id with no registered handler. The window may have re-rendered since the event was queued.",
		DocURL:   "https://lumen.dev/docs/errors/E041",
	},

	// ============================================
	// Shell Errors (E080-E099)
	// ============================================

	"E080": {
		Category: CategoryShell,
		Message:  "Unknown window",
		Detail:   "The window handle does not refer to an open window. It may have been closed.",
		DocURL:   "https://lumen.dev/docs/errors/E080",
	},
	"E081": {
		Category: CategoryShell,
		Message:  "Surface unavailable",
		Detail:   "The window's rendering surface is suspended or was lost. Frames are dropped until the host restores it.",
		DocURL:   "https://lumen.dev/docs/errors/E081",
	},

	// ============================================
	// Assets Errors (E100-E119)
	// ============================================

	"E100": {
		Category: CategoryAssets,
		Message:  "Asset not found",
		Detail:   "No asset exists under the requested key in the configured store.",
		DocURL:   "https://lumen.dev/docs/errors/E100",
	},
	"E101": {
		Category: CategoryAssets,
		Message:  "Asset manifest invalid",
		Detail:   "The asset manifest could not be parsed. It must be a JSON object mapping names to keys.",
		DocURL:   "https://lumen.dev/docs/errors/E101",
	},

	// ============================================
	// Config Errors (E120-E149)
	// ============================================

	"E120": {
		Category: CategoryConfig,
		Message:  "Invalid configuration",
		Detail:   "The lumen.json file could not be read or parsed.",
		DocURL:   "https://lumen.dev/docs/errors/E120",
	},
	"E122": {
		Category: CategoryConfig,
		Message:  "Invalid configuration value",
		Detail:   "A configuration field holds a value outside its allowed range.",
		DocURL:   "https://lumen.dev/docs/errors/E122",
	},
	"E141": {
		Category: CategoryConfig,
		Message:  "Project not found",
		Detail:   "No lumen.json was found in the directory or any parent.",
		DocURL:   "https://lumen.dev/docs/errors/E141",
	},

	// ============================================
	// CLI Errors (E150-E169)
	// ============================================

	"E150": {
		Category: CategoryCLI,
		Message:  "Invalid command usage",
		Detail:   "The command was invoked with missing or conflicting arguments.",
		DocURL:   "https://lumen.dev/docs/errors/E150",
	},
}

// Register adds or replaces an error template at runtime.
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}

// GetTemplate returns the template registered under code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	template, ok := registry[code]
	return template, ok
}

// GetAllCodes returns every registered error code.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	return codes
}
