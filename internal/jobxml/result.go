package jobxml

// ErrorCategory classifies a validation error. Every error blocks validity.
type ErrorCategory string

const (
	CategoryStructure ErrorCategory = "structure"
	CategoryContent   ErrorCategory = "content"
	CategoryAttribute ErrorCategory = "attribute"
	CategoryNamespace ErrorCategory = "namespace"
)

// WarningCategory classifies an advisory finding. Warnings never affect validity.
type WarningCategory string

const (
	CategoryBestPractice  WarningCategory = "best-practice"
	CategoryPerformance   WarningCategory = "performance"
	CategoryCompatibility WarningCategory = "compatibility"
)

// ValidationError is a rule violation that makes a document invalid.
type ValidationError struct {
	Category ErrorCategory `json:"category" plist:"category"`
	Message  string        `json:"message" plist:"message"`
	Element  string        `json:"element,omitempty" plist:"element,omitempty"`
}

// ValidationWarning is an advisory finding.
type ValidationWarning struct {
	Category WarningCategory `json:"category" plist:"category"`
	Message  string          `json:"message" plist:"message"`
	Element  string          `json:"element,omitempty" plist:"element,omitempty"`
}

// ValidationResult is the outcome of one Validate call.
type ValidationResult struct {
	IsValid  bool                `json:"isValid" plist:"isValid"`
	Errors   []ValidationError   `json:"errors" plist:"errors"`
	Warnings []ValidationWarning `json:"warnings" plist:"warnings"`
}

// ErrorsIn returns the errors of the given category.
func (r ValidationResult) ErrorsIn(category ErrorCategory) []ValidationError {
	var out []ValidationError
	for _, e := range r.Errors {
		if e.Category == category {
			out = append(out, e)
		}
	}
	return out
}

// WarningsIn returns the warnings of the given category.
func (r ValidationResult) WarningsIn(category WarningCategory) []ValidationWarning {
	var out []ValidationWarning
	for _, w := range r.Warnings {
		if w.Category == category {
			out = append(out, w)
		}
	}
	return out
}

// collector accumulates findings for a single validation run.
type collector struct {
	errors   []ValidationError
	warnings []ValidationWarning
}

func (c *collector) fail(category ErrorCategory, element, message string) {
	c.errors = append(c.errors, ValidationError{Category: category, Message: message, Element: element})
}

func (c *collector) warn(category WarningCategory, element, message string) {
	c.warnings = append(c.warnings, ValidationWarning{Category: category, Message: message, Element: element})
}

func (c *collector) result() ValidationResult {
	errs := c.errors
	if errs == nil {
		errs = []ValidationError{}
	}
	warns := c.warnings
	if warns == nil {
		warns = []ValidationWarning{}
	}
	return ValidationResult{IsValid: len(errs) == 0, Errors: errs, Warnings: warns}
}
