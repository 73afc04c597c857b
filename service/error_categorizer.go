package service

import (
	"errors"
	"strings"

	"github.com/redraft-ai/redraft/domain"
)

// ErrorCategorizerImpl implements the ErrorCategorizer interface
type ErrorCategorizerImpl struct {
	codes    map[string]domain.ErrorCategory
	patterns map[domain.ErrorCategory][]string
}

// NewErrorCategorizer creates a new error categorizer
func NewErrorCategorizer() domain.ErrorCategorizer {
	return &ErrorCategorizerImpl{
		codes:    initializeCodeCategories(),
		patterns: initializeErrorPatterns(),
	}
}

// initializeCodeCategories maps domain error codes onto categories. Codes
// take precedence over message patterns.
func initializeCodeCategories() map[string]domain.ErrorCategory {
	return map[string]domain.ErrorCategory{
		domain.ErrCodeInvalidInput:      domain.ErrorCategoryInput,
		domain.ErrCodeFileNotFound:      domain.ErrorCategoryInput,
		domain.ErrCodeParseError:        domain.ErrorCategoryInput,
		domain.ErrCodeConfigError:       domain.ErrorCategoryConfig,
		domain.ErrCodeNetworkError:      domain.ErrorCategoryNetwork,
		domain.ErrCodeTransportError:    domain.ErrorCategoryNetwork,
		domain.ErrCodeStorageError:      domain.ErrorCategoryStorage,
		domain.ErrCodeOutputError:       domain.ErrorCategoryOutput,
		domain.ErrCodeUnsupportedFormat: domain.ErrorCategoryOutput,
		domain.ErrCodeRenderError:       domain.ErrorCategoryRendering,
		domain.ErrCodeEncodingError:     domain.ErrorCategoryRendering,
	}
}

// initializeErrorPatterns initializes fallback message pattern mappings for
// errors that did not originate in the domain layer.
func initializeErrorPatterns() map[domain.ErrorCategory][]string {
	return map[domain.ErrorCategory][]string{
		domain.ErrorCategoryInput: {
			"invalid input",
			"no files found",
			"file not found",
			"cannot access",
			"permission denied",
			"parse",
		},
		domain.ErrorCategoryConfig: {
			"config",
			"configuration",
			"invalid settings",
			"toml",
			"flag",
		},
		domain.ErrorCategoryNetwork: {
			"connection refused",
			"timeout",
			"deadline",
			"backend",
			"unreachable",
		},
		domain.ErrorCategoryStorage: {
			"database",
			"sqlite",
			"storage",
		},
		domain.ErrorCategoryOutput: {
			"write",
			"output",
			"cannot create",
			"failed to generate",
		},
		domain.ErrorCategoryRendering: {
			"render",
			"template",
			"escape",
		},
	}
}

// Categorize determines the category of an error
func (ec *ErrorCategorizerImpl) Categorize(err error) *domain.CategorizedError {
	if err == nil {
		return nil
	}

	var derr domain.DomainError
	if errors.As(err, &derr) {
		if category, ok := ec.codes[derr.Code]; ok {
			return &domain.CategorizedError{
				Category: category,
				Message:  ec.getCategoryMessage(category),
				Original: err,
			}
		}
	}

	errMsg := strings.ToLower(err.Error())
	for category, patterns := range ec.patterns {
		if containsAnyPattern(errMsg, patterns) {
			return &domain.CategorizedError{
				Category: category,
				Message:  ec.getCategoryMessage(category),
				Original: err,
			}
		}
	}

	return &domain.CategorizedError{
		Category: domain.ErrorCategoryUnknown,
		Message:  err.Error(),
		Original: err,
	}
}

// GetRecoverySuggestions returns recovery suggestions for an error category
func (ec *ErrorCategorizerImpl) GetRecoverySuggestions(category domain.ErrorCategory) []string {
	suggestions := map[domain.ErrorCategory][]string{
		domain.ErrorCategoryInput: {
			"Check that the analysis JSON files exist and are readable",
			"Try: redraft render <file.json> --verbose to see file discovery",
			"Confirm the document was produced by the analyzer (valid JSON)",
			"Use absolute paths if relative paths are causing issues",
		},
		domain.ErrorCategoryConfig: {
			"Verify configuration file format and values",
			"Try: redraft init to generate a valid config file",
			"Check for syntax errors in .redraft.toml",
			"Confirm severity thresholds are ordered and within 0..1",
		},
		domain.ErrorCategoryNetwork: {
			"Check that the rewrite backend is running and reachable",
			"Verify the --backend URL or server.backend_url config value",
			"Feedback and rewrites queue locally; retry once the backend is up",
		},
		domain.ErrorCategoryStorage: {
			"Check write permissions on the session storage path",
			"Try a different --storage location",
			"Delete the session database to start fresh; feedback will reset",
		},
		domain.ErrorCategoryOutput: {
			"Check write permissions and output format validity",
			"Use --json or --yaml, or write to a different location",
			"Ensure the output directory exists and is writable",
		},
		domain.ErrorCategoryRendering: {
			"The document may contain block kinds this version does not know",
			"Unknown blocks fall back to plain rendering; check --verbose output",
			"Report the document shape if the failure persists",
		},
		domain.ErrorCategoryUnknown: {
			"Run with --verbose for detailed error information",
			"Check the documentation for known issues",
			"Report the issue if it persists",
		},
	}

	if sug, ok := suggestions[category]; ok {
		return sug
	}
	return []string{"Check the error message for more details"}
}

// getCategoryMessage returns a user-friendly message for an error category
func (ec *ErrorCategorizerImpl) getCategoryMessage(category domain.ErrorCategory) string {
	messages := map[domain.ErrorCategory]string{
		domain.ErrorCategoryInput:     "Failed to read or parse the analysis input",
		domain.ErrorCategoryConfig:    "Configuration file or settings error",
		domain.ErrorCategoryNetwork:   "Backend request failed",
		domain.ErrorCategoryStorage:   "Session storage error",
		domain.ErrorCategoryOutput:    "Failed to generate or write output",
		domain.ErrorCategoryRendering: "Error while rendering the document",
		domain.ErrorCategoryUnknown:   "An unexpected error occurred",
	}

	if msg, ok := messages[category]; ok {
		return msg
	}
	return "An error occurred"
}

// containsAnyPattern checks if a string contains any of the given patterns
func containsAnyPattern(str string, patterns []string) bool {
	for _, pattern := range patterns {
		if strings.Contains(str, pattern) {
			return true
		}
	}
	return false
}
