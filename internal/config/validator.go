package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/gobwas/glob"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "debate.recent_keep")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// Validate checks the Config for invalid values and returns all
// validation errors found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	errors = append(errors, c.validateServer()...)
	errors = append(errors, c.validateBackends()...)
	errors = append(errors, c.validateDebate()...)
	errors = append(errors, c.validateLogging()...)

	return errors
}

func (c *Config) validateServer() []ValidationError {
	var errors []ValidationError

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errors = append(errors, ValidationError{
			Field:   "server.port",
			Value:   c.Server.Port,
			Message: "must be between 1 and 65535",
		})
	}
	if c.Server.StreamTimeoutSeconds < 1 {
		errors = append(errors, ValidationError{
			Field:   "server.stream_timeout_seconds",
			Value:   c.Server.StreamTimeoutSeconds,
			Message: "must be at least 1",
		})
	}
	if c.Server.ConcludeTimeoutSeconds < 1 {
		errors = append(errors, ValidationError{
			Field:   "server.conclude_timeout_seconds",
			Value:   c.Server.ConcludeTimeoutSeconds,
			Message: "must be at least 1",
		})
	}

	return errors
}

func (c *Config) validateBackends() []ValidationError {
	var errors []ValidationError

	if c.Perplexity.MaxTokens < 1 {
		errors = append(errors, ValidationError{
			Field:   "perplexity.max_tokens",
			Value:   c.Perplexity.MaxTokens,
			Message: "must be at least 1",
		})
	}
	if c.OpenRouter.MaxTokens < 1 {
		errors = append(errors, ValidationError{
			Field:   "openrouter.max_tokens",
			Value:   c.OpenRouter.MaxTokens,
			Message: "must be at least 1",
		})
	}
	for _, section := range []struct {
		field string
		value float64
	}{
		{"perplexity.temperature", c.Perplexity.Temperature},
		{"openrouter.temperature", c.OpenRouter.Temperature},
		{"debate.conclusion_temperature", c.Debate.ConclusionTemperature},
	} {
		if section.value < 0 || section.value > 2 {
			errors = append(errors, ValidationError{
				Field:   section.field,
				Value:   section.value,
				Message: "must be between 0 and 2",
			})
		}
	}

	return errors
}

func (c *Config) validateDebate() []ValidationError {
	var errors []ValidationError

	if c.Debate.MaxProposalLength < 1 {
		errors = append(errors, ValidationError{
			Field:   "debate.max_proposal_length",
			Value:   c.Debate.MaxProposalLength,
			Message: "must be at least 1",
		})
	}
	if c.Debate.RecentKeep < 1 {
		errors = append(errors, ValidationError{
			Field:   "debate.recent_keep",
			Value:   c.Debate.RecentKeep,
			Message: "must be at least 1",
		})
	}
	if c.Debate.ConclusionMaxTokens < 1 {
		errors = append(errors, ValidationError{
			Field:   "debate.conclusion_max_tokens",
			Value:   c.Debate.ConclusionMaxTokens,
			Message: "must be at least 1",
		})
	}
	for _, pattern := range c.Debate.DisabledBackends {
		if _, err := glob.Compile(pattern); err != nil {
			errors = append(errors, ValidationError{
				Field:   "debate.disabled_backends",
				Value:   pattern,
				Message: "not a valid glob pattern",
			})
		}
	}

	return errors
}

func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError

	if !slices.Contains(ValidLogLevels(), strings.ToLower(c.Logging.Level)) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}

	return errors
}
