package project

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// ValidationConfig holds project-level validation rules
type ValidationConfig struct {
	MaxProjectIDLength   int
	MaxNameLength        int
	MaxDescriptionLength int
	MaxChatTitleLength   int
}

// DefaultValidationConfig returns the default project validation rules
func DefaultValidationConfig() *ValidationConfig {
	return &ValidationConfig{
		MaxProjectIDLength:   128,
		MaxNameLength:        256,
		MaxDescriptionLength: 2048,
		MaxChatTitleLength:   256,
	}
}

// Validator handles project-level validation
type Validator struct {
	config *ValidationConfig
}

// NewValidator creates a validator for projects
func NewValidator(config *ValidationConfig) *Validator {
	if config == nil {
		config = DefaultValidationConfig()
	}
	return &Validator{config: config}
}

// ValidateProjectID validates a caller-supplied project identifier
func (v *Validator) ValidateProjectID(projectID string) error {
	if strings.TrimSpace(projectID) == "" {
		return fmt.Errorf("project ID cannot be empty")
	}
	if len(projectID) > v.config.MaxProjectIDLength {
		return fmt.Errorf("project ID cannot exceed %d characters", v.config.MaxProjectIDLength)
	}
	if strings.Contains(projectID, "\x00") {
		return fmt.Errorf("project ID cannot contain null bytes")
	}
	return nil
}

// ValidateName validates a project name
func (v *Validator) ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("project name cannot be empty")
	}
	if utf8.RuneCountInString(name) > v.config.MaxNameLength {
		return fmt.Errorf("project name cannot exceed %d characters", v.config.MaxNameLength)
	}
	if strings.Contains(name, "\x00") {
		return fmt.Errorf("project name cannot contain null bytes")
	}
	return nil
}

// ValidateDescription validates a project description
func (v *Validator) ValidateDescription(description string) error {
	if utf8.RuneCountInString(description) > v.config.MaxDescriptionLength {
		return fmt.Errorf("project description cannot exceed %d characters", v.config.MaxDescriptionLength)
	}
	return nil
}

// ValidateChatTitle validates a per-membership chat title
func (v *Validator) ValidateChatTitle(title string) error {
	if utf8.RuneCountInString(title) > v.config.MaxChatTitleLength {
		return fmt.Errorf("chat title cannot exceed %d characters", v.config.MaxChatTitleLength)
	}
	return nil
}
