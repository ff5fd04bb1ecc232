package thread

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// ValidationConfig holds thread-level validation rules
type ValidationConfig struct {
	MaxThreadIDLength int
	MaxTitleLength    int
	MaxContentLength  int
	MaxTags           int
	MaxTagLength      int
}

// DefaultValidationConfig returns the default thread validation rules
func DefaultValidationConfig() *ValidationConfig {
	return &ValidationConfig{
		MaxThreadIDLength: 128,
		MaxTitleLength:    256,
		MaxContentLength:  100_000,
		MaxTags:           32,
		MaxTagLength:      64,
	}
}

// Validator handles thread-level validation
type Validator struct {
	config *ValidationConfig
}

// NewValidator creates a validator for threads
func NewValidator(config *ValidationConfig) *Validator {
	if config == nil {
		config = DefaultValidationConfig()
	}
	return &Validator{config: config}
}

// ValidateThreadID validates a caller-supplied thread identifier
func (v *Validator) ValidateThreadID(threadID string) error {
	if strings.TrimSpace(threadID) == "" {
		return fmt.Errorf("thread ID cannot be empty")
	}
	if len(threadID) > v.config.MaxThreadIDLength {
		return fmt.Errorf("thread ID cannot exceed %d characters", v.config.MaxThreadIDLength)
	}
	if strings.Contains(threadID, "\x00") {
		return fmt.Errorf("thread ID cannot contain null bytes")
	}
	return nil
}

// ValidateMessage validates a message before it is appended
func (v *Validator) ValidateMessage(msg Message) error {
	switch msg.Role {
	case RoleUser, RoleAssistant, RoleSystem:
	default:
		return fmt.Errorf("invalid message role: %s (must be user, assistant, or system)", msg.Role)
	}

	if strings.TrimSpace(msg.Content) == "" {
		return fmt.Errorf("message content cannot be empty")
	}

	if utf8.RuneCountInString(msg.Content) > v.config.MaxContentLength {
		return fmt.Errorf("message content cannot exceed %d characters", v.config.MaxContentLength)
	}

	if strings.Contains(msg.Content, "\x00") {
		return fmt.Errorf("message content cannot contain null bytes")
	}

	return nil
}

// ValidateTitle validates a thread title
func (v *Validator) ValidateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("title cannot be only whitespace")
	}
	if utf8.RuneCountInString(title) > v.config.MaxTitleLength {
		return fmt.Errorf("title cannot exceed %d characters", v.config.MaxTitleLength)
	}
	if strings.Contains(title, "\x00") {
		return fmt.Errorf("title cannot contain null bytes")
	}
	return nil
}

// ValidateTags validates a tag set
func (v *Validator) ValidateTags(tags []string) error {
	if len(tags) > v.config.MaxTags {
		return fmt.Errorf("cannot have more than %d tags (got %d)", v.config.MaxTags, len(tags))
	}
	for _, tag := range tags {
		if strings.TrimSpace(tag) == "" {
			return fmt.Errorf("tag cannot be empty")
		}
		if utf8.RuneCountInString(tag) > v.config.MaxTagLength {
			return fmt.Errorf("tag cannot exceed %d characters", v.config.MaxTagLength)
		}
	}
	return nil
}
