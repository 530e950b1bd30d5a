package utils

import (
	"fmt"
	"regexp"
)

// Validation patterns for catalog identifiers
var (
	// Agent name: lowercase alphanumeric with optional dots, dashes, underscores
	// Max 100 chars, must start and end with alphanumeric
	agentNamePattern = regexp.MustCompile(`^[a-z0-9]([a-z0-9._-]{0,98}[a-z0-9])?$`)

	// Tag: alphanumeric, dots, dashes, underscores, max 50 chars
	// Must start with alphanumeric or underscore
	tagPattern = regexp.MustCompile(`^[a-zA-Z0-9_][a-zA-Z0-9._-]{0,49}$`)

	// UUID: standard format with dashes
	uuidPattern = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)
)

// ValidateAgentName validates a catalog entry name
// Returns error if invalid, nil if valid
func ValidateAgentName(name string) error {
	if name == "" {
		return fmt.Errorf("agent name cannot be empty")
	}
	if len(name) > 100 {
		return fmt.Errorf("agent name too long: max 100 characters")
	}
	if !agentNamePattern.MatchString(name) {
		return fmt.Errorf("invalid agent name: must be lowercase alphanumeric with optional dots, dashes, underscores")
	}
	return nil
}

// ValidateTag validates a search/catalog tag
// Returns error if invalid, nil if valid
func ValidateTag(tag string) error {
	if tag == "" {
		return fmt.Errorf("tag cannot be empty")
	}
	if !tagPattern.MatchString(tag) {
		return fmt.Errorf("invalid tag format: must start with alphanumeric or underscore, max 50 chars")
	}
	return nil
}

// ValidateUUID validates UUID format
// Returns error if invalid, nil if valid
func ValidateUUID(uuid string) error {
	if uuid == "" {
		return fmt.Errorf("UUID cannot be empty")
	}
	if !uuidPattern.MatchString(uuid) {
		return fmt.Errorf("invalid UUID format")
	}
	return nil
}
