package redis

import "fmt"

// Key patterns, relative to the environment prefix
const (
	KeyOutcomes = "signin:outcomes"
)

// KeyBuilder provides environment-aware Redis key building functionality
type KeyBuilder struct {
	prefix string
}

// NewKeyBuilder creates a new key builder with environment-based prefix
func NewKeyBuilder(environment string) *KeyBuilder {
	prefix := "prod"
	if environment == "development" || environment == "staging" || environment == "test" {
		prefix = "staging"
	}

	return &KeyBuilder{prefix: prefix}
}

// BuildKey constructs a Redis key with the environment prefix
func (kb *KeyBuilder) BuildKey(key string) string {
	return fmt.Sprintf("%s:%s", kb.prefix, key)
}

// KeyOutcomes is the hash holding sign-in/sign-out outcome tallies
func (kb *KeyBuilder) KeyOutcomes() string {
	return kb.BuildKey(KeyOutcomes)
}
