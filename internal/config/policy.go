package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/utopialog/internal/metrics"
)

// LoadPolicy reads a YAML policy file on top of metrics.DefaultPolicy.
// Keys absent from the file keep their defaults; a missing file yields the
// defaults unchanged. The merged policy must validate.
func LoadPolicy(path string) (metrics.Policy, error) {
	policy := metrics.DefaultPolicy()
	if path == "" {
		return policy, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return policy, nil
		}
		return policy, fmt.Errorf("read policy: %w", err)
	}

	return ParsePolicy(raw)
}

// ParsePolicy decodes YAML on top of the default policy.
func ParsePolicy(raw []byte) (metrics.Policy, error) {
	policy := metrics.DefaultPolicy()
	if err := yaml.Unmarshal(raw, &policy); err != nil {
		return metrics.DefaultPolicy(), fmt.Errorf("parse policy: %w", err)
	}
	if err := policy.Validate(); err != nil {
		return metrics.DefaultPolicy(), err
	}
	return policy, nil
}

// PolicyStore holds the active policy for concurrent readers.
type PolicyStore struct {
	mu     sync.RWMutex
	policy metrics.Policy
}

// NewPolicyStore creates a store seeded with p.
func NewPolicyStore(p metrics.Policy) *PolicyStore {
	return &PolicyStore{policy: p}
}

// Current returns the active policy.
func (s *PolicyStore) Current() metrics.Policy {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.policy
}

// Set replaces the active policy.
func (s *PolicyStore) Set(p metrics.Policy) {
	s.mu.Lock()
	s.policy = p
	s.mu.Unlock()
}
