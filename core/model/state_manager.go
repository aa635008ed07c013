// Package model defines the classifier capabilities driven by cross-validation
// and small helpers shared by classifier implementations.
package model

import (
	"sync"

	"github.com/YuminosukeSato/crossval/pkg/errors"
)

// StateManager manages the trained state of a classifier in a thread-safe manner.
type StateManager struct {
	mu sync.RWMutex

	trained   bool
	nSamples  int
	nFeatures int
}

// NewStateManager creates a new StateManager instance.
func NewStateManager() *StateManager {
	return &StateManager{}
}

// IsFitted returns whether the classifier has been trained.
func (s *StateManager) IsFitted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.trained
}

// SetFitted marks the classifier as trained and records the training set shape.
func (s *StateManager) SetFitted(nSamples, nFeatures int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trained = true
	s.nSamples = nSamples
	s.nFeatures = nFeatures
}

// Reset resets the trained state.
func (s *StateManager) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trained = false
	s.nSamples = 0
	s.nFeatures = 0
}

// Dimensions returns the number of samples and features seen during training.
func (s *StateManager) Dimensions() (nSamples, nFeatures int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nSamples, s.nFeatures
}

// RequireFitted returns a NotFittedError if the classifier has not been trained.
func (s *StateManager) RequireFitted(modelName, method string) error {
	if !s.IsFitted() {
		return errors.NewNotFittedError(modelName, method)
	}
	return nil
}
