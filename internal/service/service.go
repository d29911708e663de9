// Package service implements the orchestration core: session lifecycle and
// the run state machine that drives remote assistant runs to completion.
package service

import (
	"github.com/kidtutor/orchestrator/internal/adapter/assistant"
	"github.com/kidtutor/orchestrator/internal/config"
	store "github.com/kidtutor/orchestrator/internal/repository"
	"github.com/kidtutor/orchestrator/internal/tools"
)

// Service coordinates the session store, the assistant backend and the tool
// dispatch registry.
type Service struct {
	store    store.Store
	backend  assistant.Backend
	registry *tools.Registry
	config   *config.Config
	poller   Poller
	locks    *threadLocks
}

// New creates the service. The poller is derived from the config; tests may
// replace it via SetPoller.
func New(st store.Store, backend assistant.Backend, registry *tools.Registry, cfg *config.Config) *Service {
	return &Service{
		store:    st,
		backend:  backend,
		registry: registry,
		config:   cfg,
		poller: Poller{
			Interval:    cfg.PollInterval,
			MaxAttempts: cfg.PollMaxAttempts,
		},
		locks: newThreadLocks(),
	}
}

// SetPoller replaces the polling policy. Intended for tests that need a
// zero-delay clock.
func (s *Service) SetPoller(p Poller) {
	s.poller = p
}
