package testkit

import (
	"context"
	"fmt"
	"sync"

	"hrdash/domain/dataset"
)

// SyntheticSource serves generated employee tables. It backs the server when
// no data file is configured and gives tests a realistic full-size table.
type SyntheticSource struct {
	config EmployeeGeneratorConfig
}

// NewSyntheticSource creates a synthetic source
func NewSyntheticSource(config EmployeeGeneratorConfig) *SyntheticSource {
	return &SyntheticSource{config: config}
}

// Name describes the generator settings
func (s *SyntheticSource) Name() string {
	return fmt.Sprintf("synthetic:%d@%d", s.config.Rows, s.config.Seed)
}

// Load generates the table. Every call returns an equal table.
func (s *SyntheticSource) Load(ctx context.Context) (*dataset.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return NewEmployeeGenerator(s.config).Generate()
}

// Employees is a test helper returning a generated table of n rows
func Employees(n int, seed int64) *dataset.Table {
	cfg := DefaultEmployeeConfig()
	cfg.Rows, cfg.Seed = n, seed
	t, err := NewEmployeeGenerator(cfg).Generate()
	if err != nil {
		panic(err)
	}
	return t
}

// ScriptedSource replays a fixed sequence of load outcomes, repeating the
// last one once exhausted. It counts calls for reload tests.
type ScriptedSource struct {
	mu     sync.Mutex
	name   string
	steps  []ScriptStep
	called int
}

// ScriptStep is one Load outcome
type ScriptStep struct {
	Table *dataset.Table
	Err   error
}

// NewScriptedSource creates a scripted source
func NewScriptedSource(name string, steps ...ScriptStep) *ScriptedSource {
	return &ScriptedSource{name: name, steps: steps}
}

// Name returns the configured name
func (s *ScriptedSource) Name() string { return s.name }

// Load returns the next scripted outcome
func (s *ScriptedSource) Load(ctx context.Context) (*dataset.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.steps) == 0 {
		return nil, fmt.Errorf("scripted source %q has no steps", s.name)
	}
	step := s.steps[min(s.called, len(s.steps)-1)]
	s.called++
	return step.Table, step.Err
}

// Calls returns how many times Load ran
func (s *ScriptedSource) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.called
}
