// Package execlog provides step-timing observability for repository and
// service operations. It is never used for control flow.
package execlog

import (
	"sync"
	"time"

	"github.com/lhpaul/finadmin/internal/shared/logger"
)

// ExecutionLogger records the start and end of named execution steps and
// surfaces warnings with structured context.
type ExecutionLogger interface {
	StartStep(id string)
	EndStep(id string)
	Warn(fields map[string]interface{}, message string)
}

// StepLogger implements ExecutionLogger over the shared logger, measuring the
// wall time between StartStep and EndStep per step id.
type StepLogger struct {
	mu     sync.Mutex
	log    logger.Logger
	starts map[string]time.Time
}

// NewStepLogger creates a step logger scoped to an operation name.
func NewStepLogger(log logger.Logger, operation string) *StepLogger {
	return &StepLogger{
		log:    log.WithFields(map[string]interface{}{"operation": operation}),
		starts: make(map[string]time.Time),
	}
}

func (s *StepLogger) StartStep(id string) {
	s.mu.Lock()
	s.starts[id] = time.Now()
	s.mu.Unlock()
	s.log.Debugf("step %s started", id)
}

func (s *StepLogger) EndStep(id string) {
	s.mu.Lock()
	start, ok := s.starts[id]
	delete(s.starts, id)
	s.mu.Unlock()
	if !ok {
		s.log.Warnf("step %s ended without a start", id)
		return
	}
	s.log.WithFields(map[string]interface{}{
		"step":        id,
		"duration_ms": time.Since(start).Milliseconds(),
	}).Debug("step finished")
}

func (s *StepLogger) Warn(fields map[string]interface{}, message string) {
	s.log.WithFields(fields).Warn(message)
}

// NoopLogger discards all step activity. Used by tests and background jobs
// that do not need timing output.
type NoopLogger struct{}

func (NoopLogger) StartStep(string)                    {}
func (NoopLogger) EndStep(string)                      {}
func (NoopLogger) Warn(map[string]interface{}, string) {}

var _ ExecutionLogger = (*StepLogger)(nil)
var _ ExecutionLogger = NoopLogger{}
