package execlog

import (
	"testing"

	"github.com/lhpaul/finadmin/internal/shared/logger"
)

func TestStepLogger_StartEnd(t *testing.T) {
	sl := NewStepLogger(logger.Noop(), "createDocument")
	sl.StartStep("resolve-path")
	sl.EndStep("resolve-path")

	// Ending an unknown step must not panic, only warn.
	sl.EndStep("never-started")
}

func TestStepLogger_ConcurrentSteps(t *testing.T) {
	sl := NewStepLogger(logger.Noop(), "sync")
	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func(id string) {
			sl.StartStep(id)
			sl.EndStep(id)
			done <- struct{}{}
		}(string(rune('a' + i)))
	}
	for i := 0; i < 8; i++ {
		<-done
	}
}

func TestStepLogger_Warn(t *testing.T) {
	sl := NewStepLogger(logger.Noop(), "sync")
	sl.Warn(map[string]interface{}{"attempt": 2}, "retrying store operation")
}
