package system

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type recorder struct {
	phase Phase
	name  string
}

func (r recorder) Phase() Phase { return r.phase }

func (r recorder) Update(log *[]string) { *log = append(*log, r.name) }

func TestRunnerOrdersByPhase(t *testing.T) {
	r := NewRunner[*[]string]()
	r.Register(recorder{PhaseCleanup, "cleanup"})
	r.Register(recorder{PhaseMotion, "motion"})
	r.Register(recorder{PhaseAI, "ai"})
	r.Register(recorder{PhaseMotion, "motion-2"})
	r.Register(recorder{PhaseCollision, "collision"})

	var log []string
	r.Tick(&log)
	assert.Equal(t, []string{"ai", "motion", "motion-2", "collision", "cleanup"}, log)

	// registering after a tick re-sorts
	r.Register(recorder{PhaseDispatch, "dispatch"})
	log = nil
	r.Tick(&log)
	assert.Equal(t, []string{"dispatch", "ai", "motion", "motion-2", "collision", "cleanup"}, log)
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "resolution", PhaseResolution.String())
	assert.Equal(t, "unknown", Phase(99).String())
}
