package framework

import (
	"errors"
	"testing"

	"github.com/launchdarkly/mock-ui-environment/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingTestLogger struct {
	events []string
	debug  map[string]logging.CapturedOutput
}

func (r *recordingTestLogger) TestStarted(id TestID) {
	r.events = append(r.events, "start "+id.String())
}

func (r *recordingTestLogger) TestError(id TestID, err error) {
	r.events = append(r.events, "error "+id.String()+": "+err.Error())
}

func (r *recordingTestLogger) TestFinished(id TestID, failed bool, debugOutput logging.CapturedOutput) {
	if r.debug == nil {
		r.debug = make(map[string]logging.CapturedOutput)
	}
	r.debug[id.String()] = debugOutput
	if failed {
		r.events = append(r.events, "failed "+id.String())
	} else {
		r.events = append(r.events, "passed "+id.String())
	}
}

func (r *recordingTestLogger) TestSkipped(id TestID, reason string) {
	r.events = append(r.events, "skipped "+id.String()+" ("+reason+")")
}

func TestRunRecordsPassAndFailure(t *testing.T) {
	logger := &recordingTestLogger{}
	results := Run(nil, logger, func(c *Context) {
		c.Run("a", func(c *Context) {})
		c.Run("b", func(c *Context) {
			c.Errorf("bad %d", 1)
		})
	})

	assert.False(t, results.OK())
	require.Len(t, results.Tests, 2)
	require.Len(t, results.Failures, 1)
	assert.Equal(t, "b", results.Failures[0].TestID.String())
	assert.Equal(t, []string{"start a", "passed a", "start b", "error b: bad 1", "failed b"}, logger.events)
}

func TestFailNowStopsCheck(t *testing.T) {
	reached := false
	results := Run(nil, nil, func(c *Context) {
		c.Run("x", func(c *Context) {
			require.Fail(c, "stop here")
			reached = true
		})
	})
	assert.False(t, reached)
	require.Len(t, results.Failures, 1)
	require.Len(t, results.Failures[0].Errors, 1)
	assert.Contains(t, results.Failures[0].Errors[0].Error(), "stop here")
}

func TestFailNowWithoutMessage(t *testing.T) {
	results := Run(nil, nil, func(c *Context) {
		c.Run("x", func(c *Context) { c.FailNow() })
	})
	require.Len(t, results.Failures, 1)
	assert.Contains(t, results.Failures[0].Errors[0].Error(), "no failure message")
}

func TestPanicIsReportedAsFailure(t *testing.T) {
	results := Run(nil, nil, func(c *Context) {
		c.Run("x", func(c *Context) { panic(errors.New("boom")) })
		c.Run("y", func(c *Context) {})
	})
	require.Len(t, results.Tests, 2)
	require.Len(t, results.Failures, 1)
	assert.Contains(t, results.Failures[0].Errors[0].Error(), "boom")
}

func TestSkip(t *testing.T) {
	logger := &recordingTestLogger{}
	results := Run(nil, logger, func(c *Context) {
		c.Run("x", func(c *Context) { c.SkipWithReason("not applicable") })
	})
	assert.True(t, results.OK())
	require.Len(t, results.Skipped(), 1)
	assert.Contains(t, logger.events, "skipped x (not applicable)")
}

func TestFilterExcludesChecks(t *testing.T) {
	var filters RegexFilters
	require.NoError(t, filters.MustNotMatch.Set("^b"))
	ran := map[string]bool{}
	Run(filters.AsFilter, nil, func(c *Context) {
		c.Run("a", func(c *Context) { ran["a"] = true })
		c.Run("b", func(c *Context) { ran["b"] = true })
	})
	assert.Equal(t, map[string]bool{"a": true}, ran)
}

func TestNestedIDs(t *testing.T) {
	var id TestID
	Run(nil, nil, func(c *Context) {
		c.Run("outer", func(c *Context) {
			c.Run("inner", func(c *Context) { id = c.ID() })
		})
	})
	assert.Equal(t, "outer/inner", id.String())
}

func TestDeferRunsInReverseOrderEvenAfterFailure(t *testing.T) {
	var order []string
	results := Run(nil, nil, func(c *Context) {
		c.Run("x", func(c *Context) {
			c.Defer(func() { order = append(order, "first") })
			c.Defer(func() { order = append(order, "second") })
			panic("boom")
		})
	})
	assert.Equal(t, []string{"second", "first"}, order)
	assert.Len(t, results.Failures, 1)
}

func TestPanicInDeferredFunctionFailsCheck(t *testing.T) {
	results := Run(nil, nil, func(c *Context) {
		c.Run("x", func(c *Context) {
			c.Defer(func() { panic("cleanup failed") })
		})
	})
	require.Len(t, results.Failures, 1)
	assert.Contains(t, results.Failures[0].Errors[0].Error(), "cleanup failed")
}

func TestDebugOutputIsPassedToLogger(t *testing.T) {
	logger := &recordingTestLogger{}
	Run(nil, logger, func(c *Context) {
		c.Run("x", func(c *Context) {
			c.Debug("plain %s", "message")
			c.Loggers().Infof("leveled %d", 2)
		})
	})
	output := logger.debug["x"]
	assert.True(t, output.Contains("plain message"))
	assert.True(t, output.Contains("leveled 2"))
}
