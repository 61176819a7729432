package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldlog"
)

func TestCapturingLogger(t *testing.T) {
	var l CapturingLogger
	l.Printf("hello %s", "world")
	l.Println("a", 1)

	output := l.Output()
	if assert.Len(t, output, 2) {
		assert.Equal(t, "hello world", output[0].Message)
		assert.Equal(t, "a 1", output[1].Message)
	}
	assert.True(t, output.Contains("world"))
	assert.False(t, output.Contains("nope"))

	var buf bytes.Buffer
	output.Dump(&buf, "  DEBUG ")
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "  DEBUG ["))
	assert.True(t, strings.HasSuffix(lines[0], "] hello world"))
}

func TestNewLoggersFiltersByLevel(t *testing.T) {
	var l CapturingLogger
	loggers := NewLoggers(&l, ldlog.Info)
	loggers.Debugf("hidden %d", 1)
	loggers.Infof("shown %d", 2)
	loggers.Warn("warned")

	output := l.Output()
	assert.False(t, output.Contains("hidden"))
	assert.True(t, output.Contains("shown 2"))
	assert.True(t, output.Contains("warned"))
}

type printfOnly struct {
	messages []string
}

func (p *printfOnly) Printf(message string, args ...interface{}) {
	p.messages = append(p.messages, message)
}

func TestNewLoggersAdaptsPrintfOnlyLogger(t *testing.T) {
	p := &printfOnly{}
	loggers := NewLoggers(p, ldlog.Debug)
	loggers.Debug("x")
	assert.Len(t, p.messages, 1)
}

func TestNewLoggersWithoutBase(t *testing.T) {
	loggers := NewLoggers(nil, ldlog.Debug)
	assert.False(t, loggers.IsDebugEnabled())
	assert.NotPanics(t, func() {
		loggers.Debugf("x %d", 1)
		loggers.Error("y")
	})
}

func TestNullLoggerDiscardsMessages(t *testing.T) {
	loggers := NewLoggers(NullLogger(), ldlog.Debug)
	assert.True(t, loggers.IsDebugEnabled())
	assert.NotPanics(t, func() { loggers.Infof("discarded %s", "message") })
}
