package logging

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldlog"
)

const timestampFormat = "2006-01-02 15:04:05.000"

type Logger interface {
	Printf(message string, args ...interface{})
}

type nullLogger struct{}

func (n nullLogger) Printf(message string, args ...interface{}) {}

// NullLogger returns a Logger that discards all messages.
func NullLogger() Logger { return nullLogger{} }

type CapturedMessage struct {
	Time    time.Time
	Message string
}

type CapturedOutput []CapturedMessage

// CapturingLogger keeps every message in memory. It can also serve as the base logger of an
// ldlog.Loggers.
type CapturingLogger struct {
	output []CapturedMessage
	lock   sync.Mutex
}

func (l *CapturingLogger) Printf(message string, args ...interface{}) {
	l.add(fmt.Sprintf(message, args...))
}

func (l *CapturingLogger) Println(values ...interface{}) {
	l.add(strings.TrimSuffix(fmt.Sprintln(values...), "\n"))
}

func (l *CapturingLogger) add(message string) {
	l.lock.Lock()
	l.output = append(l.output, CapturedMessage{Time: time.Now(), Message: message})
	l.lock.Unlock()
}

func (l *CapturingLogger) Output() CapturedOutput {
	l.lock.Lock()
	ret := append([]CapturedMessage(nil), l.output...)
	l.lock.Unlock()
	return ret
}

func (output CapturedOutput) Dump(dest io.Writer, prefix string) {
	for _, m := range output {
		fmt.Fprintf(dest, "%s[%s] %s\n",
			prefix,
			m.Time.Format(timestampFormat),
			m.Message,
		)
	}
}

// Contains reports whether any captured message contains s.
func (output CapturedOutput) Contains(s string) bool {
	for _, m := range output {
		if strings.Contains(m.Message, s) {
			return true
		}
	}
	return false
}

// printlnAdapter lets a Printf-only Logger act as an ldlog.BaseLogger.
type printlnAdapter struct {
	Logger
}

func (a printlnAdapter) Println(values ...interface{}) {
	a.Printf("%s", strings.TrimSuffix(fmt.Sprintln(values...), "\n"))
}

// NewLoggers creates leveled loggers writing to base. Messages below minLevel are discarded. A nil
// base discards everything.
func NewLoggers(base Logger, minLevel ldlog.LogLevel) ldlog.Loggers {
	if base == nil {
		base, minLevel = NullLogger(), ldlog.None
	}
	var bl ldlog.BaseLogger
	if b, ok := base.(ldlog.BaseLogger); ok {
		bl = b
	} else {
		bl = printlnAdapter{base}
	}
	loggers := ldlog.Loggers{}
	loggers.SetBaseLogger(bl)
	loggers.SetMinLevel(minLevel)
	return loggers
}
