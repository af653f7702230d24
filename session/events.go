package session

import (
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// EventSink receives the structured events a Session emits as it
// connects, authenticates, exchanges frames, and reconnects. The
// default implementation (NewLogrusSink) renders these through
// logrus; callers that need a different sink (metrics, an external
// log shipper) implement this interface directly instead of wrapping
// the default one.
type EventSink interface {
	Connected(host string, port int)
	Banner(text string)
	Sent(frame []byte)
	Received(frame []byte)
	Closed(reason string)
	ReconnectScheduled(delay time.Duration)
	ProtocolErrorEvent(opcode int, code int, text string)
}

// NopSink discards every event; useful in tests that don't care about
// observability.
type NopSink struct{}

func (NopSink) Connected(string, int)               {}
func (NopSink) Banner(string)                       {}
func (NopSink) Sent([]byte)                         {}
func (NopSink) Received([]byte)                     {}
func (NopSink) Closed(string)                       {}
func (NopSink) ReconnectScheduled(time.Duration)    {}
func (NopSink) ProtocolErrorEvent(int, int, string) {}

// LogrusSink is the default EventSink: one logrus entry per event,
// fields in the field-tagged style this codebase's LoggingFormat
// helper uses, tagged with a per-session correlation ID so interleaved
// sessions can be told apart in aggregate logs.
type LogrusSink struct {
	log       *logrus.Entry
	sessionID string
}

// NewLogrusSink mints a session correlation ID and returns a sink that
// logs through logger (or logrus's standard logger if nil).
func NewLogrusSink(logger *logrus.Logger) *LogrusSink {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	sessionID := uuid.New().String()
	return &LogrusSink{
		log:       logger.WithField("session_id", sessionID),
		sessionID: sessionID,
	}
}

func (s *LogrusSink) Connected(host string, port int) {
	s.log.WithFields(logrus.Fields{"host": host, "port": port}).Info("connected")
}

func (s *LogrusSink) Banner(text string) {
	s.log.WithField("banner", text).Info("received banner")
}

func (s *LogrusSink) Sent(frame []byte) {
	s.log.WithField("bytes", len(frame)).Debug("sent frame")
}

func (s *LogrusSink) Received(frame []byte) {
	s.log.WithField("bytes", len(frame)).Debug("received frame")
}

func (s *LogrusSink) Closed(reason string) {
	s.log.WithField("reason", reason).Warn("session closed")
}

func (s *LogrusSink) ReconnectScheduled(delay time.Duration) {
	s.log.WithField("delay", delay.String()).Info("reconnect scheduled")
}

func (s *LogrusSink) ProtocolErrorEvent(opcode, code int, text string) {
	s.log.WithFields(logrus.Fields{"opcode": opcode, "error_code": code, "error_text": text}).Error("protocol error")
}
