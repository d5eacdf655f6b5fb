package model

import (
	"fmt"
	"time"
)

// SessionLevel classifies a session log entry.
type SessionLevel string

// Session log levels.
const (
	SessionInfo    SessionLevel = "info"
	SessionWarning SessionLevel = "warning"
	SessionError   SessionLevel = "error"
)

// SessionStep is one logged step of a document import.
type SessionStep struct {
	At      time.Time
	Level   SessionLevel
	Message string
}

// UploadSession tracks the processing of one document. It exists only for
// the duration of one import; storage keeps a summary, not the full log.
type UploadSession struct {
	StartedAt     time.Time
	Document      string
	Bank          string
	Steps         []SessionStep
	BlocksFound   int
	BlocksSkipped int
	Extracted     int
	Warnings      int
	Errors        int
	UsedFallback  bool
}

// NewUploadSession starts a session for the named document.
func NewUploadSession(document string) *UploadSession {
	return &UploadSession{
		StartedAt: time.Now(),
		Document:  document,
	}
}

// Log appends an info-level step.
func (s *UploadSession) Log(format string, args ...any) {
	s.append(SessionInfo, format, args...)
}

// Warn appends a warning-level step and bumps the warning count.
func (s *UploadSession) Warn(format string, args ...any) {
	s.Warnings++
	s.append(SessionWarning, format, args...)
}

// Error appends an error-level step and bumps the error count.
func (s *UploadSession) Error(format string, args ...any) {
	s.Errors++
	s.append(SessionError, format, args...)
}

func (s *UploadSession) append(level SessionLevel, format string, args ...any) {
	s.Steps = append(s.Steps, SessionStep{
		At:      time.Now(),
		Level:   level,
		Message: fmt.Sprintf(format, args...),
	})
}

// Summary renders a one-line result suitable for user display.
func (s *UploadSession) Summary() string {
	if s.Extracted == 0 {
		return fmt.Sprintf("%s: no transactions found", s.Document)
	}
	return fmt.Sprintf("%s: %d transactions extracted (%d blocks skipped, %d warnings)",
		s.Document, s.Extracted, s.BlocksSkipped, s.Warnings)
}
