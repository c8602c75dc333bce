package chat

import (
	"time"

	"github.com/abhisek/didi/internal/tutor"
)

// startedMsg carries the greeting of a newly opened session.
type startedMsg struct {
	Resp *tutor.Response
	Err  error
}

// replyMsg carries the tutor's answer to one utterance.
type replyMsg struct {
	Resp *tutor.Response
	Err  error
}

// spinnerTickMsg animates the waiting indicator.
type spinnerTickMsg time.Time
