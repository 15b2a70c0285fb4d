// Package control defines lightweight command messages used by the UI and
// the headless runner to request actions from the application command loop.
// The command loop centralizes session changes so the driver only ever sees
// one caller at a time.
package control

import "StanceTimer/timer"

// CommandType enumerates supported command operations.
type CommandType int

const (
	CmdStart CommandType = iota
	CmdStop
	CmdSkip
	CmdSaveConfig
)

func (c CommandType) String() string {
	switch c {
	case CmdStart:
		return "start"
	case CmdStop:
		return "stop"
	case CmdSkip:
		return "skip"
	case CmdSaveConfig:
		return "save_config"
	}
	return "unknown"
}

// Command is the message sent to AppManager.commandLoop. Config is used by
// CmdStart and CmdSaveConfig. The optional Reply channel receives the
// outcome (nil on success).
type Command struct {
	Type   CommandType
	Config timer.Config
	Reply  chan error
}
