package domain

// Operation names a controller operation.
type Operation string

const (
	OpStart  Operation = "start"
	OpStop   Operation = "stop"
	OpStatus Operation = "status"
)

// Messages returned alongside every Result.
const (
	MsgStarted        = "Logging started"
	MsgAlreadyLogging = "Already logging to this path"
	MsgStopped        = "Logging stopped"
	MsgNotActive      = "No logging was active"
	MsgActive         = "Logging active"
	MsgIdle           = "No logging active"
)
