// Package constants provides constants.

package constants

const (
	VerdictGood  = "good"
	VerdictBad   = "bad"
	VerdictRisky = "risky"

	ReasonInvalid     = "invalid"
	ReasonDisposable  = "disposable"
	ReasonNoMX        = "no-mx"
	ReasonSMTPActive  = "smtp-active"
	ReasonSMTPReject  = "smtp-reject"
	ReasonSMTPUnknown = "smtp-unknown"
	ReasonSyntaxMX    = "syntax+mx"

	ActiveStatusActive   = "active"
	ActiveStatusInactive = "inactive"
	ActiveStatusUnknown  = "unknown"

	JobStatusNew     = "new"
	JobStatusRunning = "running"
	JobStatusDone    = "done"
	JobStatusError   = "error"
)

var ValidVerdicts = []string{
	VerdictGood,
	VerdictBad,
	VerdictRisky}

var ValidJobStatuses = []string{
	JobStatusNew,
	JobStatusRunning,
	JobStatusDone,
	JobStatusError}
