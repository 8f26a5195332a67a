package lyrics

// Stage is the position of one interaction in its lifecycle.
type Stage int

const (
	StageIdle Stage = iota
	StageFileUploaded
	StageTranscribing
	StageFormatting
	StageDone
	StageError
)

var stageNames = map[Stage]string{
	StageIdle:         "idle",
	StageFileUploaded: "file_uploaded",
	StageTranscribing: "transcribing",
	StageFormatting:   "formatting",
	StageDone:         "done",
	StageError:        "error",
}

// Progress texts shown while a remote call is in flight.
const (
	TranscribingText = "Transcribing… this can take a minute or two for long files"
	FormattingText   = "Formatting as lyrics…"
)

// Error is reachable only from Transcribing; Formatting always ends in Done.
var transitions = map[Stage][]Stage{
	StageIdle:         {StageFileUploaded},
	StageFileUploaded: {StageTranscribing},
	StageTranscribing: {StageFormatting, StageError},
	StageFormatting:   {StageDone},
}

func (s Stage) String() string {
	if name, ok := stageNames[s]; ok {
		return name
	}
	return "unknown"
}

// CanTransition reports whether next may follow s.
func (s Stage) CanTransition(next Stage) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is possible.
func (s Stage) IsTerminal() bool {
	return s == StageDone || s == StageError
}

// ProgressText returns the indicator text for stages with a call in flight.
func (s Stage) ProgressText() string {
	switch s {
	case StageTranscribing:
		return TranscribingText
	case StageFormatting:
		return FormattingText
	default:
		return ""
	}
}
