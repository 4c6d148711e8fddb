// Package game holds the session state the audio coordinator reads
// It owns no behavior beyond derived queries over a snapshot
package game

// Mode selects the session rules
type Mode uint8

const (
	ModeTimed Mode = iota
	ModeUnlimited
)

// TimedSeconds is the length of a timed game
const TimedSeconds = 3 * 60

// Seconds returns the time limit, 0 for modes without one
func (m Mode) Seconds() int {
	if m == ModeTimed {
		return TimedSeconds
	}
	return 0
}

func (m Mode) String() string {
	switch m {
	case ModeTimed:
		return "timed"
	case ModeUnlimited:
		return "unlimited"
	default:
		return "unknown"
	}
}

// Action is the event that produced a snapshot transition
type Action uint8

const (
	ActionOther Action = iota
	ActionOnAppear
	ActionTapCube
	ActionConfirmRemoveCube
	ActionSubmitButtonTapped
	ActionConfirmSubmit
	ActionTimerTick
)

var actionNames = [...]string{
	ActionOther:              "other",
	ActionOnAppear:           "on_appear",
	ActionTapCube:            "tap_cube",
	ActionConfirmRemoveCube:  "confirm_remove_cube",
	ActionSubmitButtonTapped: "submit_button_tapped",
	ActionConfirmSubmit:      "confirm_submit",
	ActionTimerTick:          "timer_tick",
}

func (a Action) String() string {
	if int(a) < len(actionNames) {
		return actionNames[a]
	}
	return "unknown"
}

// IsSubmit reports whether the action explicitly submits the selection
func (a Action) IsSubmit() bool {
	return a == ActionSubmitButtonTapped || a == ActionConfirmSubmit
}
