package tui

type state int

const (
	surfaceState state = iota
	menuState
	pickerState
	noticeState
)

var stateNames = map[state]string{
	surfaceState: "surface",
	menuState:    "menu",
	pickerState:  "picker",
	noticeState:  "notice",
}

func (s state) String() string {
	return stateNames[s]
}
