package models

import "github.com/feedingfoundation/locator/internal/constants"

// Status is the tri-state answer to "is this location open right now?"
type Status int

const (
	// StatusIndeterminate is the zero value so an unevaluated status is never
	// mistaken for open or closed.
	StatusIndeterminate Status = iota
	StatusOpen
	StatusClosed
)

// Code returns the wire name of the status.
func (s Status) Code() constants.LocationStatus {
	switch s {
	case StatusOpen:
		return constants.StatusOpen
	case StatusClosed:
		return constants.StatusClosed
	default:
		return constants.StatusUnknown
	}
}

func (s Status) String() string {
	return string(s.Code())
}
