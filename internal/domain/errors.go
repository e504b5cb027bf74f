package domain

import "errors"

var ErrUnknownVehicle = errors.New("unknown vehicle")
var ErrIllegalTransition = errors.New("illegal state transition")

// ErrMilestoneSet indicates a demand milestone was written twice or out of order.
var ErrMilestoneSet = errors.New("demand milestone already set or out of order")
