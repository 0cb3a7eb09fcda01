package colour

import "errors"

// ErrInvalidHEX is returned when a colour string is not a six digit hex value.
var ErrInvalidHEX = errors.New("invalid hex colour")
