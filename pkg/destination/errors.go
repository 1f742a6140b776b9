package destination

import (
	"errors"
	"fmt"
)

// ErrDriverNotRegistered signals that a destination's database/sql
// driver is not linked into the binary. Clients wrap it when Open
// cannot find their driver; the resolver maps it to a
// MissingDependencyError naming the destination.
var ErrDriverNotRegistered = errors.New("destination driver not registered")

// UnknownDestinationError is returned when a destination reference does
// not match any registered destination.
type UnknownDestinationError struct {
	Type      string
	Available []string
}

func (e *UnknownDestinationError) Error() string {
	return fmt.Sprintf("unknown destination type %q\nAvailable destinations: %v\nHint: blank-import the destination package to register it", e.Type, e.Available)
}

// MissingDependencyError is returned when a destination exists but its
// driver dependency is unavailable. It distinguishes "not implemented"
// from "not installed" and names the extra that provides the driver.
type MissingDependencyError struct {
	DestinationType string
	Extra           string
	Err             error
}

func (e *MissingDependencyError) Error() string {
	return fmt.Sprintf("destination %q requires the %q extra which is not available: %v", e.DestinationType, e.Extra, e.Err)
}

func (e *MissingDependencyError) Unwrap() error {
	return e.Err
}

// CapabilityError is returned when a resolved client lacks a capability
// the caller needs, e.g. a staging-only destination asked for SQL query
// execution.
type CapabilityError struct {
	DestinationType string
	Capability      string
}

func (e *CapabilityError) Error() string {
	return fmt.Sprintf("destination %q does not support %s", e.DestinationType, e.Capability)
}
