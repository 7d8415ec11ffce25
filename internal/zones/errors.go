package zones

import "errors"

var (
	// ErrZoneNotFound reports an item operation against a missing zone.
	ErrZoneNotFound = errors.New("zones: zone not found")
	// ErrItemRequired reports a nil item.
	ErrItemRequired = errors.New("zones: item is required")
	// ErrComponentRequired reports an item without a component name.
	ErrComponentRequired = errors.New("zones: component name is required")
	// ErrNameRequired reports a zone without a name.
	ErrNameRequired = errors.New("zones: name is required")
	// ErrNameUnavailable reports a zone name already used by another zone.
	ErrNameUnavailable = errors.New("zones: name already in use")
)
