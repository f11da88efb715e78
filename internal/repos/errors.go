package repos

import "errors"

// Scope selector values accepted by the itemType argument.
const (
	ItemTypePlatform = "platform"
	ItemTypeProtocol = "protocol"
	ItemTypeNode     = "node"
)

// ErrInvalidItemType is returned when a validating query receives an
// itemType outside the recognized set. It surfaces to API callers as a
// field-level error.
var ErrInvalidItemType = errors.New(`itemType should be "platform", "node" or "protocol"`)
