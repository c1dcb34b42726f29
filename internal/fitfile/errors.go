package fitfile

import "errors"

var (
	// ErrInvalidHeader means the buffer does not start with a FIT header.
	ErrInvalidHeader = errors.New("fit: invalid file header")
	// ErrUnparseable means the header was valid but the data section is
	// truncated or malformed.
	ErrUnparseable = errors.New("fit: unparseable file")
	// ErrNoActivityData means the file decoded but holds no samples or session.
	ErrNoActivityData = errors.New("fit: no activity data found")
)
