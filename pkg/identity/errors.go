package identity

import "errors"

var (
	// ErrStoreUnavailable is returned by a Store that could not persist a value.
	ErrStoreUnavailable = errors.New("identity store unavailable")

	// ErrInvalidSiteURL is returned when a JarStore is built for a URL without scheme or host.
	ErrInvalidSiteURL = errors.New("invalid site url")
)
