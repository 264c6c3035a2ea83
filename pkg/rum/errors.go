package rum

import "errors"

// ErrMissingBeaconURL is returned by Init when Config.BeaconURL is empty.
// The agent stays uninitialized and Init may be called again.
var ErrMissingBeaconURL = errors.New("rum: beacon url is required")

// ErrInvalidBeaconURL is returned by Init when Config.BeaconURL is not an
// absolute http(s) URL. The agent stays uninitialized.
var ErrInvalidBeaconURL = errors.New("rum: beacon url must be an absolute http(s) url")
