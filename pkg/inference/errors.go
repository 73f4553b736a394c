package inference

import "errors"

var (
	// ErrDecode is returned for bytes that are not a decodable image.
	ErrDecode = errors.New("inference: could not decode image")

	// ErrModelUnavailable is returned by every call when the network failed to load at start.
	ErrModelUnavailable = errors.New("inference: model is not loaded")
)
