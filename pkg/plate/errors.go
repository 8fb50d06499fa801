package plate

import "errors"

// ErrInvalidImage is returned when an image file cannot be opened or decoded.
var ErrInvalidImage = errors.New("invalid image")

// ErrNoText is returned when the recognizer produced no usable fragments.
var ErrNoText = errors.New("no text detected")

// ErrInvalidFormat is returned when cleaned text fails the regional plate grammar.
var ErrInvalidFormat = errors.New("invalid plate format")

// ErrImageTooLarge is returned when an image exceeds the allowed pixel count.
var ErrImageTooLarge = errors.New("image too large")
