package interfaces

//go:generate mockgen -destination=mocks/media.go . ImageDecoder,AudioDecoder,DisplayResourceRegistry,AudioResourceRegistry

import (
	"context"
	"errors"
)

// ErrInteractionRequired is returned by an AudioDecoder when the
// platform refuses to start playback before a user gesture. It is a
// deferred-retry condition, not a load failure: the item waits for the
// interaction signal and retries activation, bypassing backoff.
var ErrInteractionRequired = errors.New("audio playback requires user interaction")

// ImageDecoder turns fetched bytes into a displayable image handle
type ImageDecoder interface {
	DecodeImage(ctx context.Context, data []byte) (interface{}, error)
}

// AudioDecoder turns fetched bytes into a playable audio handle and
// starts playback. May return ErrInteractionRequired.
type AudioDecoder interface {
	DecodeAudio(ctx context.Context, data []byte) (interface{}, error)
}

// DisplayResourceRegistry is the external bookkeeping for decoded images
type DisplayResourceRegistry interface {
	RegisterDisplayResource(key string, handle interface{})
	UnregisterDisplayResource(key string)
}

// AudioResourceRegistry is the external bookkeeping for decoded sounds
type AudioResourceRegistry interface {
	RegisterAudioResource(key string, handle interface{})
	UnregisterAudioResource(key string)
}
