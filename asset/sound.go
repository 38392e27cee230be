package asset

import (
	"context"
	"fmt"

	"github.com/status-im/asset-loader/interfaces"
)

// AudioHandle is the decoded, playable form of a sound asset
type AudioHandle struct {
	Data   []byte
	Length int
}

// RawAudioDecoder is the built-in audio activation step: it validates
// and wraps the raw bytes. Real playback devices plug in through
// interfaces.AudioDecoder and may gate activation on a user gesture.
type RawAudioDecoder struct{}

func (RawAudioDecoder) DecodeAudio(ctx context.Context, data []byte) (interface{}, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty audio payload")
	}
	return &AudioHandle{Data: data, Length: len(data)}, nil
}

// soundRuntime is the sound half of the pipeline. When the decoder
// reports ErrInteractionRequired the item parks on the interaction
// gate and re-attempts activation after the gesture, bypassing the
// failure/backoff machinery entirely.
type soundRuntime struct {
	decoder interfaces.AudioDecoder
	audio   interfaces.AudioResourceRegistry
}

func (r *soundRuntime) Decode(ctx context.Context, it *Item, data []byte) (interface{}, error) {
	return r.decoder.DecodeAudio(ctx, data)
}

func (r *soundRuntime) OnReady(it *Item) {
	if r.audio != nil && it.Payload() != nil {
		r.audio.RegisterAudioResource(resourceKey(it), it.Payload())
	}
}

func (r *soundRuntime) OnFailure(it *Item) {}

func (r *soundRuntime) OnRelease(it *Item) {
	if r.audio != nil {
		r.audio.UnregisterAudioResource(resourceKey(it))
	}
}
