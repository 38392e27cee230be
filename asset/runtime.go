package asset

import (
	"context"

	"github.com/status-im/asset-loader/interfaces"
)

// Runtime is the kind-specific half of the pipeline: the decode /
// activation step plus its resource bookkeeping hooks. The state
// machine in Item is shared across kinds; only the Runtime differs.
type Runtime interface {
	// Decode turns fetched bytes into the item payload. May return
	// interfaces.ErrInteractionRequired for gesture-gated activation.
	Decode(ctx context.Context, it *Item, data []byte) (interface{}, error)
	// OnReady runs once the payload is assigned (resource registration)
	OnReady(it *Item)
	// OnFailure runs after a transient fetch failure, before the retry
	// policy is consulted
	OnFailure(it *Item)
	// OnRelease reverses OnReady when the item is cancelled or evicted
	OnRelease(it *Item)
}

// Capabilities bundles the external collaborators the kind runtimes
// depend on. Nil decoders fall back to the built-in defaults; nil
// registries disable resource bookkeeping.
type Capabilities struct {
	ImageDecoder interfaces.ImageDecoder
	AudioDecoder interfaces.AudioDecoder
	Display      interfaces.DisplayResourceRegistry
	Audio        interfaces.AudioResourceRegistry
	Gate         *InteractionGate
}

// RuntimeFor builds the runtime for the given kind
func RuntimeFor(kind Kind, caps Capabilities) Runtime {
	switch kind {
	case KindImage:
		decoder := caps.ImageDecoder
		if decoder == nil {
			decoder = StdImageDecoder{}
		}
		return &imageRuntime{decoder: decoder, display: caps.Display}
	case KindSound:
		decoder := caps.AudioDecoder
		if decoder == nil {
			decoder = RawAudioDecoder{}
		}
		return &soundRuntime{decoder: decoder, audio: caps.Audio}
	default:
		return dataRuntime{}
	}
}

// resourceKey is the identifier items use with the external resource
// registries: the cache coordinates for addressable items, the primary
// address for anonymous ones
func resourceKey(it *Item) string {
	if it.Addressable() {
		return it.Group() + ":" + it.Key()
	}
	return it.PrimaryAddress()
}
