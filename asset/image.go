package asset

import (
	"bytes"
	"context"
	"fmt"
	"image"

	// Registered codecs for image.Decode
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/status-im/asset-loader/interfaces"
)

// ImageHandle is the decoded, display-ready form of an image asset
type ImageHandle struct {
	Image  image.Image
	Format string
	Width  int
	Height int
}

// StdImageDecoder decodes raw bytes with the registered image codecs
// (png, jpeg, gif, bmp, webp)
type StdImageDecoder struct{}

func (StdImageDecoder) DecodeImage(ctx context.Context, data []byte) (interface{}, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	bounds := img.Bounds()
	return &ImageHandle{
		Image:  img,
		Format: format,
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
	}, nil
}

// imageRuntime is the image half of the pipeline: decode the bytes,
// then register the handle with the external display registry
type imageRuntime struct {
	decoder interfaces.ImageDecoder
	display interfaces.DisplayResourceRegistry
}

func (r *imageRuntime) Decode(ctx context.Context, it *Item, data []byte) (interface{}, error) {
	return r.decoder.DecodeImage(ctx, data)
}

func (r *imageRuntime) OnReady(it *Item) {
	if r.display != nil && it.Payload() != nil {
		r.display.RegisterDisplayResource(resourceKey(it), it.Payload())
	}
}

func (r *imageRuntime) OnFailure(it *Item) {}

func (r *imageRuntime) OnRelease(it *Item) {
	if r.display != nil {
		r.display.UnregisterDisplayResource(resourceKey(it))
	}
}
