package asset

import "strings"

// Kind is the asset category derived from the file extension at
// construction time. It never changes over the item's lifetime.
type Kind int

const (
	KindBinary Kind = iota
	KindImage
	KindSound
	KindJSON
	KindText
)

// KindForExtension maps a file extension (with or without the leading
// dot) to an asset kind. Unknown extensions load as raw binary data.
func KindForExtension(ext string) Kind {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "png", "jpg", "jpeg", "gif", "webp", "bmp":
		return KindImage
	case "mp3", "ogg", "wav", "m4a", "aac", "flac":
		return KindSound
	case "json":
		return KindJSON
	case "txt", "text", "csv", "xml", "html":
		return KindText
	default:
		return KindBinary
	}
}

func (k Kind) String() string {
	switch k {
	case KindImage:
		return "image"
	case KindSound:
		return "sound"
	case KindJSON:
		return "json"
	case KindText:
		return "text"
	default:
		return "binary"
	}
}

// IsData reports whether the kind uses the generic-data pipeline
// (batched outgoing messages, extension-driven response parsing)
func (k Kind) IsData() bool {
	return k == KindJSON || k == KindText || k == KindBinary
}
