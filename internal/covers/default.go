package covers

import _ "embed"

// DefaultContentType is the media type of the bundled default cover.
const DefaultContentType = "image/svg+xml"

//go:embed default-cover.svg
var defaultCover []byte

// DefaultCover returns the bundled image shown for books without a cover.
func DefaultCover() []byte {
	return defaultCover
}
