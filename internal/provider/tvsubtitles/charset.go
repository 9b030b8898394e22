package tvsubtitles

import (
	"io"

	"golang.org/x/net/html/charset"
)

// NewUTF8Reader wraps an io.Reader with automatic character encoding detection
// and conversion to UTF-8, so pages in any encoding (ISO-8859-1, Windows-1252,
// UTF-8, etc.) parse correctly with goquery.
//
// The charset is detected from:
// 1. HTML <meta charset="..."> or <meta http-equiv="Content-Type"> tags
// 2. Byte order marks (BOM)
// 3. Heuristic detection if neither is present
//
// If the content is already UTF-8, this is a no-op wrapper with minimal overhead.
func NewUTF8Reader(body io.Reader) (io.Reader, error) {
	// contentType is empty so detection runs against the HTML content itself.
	return charset.NewReader(body, "")
}
