package audio

import (
	"path/filepath"
	"strings"

	"github.com/samber/lo"
)

// Format is an accepted audio file extension, without the leading dot.
type Format string

const (
	FormatMP3  Format = "mp3"
	FormatWAV  Format = "wav"
	FormatM4A  Format = "m4a"
	FormatFLAC Format = "flac"
	FormatOGG  Format = "ogg"
)

// AllowedFormats is the upload allow-list. It is matched against the
// filename only; file contents are never inspected.
var AllowedFormats = []Format{FormatMP3, FormatWAV, FormatM4A, FormatFLAC, FormatOGG}

var mimeTypes = map[Format]string{
	FormatMP3:  "audio/mpeg",
	FormatWAV:  "audio/wav",
	FormatM4A:  "audio/mp4",
	FormatFLAC: "audio/flac",
	FormatOGG:  "audio/ogg",
}

// FormatFromFilename returns the lower-cased extension of filename.
func FormatFromFilename(filename string) Format {
	return Format(strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), ".")))
}

// IsAllowed reports whether f is on the allow-list.
func (f Format) IsAllowed() bool {
	return lo.Contains(AllowedFormats, f)
}

// MIMEType returns the conventional MIME type for f, or
// application/octet-stream for formats off the allow-list.
func (f Format) MIMEType() string {
	if mime, ok := mimeTypes[f]; ok {
		return mime
	}
	return "application/octet-stream"
}

// AcceptAttribute renders the allow-list for an <input type="file" accept=...>.
func AcceptAttribute() string {
	return strings.Join(lo.Map(AllowedFormats, func(f Format, _ int) string {
		return "." + string(f)
	}), ",")
}
