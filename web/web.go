// Package web embeds the page template and its static assets.
package web

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"

	"lyriq/internal/app/audio"
	"lyriq/internal/app/lyrics"
)

// PageTemplate is the name of the single page template.
const PageTemplate = "index.html"

const (
	Title       = "🎤 Lyriq.AI"
	Description = "Upload an audio file (MP3, WAV, M4A, etc.) and I'll use Whisper to transcribe it. " +
		"If it's a song, the transcript will show you the lyrics!"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Page is the data rendered into PageTemplate.
type Page struct {
	Title            string
	Description      string
	Accept           string
	TranscribingText string
	FormattingText   string

	// Filename is the name of the file the result belongs to.
	Filename string
	Lyrics   string
	Done     bool
	Error    string
	Details  map[string]string
}

// NewPage returns the page in its initial state, before any upload.
func NewPage() Page {
	return Page{
		Title:            Title,
		Description:      Description,
		Accept:           audio.AcceptAttribute(),
		TranscribingText: lyrics.TranscribingText,
		FormattingText:   lyrics.FormattingText,
	}
}

// Templates parses the embedded page template.
func Templates() (*template.Template, error) {
	return template.ParseFS(templateFS, "templates/*.html")
}

// MustTemplates is like Templates but panics on a parse error.
func MustTemplates() *template.Template {
	return template.Must(Templates())
}

// Static returns the embedded static assets rooted at the static directory.
func Static() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}
