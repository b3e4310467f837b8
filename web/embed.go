package web

import (
	"bytes"
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/*
var staticFS embed.FS

const defaultAvatar = "/static/avatar.svg"

// goldmark escapes raw HTML unless html.WithUnsafe is set
var md = goldmark.New(goldmark.WithExtensions(extension.Linkify, extension.Strikethrough))

// FuncMap returns the template helpers. fileURL maps a stored avatar path
// to its public URL.
func FuncMap(fileURL func(string) string) template.FuncMap {
	return template.FuncMap{
		"markdown":  Markdown,
		"timesince": TimeSince,
		"avatar": func(path string) string {
			if path == "" {
				return defaultAvatar
			}
			return fileURL(path)
		},
	}
}

// Markdown renders a message or room description as HTML.
func Markdown(src string) template.HTML {
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(src))
	}
	return template.HTML(buf.String())
}

// TimeSince formats t relative to now, e.g. "3 minutes ago".
func TimeSince(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return humanize.Time(t)
}

// Templates parses every page and partial into one set. Pages are looked up
// by file name, e.g. "home.html".
func Templates(fileURL func(string) string) (*template.Template, error) {
	return template.New("").Funcs(FuncMap(fileURL)).ParseFS(templateFS, "templates/*.html")
}

// GetFileSystem returns the embedded static assets.
func GetFileSystem() (http.FileSystem, error) {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		return nil, err
	}
	return http.FS(sub), nil
}
