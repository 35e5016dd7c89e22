// Package web embeds the HTML templates and static assets.
package web

import (
	"embed"
	"io/fs"
)

//go:embed template/*.html static/*
var files embed.FS

// Templates returns the template directory.
func Templates() fs.FS {
	sub, err := fs.Sub(files, "template")
	if err != nil {
		panic(err)
	}
	return sub
}

// Static returns the static asset directory.
func Static() fs.FS {
	sub, err := fs.Sub(files, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
