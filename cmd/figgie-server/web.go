package main

import (
	"embed"
	"io/fs"
	"net/http"
)

// webDir embeds the static web UI, grounded on
// Bboissen-trador_tool/api-gateway's embed_openapi.go pattern of
// embedding a served directory into the binary, simplified here to a
// plain static directory since no OpenAPI surface is involved.
//
//go:embed web
var webDir embed.FS

// webFS returns the embedded web/ directory as an http.FileSystem for
// transport.New's static-UI boundary, rooted so "/" serves index.html
// rather than the embed.FS's "web" prefix.
func webFS() http.FileSystem {
	sub, err := fs.Sub(webDir, "web")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}
