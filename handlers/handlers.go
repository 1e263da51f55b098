// Package handlers holds the routes served by pebble.
package handlers

import (
	"log/slog"

	"github.com/freekieb7/pebble/filesystem"
	"github.com/freekieb7/pebble/http"
)

const contentTypeOctetStream = "application/octet-stream"

// Register installs the root, echo, user-agent and files routes on router.
func Register(router *http.Router, fs filesystem.Filesystem, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	files := &Files{FS: fs, Logger: logger}

	router.Handle("/", Root)
	router.Handle("/echo", Echo)
	router.Handle("/user-agent", UserAgent)
	router.GET("/files", files.Get)
	router.POST("/files", files.Post)
}

func Root(req *http.Request) *http.Response {
	return http.NewResponse(http.StatusOK, nil)
}

// Echo answers with the second path segment.
func Echo(req *http.Request) *http.Response {
	text, ok := req.Segment(1)
	if !ok {
		return http.NewResponse(http.StatusBadRequest, nil)
	}
	return http.NewResponse(http.StatusOK, []byte(text))
}

func UserAgent(req *http.Request) *http.Response {
	userAgent, ok := req.Headers.Lookup("User-Agent")
	if !ok {
		userAgent = "Unknown"
	}
	return http.NewResponse(http.StatusOK, []byte(userAgent))
}

type Files struct {
	FS     filesystem.Filesystem
	Logger *slog.Logger
}

func (files *Files) Get(req *http.Request) *http.Response {
	name, ok := req.Segment(1)
	if !ok {
		return http.NewResponse(http.StatusBadRequest, nil)
	}

	content, err := files.FS.ReadFile(name)
	if err != nil {
		files.Logger.WarnContext(req.Context(), "reading file failed", "name", name, "error", err)
		return http.NewResponse(http.StatusBadRequest, []byte(err.Error()))
	}

	return http.NewResponse(http.StatusOK, content).
		SetHeader("Content-Type", contentTypeOctetStream)
}

func (files *Files) Post(req *http.Request) *http.Response {
	name, ok := req.Segment(1)
	if !ok {
		return http.NewResponse(http.StatusBadRequest, nil)
	}

	if err := files.FS.WriteFile(name, req.Body); err != nil {
		files.Logger.WarnContext(req.Context(), "writing file failed", "name", name, "error", err)
		return http.NewResponse(http.StatusBadRequest, []byte(err.Error()))
	}

	return http.NewResponse(http.StatusCreated, nil)
}
