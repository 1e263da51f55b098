package handlers

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/freekieb7/pebble/filesystem"
	"github.com/freekieb7/pebble/http"
	"github.com/freekieb7/pebble/test"
)

func newRouter(t *testing.T) (*http.Router, string) {
	t.Helper()

	dir := t.TempDir()
	router := http.NewRouter()
	Register(router, filesystem.NewLocalFileSystem(dir), slog.New(slog.DiscardHandler))
	return router, dir
}

func request(method, target string, headers http.Headers, body []byte) *http.Request {
	if headers == nil {
		headers = http.Headers{}
	}
	return &http.Request{
		Method:  method,
		Target:  target,
		Path:    http.SplitPath(target),
		Version: "HTTP/1.1",
		Headers: headers,
		Body:    body,
	}
}

func TestRoot(t *testing.T) {
	router, _ := newRouter(t)

	for _, method := range []string{"GET", "POST", "HEAD"} {
		res := router.Dispatch(request(method, "/", nil, nil))
		test.AssertEqual(t, "200 OK", res.StatusLine())
		test.AssertEqual(t, 0, len(res.Body))
	}
}

func TestEcho(t *testing.T) {
	router, _ := newRouter(t)

	testCases := []struct {
		target string
		status uint16
		body   string
	}{
		{"/echo/hello", http.StatusOK, "hello"},
		{"//echo//hello//", http.StatusOK, "hello"},
		{"/echo/a/b", http.StatusOK, "a"},
		{"/echo", http.StatusBadRequest, ""},
		{"/echo/", http.StatusBadRequest, ""},
	}

	for _, tc := range testCases {
		res := router.Dispatch(request("GET", tc.target, nil, nil))
		if res.Status != tc.status {
			t.Errorf("%s: status %d, want %d", tc.target, res.Status, tc.status)
		}
		test.AssertEqual(t, tc.body, string(res.Body))
		test.AssertEqual(t, "text/plain", res.Headers.Get("Content-Type"))
	}
}

func TestUserAgent(t *testing.T) {
	router, _ := newRouter(t)

	for _, name := range []string{"User-Agent", "user-agent"} {
		headers := http.Headers{}
		headers.Set(name, "test-client")

		res := router.Dispatch(request("GET", "/user-agent", headers, nil))
		test.AssertEqual(t, http.StatusOK, res.Status)
		test.AssertEqual(t, "test-client", string(res.Body))
	}

	res := router.Dispatch(request("GET", "/user-agent", nil, nil))
	test.AssertEqual(t, "Unknown", string(res.Body))
}

func TestFilesWriteThenRead(t *testing.T) {
	router, dir := newRouter(t)

	res := router.Dispatch(request("POST", "/files/note.txt", nil, []byte("hi")))
	test.AssertEqual(t, "201 Created", res.StatusLine())
	test.AssertEqual(t, 0, len(res.Body))

	onDisk, err := os.ReadFile(filepath.Join(dir, "note.txt"))
	test.AssertNoError(t, err)
	test.AssertBytes(t, []byte("hi"), onDisk)

	res = router.Dispatch(request("GET", "/files/note.txt", nil, nil))
	test.AssertEqual(t, "200 OK", res.StatusLine())
	test.AssertEqual(t, "hi", string(res.Body))
	test.AssertEqual(t, "application/octet-stream", res.Headers.Get("Content-Type"))
	test.AssertEqual(t, "2", res.Headers.Get("Content-Length"))
}

func TestFilesOverwrite(t *testing.T) {
	router, _ := newRouter(t)

	router.Dispatch(request("POST", "/files/f", nil, []byte("a longer first version")))
	router.Dispatch(request("POST", "/files/f", nil, []byte("v2")))

	res := router.Dispatch(request("GET", "/files/f", nil, nil))
	test.AssertEqual(t, "v2", string(res.Body))
}

func TestFilesGetIdempotent(t *testing.T) {
	router, dir := newRouter(t)
	if err := os.WriteFile(filepath.Join(dir, "data.bin"), []byte{0, 1, 2, 3, 255}, 0644); err != nil {
		t.Fatal(err)
	}

	first := router.Dispatch(request("GET", "/files/data.bin", nil, nil)).Bytes()
	second := router.Dispatch(request("GET", "/files/data.bin", nil, nil)).Bytes()

	if !bytes.Equal(first, second) {
		t.Errorf("responses differ:\n%q\n%q", first, second)
	}
}

func TestFilesMissing(t *testing.T) {
	router, _ := newRouter(t)

	res := router.Dispatch(request("GET", "/files/missing.txt", nil, nil))
	test.AssertEqual(t, "400 Bad Request", res.StatusLine())
	test.AssertContains(t, string(res.Body), "file not found")
}

func TestFilesBadRequests(t *testing.T) {
	router, _ := newRouter(t)

	testCases := []struct {
		method string
		target string
		body   string
	}{
		{"GET", "/files", ""},
		{"POST", "/files", ""},
		{"GET", "/files/..", "invalid path"},
		{"POST", "/files/..", "invalid path"},
	}

	for _, tc := range testCases {
		res := router.Dispatch(request(tc.method, tc.target, nil, []byte("x")))
		test.AssertEqual(t, http.StatusBadRequest, res.Status)
		if tc.body == "" {
			test.AssertEqual(t, 0, len(res.Body))
		} else {
			test.AssertContains(t, string(res.Body), tc.body)
		}
	}
}

func TestFilesMethodNotAllowed(t *testing.T) {
	router, _ := newRouter(t)

	res := router.Dispatch(request("DELETE", "/files/note.txt", nil, nil))
	test.AssertEqual(t, "405 Method Not Allowed", res.StatusLine())
	test.AssertEqual(t, 0, len(res.Body))
}

func TestNotFound(t *testing.T) {
	router, _ := newRouter(t)

	res := router.Dispatch(request("GET", "/nothing/here", nil, nil))
	test.AssertEqual(t, "404 Not Found", res.StatusLine())
	test.AssertEqual(t, 0, len(res.Body))
}
