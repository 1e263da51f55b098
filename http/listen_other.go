//go:build !unix

package http

import "syscall"

var controlReuseAddr func(network, address string, c syscall.RawConn) error
