package http

import (
	"errors"
	"math"
	"strings"
)

var errInvalidNumber = errors.New("invalid number")

// atoi parses a non-negative decimal integer with an optional leading '+'.
// A minus sign, whitespace and overflow are rejected.
func atoi(s string) (int, error) {
	s = strings.TrimPrefix(s, "+")
	if s == "" {
		return 0, errInvalidNumber
	}

	var n int
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, errInvalidNumber
		}
		d := int(c - '0')
		if n > (math.MaxInt-d)/10 {
			return 0, errInvalidNumber
		}
		n = n*10 + d
	}
	return n, nil
}
