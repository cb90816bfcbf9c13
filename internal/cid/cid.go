// Package cid produces identifiers shaped like IPFS CIDv0 ("Qm" + 44 chars).
// They are not derived from file content: two uploads of the same bytes get
// different identifiers.
package cid

import (
	"math/rand"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	Prefix = "Qm"
	Length = 46

	randomLen = 6
	alphabet  = "0123456789abcdefghijklmnopqrstuvwxyz"
)

var shape = regexp.MustCompile(`^Qm[0-9a-z]{44}$`)

// Generate returns Prefix, six random base-36 characters and the Unix
// millisecond timestamp of now, padded with random base-36 characters to Length.
func Generate(now time.Time) string {
	var b strings.Builder
	b.Grow(Length)
	b.WriteString(Prefix)
	b.WriteString(randomBase36(randomLen))
	b.WriteString(strconv.FormatInt(now.UnixMilli(), 10))
	if b.Len() < Length {
		b.WriteString(randomBase36(Length - b.Len()))
	}
	return b.String()[:Length]
}

// Valid reports whether s looks like a generated identifier.
func Valid(s string) bool {
	return shape.MatchString(s)
}

func randomBase36(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = alphabet[rand.Intn(len(alphabet))]
	}
	return string(b)
}
