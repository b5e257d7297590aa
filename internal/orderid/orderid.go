// Package orderid generates the customer-facing order identifiers.
package orderid

import (
	"crypto/rand"
	"encoding/binary"
	"strconv"
	"strings"
	"sync/atomic"
	"time"
)

const (
	prefix      = "CANDO-"
	suffixLen   = 5
	suffixSpace = 36 * 36 * 36 * 36 * 36
)

var lastMillis atomic.Int64

// New returns an id like CANDO-MEW3K2QT-7F0QZ: prefix, base36 millisecond
// timestamp, base36 random suffix. The timestamp component is forced strictly
// increasing within this process, so a single instance never repeats itself;
// distinct instances rely on the random suffix to break same-millisecond ties.
// Uniqueness is probabilistic, not enforced here; the orders table carries a
// unique index on the column as a backstop.
func New() string {
	ms := nextMillis()
	return prefix +
		strings.ToUpper(strconv.FormatInt(ms, 36)) +
		"-" +
		randomSuffix()
}

func nextMillis() int64 {
	for {
		now := time.Now().UnixMilli()
		prev := lastMillis.Load()
		if now <= prev {
			now = prev + 1
		}
		if lastMillis.CompareAndSwap(prev, now) {
			return now
		}
	}
}

func randomSuffix() string {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// crypto/rand never fails on supported platforms; fall back to the
		// clock rather than panic in a request path.
		binary.BigEndian.PutUint64(buf[:], uint64(time.Now().UnixNano()))
	}
	n := binary.BigEndian.Uint64(buf[:]) % suffixSpace

	s := strings.ToUpper(strconv.FormatUint(n, 36))
	if len(s) < suffixLen {
		s = strings.Repeat("0", suffixLen-len(s)) + s
	}
	return s
}
