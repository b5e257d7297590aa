package orderid

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

var idPattern = regexp.MustCompile(`^CANDO-[0-9A-Z]+-[0-9A-Z]{5}$`)

func TestNew_Format(t *testing.T) {
	id := New()
	require.Regexp(t, idPattern, id)
	require.True(t, strings.HasPrefix(id, "CANDO-"))
}

func TestNew_BurstIsUnique(t *testing.T) {
	const n = 10000

	seen := make(map[string]struct{}, n)
	for i := 0; i < n; i++ {
		id := New()
		_, dup := seen[id]
		require.False(t, dup, "duplicate id %q after %d calls", id, i)
		seen[id] = struct{}{}
	}
}

func TestNew_SafeForPathSegment(t *testing.T) {
	id := New()
	require.NotContains(t, id, "/")
	require.NotContains(t, id, " ")
}
