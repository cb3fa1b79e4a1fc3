package blocklist

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBlocklist_NormalizedMatching(t *testing.T) {
	b := New()
	b.Block("  Nickel   Back ")

	assert.True(t, b.IsBlocked("nickel back"))
	assert.True(t, b.IsBlocked("NICKEL BACK"))
	assert.False(t, b.IsBlocked("nickelback"))
}

func TestBlocklist_Unblock(t *testing.T) {
	b := New()
	b.Block("Artist")

	assert.True(t, b.Unblock("ARTIST"))
	assert.False(t, b.IsBlocked("Artist"))
	assert.False(t, b.Unblock("Artist"))
}

func TestBlocklist_BlockedSorted(t *testing.T) {
	b := New()
	b.Block("Zeta")
	b.Block("Alpha")
	b.Block("") // ignored

	assert.Equal(t, []string{"alpha", "zeta"}, b.Blocked())
}

func TestBlocklist_Clear(t *testing.T) {
	b := New()
	b.Block("Artist")
	b.Clear()
	assert.Empty(t, b.Blocked())
	assert.False(t, b.IsBlocked("Artist"))
}
