package sms

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChopMessage_ShortPassesThrough(t *testing.T) {
	msg := "You are now subscribed to SAKTO10."
	require.Equal(t, []string{msg}, ChopMessage(msg))
}

func TestChopMessage_ExactBoundary(t *testing.T) {
	msg := strings.Repeat("a", 159)
	require.Equal(t, []string{msg}, ChopMessage(msg))

	long := strings.Repeat("a", 160)
	blocks := ChopMessage(long)
	require.Len(t, blocks, 2)
}

func TestChopMessage_LongGetsPartMarkers(t *testing.T) {
	msg := strings.Repeat("x", 400)
	blocks := ChopMessage(msg)
	require.Len(t, blocks, 3)
	require.True(t, strings.HasPrefix(blocks[0], "(1/3) "))
	require.True(t, strings.HasPrefix(blocks[1], "(2/3) "))
	require.True(t, strings.HasPrefix(blocks[2], "(3/3) "))

	// Reassembling the payloads yields the original message
	var b strings.Builder
	for _, block := range blocks {
		b.WriteString(block[strings.Index(block, ") ")+2:])
	}
	require.Equal(t, msg, b.String())
}
