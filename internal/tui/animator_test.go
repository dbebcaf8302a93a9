package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/require"
)

func TestTransitionDisabledIsIdle(t *testing.T) {
	tr := newTransition(false)
	require.Nil(t, tr.Animate(AnimSlide, 240))
	require.Equal(t, 1.0, tr.Progress())
	require.Equal(t, "body", tr.Apply("body", lipgloss.NewStyle()))
}

func TestTransitionRunsFrames(t *testing.T) {
	tr := newTransition(true)
	require.NotNil(t, tr.Animate(AnimSlide, 240))
	require.Equal(t, 7, tr.frames)
	require.Equal(t, 0.0, tr.Progress())
	require.True(t, strings.HasPrefix(tr.Apply("a\nb", lipgloss.NewStyle()), strings.Repeat(" ", 8)+"a"))

	// A frame from an earlier animation is ignored.
	require.Nil(t, tr.advance(animFrameMsg{seq: tr.seq - 1}))
	require.Equal(t, 0, tr.frame)

	for i := 0; i < tr.frames-1; i++ {
		require.NotNil(t, tr.advance(animFrameMsg{seq: tr.seq}))
	}
	require.Nil(t, tr.advance(animFrameMsg{seq: tr.seq}))
	require.Equal(t, 1.0, tr.Progress())
	require.Equal(t, "a\nb", tr.Apply("a\nb", lipgloss.NewStyle()))
}

func TestTransitionGrowRevealsLines(t *testing.T) {
	tr := newTransition(true)
	tr.Animate(AnimGrow, 300)
	tr.frame = tr.frames / 2
	got := strings.Split(tr.Apply("1\n2\n3\n4", lipgloss.NewStyle()), "\n")
	require.Len(t, got, 4)
	require.Equal(t, "1", got[0])
	require.Equal(t, "", got[3])
}
