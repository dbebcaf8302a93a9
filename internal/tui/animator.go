package tui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// AnimationKind names a screen entrance effect.
type AnimationKind string

const (
	AnimFade  AnimationKind = "fade"
	AnimSlide AnimationKind = "slide"
	AnimGrow  AnimationKind = "grow"
)

// Animator starts an entrance effect lasting durationMs. The returned command
// drives the frames; nil means nothing to animate.
type Animator interface {
	Animate(kind AnimationKind, durationMs int) tea.Cmd
}

const frameInterval = time.Second / 30

type animFrameMsg struct{ seq int }

// transition is the Animator used by the app. It only tracks progress; the
// effect is applied to the rendered body by Apply.
type transition struct {
	enabled bool
	kind    AnimationKind
	seq     int
	frame   int
	frames  int
}

func newTransition(enabled bool) *transition {
	return &transition{enabled: enabled}
}

func (t *transition) Animate(kind AnimationKind, durationMs int) tea.Cmd {
	if !t.enabled || durationMs <= 0 {
		return nil
	}
	t.seq++
	t.kind = kind
	t.frame = 0
	t.frames = max(1, int(time.Duration(durationMs)*time.Millisecond/frameInterval))
	return t.tick()
}

func (t *transition) tick() tea.Cmd {
	seq := t.seq
	return tea.Tick(frameInterval, func(time.Time) tea.Msg { return animFrameMsg{seq: seq} })
}

// advance handles a frame message, returning the next tick while running.
func (t *transition) advance(msg animFrameMsg) tea.Cmd {
	if msg.seq != t.seq || t.done() {
		return nil
	}
	t.frame++
	if t.done() {
		return nil
	}
	return t.tick()
}

func (t *transition) done() bool { return t.frame >= t.frames }

// Progress is in [0,1]; 1 when idle.
func (t *transition) Progress() float64 {
	if t.frames == 0 || t.done() {
		return 1
	}
	return float64(t.frame) / float64(t.frames)
}

// Apply renders body at the current frame.
func (t *transition) Apply(body string, muted lipgloss.Style) string {
	p := t.Progress()
	if p >= 1 {
		return body
	}
	lines := strings.Split(body, "\n")
	switch t.kind {
	case AnimSlide:
		pad := strings.Repeat(" ", int((1-p)*8))
		for i := range lines {
			lines[i] = pad + lines[i]
		}
	case AnimGrow:
		n := max(1, int(p*float64(len(lines))))
		for i := n; i < len(lines); i++ {
			lines[i] = ""
		}
	default:
		if p < 0.5 {
			for i := range lines {
				lines[i] = muted.Render(ansi.Strip(lines[i]))
			}
		}
	}
	return strings.Join(lines, "\n")
}
