package nav

import (
	"io"

	"github.com/charmbracelet/log"
)

// State is the navigation and layout state of one dashboard session.
type State struct {
	Section   Section
	PanelOpen bool
	// Compact is the classification of the last viewport event.
	Compact bool
	Width   int
}

// Event is an input to the state machine.
type Event interface{ navEvent() }

// RouteChanged reports a new location path.
type RouteChanged struct{ Path string }

// ItemSelected reports a sidebar click. It routes like RouteChanged and, on a
// compact viewport, also closes the panel.
type ItemSelected struct{ Path string }

// ViewportResized reports a new viewport width in columns.
type ViewportResized struct{ Width int }

// PanelToggled flips the panel regardless of the viewport.
type PanelToggled struct{}

func (RouteChanged) navEvent()    {}
func (ItemSelected) navEvent()    {}
func (ViewportResized) navEvent() {}
func (PanelToggled) navEvent()    {}

// Policy holds the layout knobs that shape transitions.
type Policy struct {
	CompactWidth int
	// KeepManual keeps a manual toggle across resizes that do not change the
	// compact/wide classification. When false every resize re-derives.
	KeepManual bool
}

// Transition applies ev to s and returns the next state.
func Transition(s State, ev Event, p Policy) State {
	switch ev := ev.(type) {
	case RouteChanged:
		s.Section = ResolveSection(s.Section, ev.Path)
	case ItemSelected:
		s.Section = ResolveSection(s.Section, ev.Path)
		if s.Compact {
			s.PanelOpen = false
		}
	case ViewportResized:
		compact := IsCompact(ev.Width, p.CompactWidth)
		rederive := !p.KeepManual || s.Width == 0 || compact != s.Compact
		s.Width = ev.Width
		s.Compact = compact
		if rederive {
			s.PanelOpen = PanelOpenForViewport(compact)
		}
	case PanelToggled:
		s.PanelOpen = !s.PanelOpen
	}
	return s
}

// Listener observes a transition. ev is the event that produced next.
type Listener func(prev, next State, ev Event)

type subscription struct {
	id int
	fn Listener
}

// Shell owns a State and drives it from events. It is not safe for concurrent
// use; the TUI drives it from its update loop.
type Shell struct {
	state       State
	policy      Policy
	logger      *log.Logger
	subs        []subscription
	nextID      int
	queue       []Event
	dispatching bool
	closed      bool
}

// ShellOption configures a Shell.
type ShellOption func(*Shell)

// WithPolicy sets the layout policy.
func WithPolicy(p Policy) ShellOption {
	return func(s *Shell) { s.policy = p }
}

// WithLogger routes transition logs to l.
func WithLogger(l *log.Logger) ShellOption {
	return func(s *Shell) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewShell starts at the section for initialPath (dashboard when unknown)
// with the panel open.
func NewShell(initialPath string, opts ...ShellOption) *Shell {
	s := &Shell{
		state:  State{Section: ResolveSection(SectionDashboard, initialPath), PanelOpen: true},
		policy: Policy{CompactWidth: DefaultCompactWidth},
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the current state.
func (s *Shell) State() State { return s.state }

// Subscribe registers fn for every state change and returns a func that
// removes it. Listeners run in subscription order.
func (s *Shell) Subscribe(fn Listener) (unsubscribe func()) {
	if s.closed || fn == nil {
		return func() {}
	}
	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscription{id: id, fn: fn})
	return func() { s.unsubscribe(id) }
}

func (s *Shell) unsubscribe(id int) {
	for i, sub := range s.subs {
		if sub.id == id {
			s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
			return
		}
	}
}

func (s *Shell) subscribed(id int) bool {
	for _, sub := range s.subs {
		if sub.id == id {
			return true
		}
	}
	return false
}

// Dispatch applies ev. An event dispatched from inside a listener is queued
// and applied once the current transition and all its notifications are done.
// Listeners are only told about transitions that changed the state.
func (s *Shell) Dispatch(ev Event) {
	if s.closed || ev == nil {
		return
	}
	s.queue = append(s.queue, ev)
	if s.dispatching {
		return
	}
	s.dispatching = true
	defer func() { s.dispatching = false }()

	for len(s.queue) > 0 && !s.closed {
		next := s.queue[0]
		s.queue = s.queue[1:]
		s.apply(next)
	}
	s.queue = nil
}

func (s *Shell) apply(ev Event) {
	prev := s.state
	s.state = Transition(prev, ev, s.policy)
	if s.state == prev {
		if rc, ok := ev.(RouteChanged); ok {
			if _, known := SectionForPath(rc.Path); !known {
				s.logger.Debug("unknown route, keeping section", "path", rc.Path, "section", prev.Section)
			}
		}
		return
	}
	s.logger.Debug("nav transition",
		"section", s.state.Section,
		"panel_open", s.state.PanelOpen,
		"compact", s.state.Compact,
	)
	snapshot := make([]subscription, len(s.subs))
	copy(snapshot, s.subs)
	for _, sub := range snapshot {
		// A listener may unsubscribe a later one mid-notification.
		if !s.subscribed(sub.id) {
			continue
		}
		sub.fn(prev, s.state, ev)
	}
}

// Close drops all listeners and pending events. Later dispatches are no-ops.
func (s *Shell) Close() {
	s.closed = true
	s.subs = nil
	s.queue = nil
}
