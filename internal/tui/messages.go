package tui

import (
	"github.com/jask/rangmanch/internal/database/repository"
	"github.com/jask/rangmanch/internal/library"
	"github.com/jask/rangmanch/internal/service"
)

// ---------------------------------------------------------------------------
// Bubble Tea messages
// ---------------------------------------------------------------------------

type errMsg struct{ error }

type statusMsg string

// navigateMsg asks the shell to select the item at path.
type navigateMsg struct{ path string }

type catalogMsg []library.ContentItem

// catalogChangedMsg reports that the stored catalog changed outside the
// library screen (file watcher, reset).
type catalogChangedMsg struct{}

type itemDuplicatedMsg struct{ item library.ContentItem }

type itemDeletedMsg struct {
	id    int
	title string
}

type dashboardMsg service.Dashboard

type analyticsMsg service.Analytics

type audienceMsg service.Audience

type generatedMsg struct {
	seq    int
	result service.GenerateResult
	err    error
}

type draftSavedMsg struct{ draft repository.Draft }

type draftsMsg []repository.Draft

// catalogFileMsg carries one reload of the watched catalog file.
type catalogFileMsg struct {
	items []library.ContentItem
	err   error
}

type resetDoneMsg struct{}

// dataResetMsg reports a reset started from the command palette.
type dataResetMsg struct{}
