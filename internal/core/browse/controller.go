package browse

import (
	"log/slog"

	"github.com/trolleyhk/trolley/internal/core/domain"
	"github.com/trolleyhk/trolley/internal/core/search"
)

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseLoaded
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseLoaded:
		return "loaded"
	case PhaseError:
		return "error"
	default:
		return "unknown"
	}
}

// Controller owns the fetch/list lifecycle of the catalog browser: the
// loaded snapshot, the displayed subset, the active query and the
// loading/error phase.
//
// It is driven from a single event loop and is not safe for concurrent
// use. Begin methods allocate a sequence number for the request they
// start; the caller performs the fetch and reports back through the
// matching Apply method. Completions are applied only while their
// sequence number is the highest seen, so a stale response never
// overwrites the effect of a later-initiated request.
type Controller struct {
	mode      search.Mode
	phase     Phase
	snapshot  []domain.Product
	filtered  []domain.Product
	query     string
	errMsg    string
	initiated uint64
	applied   uint64
}

func New(mode search.Mode) *Controller {
	return &Controller{mode: mode}
}

func (c *Controller) Mode() search.Mode { return c.mode }

func (c *Controller) Phase() Phase { return c.phase }

func (c *Controller) Query() string { return c.query }

// ErrMessage returns the human-readable message shown instead of the
// list while the controller is in PhaseError.
func (c *Controller) ErrMessage() string { return c.errMsg }

// Snapshot returns the last successfully loaded catalog.
func (c *Controller) Snapshot() []domain.Product { return c.snapshot }

// Products returns the sequence the list view should display.
func (c *Controller) Products() []domain.Product { return c.filtered }

// BeginLoad starts a full catalog fetch and returns its sequence
// number. The active query is cleared: a load request is a request to
// show everything.
func (c *Controller) BeginLoad() uint64 {
	c.query = ""
	c.phase = PhaseLoading
	c.initiated++
	return c.initiated
}

// Search submits a query. In client mode the snapshot is filtered
// synchronously and no request is started. In server mode a category
// search request is initiated and its sequence number returned with
// async=true; the empty query resets instead, because an empty prefix
// matches the whole catalog and show-all needs no network call.
func (c *Controller) Search(q string) (seq uint64, async bool) {
	if c.mode == search.ModeServer {
		if q == "" {
			c.Reset()
			return 0, false
		}
		c.query = q
		c.phase = PhaseLoading
		c.initiated++
		return c.initiated, true
	}

	c.query = q
	c.filtered = search.Filter(c.snapshot, q)
	if c.phase != PhaseLoading && c.snapshot != nil {
		c.phase = PhaseLoaded
		c.errMsg = ""
	}
	return 0, false
}

// ApplyLoad reports the completion of the load request seq. It returns
// false when the completion is stale and was discarded.
func (c *Controller) ApplyLoad(seq uint64, ps []domain.Product, err error) bool {
	const op = "Controller.ApplyLoad"

	if !c.admit(seq) {
		return false
	}
	if err != nil {
		c.fail(op, err)
		return true
	}

	c.snapshot = ps
	if c.mode == search.ModeClient {
		c.filtered = search.Filter(ps, c.query)
	} else {
		c.filtered = ps
	}
	c.phase = PhaseLoaded
	c.errMsg = ""
	return true
}

// ApplySearch reports the completion of the server-side search request
// seq. The snapshot is left untouched: only the displayed subset
// changes. It returns false when the completion is stale.
func (c *Controller) ApplySearch(seq uint64, ps []domain.Product, err error) bool {
	const op = "Controller.ApplySearch"

	if !c.admit(seq) {
		return false
	}
	if err != nil {
		c.fail(op, err)
		return true
	}

	c.filtered = ps
	c.phase = PhaseLoaded
	c.errMsg = ""
	return true
}

// Reset restores the full snapshot view and clears the query without
// touching the network. Requests still in flight are marked stale so
// their completions cannot override the reset.
func (c *Controller) Reset() {
	c.query = ""
	c.errMsg = ""
	c.filtered = c.snapshot
	c.applied = c.initiated
	if c.snapshot != nil {
		c.phase = PhaseLoaded
	} else {
		c.phase = PhaseIdle
	}
}

func (c *Controller) admit(seq uint64) bool {
	if seq <= c.applied {
		return false
	}
	c.applied = seq
	return true
}

func (c *Controller) fail(op string, err error) {
	slog.With("op", op).Error("catalog request failed", "err", err)
	c.phase = PhaseError
	c.errMsg = err.Error()
}
