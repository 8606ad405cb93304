// Package htmldiff computes a patch stream that transforms one parsed
// HTML document into another, for a live-reload server that wants to
// avoid a full page reload on every file save. It wires together GumTree-
// style tree matching, Chawathe-style edit-script generation, and a
// shadow-tree patch translator into the two entry points callers need.
package htmldiff

import (
	"log/slog"

	"github.com/vango-dev/htmldiff/internal/arena"
	"github.com/vango-dev/htmldiff/internal/domdiff"
	"github.com/vango-dev/htmldiff/internal/errcat"
	"github.com/vango-dev/htmldiff/pkg/htmlparse"
)

// Patch re-exports domdiff.Patch, the externally addressed operation
// callers serialize to an applier.
type Patch = domdiff.Patch

// MatchingConfig re-exports domdiff.MatchingConfig for callers that want
// to tune the matcher (Option).
type MatchingConfig = domdiff.MatchingConfig

// Option configures a Diff/DiffHTML call.
type Option func(*options)

type options struct {
	matching MatchingConfig
	logger   *slog.Logger
}

// WithMatchingConfig overrides the matcher's similarity threshold and
// minimum height. The zero value of MatchingConfig is not valid; callers
// should start from domdiff.DefaultMatchingConfig().
func WithMatchingConfig(cfg MatchingConfig) Option {
	return func(o *options) { o.matching = cfg }
}

// WithLogger attaches a structured logger; diff and its collaborators
// log at debug level only. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

func resolveOptions(opts []Option) *options {
	o := &options{
		matching: domdiff.DefaultMatchingConfig(),
		logger:   slog.Default(),
	}
	for _, fn := range opts {
		fn(o)
	}
	return o
}

// Diff computes the patch list that transforms domA's body into domB's
// body. domA and domB are already-parsed arena.Documents, typically
// produced by pkg/htmlparse.
func Diff(domA, domB *arena.Document, opts ...Option) ([]Patch, error) {
	o := resolveOptions(opts)

	bodyA, bodyB := domA.Body(), domB.Body()
	if bodyA == arena.NoNode || bodyB == arena.NoNode {
		return nil, errcat.ErrNoBody()
	}

	treeA := domdiff.NewDiffTree(domA, bodyA)
	treeB := domdiff.NewDiffTree(domB, bodyB)

	o.logger.Debug("htmldiff: built diff trees", "nodesA", treeA.NodeCount(), "nodesB", treeB.NodeCount())

	matching := domdiff.Match(treeA, treeB, o.matching)
	domdiff.ForceRootMatch(treeA, treeB, matching)

	ops := domdiff.GenerateEditScript(treeA, treeB, matching)
	o.logger.Debug("htmldiff: generated edit script", "ops", len(ops))

	patches := domdiff.Translate(treeA, treeB, matching, ops)
	o.logger.Debug("htmldiff: translated patches", "patches", len(patches))

	return patches, nil
}

// DiffHTML parses oldHTML and newHTML and returns the patch list that
// transforms the former into the latter. A convenience wrapper around
// Parse + Diff for callers that don't need the intermediate trees.
func DiffHTML(oldHTML, newHTML string, opts ...Option) ([]Patch, error) {
	domA, err := htmlparse.Parse(oldHTML)
	if err != nil {
		return nil, err
	}
	domB, err := htmlparse.Parse(newHTML)
	if err != nil {
		return nil, err
	}
	return Diff(domA, domB, opts...)
}
