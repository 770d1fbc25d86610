// Package admin drives one project's sidebar: it loads the specification,
// resolves dynamic groups against the query collaborator and the open tabs,
// runs the template-import pipeline, and publishes change signals after
// every successful write.
package admin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/SaxonF/supawatch/internal/importer"
	"github.com/SaxonF/supawatch/internal/navigate"
	"github.com/SaxonF/supawatch/internal/notify"
	"github.com/SaxonF/supawatch/internal/query"
	"github.com/SaxonF/supawatch/internal/resolve"
	"github.com/SaxonF/supawatch/internal/sidebar"
	"github.com/SaxonF/supawatch/internal/store"
)

// ErrReplaceNotConfirmed is returned when an import would replace the whole
// specification and the caller has not confirmed the destructive replace.
// Re-invoke with ImportOptions.ConfirmReplace set to commit.
var ErrReplaceNotConfirmed = errors.New("spec import replaces the whole specification and was not confirmed")

// ErrImportSuperseded is returned when a newer import request was issued
// while this one's fetch was in flight. The stale result is discarded.
var ErrImportSuperseded = errors.New("import superseded by a newer request")

// Config wires a Service.
type Config struct {
	ProjectID string
	Store     store.Store
	Notifier  *notify.Notifier
	Runner    query.Runner
	Tabs      *navigate.Manager
	Fetcher   *importer.Fetcher
	Logger    *slog.Logger
}

// Service is the per-project admin facade.
type Service struct {
	projectID string
	store     store.Store
	notifier  *notify.Notifier
	runner    query.Runner
	tabs      *navigate.Manager
	fetcher   *importer.Fetcher
	logger    *slog.Logger

	mu  sync.Mutex
	gen uint64
}

// New creates a Service. Tabs and Fetcher get defaults when nil; a nil
// logger discards.
func New(cfg Config) *Service {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	tabs := cfg.Tabs
	if tabs == nil {
		tabs = navigate.NewManager()
	}
	fetcher := cfg.Fetcher
	if fetcher == nil {
		fetcher = importer.NewFetcher(nil, logger)
	}
	return &Service{
		projectID: cfg.ProjectID,
		store:     cfg.Store,
		notifier:  cfg.Notifier,
		runner:    cfg.Runner,
		tabs:      tabs,
		fetcher:   fetcher,
		logger:    logger,
	}
}

// ProjectID returns the project this service is scoped to.
func (s *Service) ProjectID() string { return s.projectID }

// Tabs returns the navigation manager for this service's browsing contexts.
func (s *Service) Tabs() *navigate.Manager { return s.tabs }

// Specification returns the current document for the project.
func (s *Service) Specification(ctx context.Context) (*sidebar.Spec, error) {
	return s.store.Specification(ctx, s.projectID)
}

// Subscribe registers for this project's change signals. Callers must pass
// the channel to Unsubscribe when their context is disposed.
func (s *Service) Subscribe() chan notify.Event {
	return s.notifier.Subscribe(s.projectID)
}

// Unsubscribe tears down a change-signal subscription.
func (s *Service) Unsubscribe(ch chan notify.Event) {
	s.notifier.Unsubscribe(ch)
}

// ResolvedGroup is one sidebar group with its population strategy applied.
type ResolvedGroup struct {
	Group sidebar.Group  `json:"group"`
	Items []sidebar.Item `json:"items"`
}

// Resolved loads the specification and applies every group's population
// strategy: manual lists pass through, query-driven templates expand once
// per result row, and state-derived groups mirror the open tabs.
func (s *Service) Resolved(ctx context.Context) ([]ResolvedGroup, error) {
	spec, err := s.Specification(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]ResolvedGroup, 0, len(spec.Groups))
	for _, g := range spec.Groups {
		rg := ResolvedGroup{Group: g}
		switch g.Strategy.Kind {
		case sidebar.StrategyManual:
			rg.Items = append(rg.Items, g.Strategy.Items...)
		case sidebar.StrategyQueryDriven:
			items, err := s.expandGroup(ctx, g)
			if err != nil {
				return nil, fmt.Errorf("group %q: %w", g.ID, err)
			}
			rg.Items = items
		case sidebar.StrategyStateDerived:
			rg.Items = s.tabItems()
		}
		out = append(out, rg)
	}
	return out, nil
}

func (s *Service) expandGroup(ctx context.Context, g sidebar.Group) ([]sidebar.Item, error) {
	if g.Strategy.Template == nil || s.runner == nil {
		return nil, nil
	}
	result, err := s.runner.Run(ctx, g.Strategy.Query)
	if err != nil {
		return nil, err
	}
	return resolve.ExpandRows(*g.Strategy.Template, result.Rows), nil
}

func (s *Service) tabItems() []sidebar.Item {
	tabs := s.tabs.Tabs()
	items := make([]sidebar.Item, 0, len(tabs))
	for _, t := range tabs {
		items = append(items, sidebar.Item{
			ID:      "tab:" + t.ID,
			Name:    t.Current.ItemID,
			Icon:    "tab",
			Visible: true,
		})
	}
	return items
}

// ImportOptions parameterize one import request.
type ImportOptions struct {
	// URL of the template document; only GET is used.
	URL string
	// GroupID overrides the target group for item payloads.
	GroupID string
	// ConfirmReplace acknowledges that a spec payload replaces the whole
	// document. Without it a spec import fails with ErrReplaceNotConfirmed.
	ConfirmReplace bool
}

// ImportReport describes a completed (or confirmation-pending) import.
type ImportReport struct {
	Kind                 importer.Kind `json:"kind"`
	GroupID              string        `json:"groupId,omitempty"`
	RequiresConfirmation bool          `json:"requiresConfirmation,omitempty"`
}

// Import runs the template pipeline: fetch, classify, merge, persist,
// broadcast. At most one fetch is in flight per service; a newer request
// supersedes a pending one and the stale result is discarded, never
// written. Spec payloads require ConfirmReplace before commit.
func (s *Service) Import(ctx context.Context, opts ImportOptions) (*ImportReport, error) {
	s.mu.Lock()
	s.gen++
	myGen := s.gen
	s.mu.Unlock()

	raw, err := s.fetcher.Fetch(ctx, opts.URL)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.superseded(myGen) {
		s.logger.Debug("import superseded", "url", opts.URL)
		return nil, ErrImportSuperseded
	}

	payload, err := importer.Classify(raw)
	if err != nil {
		return nil, err
	}

	report := &ImportReport{Kind: payload.Kind, GroupID: payload.GroupID}
	if payload.Kind == importer.KindSpec && !opts.ConfirmReplace {
		report.RequiresConfirmation = true
		return report, ErrReplaceNotConfirmed
	}

	target, err := s.Specification(ctx)
	if err != nil {
		return nil, err
	}
	merged, err := importer.Merge(target, payload, opts.GroupID)
	if err != nil {
		return nil, err
	}

	// Re-check before commit: the fetch may have been slow and a newer
	// request issued meanwhile must not be overwritten by this one.
	if s.superseded(myGen) {
		return nil, ErrImportSuperseded
	}
	if err := s.save(ctx, merged); err != nil {
		return nil, err
	}
	s.logger.Info("template imported", "kind", payload.Kind, "url", opts.URL, "project", s.projectID)
	return report, nil
}

// ImportDocument merges an already-fetched template document into the
// specification. Spec payloads replace without confirmation here, so
// interactive callers must confirm before invoking; the specs-directory
// watcher calls this directly since a watched file is authoritative.
func (s *Service) ImportDocument(ctx context.Context, data []byte) (*ImportReport, error) {
	payload, err := importer.ClassifyJSON(data)
	if err != nil {
		return nil, err
	}
	target, err := s.Specification(ctx)
	if err != nil {
		return nil, err
	}
	merged, err := importer.Merge(target, payload, "")
	if err != nil {
		return nil, err
	}
	if err := s.save(ctx, merged); err != nil {
		return nil, err
	}
	return &ImportReport{Kind: payload.Kind, GroupID: payload.GroupID}, nil
}

func (s *Service) superseded(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return gen != s.gen
}

// Save persists a specification wholesale and broadcasts the change.
func (s *Service) Save(ctx context.Context, spec *sidebar.Spec) error {
	return s.save(ctx, spec)
}

func (s *Service) save(ctx context.Context, spec *sidebar.Spec) error {
	if err := s.store.WriteSpecification(ctx, s.projectID, spec); err != nil {
		return err
	}
	s.afterWrite(spec)
	return nil
}

// AddItem appends an item to a user-creatable manual group. The store makes
// the read-modify-write atomic; the in-memory view is only refreshed via
// the change signal, never mutated optimistically.
func (s *Service) AddItem(ctx context.Context, groupID string, item sidebar.Item) error {
	if err := s.store.AddItemToGroup(ctx, s.projectID, groupID, item); err != nil {
		return err
	}
	s.reloadAndBroadcast(ctx)
	return nil
}

// AddGroup appends or replaces a group.
func (s *Service) AddGroup(ctx context.Context, group sidebar.Group) error {
	if err := s.store.AddGroup(ctx, s.projectID, group); err != nil {
		return err
	}
	s.reloadAndBroadcast(ctx)
	return nil
}

func (s *Service) reloadAndBroadcast(ctx context.Context) {
	spec, err := s.Specification(ctx)
	if err != nil {
		s.logger.Error("failed to reload specification after write", "error", err)
		s.notifier.Broadcast(s.projectID)
		return
	}
	s.afterWrite(spec)
}

// afterWrite reconciles navigation stacks against the new document and
// notifies every live consumer for this project.
func (s *Service) afterWrite(spec *sidebar.Spec) {
	s.tabs.ReconcileAll(s.existsPredicate(spec))
	s.notifier.Broadcast(s.projectID)
}

// existsPredicate reports whether a concrete frame item id still resolves
// in the new specification. Manual items match directly; ids derived from
// a query-driven template are accepted when they could have been produced
// by that template (same shape with tokens substituted).
func (s *Service) existsPredicate(spec *sidebar.Spec) func(string) bool {
	return func(itemID string) bool {
		if spec.HasItem(itemID) {
			return true
		}
		for _, g := range spec.Groups {
			if g.Strategy.Kind != sidebar.StrategyQueryDriven || g.Strategy.Template == nil {
				continue
			}
			if templateTreeMatches(*g.Strategy.Template, itemID) {
				return true
			}
		}
		return false
	}
}

func templateTreeMatches(tmpl sidebar.Item, itemID string) bool {
	if resolve.TemplateMatches(tmpl.ID, itemID) {
		return true
	}
	for _, child := range tmpl.Children {
		if templateTreeMatches(child, itemID) {
			return true
		}
	}
	return false
}
