// Package service is the search session engine. It owns the query session,
// pagination, result list and conversation dialogue, and runs the submission
// state machine Idle -> Loading -> Idle.
//
// An in-flight fetch cannot be cancelled by a later query change and a
// failed fetch is not retried; the user resubmits.
package service

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/jimmyqian/sovra-ui-sub000/internal/conversation"
	"github.com/jimmyqian/sovra-ui-sub000/internal/events"
	"github.com/jimmyqian/sovra-ui-sub000/internal/lightbox"
	"github.com/jimmyqian/sovra-ui-sub000/internal/search/backend"
	"github.com/jimmyqian/sovra-ui-sub000/internal/search/domain"
	"github.com/jimmyqian/sovra-ui-sub000/internal/search/filter"
	"github.com/jimmyqian/sovra-ui-sub000/internal/search/history"
	"github.com/jimmyqian/sovra-ui-sub000/internal/search/pagination"
	"github.com/jimmyqian/sovra-ui-sub000/platform/apperr"
	"github.com/jimmyqian/sovra-ui-sub000/platform/logger"
	"github.com/jimmyqian/sovra-ui-sub000/platform/sanitize"

	"github.com/google/uuid"
)

const (
	msgSearchInProgress = "a search is already in progress"
	msgSearchFailed     = "search failed, please try again"
	msgUploadFailed     = "upload failed, please try again"
	msgEmptyMessage     = "message is empty"
)

// Deps are the collaborators of a Service.
type Deps struct {
	Searcher backend.Searcher
	Uploader backend.Uploader
	Resolver *conversation.Resolver
	Trigger  *lightbox.Policy
	Bus      events.Bus
	Log      *logger.Logger
	PageSize int
}

// Service is one application session of the search engine.
type Service struct {
	searcher backend.Searcher
	uploader backend.Uploader
	resolver *conversation.Resolver
	trigger  *lightbox.Policy
	bus      events.Bus
	log      *logger.Logger
	pageSize int

	queries  *history.Session
	pager    *pagination.Controller
	filters  *filter.Store
	dialogue *conversation.Dialogue

	mu          sync.RWMutex
	results     []domain.SearchResult
	activeQuery string
	lastError   string
}

// New creates a session. Resolver, Trigger, Bus and Log may be nil.
func New(deps Deps) *Service {
	if deps.PageSize < 1 {
		deps.PageSize = 10
	}
	if deps.Resolver == nil {
		deps.Resolver = conversation.NewResolver(nil)
	}
	if deps.Trigger == nil {
		deps.Trigger = lightbox.NewPolicy(nil, lightbox.Always(false), nil)
	}
	if deps.Log == nil {
		deps.Log = logger.Discard()
	}
	if deps.Bus == nil {
		deps.Bus = events.NewInMemoryBus(deps.Log)
	}

	return &Service{
		searcher: deps.Searcher,
		uploader: deps.Uploader,
		resolver: deps.Resolver,
		trigger:  deps.Trigger,
		bus:      deps.Bus,
		log:      deps.Log,
		pageSize: deps.PageSize,
		queries:  history.New(),
		pager:    pagination.NewController(deps.PageSize, pagination.NewResultCache()),
		filters:  filter.NewStore(),
		dialogue: conversation.NewDialogue(),
	}
}

// Submit runs a fresh search for text. The lightbox trigger counts every
// call. Invalid queries return an InvalidQuery error and change nothing else;
// a call while a fetch is in flight returns a Busy error; an empty query
// clears the results without contacting the backend.
func (s *Service) Submit(ctx context.Context, text string) (State, error) {
	const op = "search.Submit"

	s.evaluateTrigger(ctx)

	q := sanitize.Query(text)
	if problem := sanitize.Check(q); problem != sanitize.ProblemNone {
		s.log.WithContext(ctx).QueryRejected(string(problem), len([]rune(q)))
		err := apperr.InvalidQuery(string(problem)).WithOp(op)
		s.setError(err.Message)
		return s.State(), err
	}

	if q == "" {
		if s.pager.Loading() {
			return s.State(), apperr.Busy(msgSearchInProgress).WithOp(op)
		}
		s.queries.SetQuery(text)
		s.clear()
		return s.State(), nil
	}

	if !s.pager.Begin(pagination.Fresh) {
		return s.State(), apperr.Busy(msgSearchInProgress).WithOp(op)
	}
	s.queries.SetQuery(text)
	s.queries.Add(q)
	s.setError("")

	err := s.run(ctx, op, q, pagination.Fresh)
	return s.State(), err
}

// LoadMore fetches the next page of the active query and appends it. It is a
// no-op unless more results exist and no fetch is in flight.
func (s *Service) LoadMore(ctx context.Context) (State, error) {
	const op = "search.LoadMore"

	s.mu.RLock()
	q := s.activeQuery
	s.mu.RUnlock()
	if q == "" || !s.pager.Begin(pagination.LoadMore) {
		return s.State(), nil
	}

	s.setError("")
	err := s.run(ctx, op, q, pagination.LoadMore)
	return s.State(), err
}

// run performs a fetch admitted by Begin. Loading has ended by the time it
// returns.
func (s *Service) run(ctx context.Context, op, q string, kind pagination.Kind) error {
	defer s.pager.End()
	if err := s.fetch(ctx, op, q, kind); err != nil {
		s.pager.Abort()
		return err
	}
	return nil
}

func (s *Service) fetch(ctx context.Context, op, q string, kind pagination.Kind) error {
	log := s.log.WithContext(ctx)
	fresh := kind == pagination.Fresh
	pageNo := s.pager.NextPage(kind)
	fetchID := uuid.New()

	log.SearchSubmitted(q, fresh)
	s.bus.Publish(ctx, events.SearchSubmitted{
		BaseEvent: events.NewBaseEvent(),
		FetchID:   fetchID,
		Query:     q,
		Fresh:     fresh,
		Page:      pageNo,
	})

	page, err := s.searcher.Search(ctx, backend.SearchRequest{Query: q, Page: pageNo, PageSize: s.pageSize})
	if err != nil {
		log.SearchFailed(q, err)
		s.bus.Publish(ctx, events.SearchFailed{
			BaseEvent: events.NewBaseEvent(),
			FetchID:   fetchID,
			Query:     q,
			Fresh:     fresh,
			Error:     err.Error(),
		})
		appErr := apperr.BackendFailure(msgSearchFailed, err).WithOp(op)
		s.setError(appErr.Message)
		return appErr
	}

	s.pager.Complete(kind, pagination.Page{
		Count:        len(page.Results),
		TotalResults: page.TotalResults,
		HasMore:      page.HasMore,
	})

	s.mu.Lock()
	if fresh {
		s.results = slices.Clone(page.Results)
		s.activeQuery = q
	} else {
		s.results = append(s.results, page.Results...)
	}
	count := len(s.results)
	s.mu.Unlock()

	if fresh {
		s.dialogue.Start(s.resolver.Resolve(q))
	}

	log.SearchCompleted(q, count, page.TotalResults, page.HasMore)
	s.bus.Publish(ctx, events.SearchCompleted{
		BaseEvent:    events.NewBaseEvent(),
		FetchID:      fetchID,
		Query:        q,
		Fresh:        fresh,
		Count:        len(page.Results),
		TotalResults: page.TotalResults,
		HasMore:      page.HasMore,
	})
	return nil
}

// Converse runs one conversation round-trip. Without an active dialogue the
// message is treated as a query and resolves a script; otherwise the dialogue
// advances one stage.
func (s *Service) Converse(ctx context.Context, message string) (conversation.Turn, error) {
	const op = "conversation.Converse"

	msg := sanitize.Query(message)
	if problem := sanitize.Check(msg); problem != sanitize.ProblemNone {
		s.log.WithContext(ctx).QueryRejected(string(problem), len([]rune(msg)))
		return conversation.Turn{}, apperr.InvalidQuery(string(problem)).WithOp(op)
	}

	if turn, ok := s.dialogue.Advance(); ok {
		return turn, nil
	}
	if msg == "" {
		return conversation.Turn{}, apperr.Validation(msgEmptyMessage).WithOp(op)
	}

	s.queries.Add(msg)
	return s.dialogue.Start(s.resolver.Resolve(msg)), nil
}

// Detail returns the profile-screen response at index for the named person.
func (s *Service) Detail(name string, index int) string {
	return conversation.DetailResponse(s.resolver.ResolveDetail(name), index)
}

// Upload hands a file name to the uploader.
func (s *Service) Upload(ctx context.Context, filename string) (backend.UploadResult, error) {
	const op = "search.Upload"

	if s.uploader == nil {
		return backend.UploadResult{}, apperr.Internal(msgUploadFailed).WithOp(op)
	}
	res, err := s.uploader.Upload(ctx, filename)
	if errors.Is(err, backend.ErrEmptyFilename) {
		return backend.UploadResult{}, apperr.Validation(err.Error()).WithOp(op)
	}
	if err != nil {
		return backend.UploadResult{}, apperr.BackendFailure(msgUploadFailed, err).WithOp(op)
	}
	return res, nil
}

// FilterUpdate is a partial change to the filter criteria. Nil fields are
// left alone; a non-nil empty slice clears its selection.
type FilterUpdate struct {
	AgeRange  *domain.AgeRange
	MinRating *float64
	Locations []string
	Companies []string
	SortBy    *domain.SortKey
	SortOrder *domain.SortOrder
}

// SetFilters applies u and returns the resulting criteria.
func (s *Service) SetFilters(u FilterUpdate) domain.FilterCriteria {
	if u.AgeRange != nil {
		s.filters.SetAgeRange(u.AgeRange.Min, u.AgeRange.Max)
	}
	if u.MinRating != nil {
		s.filters.SetMinRating(*u.MinRating)
	}
	if u.Locations != nil {
		s.filters.SetLocations(u.Locations...)
	}
	if u.Companies != nil {
		s.filters.SetCompanies(u.Companies...)
	}
	if u.SortBy != nil || u.SortOrder != nil {
		current := s.filters.Criteria()
		key, order := current.SortBy, current.SortOrder
		if u.SortBy != nil {
			key = *u.SortBy
		}
		if u.SortOrder != nil {
			order = *u.SortOrder
		}
		s.filters.SetSort(key, order)
	}
	return s.filters.Criteria()
}

// ResetFilters restores the default criteria.
func (s *Service) ResetFilters() domain.FilterCriteria {
	s.filters.Reset()
	return s.filters.Criteria()
}

// Filters returns the session's filter criteria store.
func (s *Service) Filters() *filter.Store {
	return s.filters
}

// History returns every remembered query, oldest first.
func (s *Service) History() []string {
	return s.queries.All()
}

// FilteredResults applies the current criteria to the current results.
func (s *Service) FilteredResults() []domain.SearchResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filter.Apply(s.results, s.filters.Criteria())
}

// DismissLightbox hides the promotional panel.
func (s *Service) DismissLightbox() domain.LightboxState {
	s.trigger.Dismiss()
	return s.trigger.State()
}

// ClearHistory drops the query history.
func (s *Service) ClearHistory() {
	s.queries.Clear()
}

func (s *Service) evaluateTrigger(ctx context.Context) {
	d := s.trigger.OnSearch()
	if !d.Show {
		return
	}
	s.bus.Publish(ctx, events.LightboxShown{BaseEvent: events.NewBaseEvent(), ItemURL: d.ItemURL, SearchCount: d.SearchCount})
}

func (s *Service) clear() {
	s.mu.Lock()
	s.results = nil
	s.activeQuery = ""
	s.lastError = ""
	s.mu.Unlock()

	s.pager.Reset()
	s.dialogue.Reset()
}

func (s *Service) setError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastError = msg
}
