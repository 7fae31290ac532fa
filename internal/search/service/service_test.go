package service

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jimmyqian/sovra-ui-sub000/internal/conversation"
	"github.com/jimmyqian/sovra-ui-sub000/internal/events"
	"github.com/jimmyqian/sovra-ui-sub000/internal/lightbox"
	"github.com/jimmyqian/sovra-ui-sub000/internal/search/backend"
	"github.com/jimmyqian/sovra-ui-sub000/internal/search/backend/backendtest"
	"github.com/jimmyqian/sovra-ui-sub000/internal/search/domain"
	"github.com/jimmyqian/sovra-ui-sub000/platform/apperr"
	"github.com/jimmyqian/sovra-ui-sub000/platform/logger"
)

const pageSize = 10

type fixture struct {
	svc   *Service
	mock  *backend.Mock
	clock *backendtest.ManualClock
	bus   *events.InMemoryBus
}

func newFixture(t *testing.T, latency time.Duration, promos []string) *fixture {
	t.Helper()
	clock := backendtest.NewManualClock()
	log := logger.Discard()
	mock := backend.NewMock(backend.MockOptions{
		SearchLatency: latency,
		UploadLatency: latency,
		Clock:         clock,
		Rand:          rand.New(rand.NewPCG(7, 7)),
	})
	bus := events.NewInMemoryBus(log)
	svc := New(Deps{
		Searcher: mock,
		Uploader: mock,
		Resolver: conversation.NewResolver(rand.New(rand.NewPCG(1, 1))),
		Trigger:  lightbox.NewPolicy(promos, lightbox.Always(true), rand.New(rand.NewPCG(2, 2))),
		Bus:      bus,
		Log:      log,
		PageSize: pageSize,
	})
	return &fixture{svc: svc, mock: mock, clock: clock, bus: bus}
}

// submitAsync starts a Submit and waits until its fetch is parked on the clock.
func (f *fixture) submitAsync(t *testing.T, query string) <-chan error {
	t.Helper()
	done := make(chan error, 1)
	go func() {
		_, err := f.svc.Submit(context.Background(), query)
		done <- err
	}()
	if !f.clock.WaitForTimer(time.Second) {
		t.Fatal("expected the fetch to wait on the clock")
	}
	return done
}

func (f *fixture) release(t *testing.T, done <-chan error) error {
	t.Helper()
	f.clock.Fire()
	select {
	case err := <-done:
		return err
	case <-time.After(time.Second):
		t.Fatal("fetch did not finish after the clock fired")
		return nil
	}
}

func TestSubmitLoadsFirstPage(t *testing.T) {
	f := newFixture(t, 0, nil)

	st, err := f.svc.Submit(context.Background(), "  jane   doe ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	total := backend.TotalFor("jane doe")
	if len(st.Results) != pageSize {
		t.Fatalf("expected %d results, got %d", pageSize, len(st.Results))
	}
	if st.Pagination.CurrentPage != 1 || st.Pagination.TotalResults != total {
		t.Fatalf("unexpected pagination: %+v", st.Pagination)
	}
	if st.Pagination.HasMore != (total > pageSize) {
		t.Fatalf("expected hasMore=%v, got %v", total > pageSize, st.Pagination.HasMore)
	}
	if st.Loading() {
		t.Fatal("expected loading to be false after completion")
	}
	if st.ActiveQuery != "jane doe" || !st.HasSearched {
		t.Fatalf("unexpected query state: active=%q searched=%v", st.ActiveQuery, st.HasSearched)
	}
	if len(st.RecentQueries) != 1 || st.RecentQueries[0] != "jane doe" {
		t.Fatalf("expected sanitized query in history, got %v", st.RecentQueries)
	}
	if st.Turn == nil || st.Turn.Index != 0 {
		t.Fatalf("expected dialogue at turn 0, got %+v", st.Turn)
	}
}

func TestLoadMoreAppendsNextPage(t *testing.T) {
	f := newFixture(t, 0, nil)
	ctx := context.Background()

	first, err := f.svc.Submit(ctx, "jane doe")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !first.Pagination.HasMore {
		t.Fatal("expected more than one page")
	}

	st, err := f.svc.LoadMore(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.Pagination.CurrentPage != 2 {
		t.Fatalf("expected page 2, got %d", st.Pagination.CurrentPage)
	}
	want := min(2*pageSize, backend.TotalFor("jane doe"))
	if len(st.Results) != want {
		t.Fatalf("expected %d results, got %d", want, len(st.Results))
	}
	for i := range first.Results {
		if st.Results[i].ID != first.Results[i].ID {
			t.Fatalf("expected first page to be kept at index %d", i)
		}
	}
}

func TestLoadMoreUntilExhausted(t *testing.T) {
	f := newFixture(t, 0, nil)
	ctx := context.Background()

	st, err := f.svc.Submit(ctx, "x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	total := backend.TotalFor("x")
	for i := 0; st.Pagination.HasMore; i++ {
		if i > total {
			t.Fatal("hasMore never cleared")
		}
		if st, err = f.svc.LoadMore(ctx); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if len(st.Results) != total {
		t.Fatalf("expected %d results, got %d", total, len(st.Results))
	}

	page := st.Pagination.CurrentPage
	again, err := f.svc.LoadMore(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if again.Pagination.CurrentPage != page || len(again.Results) != total {
		t.Fatal("expected LoadMore without more results to be a no-op")
	}
}

func TestLoadMoreWithoutSearchIsNoop(t *testing.T) {
	f := newFixture(t, 0, nil)
	st, err := f.svc.LoadMore(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(st.Results) != 0 || st.Pagination.CurrentPage != 1 {
		t.Fatalf("expected untouched state, got %+v", st.Pagination)
	}
}

func TestSubmitWhileLoadingIsRefused(t *testing.T) {
	f := newFixture(t, time.Second, nil)

	done := f.submitAsync(t, "first query")

	st, err := f.svc.Submit(context.Background(), "second query")
	if !apperr.Is(err, apperr.KindBusy) {
		t.Fatalf("expected busy error, got %v", err)
	}
	if !st.Loading() {
		t.Fatal("expected loading while the first fetch is in flight")
	}

	if err := f.release(t, done); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	after := f.svc.State()
	if after.ActiveQuery != "first query" {
		t.Fatalf("expected results of the first query, got %q", after.ActiveQuery)
	}
	if after.Loading() {
		t.Fatal("expected loading to clear")
	}
}

func TestLoadMoreWhileLoadingIsNoop(t *testing.T) {
	f := newFixture(t, time.Second, nil)
	ctx := context.Background()
	if err := f.release(t, f.submitAsync(t, "jane doe")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	done := make(chan error, 1)
	go func() {
		_, err := f.svc.LoadMore(ctx)
		done <- err
	}()
	if !f.clock.WaitForTimer(time.Second) {
		t.Fatal("expected the first LoadMore to wait on the clock")
	}

	st, err := f.svc.LoadMore(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.Pagination.CurrentPage != 1 || len(st.Results) != pageSize {
		t.Fatalf("expected the concurrent LoadMore to change nothing, got page %d", st.Pagination.CurrentPage)
	}

	if err := f.release(t, done); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := f.svc.State().Pagination.CurrentPage; got != 2 {
		t.Fatalf("expected exactly one page advance, got page %d", got)
	}
}

func TestResultsPreservedWhileLoading(t *testing.T) {
	f := newFixture(t, time.Second, nil)

	if err := f.release(t, f.submitAsync(t, "jane doe")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	before := f.svc.State()

	done := f.submitAsync(t, "john smith")
	during := f.svc.State()
	if !during.Loading() {
		t.Fatal("expected loading")
	}
	if len(during.Results) != len(before.Results) || during.Results[0].ID != before.Results[0].ID {
		t.Fatal("expected previous results to stay visible while loading")
	}
	if during.Pagination.DisplayTotal != before.Pagination.TotalResults {
		t.Fatalf("expected display total %d while loading, got %d",
			before.Pagination.TotalResults, during.Pagination.DisplayTotal)
	}
	if during.Pagination.HasMore != before.Pagination.HasMore {
		t.Fatal("expected hasMore to be held while loading")
	}

	if err := f.release(t, done); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	after := f.svc.State()
	if after.Pagination.TotalResults != backend.TotalFor("john smith") {
		t.Fatalf("expected new total, got %d", after.Pagination.TotalResults)
	}
}

func TestBackendFailureKeepsResults(t *testing.T) {
	f := newFixture(t, 0, nil)
	ctx := context.Background()

	before, err := f.svc.Submit(ctx, "jane doe")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f.mock.FailNext(errors.New("upstream down"))
	st, err := f.svc.Submit(ctx, "john smith")
	if !apperr.Is(err, apperr.KindBackendFailure) {
		t.Fatalf("expected backend failure, got %v", err)
	}
	if st.Error == "" {
		t.Fatal("expected an error message on the state")
	}
	if st.Loading() {
		t.Fatal("expected loading to clear after a failure")
	}
	if len(st.Results) != len(before.Results) || st.ActiveQuery != "jane doe" {
		t.Fatal("expected previous results to be kept after a failure")
	}

	next, err := f.svc.Submit(ctx, "john smith")
	if err != nil {
		t.Fatalf("expected resubmission to succeed, got %v", err)
	}
	if next.Error != "" {
		t.Fatalf("expected error to clear on success, got %q", next.Error)
	}
}

func TestFailedSearchKeepsPaginationOfShownResults(t *testing.T) {
	f := newFixture(t, 0, nil)
	ctx := context.Background()
	// Three pages of three stay below the smallest generated total.
	svc := New(Deps{Searcher: f.mock, Uploader: f.mock, Bus: f.bus, PageSize: 3})

	if _, err := svc.Submit(ctx, "jane doe"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var before State
	for range 2 {
		var err error
		if before, err = svc.LoadMore(ctx); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if before.Pagination.CurrentPage != 3 || !before.Pagination.HasMore {
		t.Fatalf("expected page 3 with more to load, got %+v", before.Pagination.Pagination)
	}

	f.mock.FailNext(errors.New("upstream down"))
	st, err := svc.Submit(ctx, "john smith")
	if !apperr.Is(err, apperr.KindBackendFailure) {
		t.Fatalf("expected backend failure, got %v", err)
	}
	if st.Pagination.Pagination != before.Pagination.Pagination {
		t.Fatalf("expected pagination %+v to be kept, got %+v", before.Pagination.Pagination, st.Pagination.Pagination)
	}

	next, err := svc.LoadMore(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next.Pagination.CurrentPage != before.Pagination.CurrentPage+1 {
		t.Fatalf("expected page %d, got %d", before.Pagination.CurrentPage+1, next.Pagination.CurrentPage)
	}
	seen := make(map[string]bool, len(next.Results))
	for _, r := range next.Results {
		if seen[r.ID] {
			t.Fatalf("duplicate result %s after load more", r.ID)
		}
		seen[r.ID] = true
	}
}

func TestEmptySubmitWhileLoadingIsRefused(t *testing.T) {
	f := newFixture(t, time.Second, nil)

	done := f.submitAsync(t, "jane doe")

	st, err := f.svc.Submit(context.Background(), "   ")
	if !apperr.Is(err, apperr.KindBusy) {
		t.Fatalf("expected busy error, got %v", err)
	}
	if !st.Loading() {
		t.Fatal("expected the first fetch to still be in flight")
	}

	if err := f.release(t, done); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	after := f.svc.State()
	if after.Query != "jane doe" || after.ActiveQuery != "jane doe" {
		t.Fatalf("expected query and results of the admitted search, got query=%q active=%q", after.Query, after.ActiveQuery)
	}
	if len(after.Results) != pageSize {
		t.Fatalf("expected %d results, got %d", pageSize, len(after.Results))
	}
}

func TestSubmitRejectsInvalidQuery(t *testing.T) {
	cases := []struct {
		name  string
		query string
	}{
		{"too long", strings.Repeat("a", 501)},
		{"script", "<script>alert(1)</script>"},
		{"javascript url", "javascript:void(0)"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t, 0, nil)
			st, err := f.svc.Submit(context.Background(), tc.query)
			if !apperr.Is(err, apperr.KindInvalidQuery) {
				t.Fatalf("expected invalid query error, got %v", err)
			}
			if len(st.Results) != 0 || len(st.RecentQueries) != 0 {
				t.Fatal("expected no results and no history for a rejected query")
			}
			if st.Error == "" {
				t.Fatal("expected the rejection to be surfaced")
			}
			if st.Query != "" || st.HasSearched {
				t.Fatalf("expected the query to be left alone, got query=%q searched=%v", st.Query, st.HasSearched)
			}
		})
	}
}

func TestEmptyQueryClearsResults(t *testing.T) {
	f := newFixture(t, 0, nil)
	ctx := context.Background()
	if _, err := f.svc.Submit(ctx, "jane doe"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f.mock.FailNext(errors.New("must not be called"))
	st, err := f.svc.Submit(ctx, "   ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(st.Results) != 0 || st.ActiveQuery != "" {
		t.Fatal("expected results to be cleared")
	}
	if st.Pagination.CurrentPage != 1 || st.Pagination.TotalResults != 0 || st.Pagination.HasMore {
		t.Fatalf("expected pagination reset, got %+v", st.Pagination)
	}
	if st.Turn != nil {
		t.Fatal("expected the dialogue to be reset")
	}

	// The armed failure proves the backend was skipped.
	if _, err := f.svc.Submit(ctx, "jane doe"); err == nil {
		t.Fatal("expected the armed failure to hit the next real search")
	}
}

func TestLightboxShowsOnOddSubmissions(t *testing.T) {
	f := newFixture(t, 0, []string{"/promo/a.png", "/promo/b.png"})
	ctx := context.Background()

	var mu sync.Mutex
	var shown []int
	f.bus.Subscribe(events.NameLightboxShown, events.HandlerFunc(func(_ context.Context, e events.Event) error {
		mu.Lock()
		defer mu.Unlock()
		shown = append(shown, e.(events.LightboxShown).SearchCount)
		return nil
	}))

	queries := []string{"a", "b", "<script>", "", "e"}
	for i, q := range queries {
		st, _ := f.svc.Submit(ctx, q)
		if st.Lightbox.SearchCount != i+1 {
			t.Fatalf("expected search count %d, got %d", i+1, st.Lightbox.SearchCount)
		}
		f.svc.DismissLightbox()
	}
	f.bus.Wait()

	mu.Lock()
	defer mu.Unlock()
	want := []int{1, 3, 5}
	if len(shown) != len(want) {
		t.Fatalf("expected lightbox on submissions %v, got %v", want, shown)
	}
	for i := range want {
		if shown[i] != want[i] {
			t.Fatalf("expected lightbox on submissions %v, got %v", want, shown)
		}
	}
}

func TestSearchEventsArePublished(t *testing.T) {
	f := newFixture(t, 0, nil)

	var mu sync.Mutex
	names := map[string]int{}
	record := events.HandlerFunc(func(_ context.Context, e events.Event) error {
		mu.Lock()
		defer mu.Unlock()
		names[e.EventName()]++
		return nil
	})
	f.bus.Subscribe(events.NameSearchSubmitted, record)
	f.bus.Subscribe(events.NameSearchCompleted, record)
	f.bus.Subscribe(events.NameSearchFailed, record)

	ctx := context.Background()
	_, _ = f.svc.Submit(ctx, "jane doe")
	f.mock.FailNext(errors.New("boom"))
	_, _ = f.svc.Submit(ctx, "jane doe")
	f.bus.Wait()

	mu.Lock()
	defer mu.Unlock()
	if names[events.NameSearchSubmitted] != 2 || names[events.NameSearchCompleted] != 1 || names[events.NameSearchFailed] != 1 {
		t.Fatalf("unexpected event counts: %v", names)
	}
}

func TestConverseAdvancesScript(t *testing.T) {
	f := newFixture(t, 0, nil)
	ctx := context.Background()

	if _, err := f.svc.Submit(ctx, "Looking for John Caruso"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	st := f.svc.State()
	if st.Turn == nil || st.Turn.ScriptKey != "john caruso" {
		t.Fatalf("expected the john caruso script, got %+v", st.Turn)
	}

	for i := 1; i < conversation.StageCount; i++ {
		turn, err := f.svc.Converse(ctx, "he lives in Austin")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if turn.Index != i || len(turn.Results) != conversation.StageSizes[i] {
			t.Fatalf("turn %d: unexpected turn %+v", i, turn)
		}
	}

	last, err := f.svc.Converse(ctx, "anything else")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if last.Response != conversation.FallbackResponse {
		t.Fatalf("expected fallback response, got %q", last.Response)
	}
}

func TestConverseWithoutDialogueStartsOne(t *testing.T) {
	f := newFixture(t, 0, nil)
	ctx := context.Background()

	if _, err := f.svc.Converse(ctx, "  "); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error for an empty first message, got %v", err)
	}

	turn, err := f.svc.Converse(ctx, "sarah mitchell")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if turn.Index != 0 || turn.ScriptKey != "sarah mitchell" {
		t.Fatalf("unexpected turn %+v", turn)
	}
	if len(turn.Results) != conversation.StageSizes[0] {
		t.Fatalf("expected %d results, got %d", conversation.StageSizes[0], len(turn.Results))
	}
}

func TestConverseRejectsInjection(t *testing.T) {
	f := newFixture(t, 0, nil)
	if _, err := f.svc.Converse(context.Background(), "<script>"); !apperr.Is(err, apperr.KindInvalidQuery) {
		t.Fatalf("expected invalid query error, got %v", err)
	}
}

func TestDetailCyclesResponses(t *testing.T) {
	f := newFixture(t, 0, nil)
	first := f.svc.Detail("John Caruso", 0)
	if first == "" {
		t.Fatal("expected a detail response")
	}
	if got := f.svc.Detail("John Caruso", conversation.DetailResponseCount); got != first {
		t.Fatalf("expected responses to cycle, got %q", got)
	}
	if f.svc.Detail("Nobody Known", 0) == "" {
		t.Fatal("expected a default detail response")
	}
}

func TestUpload(t *testing.T) {
	f := newFixture(t, 0, nil)
	ctx := context.Background()

	res, err := f.svc.Upload(ctx, "photo.jpg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Success || res.Message != "File photo.jpg uploaded successfully" {
		t.Fatalf("unexpected upload result %+v", res)
	}

	if _, err := f.svc.Upload(ctx, " "); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestFilteredResultsFollowCriteria(t *testing.T) {
	f := newFixture(t, 0, nil)
	if _, err := f.svc.Submit(context.Background(), "jane doe"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f.svc.Filters().SetSort(domain.SortAge, domain.SortAsc)
	got := f.svc.FilteredResults()
	for i := 1; i < len(got); i++ {
		if got[i-1].Age > got[i].Age {
			t.Fatalf("expected ascending ages, got %d before %d", got[i-1].Age, got[i].Age)
		}
	}

	f.svc.Filters().ToggleCompany("Acme")
	st := f.svc.State()
	if len(st.Filtered) != 0 {
		t.Fatalf("expected a company selection to filter everything, got %d", len(st.Filtered))
	}
	if !st.FilterActive || st.FilterCount != 2 {
		t.Fatalf("expected 2 active filters, got active=%v count=%d", st.FilterActive, st.FilterCount)
	}
	if len(st.Results) == 0 {
		t.Fatal("expected raw results to be unaffected by filters")
	}
}

func TestSetFiltersAppliesPartialUpdates(t *testing.T) {
	f := newFixture(t, 0, nil)

	rating := 9.0
	order := domain.SortAsc
	got := f.svc.SetFilters(FilterUpdate{
		AgeRange:  &domain.AgeRange{Min: 50, Max: 30},
		MinRating: &rating,
		Locations: []string{"Austin, TX"},
		SortOrder: &order,
	})
	if got.AgeRange.Min != 30 || got.AgeRange.Max != 50 {
		t.Fatalf("expected swapped age bounds, got %+v", got.AgeRange)
	}
	if got.MinRating != domain.MaxRating {
		t.Fatalf("expected rating clamped to %v, got %v", domain.MaxRating, got.MinRating)
	}
	if !got.Locations.Has("Austin, TX") {
		t.Fatalf("expected location selection, got %v", got.Locations.Sorted())
	}
	if got.SortBy != domain.SortRelevance || got.SortOrder != domain.SortAsc {
		t.Fatalf("expected sort key kept and order changed, got %s/%s", got.SortBy, got.SortOrder)
	}

	got = f.svc.SetFilters(FilterUpdate{Locations: []string{}})
	if len(got.Locations) != 0 || got.AgeRange.Min != 30 {
		t.Fatal("expected only the location selection to clear")
	}

	reset := f.svc.ResetFilters()
	if filterCount := f.svc.State().FilterCount; filterCount != 0 || reset.SortOrder != domain.SortDesc {
		t.Fatalf("expected defaults after reset, got count %d", filterCount)
	}
}
