package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sourcegraph/conc"
	"github.com/streamgoal/match-portal/internal/domain/match"
	"github.com/streamgoal/match-portal/internal/domain/sport"
	"github.com/streamgoal/match-portal/internal/platform/cache"
	"github.com/streamgoal/match-portal/internal/platform/logging"
)

// MatchList is a merged match view. Degraded is set when at least one of the
// underlying collections failed to load and the view was assembled from the
// rest.
type MatchList struct {
	Matches  []match.Match
	Degraded bool
}

// MatchDetail is a single resolved match plus related matches of the same
// sport.
type MatchDetail struct {
	Match    match.Match
	Related  []match.Match
	Degraded bool
}

type SportsView struct {
	Sports   []sport.WithCounts
	Degraded bool
}

// DashboardView is the main portal feed: the merged match list plus the
// validated live matches on their own.
type DashboardView struct {
	Matches  []match.Match
	Live     []match.Match
	Degraded bool
}

type FeedConfig struct {
	LiveWindow       time.Duration
	DedupWindow      time.Duration
	LiveSnapshotTTL  time.Duration
	TodaySnapshotTTL time.Duration
	AllSnapshotTTL   time.Duration
	Logger           *logging.Logger
}

// FeedService reconciles the overlapping upstream collections into
// deduplicated, status-consistent views. Raw collections are cached at their
// poll cadence and normalized per request so derived statuses track the
// current time.
type FeedService struct {
	source     MatchSource
	images     ImageURLResolver
	validation *StreamValidationService
	snapshots  *cache.Store
	logger     *logging.Logger

	liveWindow  time.Duration
	dedupWindow time.Duration
	ttlLive     time.Duration
	ttlToday    time.Duration
	ttlAll      time.Duration

	failMu      sync.Mutex
	lastFailure map[string]time.Time

	now func() time.Time
}

func NewFeedService(source MatchSource, images ImageURLResolver, validation *StreamValidationService, snapshots *cache.Store, cfg FeedConfig) *FeedService {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.LiveWindow <= 0 {
		cfg.LiveWindow = match.DefaultLiveWindow
	}
	if cfg.LiveSnapshotTTL <= 0 {
		cfg.LiveSnapshotTTL = 15 * time.Second
	}
	if cfg.TodaySnapshotTTL <= 0 {
		cfg.TodaySnapshotTTL = 30 * time.Second
	}
	if cfg.AllSnapshotTTL <= 0 {
		cfg.AllSnapshotTTL = 60 * time.Second
	}
	if snapshots == nil {
		snapshots = cache.NewStore(cfg.TodaySnapshotTTL)
	}

	return &FeedService{
		source:      source,
		images:      images,
		validation:  validation,
		snapshots:   snapshots,
		logger:      logger,
		liveWindow:  cfg.LiveWindow,
		dedupWindow: cfg.DedupWindow,
		ttlLive:     cfg.LiveSnapshotTTL,
		ttlToday:    cfg.TodaySnapshotTTL,
		ttlAll:      cfg.AllSnapshotTTL,
		lastFailure: make(map[string]time.Time),
		now:         time.Now,
	}
}

// Dashboard merges the sport, today and validated live collections for the
// main feed. Validated live matches win every id collision and keep live
// status.
func (s *FeedService) Dashboard(ctx context.Context, sportID string) (DashboardView, error) {
	ctx, span := startUsecaseSpan(ctx, "FeedService.Dashboard")
	defer span.End()

	sportID = strings.TrimSpace(strings.ToLower(sportID))
	if sportID == "" {
		sportID = CollectionAll
	}

	raws, failures := s.fetchCollections(ctx, sportID, CollectionToday, CollectionLive)
	if failures == 3 {
		return DashboardView{}, fmt.Errorf("%w: all match collections failed", ErrDependencyUnavailable)
	}

	liveRaws := raws[CollectionLive]
	if s.validation != nil {
		s.validation.Enqueue(liveRaws)
		liveRaws = s.validation.FilterWatchable(liveRaws)
	}
	validatedLive := s.normalize(liveRaws, true)

	merged := match.MergeByPrecedence(
		s.normalize(raws[sportID], false),
		s.normalize(raws[CollectionToday], false),
		match.ForceLiveAll(validatedLive),
	)

	return DashboardView{
		Matches:  merged,
		Live:     match.ForceLiveAll(validatedLive),
		Degraded: failures > 0,
	}, nil
}

// Search merges all known collections and filters by a case-insensitive
// query over team names, league and sport.
func (s *FeedService) Search(ctx context.Context, query string) (MatchList, error) {
	ctx, span := startUsecaseSpan(ctx, "FeedService.Search")
	defer span.End()

	list, err := s.allMatches(ctx)
	if err != nil {
		return MatchList{}, err
	}

	query = strings.TrimSpace(strings.ToLower(query))
	if query == "" {
		return list, nil
	}

	filtered := make([]match.Match, 0, len(list.Matches))
	for _, m := range list.Matches {
		if matchesQuery(m, query) {
			filtered = append(filtered, m)
		}
	}
	list.Matches = filtered

	return list, nil
}

// Popular merges today's and live matches and keeps the upstream-flagged
// popular ones. Live entries arrive already carrying live status; no
// override pass is applied here.
func (s *FeedService) Popular(ctx context.Context) (MatchList, error) {
	ctx, span := startUsecaseSpan(ctx, "FeedService.Popular")
	defer span.End()

	raws, failures := s.fetchCollections(ctx, CollectionToday, CollectionLive)
	if failures == 2 {
		return MatchList{}, fmt.Errorf("%w: all match collections failed", ErrDependencyUnavailable)
	}

	merged := match.MergeByPrecedence(
		s.normalize(raws[CollectionToday], false),
		s.normalize(raws[CollectionLive], true),
	)

	popular := make([]match.Match, 0, len(merged))
	for _, m := range merged {
		if m.IsHot {
			popular = append(popular, m)
		}
	}

	return MatchList{Matches: popular, Degraded: failures > 0}, nil
}

// Schedule merges today's matches with a sport collection, the sport
// collection winning collisions.
func (s *FeedService) Schedule(ctx context.Context, sportID string) (MatchList, error) {
	ctx, span := startUsecaseSpan(ctx, "FeedService.Schedule")
	defer span.End()

	sportID = strings.TrimSpace(strings.ToLower(sportID))
	if sportID == "" {
		sportID = CollectionAll
	}

	raws, failures := s.fetchCollections(ctx, CollectionToday, sportID)
	if failures == 2 {
		return MatchList{}, fmt.Errorf("%w: all match collections failed", ErrDependencyUnavailable)
	}

	merged := match.MergeByPrecedence(
		s.normalize(raws[CollectionToday], false),
		s.normalize(raws[sportID], false),
	)

	return MatchList{Matches: merged, Degraded: failures > 0}, nil
}

// Sports derives the sport catalogue with match counts from the merged view
// of every collection.
func (s *FeedService) Sports(ctx context.Context) (SportsView, error) {
	ctx, span := startUsecaseSpan(ctx, "FeedService.Sports")
	defer span.End()

	list, err := s.allMatches(ctx)
	if err != nil {
		return SportsView{}, err
	}

	upstreamNames := s.sportNames(ctx)

	counts := make(map[string]*sport.WithCounts)
	for _, m := range list.Matches {
		if m.Sport == "" {
			continue
		}
		sportID := strings.ToLower(m.Sport)
		entry := counts[sportID]
		if entry == nil {
			// Curated names win; the upstream catalogue only names sports
			// the curated map does not know.
			name, known := sport.MappedName(sportID)
			if !known {
				if upstream := upstreamNames[sportID]; upstream != "" {
					name = upstream
				} else {
					name = sport.DisplayName(sportID)
				}
			}
			entry = &sport.WithCounts{ID: sportID, Name: name}
			counts[sportID] = entry
		}
		entry.Matches++
		switch m.Status {
		case match.StatusLive:
			entry.LiveMatches++
		case match.StatusUpcoming:
			entry.UpcomingMatches++
		}
	}

	sports := make([]sport.WithCounts, 0, len(counts))
	for _, entry := range counts {
		sports = append(sports, *entry)
	}
	sport.SortByActivity(sports)

	return SportsView{Sports: sports, Degraded: list.Degraded}, nil
}

// MatchByID resolves one match across all collections: exact id first, then
// the leading slug segment, then substring containment. Related matches
// share the sport and exclude the match itself.
func (s *FeedService) MatchByID(ctx context.Context, matchID string) (MatchDetail, error) {
	ctx, span := startUsecaseSpan(ctx, "FeedService.MatchByID")
	defer span.End()

	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return MatchDetail{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	list, err := s.allMatches(ctx)
	if err != nil {
		return MatchDetail{}, err
	}

	found, ok := findMatch(list.Matches, matchID)
	if !ok {
		return MatchDetail{}, fmt.Errorf("%w: match %q", ErrNotFound, matchID)
	}

	related := make([]match.Match, 0, maxRelatedMatches)
	for _, m := range list.Matches {
		if m.ID == found.ID || !strings.EqualFold(m.Sport, found.Sport) {
			continue
		}
		related = append(related, m)
		if len(related) == maxRelatedMatches {
			break
		}
	}

	return MatchDetail{Match: found, Related: related, Degraded: list.Degraded}, nil
}

// RefreshCollection force-fetches one collection and replaces its snapshot.
// Driven by the background scheduler at the collection's poll cadence.
func (s *FeedService) RefreshCollection(ctx context.Context, collection string) {
	items, err := s.source.FetchCollection(ctx, collection)
	if err != nil {
		s.markFailure(collection)
		s.logger.WarnContext(ctx, "collection refresh failed, keeping previous snapshot", "collection", collection, "error", err)
		return
	}
	s.snapshots.SetWithTTL(ctx, snapshotKey(collection), items, s.snapshotTTL(collection))

	if collection == CollectionLive && s.validation != nil {
		s.validation.Enqueue(items)
	}
}

const maxRelatedMatches = 6

func (s *FeedService) allMatches(ctx context.Context) (MatchList, error) {
	raws, failures := s.fetchCollections(ctx, CollectionAll, CollectionToday, CollectionLive)
	if failures == 3 {
		return MatchList{}, fmt.Errorf("%w: all match collections failed", ErrDependencyUnavailable)
	}

	merged := match.MergeByPrecedence(
		s.normalize(raws[CollectionAll], false),
		s.normalize(raws[CollectionToday], false),
		match.ForceLiveAll(s.normalize(raws[CollectionLive], true)),
	)

	return MatchList{Matches: merged, Degraded: failures > 0}, nil
}

// fetchCollections loads the named collections in parallel. A failed
// collection contributes an empty slice and bumps the failure count; callers
// decide whether partial data is acceptable.
func (s *FeedService) fetchCollections(ctx context.Context, collections ...string) (map[string][]UpstreamMatch, int) {
	var (
		mu       sync.Mutex
		failures int
	)
	out := make(map[string][]UpstreamMatch, len(collections))

	var wg conc.WaitGroup
	for _, name := range collections {
		name := name
		wg.Go(func() {
			items, err := s.rawCollection(ctx, name)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failures++
				out[name] = nil
				return
			}
			out[name] = items
		})
	}
	wg.Wait()

	return out, failures
}

func (s *FeedService) rawCollection(ctx context.Context, collection string) ([]UpstreamMatch, error) {
	if s.recentlyFailed(collection) {
		return nil, fmt.Errorf("%w: collection %q recently failed", ErrDependencyUnavailable, collection)
	}

	value, err := s.snapshots.GetOrLoadTTL(ctx, snapshotKey(collection), s.snapshotTTL(collection), func(ctx context.Context) (any, error) {
		items, loadErr := s.source.FetchCollection(ctx, collection)
		if loadErr != nil {
			s.markFailure(collection)
			return nil, loadErr
		}
		return items, nil
	})
	if err != nil {
		return nil, err
	}

	items, ok := value.([]UpstreamMatch)
	if !ok {
		return nil, fmt.Errorf("unexpected snapshot payload type %T", value)
	}

	return items, nil
}

// markFailure and recentlyFailed implement the fetch dedup window: after a
// collection fails, repeated requests inside the window fail fast instead of
// hammering the provider again.
func (s *FeedService) markFailure(collection string) {
	if s.dedupWindow <= 0 {
		return
	}
	s.failMu.Lock()
	s.lastFailure[collection] = s.now()
	s.failMu.Unlock()
}

func (s *FeedService) recentlyFailed(collection string) bool {
	if s.dedupWindow <= 0 {
		return false
	}
	s.failMu.Lock()
	defer s.failMu.Unlock()

	failedAt, ok := s.lastFailure[collection]
	if !ok {
		return false
	}
	if s.now().Sub(failedAt) >= s.dedupWindow {
		delete(s.lastFailure, collection)
		return false
	}
	return true
}

// sportNames loads the upstream sport catalogue when the source exposes one.
// Failures are non-fatal: the curated and title-cased names cover the gap.
func (s *FeedService) sportNames(ctx context.Context) map[string]string {
	src, ok := s.source.(SportSource)
	if !ok {
		return nil
	}

	value, err := s.snapshots.GetOrLoadTTL(ctx, "sports", s.ttlAll, func(ctx context.Context) (any, error) {
		return src.FetchSports(ctx)
	})
	if err != nil {
		s.logger.DebugContext(ctx, "sport catalogue fetch failed", "error", err)
		return nil
	}

	sports, ok := value.([]UpstreamSport)
	if !ok {
		return nil
	}

	names := make(map[string]string, len(sports))
	for _, item := range sports {
		if item.ID == "" || item.Name == "" {
			continue
		}
		names[strings.ToLower(item.ID)] = item.Name
	}

	return names
}

func (s *FeedService) snapshotTTL(collection string) time.Duration {
	switch collection {
	case CollectionLive:
		return s.ttlLive
	case CollectionAll:
		return s.ttlAll
	default:
		return s.ttlToday
	}
}

func snapshotKey(collection string) string {
	return "collection:" + collection
}

func (s *FeedService) normalize(raws []UpstreamMatch, fromLive bool) []match.Match {
	now := s.now()
	out := make([]match.Match, 0, len(raws))
	for _, raw := range raws {
		if m, ok := s.normalizeOne(raw, fromLive, now); ok {
			out = append(out, m)
		}
	}
	return out
}

// normalizeOne maps one raw record into the portal match shape. Records
// whose team names cannot be resolved from structured data or the title are
// dropped entirely.
func (s *FeedService) normalizeOne(raw UpstreamMatch, fromLive bool, now time.Time) (match.Match, bool) {
	if raw.ID == "" {
		return match.Match{}, false
	}

	var home, away, homeBadge, awayBadge string
	if raw.Teams != nil {
		if raw.Teams.Home != nil {
			home = strings.TrimSpace(raw.Teams.Home.Name)
			homeBadge = raw.Teams.Home.Badge
		}
		if raw.Teams.Away != nil {
			away = strings.TrimSpace(raw.Teams.Away.Name)
			awayBadge = raw.Teams.Away.Badge
		}
	}
	if home == "" || away == "" {
		if parsedHome, parsedAway, ok := match.ParseTeamsFromTitle(raw.Title); ok {
			if home == "" {
				home = parsedHome
			}
			if away == "" {
				away = parsedAway
			}
		}
	}
	if home == "" || away == "" {
		return match.Match{}, false
	}

	status := match.DeriveStatus(raw.Date, now, s.liveWindow, fromLive)

	m := match.Match{
		ID:        raw.ID,
		Sport:     raw.Category,
		Home:      home,
		Away:      away,
		League:    match.ExtractLeague(raw.Title, raw.Category),
		Status:    status,
		Time:      match.TimeLabel(raw.Date, status, now),
		Date:      raw.Date,
		IsHot:     raw.Popular,
		Thumbnail: s.images.PosterURL(raw.Poster),
	}
	if homeBadge != "" {
		m.HomeLogo = s.images.BadgeURL(homeBadge)
	}
	if awayBadge != "" {
		m.AwayLogo = s.images.BadgeURL(awayBadge)
	}

	return m, true
}

func matchesQuery(m match.Match, query string) bool {
	for _, field := range []string{m.Home, m.Away, m.League, m.Sport} {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}

func findMatch(matches []match.Match, matchID string) (match.Match, bool) {
	for _, m := range matches {
		if m.ID == matchID {
			return m, true
		}
	}

	if idx := strings.IndexByte(matchID, '-'); idx > 0 {
		prefix := matchID[:idx]
		for _, m := range matches {
			if m.ID == prefix {
				return m, true
			}
		}
	}

	for _, m := range matches {
		if strings.Contains(matchID, m.ID) || strings.Contains(m.ID, matchID) {
			return m, true
		}
	}

	return match.Match{}, false
}
