package usecase

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/sourcegraph/conc"
	"github.com/streamgoal/match-portal/internal/platform/logging"
)

// StreamValidationService probes match sources to decide which live matches
// are actually watchable. Results are cached asymmetrically: a positive
// result stands for ValidTTL, a negative one only for InvalidTTL so a source
// that comes back gets re-probed quickly.
type StreamValidationService struct {
	streams StreamSource
	logger  *logging.Logger

	validTTL     time.Duration
	invalidTTL   time.Duration
	gracePeriod  time.Duration
	probeTimeout time.Duration
	enabled      bool

	pool *ants.Pool

	mu        sync.Mutex
	cache     map[string]validationEntry
	inflight  map[string]struct{}
	startedAt time.Time

	baseCtx context.Context
	now     func() time.Time
}

type validationEntry struct {
	isValid   bool
	checkedAt time.Time
}

type StreamValidationConfig struct {
	ValidTTL     time.Duration
	InvalidTTL   time.Duration
	GracePeriod  time.Duration
	ProbeTimeout time.Duration
	BatchSize    int
	Enabled      bool
	Logger       *logging.Logger
}

func NewStreamValidationService(streams StreamSource, cfg StreamValidationConfig) (*StreamValidationService, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.ValidTTL <= 0 {
		cfg.ValidTTL = 150 * time.Second
	}
	if cfg.InvalidTTL <= 0 {
		cfg.InvalidTTL = 30 * time.Second
	}
	if cfg.GracePeriod < 0 {
		cfg.GracePeriod = 0
	}
	if cfg.ProbeTimeout <= 0 {
		cfg.ProbeTimeout = 5 * time.Second
	}
	if cfg.BatchSize < 1 {
		cfg.BatchSize = 5
	}

	pool, err := ants.NewPool(cfg.BatchSize)
	if err != nil {
		return nil, err
	}

	return &StreamValidationService{
		streams:      streams,
		logger:       logger,
		validTTL:     cfg.ValidTTL,
		invalidTTL:   cfg.InvalidTTL,
		gracePeriod:  cfg.GracePeriod,
		probeTimeout: cfg.ProbeTimeout,
		enabled:      cfg.Enabled,
		pool:         pool,
		cache:        make(map[string]validationEntry),
		inflight:     make(map[string]struct{}),
		baseCtx:      context.Background(),
		now:          time.Now,
	}, nil
}

// Close releases the probe worker pool.
func (s *StreamValidationService) Close() {
	s.pool.Release()
}

// Enqueue schedules probes for matches lacking a fresh cached result. A
// match already being probed is never queued twice. Probes run on a bounded
// worker pool so at most BatchSize matches are validated at once; the call
// itself returns immediately.
func (s *StreamValidationService) Enqueue(matches []UpstreamMatch) {
	if !s.enabled {
		return
	}

	s.mu.Lock()
	toValidate := make([]UpstreamMatch, 0, len(matches))
	for _, m := range matches {
		if m.ID == "" {
			continue
		}
		if _, running := s.inflight[m.ID]; running {
			continue
		}
		if _, known := s.freshResultLocked(m.ID); known {
			continue
		}
		s.inflight[m.ID] = struct{}{}
		toValidate = append(toValidate, m)
	}
	if len(toValidate) > 0 && s.startedAt.IsZero() {
		s.startedAt = s.now()
	}
	s.mu.Unlock()

	if len(toValidate) == 0 {
		return
	}

	s.logger.Debug("stream validation queued", "count", len(toValidate))

	// Submit blocks once the pool is saturated, so feed it off-goroutine.
	go func() {
		for _, m := range toValidate {
			m := m
			if err := s.pool.Submit(func() { s.runProbe(m) }); err != nil {
				s.finishProbe(m.ID, false)
			}
		}
	}()
}

func (s *StreamValidationService) runProbe(m UpstreamMatch) {
	isValid := s.Validate(s.baseCtx, m)
	s.finishProbe(m.ID, isValid)
}

func (s *StreamValidationService) finishProbe(matchID string, isValid bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cache[matchID] = validationEntry{isValid: isValid, checkedAt: s.now()}
	delete(s.inflight, matchID)
	if len(s.inflight) == 0 {
		s.startedAt = time.Time{}
	}
}

// Validate probes every source of one match concurrently and reports whether
// any of them serves a stream with an http(s) embed URL. A match without
// sources is never watchable; probe errors and timeouts count as failures.
func (s *StreamValidationService) Validate(ctx context.Context, m UpstreamMatch) bool {
	if len(m.Sources) == 0 {
		return false
	}

	var wg conc.WaitGroup
	var mu sync.Mutex
	found := false

	for _, src := range m.Sources {
		src := src
		wg.Go(func() {
			probeCtx, cancel := context.WithTimeout(ctx, s.probeTimeout)
			defer cancel()

			streams, err := s.streams.FetchStreams(probeCtx, src.Source, src.ID)
			if err != nil {
				return
			}
			if !hasPlayableStream(streams) {
				return
			}

			mu.Lock()
			found = true
			mu.Unlock()
		})
	}
	wg.Wait()

	return found
}

func hasPlayableStream(streams []UpstreamStream) bool {
	for _, stream := range streams {
		embedURL := strings.TrimSpace(stream.EmbedURL)
		if strings.HasPrefix(embedURL, "http://") || strings.HasPrefix(embedURL, "https://") {
			return true
		}
	}
	return false
}

// FilterWatchable applies the exposure rules to a live collection: matches
// with a fresh positive result are included, fresh negatives are excluded,
// and unresolved matches are held back only while validation is actively
// running and the grace period has not yet elapsed.
func (s *StreamValidationService) FilterWatchable(matches []UpstreamMatch) []UpstreamMatch {
	if !s.enabled {
		return matches
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	validating := len(s.inflight) > 0
	graceElapsed := !s.startedAt.IsZero() && s.now().Sub(s.startedAt) >= s.gracePeriod

	out := make([]UpstreamMatch, 0, len(matches))
	for _, m := range matches {
		isValid, known := s.freshResultLocked(m.ID)
		switch {
		case known && isValid:
			out = append(out, m)
		case known:
			// Validated with no playable streams.
		case graceElapsed || !validating:
			out = append(out, m)
		}
	}

	return out
}

// Prune drops cache entries past the positive TTL. Meant to be run on a
// scheduler tick so the cache does not grow with every match id ever seen.
func (s *StreamValidationService) Prune() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for id, entry := range s.cache {
		if now.Sub(entry.checkedAt) >= s.validTTL {
			delete(s.cache, id)
		}
	}
}

// Validating reports whether any probe is currently in flight.
func (s *StreamValidationService) Validating() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.inflight) > 0
}

func (s *StreamValidationService) freshResultLocked(matchID string) (isValid, known bool) {
	entry, ok := s.cache[matchID]
	if !ok {
		return false, false
	}

	ttl := s.validTTL
	if !entry.isValid {
		ttl = s.invalidTTL
	}
	if s.now().Sub(entry.checkedAt) >= ttl {
		return false, false
	}

	return entry.isValid, true
}
