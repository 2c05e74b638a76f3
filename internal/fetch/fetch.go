// Package fetch downloads a player's recent match timelines from Riot and
// caches them in the local store.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
	"golang.org/x/sync/errgroup"

	"github.com/pable/go-lol-positions/internal/model"
	"github.com/pable/go-lol-positions/internal/parser"
	"github.com/pable/go-lol-positions/internal/riot"
	"github.com/pable/go-lol-positions/internal/storage"
)

// Client is the subset of the Riot API used for ingestion.
type Client interface {
	AccountByRiotID(ctx context.Context, id riot.RiotID) (*riot.Account, error)
	MatchIDs(ctx context.Context, puuid string, q riot.MatchQuery) ([]string, error)
	Timeline(ctx context.Context, matchID string) ([]byte, error)
}

// Fetcher ingests timelines for one player at a time.
type Fetcher struct {
	Client  Client
	DB      *storage.DB
	Logger  *slog.Logger
	Workers int // concurrent timeline downloads; <= 0 means 1
}

// Result summarizes one Run.
type Result struct {
	Player     model.Player
	MatchIDs   []string         // as listed by Riot, most recent first
	Downloaded []string         // newly stored
	Cached     []string         // already stored before this run
	Failed     map[string]error // per-match download or validation failures
}

// Linked returns the ids linked to the player: every listed id that is now
// stored, in Riot's order.
func (r *Result) Linked() []string {
	out := make([]string, 0, len(r.MatchIDs))
	for _, id := range r.MatchIDs {
		if _, failed := r.Failed[id]; !failed {
			out = append(out, id)
		}
	}
	return out
}

// Run resolves id, lists its most recent count matches of queueType and
// stores every timeline not already cached. Failures on individual matches
// are collected in Result.Failed; only context cancellation and store
// errors abort the run.
func (f *Fetcher) Run(ctx context.Context, id riot.RiotID, count int, queueType string) (*Result, error) {
	logger := f.Logger
	if logger == nil {
		logger = slog.Default()
	}

	acct, err := f.Client.AccountByRiotID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("lookup account %s: %w", id, err)
	}
	player := model.Player{PUUID: acct.PUUID, GameName: acct.GameName, TagLine: acct.TagLine}
	if player.GameName == "" {
		player.GameName, player.TagLine = id.GameName, id.TagLine
	}
	if err := f.DB.UpsertPlayer(player); err != nil {
		return nil, fmt.Errorf("store player: %w", err)
	}
	logger.Info("resolved player", slog.String("riot_id", player.RiotID()), slog.String("puuid", player.PUUID))

	ids, err := f.Client.MatchIDs(ctx, player.PUUID, riot.MatchQuery{Count: count, Type: queueType})
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	res := &Result{Player: player, MatchIDs: ids, Failed: map[string]error{}}

	todo, cached, err := f.partition(ids)
	if err != nil {
		return nil, err
	}
	res.Cached = cached
	logger.Info("match list", slog.Int("listed", len(ids)), slog.Int("cached", len(cached)), slog.Int("to_download", len(todo)))

	downloaded, err := f.download(ctx, logger, todo, res.Failed)
	if err != nil {
		return nil, err
	}
	res.Downloaded = downloaded

	if err := f.DB.LinkPlayerMatches(player.PUUID, res.Linked()); err != nil {
		return nil, fmt.Errorf("link matches: %w", err)
	}
	return res, nil
}

// partition splits ids into those still to download and those already
// stored. The bloom filter answers most "not stored" cases without a query.
func (f *Fetcher) partition(ids []string) (todo, cached []string, err error) {
	stored, err := f.DB.StoredMatchIDs()
	if err != nil {
		return nil, nil, fmt.Errorf("stored matches: %w", err)
	}
	seen := bloom.NewWithEstimates(uint(max(len(stored), 1000)), 0.001)
	for _, id := range stored {
		seen.AddString(id)
	}

	for _, id := range ids {
		if seen.TestString(id) {
			ok, err := f.DB.MatchExists(id)
			if err != nil {
				return nil, nil, fmt.Errorf("check match %s: %w", id, err)
			}
			if ok {
				cached = append(cached, id)
				continue
			}
		}
		todo = append(todo, id)
	}
	return todo, cached, nil
}

// download fetches, validates and stores ids concurrently. Per-match
// failures go into failed; the returned ids keep the input order.
func (f *Fetcher) download(ctx context.Context, logger *slog.Logger, ids []string, failed map[string]error) ([]string, error) {
	workers := f.Workers
	if workers <= 0 {
		workers = 1
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	var mu sync.Mutex
	ok := make([]bool, len(ids))
	for i, id := range ids {
		g.Go(func() error {
			err := f.fetchOne(ctx, id)
			if err == nil {
				ok[i] = true
				logger.Debug("stored timeline", slog.String("match_id", id))
				return nil
			}
			if ctx.Err() != nil || errors.Is(err, errStore) {
				return err
			}
			logger.Warn("skip match", slog.String("match_id", id), slog.Any("err", err))
			mu.Lock()
			failed[id] = err
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]string, 0, len(ids))
	for i, id := range ids {
		if ok[i] {
			out = append(out, id)
		}
	}
	return out, nil
}

var errStore = errors.New("store timeline")

func (f *Fetcher) fetchOne(ctx context.Context, matchID string) error {
	doc, err := f.Client.Timeline(ctx, matchID)
	if err != nil {
		return err
	}
	tl, err := parser.ParseTimeline(doc)
	if err != nil {
		return err
	}
	if tl.MatchID != matchID {
		return fmt.Errorf("timeline %s: %w: document is for match %s", matchID, model.ErrMalformedTimeline, tl.MatchID)
	}
	if err := f.DB.InsertTimeline(matchID, len(tl.Frames), doc); err != nil {
		return fmt.Errorf("%w: %w", errStore, err)
	}
	return nil
}
