// internal/aggregator/aggregator.go
package aggregator

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	custom_errors "portfolio-projects/internal/errors"
	"portfolio-projects/internal/model"
)

const (
	// PinnedLimit is the number of allow-list entries shown as cards.
	PinnedLimit = 6

	// Number of single-repository lookups in flight at once
	concurrency = 5
)

// RepoIdentifier holds the owner and name of a repository.
type RepoIdentifier struct {
	Owner string
	Name  string
}

// String returns "owner/name" as configured.
func (r RepoIdentifier) String() string {
	return r.Owner + "/" + r.Name
}

// ID returns the normalized identity.
func (r RepoIdentifier) ID() model.RepoID {
	return model.NewRepoID(r.String())
}

// RepoSource is the read side of the GitHub API used by the aggregator.
// Listings never fail: an inaccessible source yields the records collected so far.
type RepoSource interface {
	ListUserRepos(ctx context.Context, user string) []model.RepoRecord
	ListOrgRepos(ctx context.Context, org string) []model.RepoRecord
	GetRepository(ctx context.Context, owner, name string) (*model.RepoRecord, error)
}

// Result is the outcome of one aggregation run.
type Result struct {
	Cards  []model.ProjectCard
	Totals model.Totals
	// Repos is the number of distinct repositories folded into Totals.
	Repos int
}

// Aggregator computes pinned project cards and de-duplicated totals.
type Aggregator struct {
	source   RepoSource
	logger   *slog.Logger
	username string
	orgs     []string
	orgSet   map[string]struct{}
	repos    []RepoIdentifier
}

// NewAggregator creates a new Aggregator. repos is the allow-list in display order.
func NewAggregator(source RepoSource, logger *slog.Logger, username string, orgs, repos []string) (*Aggregator, error) {
	parsedRepos, err := ParseRepoIdentifiers(repos)
	if err != nil {
		return nil, err
	}

	orgSet := make(map[string]struct{}, len(orgs))
	for _, org := range orgs {
		orgSet[strings.ToLower(org)] = struct{}{}
	}

	return &Aggregator{
		source:   source,
		logger:   logger,
		username: username,
		orgs:     orgs,
		orgSet:   orgSet,
		repos:    parsedRepos,
	}, nil
}

// Pinned returns the allow-list entries rendered as cards, in order.
func (a *Aggregator) Pinned() []RepoIdentifier {
	return a.repos[:min(len(a.repos), PinnedLimit)]
}

// Run fetches every source and builds the cards and totals.
func (a *Aggregator) Run(ctx context.Context) Result {
	bulk := a.fetchListings(ctx)

	lookups := newLookupCache(func(ctx context.Context, id RepoIdentifier) (*model.RepoRecord, error) {
		return a.source.GetRepository(ctx, id.Owner, id.Name)
	})
	for i := range bulk {
		lookups.seed(&bulk[i])
	}

	individual := a.resolveListed(ctx, lookups)

	pinned := a.Pinned()
	cards := make([]model.ProjectCard, 0, len(pinned))
	for _, id := range pinned {
		rec, _ := lookups.get(id.ID())
		if rec == nil {
			cards = append(cards, Unavailable(id.String(), UnavailableReason))
			continue
		}
		cards = append(cards, FormatCard(*rec, a.orgSet))
	}

	ledger := NewLedger()
	for i := range bulk {
		ledger.Append(&bulk[i])
	}
	for _, rec := range individual {
		ledger.Append(rec)
	}

	totals := ledger.Totals()
	a.logger.Info("Aggregation finished",
		"listed", len(bulk), "looked_up", len(individual), "distinct", ledger.Len(),
		"stars", totals.Stars, "forks", totals.Forks, "cards", len(cards))

	return Result{Cards: cards, Totals: totals, Repos: ledger.Len()}
}

// fetchListings lists the user's repositories and every organization's
// repositories concurrently and returns their union in source order.
func (a *Aggregator) fetchListings(ctx context.Context) []model.RepoRecord {
	results := make([][]model.RepoRecord, len(a.orgs)+1)

	var g errgroup.Group
	if a.username != "" {
		g.Go(func() error {
			results[0] = a.source.ListUserRepos(ctx, a.username)
			return nil
		})
	}
	for i, org := range a.orgs {
		g.Go(func() error {
			results[i+1] = a.source.ListOrgRepos(ctx, org)
			return nil
		})
	}
	_ = g.Wait()

	var all []model.RepoRecord
	for _, recs := range results {
		all = append(all, recs...)
	}
	return all
}

// resolveListed looks up every allow-list entry absent from the listings.
// It returns the records that were found.
func (a *Aggregator) resolveListed(ctx context.Context, lookups *lookupCache) []*model.RepoRecord {
	var pending []RepoIdentifier
	queued := make(map[model.RepoID]struct{})
	for _, id := range a.repos {
		key := id.ID()
		if _, ok := queued[key]; ok {
			continue
		}
		queued[key] = struct{}{}
		if _, found := lookups.get(key); !found {
			pending = append(pending, id)
		}
	}

	results := make([]*model.RepoRecord, len(pending))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, id := range pending {
		g.Go(func() error {
			rec, err := lookups.resolve(gctx, id)
			if err != nil && !errors.Is(err, context.Canceled) {
				a.logger.Warn("Repository lookup failed", "owner", id.Owner, "repo", id.Name, "error", err)
			}
			results[i] = rec
			return nil
		})
	}
	_ = g.Wait()

	found := make([]*model.RepoRecord, 0, len(results))
	for _, rec := range results {
		if rec != nil {
			found = append(found, rec)
		}
	}
	return found
}

// ParseRepoIdentifiers parses "owner/name" strings.
func ParseRepoIdentifiers(repos []string) ([]RepoIdentifier, error) {
	var identifiers []RepoIdentifier
	for _, r := range repos {
		parts := strings.Split(strings.TrimSpace(r), "/")
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			return nil, &custom_errors.ErrInvalidRepoFormat{Repo: r}
		}
		identifiers = append(identifiers, RepoIdentifier{Owner: parts[0], Name: parts[1]})
	}
	return identifiers, nil
}
