package opendata

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
)

// Resolver turns landing-page URLs into the resource lists of the datasets they describe.
type Resolver struct {
	API *API

	// ContinueOnError logs and skips a seed whose page or metadata can't be fetched or parsed,
	// rather than failing the whole run.
	ContinueOnError bool

	Logger *log.Logger
}

func (resolver *Resolver) logger() *log.Logger {
	if resolver.Logger == nil {
		return log.New(os.Stderr, "", log.LstdFlags)
	}
	return resolver.Logger
}

// Resolve visits each seed in order.  A seed whose page mentions no node is skipped and produces
// no record.
func (resolver *Resolver) Resolve(ctx context.Context, seeds []string) (*IngestionResult, error) {
	logger := resolver.logger()
	result := NewIngestionResult()

	for i, seed := range seeds {
		ids, record, err := resolver.ResolveSeed(ctx, seed)
		if errors.Is(err, ErrNoNodeID) {
			logger.Printf("Skipping seed %d (%s): no /node/ link to %s on the page.\n", i+1, seed, resolver.API.NodeDomain())
			continue
		}
		if err != nil {
			if resolver.ContinueOnError && isSkippable(err) {
				logger.Printf("Skipping seed %d (%s): %v\n", i+1, seed, err)
				continue
			}
			return nil, fmt.Errorf("opendata: couldn't resolve seed %d (%s): %w", i+1, seed, err)
		}

		if len(ids) > 1 {
			logger.Printf("Seed %d (%s) links to %d nodes, using %s.\n", i+1, seed, len(ids), ids[0])
		}
		result.Set(ids.String(), record)
	}

	return result, nil
}

// ErrNoNodeID is returned by ResolveSeed when the landing page has no node link.
var ErrNoNodeID = errors.New("opendata: no node ID on landing page")

// ResolveSeed fetches one landing page and the package metadata for the first node it links to.
func (resolver *Resolver) ResolveSeed(ctx context.Context, seed string) (NodeIDs, Record, error) {
	ids, pkg, err := resolver.resolvePackage(ctx, seed)
	if err != nil {
		return ids, Record{}, err
	}

	record := Record{
		Data: make([]string, 0, len(pkg.Resources)),
	}
	for _, resource := range pkg.Resources {
		record.Data = append(record.Data, resource.URL)
	}

	return ids, record, nil
}

// Describe resolves one seed to the full package, for when we want more than the resource URLs.
func (resolver *Resolver) Describe(ctx context.Context, seed string) (string, *Package, error) {
	ids, pkg, err := resolver.resolvePackage(ctx, seed)
	if err != nil {
		return "", nil, err
	}
	id, _ := ids.First()
	return id, pkg, nil
}

func (resolver *Resolver) resolvePackage(ctx context.Context, seed string) (NodeIDs, *Package, error) {
	body, err := resolver.API.GetLandingPage(ctx, seed)
	if err != nil {
		return nil, nil, err
	}

	ids := resolver.API.NodeIDs(body)
	id, ok := ids.First()
	if !ok {
		return ids, nil, ErrNoNodeID
	}

	pkg, err := resolver.API.PackageShow(ctx, PackageShowQuery{ID: id})
	if err != nil {
		return ids, nil, err
	}

	return ids, pkg, nil
}

func isSkippable(err error) bool {
	var netErr *NetworkError
	var parseErr *ParseError
	return errors.As(err, &netErr) || errors.As(err, &parseErr)
}
