package localdump

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"sync"
	"sync/atomic"

	"github.com/toothbrush/opendata-dump/opendata"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
	"golang.org/x/sync/errgroup"
)

type Downloader struct {
	StorePath string
	API       *opendata.API

	// Workers above 1 downloads that many files at once.  Order on disk is then no longer the
	// order of the mapping, which only matters when two URLs share a file name.
	Workers int

	// ContinueOnError logs and skips resources that fail instead of aborting.
	ContinueOnError bool

	// Progress draws a bar on stderr.
	Progress bool

	Logger   *log.Logger
	loggerMu sync.Mutex
}

func (downloader *Downloader) logf(format string, a ...any) {
	downloader.loggerMu.Lock()
	defer downloader.loggerMu.Unlock()
	if downloader.Logger == nil {
		downloader.Logger = log.New(os.Stderr, "", log.LstdFlags)
	}
	downloader.Logger.Printf(format, a...)
}

// Download saves every resource of every record into StorePath, named after the last segment of
// its URL, and returns how many files were written.
func (downloader *Downloader) Download(ctx context.Context, result *opendata.IngestionResult) (int, error) {
	if err := os.MkdirAll(downloader.StorePath, 0750); err != nil {
		return 0, &DownloadError{Path: downloader.StorePath, Err: fmt.Errorf("couldn't create store directory: %w", err)}
	}
	stat, err := os.Stat(downloader.StorePath)
	if err != nil {
		return 0, &DownloadError{Path: downloader.StorePath, Err: fmt.Errorf("cannot stat store: %w", err)}
	}
	if !stat.IsDir() {
		return 0, &DownloadError{Path: downloader.StorePath, Err: errors.New("local store path not a directory")}
	}

	urls := result.URLs()
	clashes := Collisions(urls)
	for _, name := range CollisionNames(clashes) {
		downloader.logf("%d resources share the file name %s, the last one wins: %v\n", len(clashes[name]), name, clashes[name])
	}

	var p *mpb.Progress
	var bar *mpb.Bar
	if downloader.Progress && len(urls) > 0 {
		p = mpb.NewWithContext(ctx, mpb.WithWidth(64), mpb.WithOutput(os.Stderr))
		bar = p.AddBar(int64(len(urls)),
			mpb.PrependDecorators(
				decor.Name("resources:", decor.WC{C: decor.DindentRight | decor.DextraSpace}),
			),
			mpb.AppendDecorators(
				decor.CountersNoUnit("(%d/%d) "),
				decor.NewPercentage("%d"),
			),
		)
	}

	var count int
	if downloader.Workers > 1 {
		count, err = downloader.downloadParallel(ctx, urls, bar)
	} else {
		count, err = downloader.downloadSequential(ctx, urls, bar)
	}

	if p != nil {
		if err != nil {
			bar.Abort(false)
		}
		p.Wait()
	}

	return count, err
}

func (downloader *Downloader) downloadSequential(ctx context.Context, urls []string, bar *mpb.Bar) (int, error) {
	count := 0
	for _, u := range urls {
		if err := downloader.downloadOne(ctx, u); err != nil {
			if !downloader.ContinueOnError {
				return count, err
			}
			downloader.logf("Skipping: %v\n", err)
		} else {
			count++
		}
		if bar != nil {
			bar.Increment()
		}
	}
	return count, nil
}

func (downloader *Downloader) downloadParallel(ctx context.Context, urls []string, bar *mpb.Bar) (int, error) {
	var count atomic.Int64

	grp, gctx := errgroup.WithContext(ctx)
	grp.SetLimit(downloader.Workers)

	for _, u := range urls {
		grp.Go(func() error {
			defer func() {
				if bar != nil {
					bar.Increment()
				}
			}()

			if err := downloader.downloadOne(gctx, u); err != nil {
				if !downloader.ContinueOnError {
					return err
				}
				downloader.logf("Skipping: %v\n", err)
				return nil
			}
			count.Add(1)
			return nil
		})
	}

	err := grp.Wait()
	return int(count.Load()), err
}

func (downloader *Downloader) downloadOne(ctx context.Context, rawURL string) error {
	name, err := FileNameFromURL(rawURL)
	if err != nil {
		return &DownloadError{URL: rawURL, Err: err}
	}

	body, err := downloader.API.Fetch(ctx, rawURL)
	if err != nil {
		return &DownloadError{URL: rawURL, Err: err}
	}
	defer body.Close()

	if _, err := downloader.writeResource(name, body); err != nil {
		return &DownloadError{URL: rawURL, Path: name, Err: err}
	}

	return nil
}
