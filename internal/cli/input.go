package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// stdinName names standard input in results.
const stdinName = "-"

// source is one input read by a command.
type source struct {
	Name string
	Text string
}

// readSources reads every named file, or stdin when names is empty.
// Files are read concurrently; the result keeps the order of names.
func readSources(ctx context.Context, stdin io.Reader, names []string) ([]source, error) {
	if len(names) == 0 {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return []source{{Name: stdinName, Text: string(data)}}, nil
	}

	sources := make([]source, len(names))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(name)
			if err != nil {
				return fmt.Errorf("reading %s: %w", name, err)
			}
			log.Debugf("read %s (%d bytes)", name, len(data))
			sources[i] = source{Name: name, Text: string(data)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return sources, nil
}

// eachSource runs fn on every source concurrently and collects the results
// in source order. The first error cancels the rest.
func eachSource[T any](ctx context.Context, sources []source, fn func(context.Context, source) (T, error)) ([]T, error) {
	results := make([]T, len(sources))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for i, src := range sources {
		i, src := i, src
		g.Go(func() error {
			r, err := fn(gctx, src)
			if err != nil {
				if src.Name == stdinName {
					return err
				}
				return fmt.Errorf("%s: %w", src.Name, err)
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
