// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rw1nkler/doxycheck/internal/check"
	"github.com/rw1nkler/doxycheck/internal/resolve"
	"github.com/rw1nkler/doxycheck/internal/watch"
)

// runWatchMode runs the check once, then again after every debounced change
// to a recognized source under the inputs. Each run gets a fresh staging
// root. Failures are reported and watching continues until ctx is canceled.
func runWatchMode(ctx context.Context, app *App, rf *rootFlagValues, cf *checkFlagValues, orch *check.Orchestrator, opts check.Options) error {
	roots, files, err := watchTargets(opts.Inputs)
	if err != nil {
		return classifyCheckError(err)
	}

	recheck := func(ctx context.Context) {
		if err := checkOnce(ctx, app, cf, orch, opts); err != nil {
			renderError(app.stderr, err, rf.verbosity > 0, rf.scheme)
		}
	}

	fmt.Fprintf(app.stderr, "%s Watch mode: initial check\n", PathStyle.Render("→"))
	recheck(ctx)

	w, err := watch.New(watch.Config{
		Roots:  roots,
		Files:  files,
		Match:  resolve.IsRecognized,
		Ignore: opts.Excludes,
		OnChange: func(ctx context.Context, changed []string) error {
			fmt.Fprintf(app.stderr, "\n%s Detected %d change(s), re-checking\n", PathStyle.Render("→"), len(changed))
			recheck(ctx)
			fmt.Fprintf(app.stderr, "%s Watching for changes (Ctrl+C to stop)\n", PathStyle.Render("→"))
			return nil
		},
		Stderr: app.stderr,
	})
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	fmt.Fprintf(app.stderr, "%s Watching for changes (Ctrl+C to stop)\n", PathStyle.Render("→"))
	return w.Run(ctx)
}

// watchTargets splits inputs into directories and loose files.
func watchTargets(inputs []string) (roots, files []string, err error) {
	for _, in := range inputs {
		info, statErr := os.Stat(in)
		if statErr != nil {
			return nil, nil, &resolve.InvalidInputError{Path: in, Reason: "does not exist", Err: statErr}
		}
		abs, absErr := filepath.Abs(in)
		if absErr != nil {
			return nil, nil, &resolve.InvalidInputError{Path: in, Reason: "cannot resolve absolute path", Err: absErr}
		}
		if info.IsDir() {
			roots = append(roots, abs)
		} else {
			files = append(files, abs)
		}
	}
	return roots, files, nil
}
