/*
Copyright © 2025 Ambor <saltbo@foxmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/eslsoft/masterly/internal/adapter/fixture"
	"github.com/eslsoft/masterly/internal/app"
	"github.com/eslsoft/masterly/internal/infrastructure/config"
	"github.com/eslsoft/masterly/internal/repository"
)

func bindFlagToViper(key string, flag *pflag.Flag) {
	if flag == nil {
		return
	}
	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// bootstrap loads config, wires the container and seeds the stores from the snapshot file.
func bootstrap(ctx context.Context) (*app.Container, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	c, err := app.Initialize(cfg)
	if err != nil {
		return nil, err
	}

	snap, err := fixture.LoadSnapshot(cfg.Data.Concepts)
	if err != nil {
		return nil, fmt.Errorf("load study state: %w", err)
	}
	for _, concept := range snap.Concepts {
		if _, err := c.Concepts.Create(ctx, concept); err != nil {
			return nil, fmt.Errorf("load concept %s: %w", concept.Key, err)
		}
	}
	for _, spot := range snap.WeakSpots {
		if _, err := c.WeakSpots.Upsert(ctx, spot); err != nil {
			return nil, fmt.Errorf("load weak spot %s: %w", spot.ID, err)
		}
	}
	for _, log := range snap.Reviews {
		if err := c.Reviews.Append(ctx, log); err != nil {
			return nil, fmt.Errorf("load review log: %w", err)
		}
	}
	c.Logger.WithField("file", cfg.Data.Concepts).
		WithField("concepts", len(snap.Concepts)).
		Debug("study state loaded")
	return c, nil
}

// persist writes the current store contents back to the snapshot file.
func persist(ctx context.Context, c *app.Container) error {
	concepts, _, err := c.Concepts.List(ctx, &repository.ListConceptQuery{
		FilterOrder: repository.FilterOrder{OrderBy: "concept"},
	})
	if err != nil {
		return err
	}
	spots, err := c.WeakSpots.List(ctx, "", true)
	if err != nil {
		return err
	}
	logs, err := c.Reviews.List(ctx, "")
	if err != nil {
		return err
	}
	path := c.Config.Data.Concepts
	if err := fixture.SaveSnapshot(path, fixture.Snapshot{Concepts: concepts, WeakSpots: spots, Reviews: logs}); err != nil {
		return err
	}
	c.Logger.WithField("file", path).WithField("concepts", len(concepts)).Debug("study state saved")
	return nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
