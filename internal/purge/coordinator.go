// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package purge

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/tidwall/gjson"
	"golang.org/x/sync/errgroup"

	"github.com/tarkovdev/purgectl/internal/delta"
	"github.com/tarkovdev/purgectl/internal/differ"
	"github.com/tarkovdev/purgectl/internal/log"
	"github.com/tarkovdev/purgectl/internal/snapshot"
)

// DefaultTimeout bounds one purge request when the Coordinator has no HTTP
// client of its own.
const DefaultTimeout = 30 * time.Second

// DeltaComputer computes the delta of a dataset snapshot. *delta.Client
// satisfies it.
type DeltaComputer interface {
	Compute(ctx context.Context, dataset string, snap snapshot.Snapshot, logger delta.Logger) (*delta.Delta, error)
}

// Coordinator turns dataset deltas into rate limited cache purges.
type Coordinator struct {
	Config Config
	Delta  DeltaComputer
	// HTTP defaults to a client with DefaultTimeout.
	HTTP *http.Client
	// Now defaults to time.Now.
	Now func() time.Time
	// Sleep defaults to time.Sleep.
	Sleep func(time.Duration)
}

// Purge computes the delta of snap and soft purges the changed types and the
// given raw queries from the cache. Only a failed diff is returned as an
// error; purge failures are reported to logger.
//
// Once a purge is scheduled it is sent even if ctx is cancelled during the
// cooldown wait.
func (c *Coordinator) Purge(ctx context.Context, dataset string, snap snapshot.Snapshot, logger delta.Logger, queries ...string) error {
	if c.Config.Ignored(dataset) {
		log.Debugf("purge: dataset %s is ignored", dataset)
		return nil
	}

	d, err := c.Delta.Compute(ctx, dataset, snap, logger)
	if err != nil {
		return err
	}

	delay := c.Config.Delay(c.now(), d.Updated)

	if c.Config.Token == "" {
		log.Debugf("purge: no token, skipping %s", dataset)
		return nil
	}
	if !Changed(d.Types, queries) {
		logger.Log("Nothing to purge from cache")
		return nil
	}

	mutation := Mutation(d.Types, queries)
	log.Tracef("purge mutation: %s", mutation)

	if delay > 0 {
		logger.Log(fmt.Sprintf("Purging cache in %d ms", delay.Milliseconds()))
		c.sleep(delay)
	}

	doc, err := c.send(context.WithoutCancel(ctx), mutation)
	if err != nil {
		logger.Error(fmt.Sprintf("Error purging %s cache: %v", dataset, err))
		return nil
	}

	if msgs := responseErrors(doc); len(msgs) > 0 {
		logger.Error(fmt.Sprintf("Error purging %s cache: %s", dataset, strings.Join(msgs, ", ")))
	}
	if data := doc.Get("data"); data.Exists() && data.IsObject() {
		logger.Log("Purged cache for: " + Summary(data, d.Types))
	}
	return nil
}

// PurgeAll purges several datasets concurrently, each with the logger
// loggers returns for it. Diff failures are joined.
func (c *Coordinator) PurgeAll(ctx context.Context, snaps map[string]snapshot.Snapshot, loggers func(dataset string) delta.Logger, queries ...string) error {
	datasets := make([]string, 0, len(snaps))
	for name := range snaps {
		datasets = append(datasets, name)
	}
	sort.Strings(datasets)

	var mu sync.Mutex
	var errs []error

	var g errgroup.Group
	g.SetLimit(max(1, c.Config.Parallel))
	for _, name := range datasets {
		g.Go(func() error {
			if err := c.Purge(ctx, name, snaps[name], loggers(name), queries...); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	return errors.Join(errs...)
}

// send posts mutation and returns the parsed response body.
func (c *Coordinator) send(ctx context.Context, mutation string) (gjson.Result, error) {
	body, err := json.Marshal(map[string]string{"query": mutation})
	if err != nil {
		return gjson.Result{}, fmt.Errorf("failed to encode request: %w", err)
	}

	url := c.Config.URL()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return gjson.Result{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("stellate-token", c.Config.Token)

	log.Debugf("purge: POST %s (%d bytes)", url, len(body))
	resp, err := c.client().Do(req)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	var doc bytes.Buffer
	if _, err := doc.ReadFrom(resp.Body); err != nil {
		return gjson.Result{}, fmt.Errorf("failed to read response: %w", err)
	}

	if !gjson.ValidBytes(doc.Bytes()) {
		return gjson.Result{}, fmt.Errorf("unexpected response: %s", resp.Status)
	}
	result := gjson.ParseBytes(doc.Bytes())
	if resp.StatusCode >= http.StatusBadRequest && !result.Get("errors").Exists() {
		return gjson.Result{}, fmt.Errorf("unexpected response: %s", resp.Status)
	}
	return result, nil
}

func (c *Coordinator) client() *http.Client {
	if c.HTTP != nil {
		return c.HTTP
	}
	return &http.Client{Timeout: DefaultTimeout}
}

func (c *Coordinator) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

func (c *Coordinator) sleep(d time.Duration) {
	if c.Sleep != nil {
		c.Sleep(d)
		return
	}
	time.Sleep(d)
}

// Changed reports whether a delta has anything to purge.
func Changed(types differ.Result, queries []string) bool {
	return len(types) > 0 || len(queries) > 0
}
