// Package audit rechecks stored product links with a plain HTTP collector,
// reporting the ones that no longer resolve.
package audit

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/catalogtools/partcrawler/internal/infra/collector"
)

// LinkSource lists the distinct product links held in the store.
type LinkSource interface {
	Links(ctx context.Context) ([]string, error)
}

// Result is the outcome of one audit pass.
type Result struct {
	Checked int
	Alive   int
	Dead    []DeadLink
}

// DeadLink is a stored link that failed its probe.
type DeadLink struct {
	URL        string
	StatusCode int
	Err        string
}

type Auditor struct {
	collector collector.Collector
	source    LinkSource
	log       *logrus.Logger
}

func InitAuditor(c collector.Collector, source LinkSource, log *logrus.Logger) *Auditor {
	return &Auditor{collector: c, source: source, log: log}
}

// Run probes every stored link and returns the tally. Callbacks fire from
// the collector's worker goroutines, so the tallies are mutex-guarded.
func (a *Auditor) Run(ctx context.Context) (*Result, error) {
	links, err := a.source.Links(ctx)
	if err != nil {
		return nil, err
	}
	a.log.Infof("auditing %d stored links", len(links))

	var mu sync.Mutex
	res := &Result{}

	a.collector.OnResponse(func(url string, statusCode int) {
		mu.Lock()
		defer mu.Unlock()
		res.Checked++
		if statusCode >= 200 && statusCode < 400 {
			res.Alive++
			return
		}
		res.Dead = append(res.Dead, DeadLink{URL: url, StatusCode: statusCode})
	})
	a.collector.OnError(func(url string, statusCode int, err error) {
		mu.Lock()
		defer mu.Unlock()
		res.Checked++
		res.Dead = append(res.Dead, DeadLink{URL: url, StatusCode: statusCode, Err: err.Error()})
	})

	for _, link := range links {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := a.collector.Visit(link); err != nil {
			a.log.Warnf("failed to queue %s: %v", link, err)
		}
	}
	a.collector.Wait()

	a.log.Infof("audit complete: %d checked, %d alive, %d dead", res.Checked, res.Alive, len(res.Dead))
	for _, d := range res.Dead {
		a.log.Warnf("dead link %s (status %d) %s", d.URL, d.StatusCode, d.Err)
	}
	return res, nil
}
