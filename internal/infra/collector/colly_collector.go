package collector

import (
	"fmt"
	"time"

	"github.com/gocolly/colly/v2"
	"github.com/sirupsen/logrus"

	"github.com/catalogtools/partcrawler/internal/config"
)

type collyCollector struct {
	colly *colly.Collector
}

func InitCollyCollector(cfg *config.Config, log *logrus.Logger) Collector {
	opts := []colly.CollectorOption{
		colly.Async(cfg.Colly.Async),
		colly.UserAgent(cfg.Colly.UserAgent),
	}
	if len(cfg.Colly.AllowedDomains) > 0 {
		opts = append(opts, colly.AllowedDomains(cfg.Colly.AllowedDomains...))
	}
	if cfg.Colly.IgnoreRobotsTxt {
		opts = append(opts, colly.IgnoreRobotsTxt())
	}

	c := colly.NewCollector(opts...)
	c.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Parallelism: cfg.Colly.Parallelism,
		Delay:       time.Duration(cfg.Colly.Delay) * time.Second,
		RandomDelay: time.Duration(cfg.Colly.RandomDelay) * time.Second,
	})

	log.Infof("collector ready: async=%v parallelism=%d delay=%ds randomDelay=%ds",
		cfg.Colly.Async, cfg.Colly.Parallelism, cfg.Colly.Delay, cfg.Colly.RandomDelay)

	return &collyCollector{colly: c}
}

func (c *collyCollector) Visit(url string) error {
	if err := c.colly.Visit(url); err != nil {
		return fmt.Errorf("failed to visit %s: %w", url, err)
	}
	return nil
}

func (c *collyCollector) Wait() {
	c.colly.Wait()
}

func (c *collyCollector) OnResponse(fn func(url string, statusCode int)) {
	c.colly.OnResponse(func(r *colly.Response) {
		fn(r.Request.URL.String(), r.StatusCode)
	})
}

func (c *collyCollector) OnError(fn func(url string, statusCode int, err error)) {
	c.colly.OnError(func(r *colly.Response, err error) {
		fn(r.Request.URL.String(), r.StatusCode, err)
	})
}
