package audit

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCollector replays a canned status per URL when Wait is called,
// mimicking an async queue that drains on Wait.
type fakeCollector struct {
	statuses   map[string]int
	failures   map[string]error
	queued     []string
	onResponse func(url string, statusCode int)
	onError    func(url string, statusCode int, err error)
}

func (f *fakeCollector) Visit(url string) error {
	f.queued = append(f.queued, url)
	return nil
}

func (f *fakeCollector) Wait() {
	for _, url := range f.queued {
		if err, ok := f.failures[url]; ok {
			f.onError(url, 0, err)
			continue
		}
		f.onResponse(url, f.statuses[url])
	}
}

func (f *fakeCollector) OnResponse(fn func(string, int)) { f.onResponse = fn }

func (f *fakeCollector) OnError(fn func(string, int, error)) { f.onError = fn }

type fakeLinkSource struct {
	links []string
	err   error
}

func (f *fakeLinkSource) Links(context.Context) ([]string, error) { return f.links, f.err }

func discardLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestRunTalliesDeadAndAliveLinks(t *testing.T) {
	c := &fakeCollector{
		statuses: map[string]int{
			"https://www.example.com/a/": 200,
			"https://www.example.com/b/": 404,
		},
		failures: map[string]error{
			"https://www.example.com/c/": errors.New("connection refused"),
		},
	}
	source := &fakeLinkSource{links: []string{
		"https://www.example.com/a/",
		"https://www.example.com/b/",
		"https://www.example.com/c/",
	}}

	res, err := InitAuditor(c, source, discardLogger()).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, res.Checked)
	assert.Equal(t, 1, res.Alive)
	require.Len(t, res.Dead, 2)
	assert.Equal(t, 404, res.Dead[0].StatusCode)
	assert.Equal(t, "connection refused", res.Dead[1].Err)
}

func TestRunSurfacesSourceError(t *testing.T) {
	source := &fakeLinkSource{err: errors.New("store unreachable")}
	_, err := InitAuditor(&fakeCollector{}, source, discardLogger()).Run(context.Background())
	assert.EqualError(t, err, "store unreachable")
}
