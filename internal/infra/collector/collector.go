package collector

// Collector probes URLs over plain HTTP. The audit service registers its
// callbacks, feeds it stored links and waits for the queue to drain.
type Collector interface {
	Visit(url string) error
	Wait()
	OnResponse(fn func(url string, statusCode int))
	OnError(fn func(url string, statusCode int, err error))
}
