package pipeline

import (
	"context"
	"runtime"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/dropDatabas3/credseal/internal/credential"
)

// EncodeAll encodes records in parallel. Each encode is independent and
// CPU-bound, so concurrency is bounded by GOMAXPROCS. The first failing
// record aborts the batch and its error (with the record index) is
// returned; results is only valid when err is nil.
func (p *Pipeline) EncodeAll(ctx context.Context, records []credential.Record) ([]Result, error) {
	results := make([]Result, len(records))

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, rec := range records {
		i, rec := i, rec
		g.Go(func() error {
			res, err := p.ToBarcodeString(rec)
			if err != nil {
				return &BatchError{Index: i, Err: err}
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// BatchError señala qué record de un batch falló.
type BatchError struct {
	Index int
	Err   error
}

func (e *BatchError) Error() string {
	return "record " + strconv.Itoa(e.Index) + ": " + e.Err.Error()
}

func (e *BatchError) Unwrap() error { return e.Err }
