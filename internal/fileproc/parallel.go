// Package fileproc provides concurrent file processing utilities.
package fileproc

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/sourcegraph/conc/panics"
	"github.com/sourcegraph/conc/pool"
)

// ProcessingError represents an error that occurred while processing a file.
type ProcessingError struct {
	Path string
	Err  error
}

func (e ProcessingError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e ProcessingError) Unwrap() error {
	return e.Err
}

// ProcessingErrors collects multiple file processing errors.
type ProcessingErrors struct {
	Errors []ProcessingError
	mu     sync.Mutex
}

// Add appends an error to the collection (thread-safe).
func (e *ProcessingErrors) Add(path string, err error) {
	e.mu.Lock()
	e.Errors = append(e.Errors, ProcessingError{Path: path, Err: err})
	e.mu.Unlock()
}

// HasErrors returns true if any errors were collected.
func (e *ProcessingErrors) HasErrors() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.Errors) > 0
}

// Error implements the error interface.
func (e *ProcessingErrors) Error() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.Errors) == 0 {
		return "no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("%d files failed to process (first: %v)", len(e.Errors), e.Errors[0])
}

// DefaultWorkers returns the pool size used when none is configured: the
// number of CPUs the Go runtime may use simultaneously.
func DefaultWorkers() int {
	return runtime.GOMAXPROCS(0)
}

// ProgressFunc is called after each file is processed.
type ProgressFunc func()

// ErrorFunc is called when a file processing error occurs.
// Receives the file path and the error. If nil, errors are silently skipped.
type ErrorFunc func(path string, err error)

// Result carries the outcome of processing one file.
type Result[T any] struct {
	Index int // position of Path in the submitted list
	Path  string
	Value T
	Err   error
}

// Stream processes files on a bounded pool and delivers each outcome on the
// returned channel. The channel is buffered to len(files), so workers never
// block on send even if the receiver stops reading, and it is closed once
// every task has finished. A panic inside fn is reported as that file's Err.
// If maxWorkers is <= 0, DefaultWorkers is used.
func Stream[T any](files []string, maxWorkers int, fn func(string) (T, error)) <-chan Result[T] {
	out := make(chan Result[T], len(files))
	if len(files) == 0 {
		close(out)
		return out
	}
	if maxWorkers <= 0 {
		maxWorkers = DefaultWorkers()
	}

	go func() {
		p := pool.New().WithMaxGoroutines(maxWorkers)
		for i, path := range files {
			p.Go(func() {
				res := Result[T]{Index: i, Path: path}
				var pc panics.Catcher
				pc.Try(func() {
					res.Value, res.Err = fn(path)
				})
				if r := pc.Recovered(); r != nil {
					res.Err = r.AsError()
				}
				out <- res
			})
		}
		p.Wait()
		close(out)
	}()

	return out
}

// ForEachFileN processes files with configurable worker count and callbacks.
// Results are returned in arbitrary order. Callbacks run on the calling
// goroutine. If maxWorkers is <= 0, DefaultWorkers is used.
func ForEachFileN[T any](files []string, maxWorkers int, fn func(string) (T, error), onProgress ProgressFunc, onError ErrorFunc) []T {
	if len(files) == 0 {
		return nil
	}

	results := make([]T, 0, len(files))
	for res := range Stream(files, maxWorkers, fn) {
		if onProgress != nil {
			onProgress()
		}
		if res.Err != nil {
			if onError != nil {
				onError(res.Path, res.Err)
			}
			continue
		}
		results = append(results, res.Value)
	}
	return results
}

// ForEachFileCollectErrors processes files in parallel and collects all errors.
// Returns results and any errors that occurred during processing.
func ForEachFileCollectErrors[T any](files []string, maxWorkers int, fn func(string) (T, error), onProgress ProgressFunc) ([]T, *ProcessingErrors) {
	if len(files) == 0 {
		return nil, nil
	}

	errs := &ProcessingErrors{}
	results := ForEachFileN(files, maxWorkers, fn, onProgress, errs.Add)

	if !errs.HasErrors() {
		return results, nil
	}
	return results, errs
}
