// Package export streams records out of a marathon export file. The export is
// one JSON document holding several large arrays; each array is read element
// by element so memory use stays flat regardless of file size.
package export

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"iter"
	"os"
	"strings"
)

// ErrNotFound is returned by Open when the export file does not exist.
var ErrNotFound = errors.New("export file not found")

// Export is a handle on an export file. Every Stream call reopens it.
type Export struct {
	path string
}

// Open checks that path names a readable regular file.
func Open(path string) (*Export, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("stat export: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrNotFound, path)
	}
	return &Export{path: path}, nil
}

// Path returns the file the export was opened from.
func (e *Export) Path() string {
	return e.path
}

// Stream yields the raw elements of the array found at the dotted path
// (e.g. "steps" or "data.steps"), one at a time, in file order. A path that is
// missing, or that leads to something other than an array, yields nothing.
// Stopping the iteration early closes the file.
func (e *Export) Stream(arrayPath string) iter.Seq2[json.RawMessage, error] {
	return func(yield func(json.RawMessage, error) bool) {
		f, err := os.Open(e.path)
		if err != nil {
			yield(nil, fmt.Errorf("open export: %w", err))
			return
		}
		defer f.Close()

		dec := json.NewDecoder(bufio.NewReaderSize(f, 1<<16))
		found, err := seek(dec, strings.Split(arrayPath, "."))
		if err != nil {
			yield(nil, fmt.Errorf("%s: %w", arrayPath, err))
			return
		}
		if !found {
			return
		}

		for dec.More() {
			var raw json.RawMessage
			if err := dec.Decode(&raw); err != nil {
				yield(nil, fmt.Errorf("%s: decode element: %w", arrayPath, err))
				return
			}
			if !yield(raw, nil) {
				return
			}
		}
		// closing ']'; a truncated file fails here
		if _, err := dec.Token(); err != nil {
			yield(nil, fmt.Errorf("%s: %w", arrayPath, tokenErr(err)))
		}
	}
}

// Records decodes each element of the array at arrayPath into a T. Unknown
// fields are ignored.
func Records[T any](e *Export, arrayPath string) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for raw, err := range e.Stream(arrayPath) {
			var rec T
			if err != nil {
				yield(rec, err)
				return
			}
			if err := json.Unmarshal(raw, &rec); err != nil {
				yield(rec, fmt.Errorf("%s: %w", arrayPath, err))
				return
			}
			if !yield(rec, nil) {
				return
			}
		}
	}
}

// seek advances dec to just inside the array at path. It reports false when
// the path does not lead to an array.
func seek(dec *json.Decoder, path []string) (bool, error) {
	for i, key := range path {
		ok, err := enterObjectKey(dec, key, i == 0)
		if err != nil || !ok {
			return false, err
		}
	}
	tok, err := dec.Token()
	if err != nil {
		return false, tokenErr(err)
	}
	if d, ok := tok.(json.Delim); ok && d == '[' {
		return true, nil
	}
	return false, nil
}

// enterObjectKey expects an object and consumes tokens up to and including the
// member name key, skipping the values of other members. An empty document
// counts as a missing key.
func enterObjectKey(dec *json.Decoder, key string, root bool) (bool, error) {
	tok, err := dec.Token()
	if root && errors.Is(err, io.EOF) {
		return false, nil
	}
	if err != nil {
		return false, tokenErr(err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return false, nil
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return false, tokenErr(err)
		}
		name, _ := tok.(string)
		if name == key {
			return true, nil
		}
		if err := skip(dec); err != nil {
			return false, err
		}
	}
	return false, nil
}

// skip consumes one complete value without keeping it.
func skip(dec *json.Decoder) error {
	depth := 0
	for {
		tok, err := dec.Token()
		if err != nil {
			return tokenErr(err)
		}
		if d, ok := tok.(json.Delim); ok {
			switch d {
			case '{', '[':
				depth++
			case '}', ']':
				depth--
			}
		}
		if depth == 0 {
			return nil
		}
	}
}

func tokenErr(err error) error {
	if errors.Is(err, io.EOF) {
		return io.ErrUnexpectedEOF
	}
	return err
}
