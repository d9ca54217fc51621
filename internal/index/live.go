// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"errors"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/pdiddy/bookshelf-qa/pkg/types"
)

// ErrNotLoaded is returned by Live.Current before the first Swap.
var ErrNotLoaded = errors.New("index: not loaded")

// Live publishes the current Index to concurrent readers. Readers load
// the pointer once per query and keep using that Index even if a reload
// swaps in a new one meanwhile.
type Live struct {
	p atomic.Pointer[Index]
}

// NewLive returns a holder serving idx.
func NewLive(idx *Index) *Live {
	l := &Live{}
	if idx != nil {
		l.p.Store(idx)
	}
	return l
}

// Current returns the index in service.
func (l *Live) Current() (*Index, error) {
	idx := l.p.Load()
	if idx == nil {
		return nil, ErrNotLoaded
	}
	return idx, nil
}

// Swap installs idx and returns the previous index, if any.
func (l *Live) Swap(idx *Index) *Index {
	return l.p.Swap(idx)
}

// Rebuild builds a fresh index from books and swaps it in. On failure
// the index in service is left untouched.
func (l *Live) Rebuild(books []types.Book, logger *zap.Logger) (Report, error) {
	idx, report, err := Build(books, logger)
	if err != nil {
		return report, err
	}
	l.Swap(idx)
	return report, nil
}
