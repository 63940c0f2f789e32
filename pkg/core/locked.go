package core

import "sync"

// LockedBook wraps an OrderBook with an RWMutex for setups where
// readers live on other goroutines than the feed applier. The inner
// book itself stays single-writer.
type LockedBook struct {
	mu   sync.RWMutex
	book *OrderBook
}

// NewLockedBook wraps an existing book.
func NewLockedBook(book *OrderBook) *LockedBook {
	return &LockedBook{book: book}
}

// ApplySnapshot applies a snapshot under the write lock.
func (lb *LockedBook) ApplySnapshot(snap *BookSnapshot) (*CrossedBookWarning, error) {
	lb.mu.Lock()
	defer lb.mu.Unlock()
	return lb.book.ApplySnapshot(snap)
}

// ApplyDelta applies a delta under the write lock.
func (lb *LockedBook) ApplyDelta(delta BookDelta) (*CrossedBookWarning, error) {
	lb.mu.Lock()
	defer lb.mu.Unlock()
	return lb.book.ApplyDelta(delta)
}

// Dispose retires the book under the write lock.
func (lb *LockedBook) Dispose() {
	lb.mu.Lock()
	defer lb.mu.Unlock()
	lb.book.Dispose()
}

// Read runs fn with the read lock held. fn must not retain the book.
func (lb *LockedBook) Read(fn func(*OrderBook)) {
	lb.mu.RLock()
	defer lb.mu.RUnlock()
	fn(lb.book)
}

// BestBidPrice returns the highest bid price under the read lock.
func (lb *LockedBook) BestBidPrice() (Price, bool) {
	lb.mu.RLock()
	defer lb.mu.RUnlock()
	return lb.book.BestBidPrice()
}

// BestAskPrice returns the lowest ask price under the read lock.
func (lb *LockedBook) BestAskPrice() (Price, bool) {
	lb.mu.RLock()
	defer lb.mu.RUnlock()
	return lb.book.BestAskPrice()
}

// Spread returns the top-of-book spread under the read lock.
func (lb *LockedBook) Spread() (Price, bool) {
	lb.mu.RLock()
	defer lb.mu.RUnlock()
	return lb.book.Spread()
}

// Depth returns up to n levels of one side under the read lock.
func (lb *LockedBook) Depth(side Side, n int) []LevelView {
	lb.mu.RLock()
	defer lb.mu.RUnlock()
	return lb.book.Depth(side, n)
}
