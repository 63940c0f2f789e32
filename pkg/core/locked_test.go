package core

import (
	"fmt"
	"sync"
	"testing"
)

func TestLockedBookConcurrentReads(t *testing.T) {
	inner, err := NewOrderBook("LOCKED", 2)
	if err != nil {
		t.Fatalf("NewOrderBook: %v", err)
	}
	book := NewLockedBook(inner)

	if _, err := book.ApplySnapshot(testSnapshot()); err != nil {
		t.Fatalf("ApplySnapshot: %v", err)
	}

	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				if _, ok := book.BestBidPrice(); !ok {
					t.Errorf("bid side unexpectedly empty")
					return
				}
				book.Read(func(b *OrderBook) {
					b.Depth(Sell, 1)
				})
			}
		}()
	}

	for i := 0; i < 200; i++ {
		id := fmt.Sprintf("w-%d", i)
		if _, err := book.ApplyDelta(BookDelta{
			Action:   ActionAdd,
			Side:     Buy,
			Price:    MustPrice("99.00"),
			Quantity: MustQuantity("1"),
			OrderID:  id,
		}); err != nil {
			t.Fatalf("add %s: %v", id, err)
		}
		if _, err := book.ApplyDelta(BookDelta{
			Action:  ActionDelete,
			Side:    Buy,
			Price:   MustPrice("99.00"),
			OrderID: id,
		}); err != nil {
			t.Fatalf("delete %s: %v", id, err)
		}
	}
	wg.Wait()

	if spread, ok := book.Spread(); !ok || !spread.Equal(MustPrice("0.50")) {
		t.Errorf("Spread() = %v %v, want 0.50", spread, ok)
	}
}
