package messaging

import "sync"

// MockEventSender records sent events for tests.
type MockEventSender struct {
	mu      sync.Mutex
	tops    []*BookTopMessage
	crossed []*CrossedBookMessage
}

// NewMockEventSender creates a new MockEventSender.
func NewMockEventSender() *MockEventSender {
	return &MockEventSender{}
}

// SendBookTop records the message.
func (m *MockEventSender) SendBookTop(msg *BookTopMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tops = append(m.tops, msg)
	return nil
}

// SendCrossedBook records the message.
func (m *MockEventSender) SendCrossedBook(msg *CrossedBookMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.crossed = append(m.crossed, msg)
	return nil
}

// BookTops returns a copy of the recorded top-of-book messages.
func (m *MockEventSender) BookTops() []*BookTopMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*BookTopMessage, len(m.tops))
	copy(out, m.tops)
	return out
}

// CrossedBooks returns a copy of the recorded crossed-book messages.
func (m *MockEventSender) CrossedBooks() []*CrossedBookMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*CrossedBookMessage, len(m.crossed))
	copy(out, m.crossed)
	return out
}

// Close does nothing.
func (m *MockEventSender) Close() error {
	return nil
}

// Ensure MockEventSender implements EventSender
var _ EventSender = (*MockEventSender)(nil)
