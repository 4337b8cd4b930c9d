package sheets

import (
	"context"
	"sync"

	"github.com/Veraticus/budget-manager/internal/report"
)

// MockWriter is a mock implementation of ReportWriter for testing.
type MockWriter struct {
	WriteFunc      func(ctx context.Context, r report.Report) (string, error)
	LastReport     report.Report
	WriteCalls     []WriteCall
	WriteCallCount int
	mu             sync.Mutex
}

// WriteCall represents a single call to Write.
type WriteCall struct {
	Error  error
	Report report.Report
}

// NewMockWriter creates a new mock writer.
func NewMockWriter() *MockWriter {
	return &MockWriter{
		WriteCalls: make([]WriteCall, 0),
	}
}

// Write implements the ReportWriter interface. Without a WriteFunc it returns "mock-spreadsheet".
func (m *MockWriter) Write(ctx context.Context, r report.Report) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.WriteCallCount++
	m.LastReport = r

	id, err := "mock-spreadsheet", error(nil)
	if m.WriteFunc != nil {
		id, err = m.WriteFunc(ctx, r)
	}

	m.WriteCalls = append(m.WriteCalls, WriteCall{Report: r, Error: err})
	return id, err
}

// GetWriteCalls returns a copy of all write calls.
func (m *MockWriter) GetWriteCalls() []WriteCall {
	m.mu.Lock()
	defer m.mu.Unlock()

	calls := make([]WriteCall, len(m.WriteCalls))
	copy(calls, m.WriteCalls)
	return calls
}

// SetWriteError configures the mock to fail every Write with err.
func (m *MockWriter) SetWriteError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.WriteFunc = func(context.Context, report.Report) (string, error) {
		return "", err
	}
}
