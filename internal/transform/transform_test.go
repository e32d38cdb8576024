package transform

import (
	"context"
	"errors"
	"io"
	"log/slog"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeCursor is an in-memory cursor over string rows. scanErrAt marks a
// 1-based row whose Scan fails, to exercise per-row containment.
type fakeCursor struct {
	rows      [][]string
	idx       int
	iterErr   error
	scanErrAt int
	closed    bool
}

func (c *fakeCursor) Next() bool {
	if c.idx >= len(c.rows) {
		return false
	}
	c.idx++
	return true
}

func (c *fakeCursor) Scan(dest ...any) error {
	if c.scanErrAt == c.idx {
		return errors.New("conversion failed")
	}
	row := c.rows[c.idx-1]
	for i, d := range dest {
		*(d.(*string)) = row[i]
	}
	return nil
}

func (c *fakeCursor) Err() error { return c.iterErr }

func (c *fakeCursor) Close() error {
	c.closed = true
	return nil
}

// mockWriter records every cache operation. Replies default to "OK";
// responses overrides the reply per key and errKeys simulates connectivity
// failures.
type mockWriter struct {
	scalars   map[string]string
	records   map[string]map[string]string
	expired   []string
	order     []string // keys in write order, for ordering assertions
	responses map[string]string
	errKeys   map[string]error
}

func newMockWriter() *mockWriter {
	return &mockWriter{
		scalars:   make(map[string]string),
		records:   make(map[string]map[string]string),
		responses: make(map[string]string),
		errKeys:   make(map[string]error),
	}
}

func (m *mockWriter) reply(key string) (string, error) {
	if err, ok := m.errKeys[key]; ok {
		return "", err
	}
	if resp, ok := m.responses[key]; ok {
		return resp, nil
	}
	return "OK", nil
}

func (m *mockWriter) SetScalar(_ context.Context, key, value string) (string, error) {
	resp, err := m.reply(key)
	if err != nil {
		return "", err
	}
	m.scalars[key] = value
	m.order = append(m.order, key)
	return resp, nil
}

func (m *mockWriter) SetRecord(_ context.Context, key string, fields map[string]string) (string, error) {
	resp, err := m.reply(key)
	if err != nil {
		return "", err
	}
	m.records[key] = fields
	m.order = append(m.order, key)
	return resp, nil
}

func (m *mockWriter) SetExpire(_ context.Context, key string) error {
	if err, ok := m.errKeys["expire:"+key]; ok {
		return err
	}
	m.expired = append(m.expired, key)
	return nil
}
