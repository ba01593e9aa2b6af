package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/energy-forecast/internal/page"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newTestStore(maxSessions int, maxAge time.Duration) (*MemoryStore, *clock) {
	c := &clock{t: time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)}
	s := NewMemoryStore(maxSessions, maxAge)
	s.now = c.now
	return s, c
}

func TestCreateAndGet(t *testing.T) {
	s, _ := newTestStore(10, time.Hour)
	p := page.New(time.Now())

	sess := s.Create(p)
	require.NotEmpty(t, sess.ID)

	got, err := s.Get(sess.ID)
	require.NoError(t, err)
	assert.Same(t, p, got.Page)

	_, err = s.Get("not-a-uuid")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Get("9b2f4f0e-8f3c-4f7e-9d0c-1c2b3a4d5e6f")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCountRetentionDropsLeastRecentlySeen(t *testing.T) {
	s, c := newTestStore(2, 0)

	a := s.Create(page.New(time.Now()))
	c.t = c.t.Add(time.Minute)
	b := s.Create(page.New(time.Now()))
	c.t = c.t.Add(time.Minute)

	// Touch a so b becomes the oldest.
	_, err := s.Get(a.ID)
	require.NoError(t, err)
	c.t = c.t.Add(time.Minute)

	d := s.Create(page.New(time.Now()))
	assert.Equal(t, 2, s.Len())

	_, err = s.Get(b.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Get(a.ID)
	assert.NoError(t, err)
	_, err = s.Get(d.ID)
	assert.NoError(t, err)
}

func TestEvictExpired(t *testing.T) {
	s, c := newTestStore(0, 30*time.Minute)

	old := s.Create(page.New(time.Now()))
	c.t = c.t.Add(20 * time.Minute)
	fresh := s.Create(page.New(time.Now()))
	c.t = c.t.Add(15 * time.Minute)

	assert.Equal(t, 1, s.EvictExpired())
	assert.Equal(t, 1, s.Len())

	_, err := s.Get(old.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Get(fresh.ID)
	assert.NoError(t, err)
}
