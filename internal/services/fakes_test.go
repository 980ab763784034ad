package services

import (
	"context"
	"encoding/json"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yoockh/ayuda/internal/models"
	"github.com/yoockh/ayuda/internal/providers/stt"
	"github.com/yoockh/ayuda/internal/storage"
	"github.com/yoockh/ayuda/internal/utils"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

type memStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	putErr  error
}

func newMemStore() *memStore { return &memStore{objects: map[string][]byte{}} }

func (m *memStore) Put(_ context.Context, key string, data []byte, _ string) (storage.ObjectRef, error) {
	if m.putErr != nil {
		return storage.ObjectRef{}, m.putErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = append([]byte(nil), data...)
	return storage.ObjectRef{Bucket: "mem", Key: key, URI: "s3://mem/" + key}, nil
}

func (m *memStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.objects[key]
	if !ok {
		return nil, storage.ErrObjectNotFound
	}
	return b, nil
}

func (m *memStore) Bucket() string { return "mem" }
func (m *memStore) Close() error   { return nil }

// completingJobs reports IN_PROGRESS a fixed number of times, then writes
// the configured result document and reports COMPLETED.
type completingJobs struct {
	store    *memStore
	result   string
	pending  int
	failWith string

	mu    sync.Mutex
	polls map[string]int
}

func (c *completingJobs) StartJob(_ context.Context, _ stt.JobRequest) error { return nil }

func (c *completingJobs) GetJob(ctx context.Context, name string) (stt.JobSnapshot, error) {
	c.mu.Lock()
	if c.polls == nil {
		c.polls = map[string]int{}
	}
	n := c.polls[name]
	c.polls[name]++
	c.mu.Unlock()

	if n < c.pending {
		return stt.JobSnapshot{State: stt.StateInProgress}, nil
	}
	if c.failWith != "" {
		return stt.JobSnapshot{State: stt.StateFailed, FailureReason: c.failWith}, nil
	}
	key := "transcripts/" + name + ".json"
	if _, err := c.store.Put(ctx, key, []byte(c.result), "application/json"); err != nil {
		return stt.JobSnapshot{}, err
	}
	return stt.JobSnapshot{State: stt.StateCompleted, ResultKey: key}, nil
}

func (c *completingJobs) Close() error { return nil }

type instantTimer struct{ c chan time.Time }

func newInstantTimer() *instantTimer { return &instantTimer{c: make(chan time.Time, 1)} }

func (t *instantTimer) Start(time.Duration) { t.c <- time.Now() }
func (t *instantTimer) Stop()               {}
func (t *instantTimer) C() <-chan time.Time { return t.c }

type fakeSummarizer struct {
	out   string
	err   error
	calls int
	input string
}

func (f *fakeSummarizer) Summarize(_ context.Context, text string) (string, error) {
	f.calls++
	f.input = text
	return f.out, f.err
}

func (f *fakeSummarizer) Close() error { return nil }

type memTranscriptions struct {
	mu      sync.Mutex
	rows    map[string]models.Transcription
	failErr error
}

func newMemTranscriptions() *memTranscriptions {
	return &memTranscriptions{rows: map[string]models.Transcription{}}
}

func (m *memTranscriptions) Insert(_ context.Context, t *models.Transcription) error {
	if m.failErr != nil {
		return m.failErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[t.ID] = *t
	return nil
}

func (m *memTranscriptions) GetByID(_ context.Context, id string) (*models.Transcription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.rows[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	return &t, nil
}

type memSummaries struct {
	mu        sync.Mutex
	rows      map[string]models.Summary
	listCalls int
	failErr   error
}

func newMemSummaries() *memSummaries { return &memSummaries{rows: map[string]models.Summary{}} }

func (m *memSummaries) Insert(_ context.Context, s *models.Summary) error {
	if m.failErr != nil {
		return m.failErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[s.ID] = *s
	return nil
}

func (m *memSummaries) GetByID(_ context.Context, id string) (*models.Summary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.rows[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	return &s, nil
}

func (m *memSummaries) List(_ context.Context, _ int) ([]models.Summary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listCalls++
	out := make([]models.Summary, 0, len(m.rows))
	for _, s := range m.rows {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// memCache stores JSON encodings so hits behave like the redis cache.
type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (c *memCache) GetJSON(_ context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (c *memCache) SetJSON(_ context.Context, key string, val any, _ time.Duration) error {
	b, err := json.Marshal(val)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = b
	return nil
}

func (c *memCache) Del(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

func newTranscription(text string) *models.Transcription {
	return &models.Transcription{Text: text, Segments: []models.TranscriptSegment{}, Speakers: []string{}}
}
