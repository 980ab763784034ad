package stt

import "sync"

type opRecord struct {
	operation string
	diarize   bool
}

type opIndex struct {
	mu sync.RWMutex
	m  map[string]opRecord
}

func newOpIndex() *opIndex { return &opIndex{m: map[string]opRecord{}} }

func (i *opIndex) put(name string, rec opRecord) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.m[name] = rec
}

func (i *opIndex) get(name string) (opRecord, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	rec, ok := i.m[name]
	return rec, ok
}
