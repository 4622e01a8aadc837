package memory

import (
	"context"
	"sync"
	"time"
)

// Sequence contador diario de números de tarea por negocio.
type Sequence struct {
	mu   sync.Mutex
	next map[string]int64
}

// NewSequence crea la secuencia en memoria.
func NewSequence() *Sequence {
	return &Sequence{next: make(map[string]int64)}
}

// Next implementa ports.TaskNumberSequence.
func (s *Sequence) Next(ctx context.Context, businessID string, day time.Time) (int64, error) {
	key := businessID + ":" + day.UTC().Format("20060102")
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next[key]++
	return s.next[key], nil
}

// EvidenceStore guarda evidencias en memoria; URL con esquema memory://.
type EvidenceStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

// NewEvidenceStore crea el almacén de evidencias en memoria.
func NewEvidenceStore() *EvidenceStore {
	return &EvidenceStore{objects: make(map[string][]byte)}
}

// Upload implementa ports.EvidenceStore.
func (s *EvidenceStore) Upload(ctx context.Context, key, contentType string, data []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = append([]byte(nil), data...)
	return "memory://" + key, nil
}

// Object devuelve el contenido guardado bajo key.
func (s *EvidenceStore) Object(key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.objects[key]
	return b, ok
}
