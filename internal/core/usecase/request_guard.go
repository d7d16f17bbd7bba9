package usecase

import (
	"context"
	"sync"
)

// RequestGuard реализует правило "побеждает последний запрос" для одного клиента.
// Новый запрос с тем же ключом отменяет контекст предыдущего,
// а результат предыдущего считается устаревшим.
type RequestGuard struct {
	mu       sync.Mutex
	seq      uint64
	inflight map[string]*Ticket
}

// Ticket - отметка об одном запросе в RequestGuard.
type Ticket struct {
	guard  *RequestGuard
	key    string
	id     uint64
	cancel context.CancelFunc
}

func NewRequestGuard() *RequestGuard {
	return &RequestGuard{inflight: make(map[string]*Ticket)}
}

// Begin регистрирует новый запрос и отменяет предыдущий запрос этого клиента.
func (g *RequestGuard) Begin(ctx context.Context, key string) (context.Context, *Ticket) {
	ctx, cancel := context.WithCancel(ctx)

	g.mu.Lock()
	defer g.mu.Unlock()

	g.seq++
	t := &Ticket{guard: g, key: key, id: g.seq, cancel: cancel}
	if prev, ok := g.inflight[key]; ok {
		prev.cancel()
	}
	g.inflight[key] = t
	return ctx, t
}

// IsCurrent - true, пока после этого запроса не начался более новый.
func (t *Ticket) IsCurrent() bool {
	t.guard.mu.Lock()
	defer t.guard.mu.Unlock()

	cur, ok := t.guard.inflight[t.key]
	return ok && cur.id == t.id
}

// Release освобождает контекст запроса. Запись удаляется, только если запрос все еще последний.
func (t *Ticket) Release() {
	t.cancel()

	t.guard.mu.Lock()
	defer t.guard.mu.Unlock()

	if cur, ok := t.guard.inflight[t.key]; ok && cur.id == t.id {
		delete(t.guard.inflight, t.key)
	}
}

// Inflight - количество клиентов с незавершенным запросом.
func (g *RequestGuard) Inflight() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.inflight)
}
