package usecase

import "sync/atomic"

// SourceVersion - монотонный счетчик версии данных источника.
// Входит в ключи кэша, поэтому Bump инвалидирует все закэшированные результаты.
type SourceVersion struct {
	v atomic.Uint64
}

func NewSourceVersion() *SourceVersion {
	return &SourceVersion{}
}

func (s *SourceVersion) Current() uint64 {
	return s.v.Load()
}

func (s *SourceVersion) Bump() uint64 {
	return s.v.Add(1)
}
