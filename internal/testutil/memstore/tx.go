package memstore

import (
	"context"
	"sync/atomic"
)

// TxManager выполняет функцию без транзакции: атомарность обеспечивают условные операции Store
type TxManager struct {
	calls atomic.Int64
}

// Do вызывает fn с исходным контекстом
func (m *TxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls.Add(1)
	return fn(ctx)
}

// Calls количество вызовов Do
func (m *TxManager) Calls() int {
	return int(m.calls.Load())
}
