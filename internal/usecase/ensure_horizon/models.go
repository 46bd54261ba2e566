package ensure_horizon

import "time"

// Response результат материализации окна
type Response struct {
	From      time.Time // Первый день окна
	To        time.Time // Последний день окна (включительно)
	Requested int       // Сколько недостающих слотов было подготовлено к вставке
	Inserted  int       // Сколько реально вставлено (меньше Requested при конкурентной генерации)
}
