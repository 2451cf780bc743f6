// Package keymutex предоставляет набор мьютексов, адресуемых строковым ключом.
// Используется для сериализации записей по одному идентификатору сущности:
// обновления эмбеддингов разных пользователей идут параллельно,
// обновления одного и того же пользователя — строго по очереди.
package keymutex

import "sync"

// KeyMutex — арена мьютексов по ключу.
// Запись для ключа создается при первом Lock и удаляется,
// когда последний владелец вызывает Unlock.
type KeyMutex struct {
	mu    sync.Mutex
	locks map[string]*entry
}

type entry struct {
	mu   sync.Mutex
	refs int
}

func New() *KeyMutex {
	return &KeyMutex{
		locks: make(map[string]*entry),
	}
}

// Lock блокирует мьютекс для указанного ключа.
func (k *KeyMutex) Lock(key string) {
	k.mu.Lock()
	en, ok := k.locks[key]
	if !ok {
		en = &entry{}
		k.locks[key] = en
	}
	en.refs++
	k.mu.Unlock()

	en.mu.Lock()
}

// Unlock освобождает мьютекс для указанного ключа.
// Unlock без предшествующего Lock приводит к панике, как и у sync.Mutex.
func (k *KeyMutex) Unlock(key string) {
	k.mu.Lock()
	en, ok := k.locks[key]
	if !ok {
		k.mu.Unlock()
		panic("keymutex: unlock of unlocked key " + key)
	}
	en.refs--
	if en.refs == 0 {
		delete(k.locks, key)
	}
	k.mu.Unlock()

	en.mu.Unlock()
}
