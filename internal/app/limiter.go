package app

import "sync"

// ChatLimiter сериализует обработку апдейтов в рамках одного чата:
// пока в чате идёт один сценарий (поиск, разбор заявок), второй апдейт
// из того же чата ждёт. Разные чаты друг друга не блокируют.
type ChatLimiter struct {
	mu    sync.Mutex
	chats map[int64]*sync.Mutex
}

func NewChatLimiter() *ChatLimiter {
	return &ChatLimiter{chats: make(map[int64]*sync.Mutex)}
}

// lock захватывает мьютекс чата и возвращает функцию освобождения.
// Мьютексы чатов не удаляются: активных чатов за мероприятие сотни,
// утечка несущественна.
func (l *ChatLimiter) lock(chatID int64) func() {
	l.mu.Lock()
	cm, ok := l.chats[chatID]
	if !ok {
		cm = &sync.Mutex{}
		l.chats[chatID] = cm
	}
	l.mu.Unlock()

	cm.Lock()
	return cm.Unlock
}
