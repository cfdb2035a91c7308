package resthttp

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

const flashCookie = "flash"

// FlashStore хранит одноразовые сообщения между POST и следующим GET.
// В cookie лежит только случайный токен, сам текст остаётся на сервере.
type FlashStore struct {
	mu    sync.Mutex
	cache *cache.Cache
	ttl   time.Duration
}

// NewFlashStore создаёт хранилище; сообщение, которое никто не прочитал, исчезает через ttl.
func NewFlashStore(ttl time.Duration) *FlashStore {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &FlashStore{
		cache: cache.New(ttl, 2*ttl),
		ttl:   ttl,
	}
}

// Set запоминает сообщение и выставляет cookie с токеном.
func (f *FlashStore) Set(w http.ResponseWriter, msg string) {
	token := uuid.NewString()
	f.cache.Set(token, msg, cache.DefaultExpiration)

	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(f.ttl / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Pop возвращает сообщение один раз и гасит cookie. Вызывать до записи тела ответа.
func (f *FlashStore) Pop(w http.ResponseWriter, r *http.Request) string {
	c, err := r.Cookie(flashCookie)
	if err != nil || c.Value == "" {
		return ""
	}

	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.cache.Get(c.Value)
	if !ok {
		return ""
	}
	f.cache.Delete(c.Value)

	msg, _ := v.(string)
	return msg
}
