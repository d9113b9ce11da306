// Package web содержит общие части HTML-интерфейса: сессии в cookie,
// flash-сообщения, текущего пользователя в контексте и рендеринг шаблонов.
package web

import (
	"crypto/sha256"
	"encoding/gob"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/sessions"
)

const (
	sessionName  = "stonks_session"
	rememberName = "remember_token"
	userIDKey    = "user_id"
)

// Категории flash-сообщений.
const (
	FlashInfo    = "info"
	FlashSuccess = "success"
	FlashError   = "error"
)

// Flash одноразовое сообщение, показываемое на следующей отрисованной странице.
type Flash struct {
	Category string
	Message  string
}

func init() {
	gob.Register(Flash{})
}

// Sessions хранит сессию пользователя и cookie "запомнить меня".
// Обе cookie подписаны и зашифрованы ключами, производными от секрета приложения.
type Sessions struct {
	store    *sessions.CookieStore
	remember *sessions.CookieStore
}

// NewSessions создает хранилища cookie.
// Сессионная cookie живет до закрытия браузера, cookie входа живет rememberFor.
func NewSessions(secret string, secure bool, rememberFor time.Duration) *Sessions {
	hashKey := sha256.Sum256([]byte("session-hash:" + secret))
	blockKey := sha256.Sum256([]byte("session-block:" + secret))

	store := sessions.NewCookieStore(hashKey[:], blockKey[:])
	store.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}

	remember := sessions.NewCookieStore(hashKey[:], blockKey[:])
	remember.MaxAge(int(rememberFor.Seconds()))
	remember.Options.HttpOnly = true
	remember.Options.Secure = secure
	remember.Options.SameSite = http.SameSiteLaxMode

	return &Sessions{store: store, remember: remember}
}

// session возвращает сессию запроса.
// Поврежденная или чужая cookie дает новую пустую сессию.
func (s *Sessions) session(r *http.Request) *sessions.Session {
	sess, _ := s.store.Get(r, sessionName)
	return sess
}

// AddFlash добавляет flash-сообщение и сохраняет сессию.
func (s *Sessions) AddFlash(w http.ResponseWriter, r *http.Request, category, message string) error {
	const op = "web.AddFlash"
	sess := s.session(r)
	sess.AddFlash(Flash{Category: category, Message: message})
	if err := sess.Save(r, w); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// PopFlashes возвращает накопленные flash-сообщения и удаляет их из сессии.
// Должна вызываться до записи заголовков ответа.
func (s *Sessions) PopFlashes(w http.ResponseWriter, r *http.Request) ([]Flash, error) {
	const op = "web.PopFlashes"
	sess := s.session(r)
	raw := sess.Flashes()
	if len(raw) == 0 {
		return nil, nil
	}
	flashes := make([]Flash, 0, len(raw))
	for _, v := range raw {
		if f, ok := v.(Flash); ok {
			flashes = append(flashes, f)
		}
	}
	if err := sess.Save(r, w); err != nil {
		return flashes, fmt.Errorf("%s: %w", op, err)
	}
	return flashes, nil
}

// Login записывает пользователя в сессию. При remember дополнительно
// выставляется долгоживущая cookie входа.
func (s *Sessions) Login(w http.ResponseWriter, r *http.Request, userID int64, remember bool) error {
	const op = "web.Login"
	sess := s.session(r)
	sess.Values[userIDKey] = userID
	if err := sess.Save(r, w); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !remember {
		return nil
	}
	rem, _ := s.remember.Get(r, rememberName)
	rem.Values[userIDKey] = userID
	if err := rem.Save(r, w); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Logout удаляет пользователя из сессии и стирает cookie входа.
// Flash-сообщения в сессии сохраняются.
func (s *Sessions) Logout(w http.ResponseWriter, r *http.Request) error {
	const op = "web.Logout"
	sess := s.session(r)
	delete(sess.Values, userIDKey)
	if err := sess.Save(r, w); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rem, _ := s.remember.Get(r, rememberName)
	delete(rem.Values, userIDKey)
	rem.Options.MaxAge = -1
	if err := rem.Save(r, w); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// UserID возвращает ID пользователя из сессии или из cookie входа.
func (s *Sessions) UserID(r *http.Request) (int64, bool) {
	if id, ok := s.session(r).Values[userIDKey].(int64); ok {
		return id, true
	}
	rem, err := s.remember.Get(r, rememberName)
	if err != nil {
		return 0, false
	}
	id, ok := rem.Values[userIDKey].(int64)
	return id, ok
}
