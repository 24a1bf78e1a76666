package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/rajivgeraev/skillswap-api/internal/seed"
)

// ErrInvalidCredentials - единственная категория отказа при входе
var ErrInvalidCredentials = errors.New("invalid credentials")

// Result - итог успешной проверки учётных данных
type Result struct {
	Success bool
	Role    string
	UserID  string
}

// Verifier проверяет пару идентификатор/секрет
type Verifier interface {
	Verify(ctx context.Context, identifier, secret string) (Result, error)
}

type credential struct {
	hash   []byte
	role   string
	userID string
}

// CredentialStore хранит bcrypt-хеши паролей в памяти
type CredentialStore struct {
	mu    sync.RWMutex
	cost  int
	creds map[string]credential
}

// NewCredentialStore создаёт пустое хранилище; cost <= 0 означает bcrypt.DefaultCost
func NewCredentialStore(cost int) *CredentialStore {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	return &CredentialStore{cost: cost, creds: make(map[string]credential)}
}

// Add сохраняет учётную запись, перезаписывая существующую
func (s *CredentialStore) Add(email, password, role, userID string) error {
	if email == "" || password == "" || userID == "" {
		return fmt.Errorf("incomplete credential for %q", email)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return fmt.Errorf("ошибка хеширования пароля: %w", err)
	}

	s.mu.Lock()
	s.creds[normalizeEmail(email)] = credential{hash: hash, role: role, userID: userID}
	s.mu.Unlock()
	return nil
}

// UserResolver находит ID пользователя по email
type UserResolver func(email string) (string, error)

// Seed добавляет демо-учётные записи; email должен принадлежать пользователю каталога
func (s *CredentialStore) Seed(accounts []seed.Account, resolve UserResolver) error {
	for _, a := range accounts {
		userID, err := resolve(a.Email)
		if err != nil {
			return fmt.Errorf("учётная запись %s: %w", a.Email, err)
		}
		role := a.Role
		if role == "" {
			role = "user"
		}
		if err := s.Add(a.Email, a.Password, role, userID); err != nil {
			return err
		}
	}
	return nil
}

// Verify реализует Verifier
func (s *CredentialStore) Verify(ctx context.Context, identifier, secret string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	s.mu.RLock()
	cred, ok := s.creds[normalizeEmail(identifier)]
	s.mu.RUnlock()
	if !ok {
		return Result{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(cred.hash, []byte(secret)); err != nil {
		return Result{}, ErrInvalidCredentials
	}
	return Result{Success: true, Role: cred.role, UserID: cred.userID}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
