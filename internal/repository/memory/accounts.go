package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/iliyamo/movie-ticket-booking/internal/model"
	"github.com/iliyamo/movie-ticket-booking/internal/repository"
)

// UserRepo is the in-memory account store.
type UserRepo struct {
	mu     sync.RWMutex
	nextID uint64
	users  map[uint64]model.User
}

func NewUserRepo() *UserRepo {
	return &UserRepo{users: map[uint64]model.User{}}
}

func (r *UserRepo) Create(_ context.Context, u *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return repository.ErrDuplicate
		}
	}
	r.nextID++
	now := time.Now().UTC()
	u.ID = r.nextID
	u.IsActive = true
	if u.MembershipTier == "" {
		u.MembershipTier = model.TierBasic
	}
	u.CreatedAt, u.UpdatedAt = now, now
	r.users[u.ID] = *u
	return nil
}

func (r *UserRepo) GetByID(_ context.Context, id uint64) (model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	return u, nil
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

func (r *UserRepo) GetByResetToken(_ context.Context, hash string, now time.Time) (model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if hash != "" && u.ResetTokenHash == hash && u.ResetExpiresAt != nil && u.ResetExpiresAt.After(now) {
			return u, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

func (r *UserRepo) AdjustWallet(_ context.Context, id uint64, delta float64, points int) error {
	return r.update(id, func(u *model.User) error {
		u.WalletBalance += delta
		u.LoyaltyPoints += points
		return nil
	})
}

func (r *UserRepo) DebitWallet(_ context.Context, id uint64, amount float64) error {
	return r.update(id, func(u *model.User) error {
		if u.WalletBalance < amount {
			return repository.ErrInsufficientFunds
		}
		u.WalletBalance -= amount
		return nil
	})
}

func (r *UserRepo) SetResetToken(_ context.Context, id uint64, hash string, exp time.Time) error {
	return r.update(id, func(u *model.User) error {
		u.ResetTokenHash = hash
		e := exp
		u.ResetExpiresAt = &e
		return nil
	})
}

func (r *UserRepo) ClearResetToken(_ context.Context, id uint64) error {
	return r.update(id, func(u *model.User) error {
		u.ResetTokenHash = ""
		u.ResetExpiresAt = nil
		return nil
	})
}

func (r *UserRepo) UpdatePassword(_ context.Context, id uint64, hash string) error {
	return r.update(id, func(u *model.User) error {
		u.PasswordHash = hash
		u.ResetTokenHash = ""
		u.ResetExpiresAt = nil
		return nil
	})
}

func (r *UserRepo) CountByRole(_ context.Context, role string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var n int64
	for _, u := range r.users {
		if role == "" || u.Role == role {
			n++
		}
	}
	return n, nil
}

func (r *UserRepo) update(id uint64, fn func(*model.User) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	if err := fn(&u); err != nil {
		return err
	}
	u.UpdatedAt = time.Now().UTC()
	r.users[id] = u
	return nil
}

type refreshRow struct {
	userID  uint64
	expires time.Time
	revoked bool
}

// TokenRepo is the in-memory refresh token store.
type TokenRepo struct {
	mu     sync.Mutex
	tokens map[string]refreshRow
}

func NewTokenRepo() *TokenRepo {
	return &TokenRepo{tokens: map[string]refreshRow{}}
}

func (r *TokenRepo) StoreRefresh(_ context.Context, userID uint64, tokenHash string, exp time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[tokenHash] = refreshRow{userID: userID, expires: exp}
	return nil
}

func (r *TokenRepo) ValidateRefresh(_ context.Context, tokenHash string) (uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.tokens[tokenHash]
	if !ok || row.revoked || time.Now().UTC().After(row.expires) {
		return 0, repository.ErrNotFound
	}
	return row.userID, nil
}

func (r *TokenRepo) RevokeByHash(_ context.Context, tokenHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if row, ok := r.tokens[tokenHash]; ok {
		row.revoked = true
		r.tokens[tokenHash] = row
	}
	return nil
}

func (r *TokenRepo) RevokeAllForUser(_ context.Context, userID uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for h, row := range r.tokens {
		if row.userID == userID {
			row.revoked = true
			r.tokens[h] = row
		}
	}
	return nil
}

func (r *TokenRepo) PurgeExpired(_ context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for h, row := range r.tokens {
		if row.expires.Before(cutoff) || row.revoked {
			delete(r.tokens, h)
			n++
		}
	}
	return n, nil
}
