package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/iliyamo/movie-ticket-booking/internal/model"
)

const userColumns = "id,name,email,password_hash,role,is_active,wallet_balance,loyalty_points,membership_tier,reset_token_hash,reset_expires_at,created_at,updated_at"

// UserRepo persists accounts, including the wallet ledger columns, in MySQL.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Create inserts u and sets u.ID. The email is normalized first.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	if u.MembershipTier == "" {
		u.MembershipTier = model.TierBasic
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (name, email, password_hash, role, membership_tier) VALUES (?,?,?,?,?)",
		u.Name, u.Email, u.PasswordHash, u.Role, u.MembershipTier)
	if err != nil {
		if isDuplicateEntry(err) {
			return ErrDuplicate
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	u.ID = uint64(id)
	u.IsActive = true
	return nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id))
}

// GetByResetToken returns the user holding a reset token hash that is still
// valid at now.
func (r *UserRepo) GetByResetToken(ctx context.Context, hash string, now time.Time) (model.User, error) {
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE reset_token_hash=? AND reset_expires_at > ? LIMIT 1",
		hash, now.UTC()))
}

// AdjustWallet adds delta to the balance and points to the loyalty counter in
// a single statement.
func (r *UserRepo) AdjustWallet(ctx context.Context, id uint64, delta float64, points int) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET wallet_balance = wallet_balance + ?, loyalty_points = loyalty_points + ? WHERE id=?",
		delta, points, id)
	if err != nil {
		return err
	}
	return expectRow(res)
}

// DebitWallet subtracts amount only if the balance covers it.
func (r *UserRepo) DebitWallet(ctx context.Context, id uint64, amount float64) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET wallet_balance = wallet_balance - ? WHERE id=? AND wallet_balance >= ?",
		amount, id, amount)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return ErrInsufficientFunds
	}
	return nil
}

func (r *UserRepo) SetResetToken(ctx context.Context, id uint64, hash string, exp time.Time) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET reset_token_hash=?, reset_expires_at=? WHERE id=?", hash, exp.UTC(), id)
	if err != nil {
		return err
	}
	return expectRow(res)
}

func (r *UserRepo) ClearResetToken(ctx context.Context, id uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET reset_token_hash=NULL, reset_expires_at=NULL WHERE id=?", id)
	return err
}

// UpdatePassword stores a new hash and clears any outstanding reset token.
func (r *UserRepo) UpdatePassword(ctx context.Context, id uint64, hash string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET password_hash=?, reset_token_hash=NULL, reset_expires_at=NULL WHERE id=?", hash, id)
	if err != nil {
		return err
	}
	return expectRow(res)
}

// CountByRole is used by the admin dashboard. An empty role counts every
// account.
func (r *UserRepo) CountByRole(ctx context.Context, role string) (int64, error) {
	var n int64
	var err error
	if role == "" {
		err = r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&n)
	} else {
		err = r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM users WHERE role=?", role).Scan(&n)
	}
	return n, err
}

func (r *UserRepo) scanOne(row *sql.Row) (model.User, error) {
	var (
		u         model.User
		resetHash sql.NullString
		resetExp  sql.NullTime
	)
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.IsActive,
		&u.WalletBalance, &u.LoyaltyPoints, &u.MembershipTier, &resetHash, &resetExp,
		&u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrNotFound
	}
	if err != nil {
		return model.User{}, err
	}
	u.ResetTokenHash = resetHash.String
	if resetExp.Valid {
		t := resetExp.Time
		u.ResetExpiresAt = &t
	}
	return u, nil
}

func expectRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// isDuplicateEntry reports MySQL error 1062 (ER_DUP_ENTRY).
func isDuplicateEntry(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}
