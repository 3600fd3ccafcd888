package user

import "time"

type User struct {
	ID           string     `json:"id" db:"user_id"`
	Name         string     `json:"name" db:"name"`
	Email        string     `json:"email" db:"email"`
	PasswordHash []byte     `json:"-" db:"password_hash"`
	Role         string     `json:"role" db:"role"`
	LockedUntil  *time.Time `json:"lockedUntil,omitempty" db:"locked_until"`
	CreatedAt    time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time  `json:"updatedAt" db:"updated_at"`
}

// Locked reports whether the account is currently locked out.
func (u User) Locked(now time.Time) bool {
	return u.LockedUntil != nil && u.LockedUntil.After(now)
}

// UserSignup is the self-service registration payload. The role set is
// deliberately narrower than the full claims set: nobody signs
// themselves up as an administrator.
type UserSignup struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"required,oneof=shopowner customer"`
}

// UserNew is the admin-side creation payload and may assign any role.
type UserNew struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"required,oneof=admin shopowner customer"`
}
