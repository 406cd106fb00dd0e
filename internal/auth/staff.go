package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const (
	RoleStaff    = "staff"
	RoleCustomer = "customer"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type Account struct {
	Email        string
	Role         string
	PasswordHash string
}

// CredentialChecker verifies a password for an email and returns the account.
type CredentialChecker interface {
	Check(ctx context.Context, email, password string) (*Account, error)
}

// StaffDirectory is a static set of bcrypt-hashed staff accounts.
type StaffDirectory struct {
	accounts map[string]Account
}

// ParseStaffAccounts reads comma-separated "email:role:bcrypt-hash" entries.
func ParseStaffAccounts(list string) (*StaffDirectory, error) {
	d := &StaffDirectory{accounts: make(map[string]Account)}
	for _, entry := range strings.Split(list, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, ":", 3)
		if len(parts) != 3 || parts[0] == "" || parts[2] == "" {
			return nil, fmt.Errorf("staff account %q: want email:role:hash", entry)
		}
		email := strings.ToLower(strings.TrimSpace(parts[0]))
		d.accounts[email] = Account{Email: email, Role: strings.TrimSpace(parts[1]), PasswordHash: parts[2]}
	}
	return d, nil
}

func NewStaffDirectory(accounts ...Account) *StaffDirectory {
	d := &StaffDirectory{accounts: make(map[string]Account, len(accounts))}
	for _, a := range accounts {
		a.Email = strings.ToLower(strings.TrimSpace(a.Email))
		d.accounts[a.Email] = a
	}
	return d
}

func (d *StaffDirectory) Len() int { return len(d.accounts) }

func (d *StaffDirectory) Check(ctx context.Context, email, password string) (*Account, error) {
	acc, ok := d.accounts[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &acc, nil
}

var _ CredentialChecker = (*StaffDirectory)(nil)
