package cli

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/dmitrijs2005/spm/internal/common"
	"github.com/dmitrijs2005/spm/internal/cryptox"
)

const (
	masterPasswordPrompt = "Master Password: "
	maxPasswordAttempts  = 3
)

// passwordPrompt asks for the master password on first use and caches it
// for the rest of the process.
type passwordPrompt struct {
	w io.Writer

	mu       sync.Mutex
	password string
	asked    bool
}

func newPasswordPrompt(w io.Writer) *passwordPrompt {
	return &passwordPrompt{w: w}
}

// Get satisfies vault.PasswordFunc. Passwords scoring below Medium are
// rejected and asked again, at most maxPasswordAttempts times.
func (p *passwordPrompt) Get(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.asked {
		return p.password, nil
	}

	for attempt := 0; attempt < maxPasswordAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		pw, err := GetPassword(p.w, masterPasswordPrompt)
		if err != nil {
			return "", fmt.Errorf("read master password: %w", err)
		}
		password := string(pw)
		cryptox.Wipe(pw)

		if CheckStrength(password) >= Medium {
			p.password = password
			p.asked = true
			return password, nil
		}
		fmt.Fprintln(p.w, "Too weak password, try again.")
	}
	return "", common.ErrWeakPassword
}
