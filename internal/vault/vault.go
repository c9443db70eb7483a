// Package vault is the repository service: it creates the master key, unlocks
// it with the master password, and adds, lists and resolves signed account
// records kept in a store.Store.
package vault

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/dmitrijs2005/spm/internal/common"
	"github.com/dmitrijs2005/spm/internal/config"
	"github.com/dmitrijs2005/spm/internal/cryptox"
	"github.com/dmitrijs2005/spm/internal/keys"
	"github.com/dmitrijs2005/spm/internal/keywrap"
	"github.com/dmitrijs2005/spm/internal/logging"
	"github.com/dmitrijs2005/spm/internal/record"
	"github.com/dmitrijs2005/spm/internal/store"
	"github.com/dmitrijs2005/spm/internal/syncer"
)

// PasswordFunc supplies the master password. It is called whenever the key
// has to be unwrapped, so implementations usually cache the answer.
type PasswordFunc func(ctx context.Context) (string, error)

// Service implements the vault operations on top of a store and a syncer.
type Service struct {
	cfg      *config.Config
	store    store.Store
	sync     syncer.Syncer
	password PasswordFunc
	log      logging.Logger

	rand io.Reader
	now  func() time.Time
}

// New returns a Service. A nil syncer disables synchronization.
func New(cfg *config.Config, st store.Store, sy syncer.Syncer, password PasswordFunc, log logging.Logger) *Service {
	if sy == nil {
		sy = syncer.Noop{}
	}
	return &Service{
		cfg:      cfg,
		store:    st,
		sync:     sy,
		password: password,
		log:      log,
		now:      time.Now,
	}
}

// push runs the syncer and only logs a failure.
func (s *Service) push(ctx context.Context, message string) {
	if err := s.sync.Push(ctx, message); err != nil {
		s.log.Warn(ctx, "sync failed", "message", message, "error", err)
	}
}

// Init creates a new master key, wraps it with the master password and stores
// the wrapped key together with its public key.
func (s *Service) Init(ctx context.Context) (*keys.PublicKey, error) {
	_, err := s.store.ReadBlob(ctx, common.KeyBlobName)
	if err == nil {
		return nil, common.ErrAlreadyInitialized
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, fmt.Errorf("read key blob: %w", err)
	}

	password, err := s.password(ctx)
	if err != nil {
		return nil, err
	}

	priv, err := keys.GeneratePrivateKey(s.rand)
	if err != nil {
		return nil, fmt.Errorf("generate key: %w", err)
	}
	defer priv.Wipe()

	blob, err := keywrap.Wrap(priv, password)
	if err != nil {
		return nil, fmt.Errorf("wrap key: %w", err)
	}

	pub := priv.PublicKey()
	if err := s.store.WriteBlob(ctx, common.KeyBlobName, blob); err != nil {
		return nil, err
	}
	if err := s.store.WriteBlob(ctx, common.PublicKeyBlobName, pub.Bytes()); err != nil {
		return nil, err
	}
	s.log.Info(ctx, "repository initialized", "pubkey", pub.String())

	if err := s.sync.Init(ctx); err != nil {
		s.log.Warn(ctx, "sync init failed", "error", err)
	}
	s.push(ctx, "repository initialized")

	return pub, nil
}

// unlock unwraps the master key and checks it against the stored public key.
// Repositories without a public key blob are checked against their records
// instead: at least one record must verify. The caller wipes the key.
func (s *Service) unlock(ctx context.Context) (*keys.PrivateKey, error) {
	blob, err := s.store.ReadBlob(ctx, common.KeyBlobName)
	if errors.Is(err, common.ErrorNotFound) {
		return nil, common.ErrNotInitialized
	}
	if err != nil {
		return nil, fmt.Errorf("read key blob: %w", err)
	}

	password, err := s.password(ctx)
	if err != nil {
		return nil, err
	}

	priv, err := keywrap.Unwrap(blob, password)
	if errors.Is(err, cryptox.ErrInvalidKey) {
		return nil, common.ErrWrongPassword
	}
	if err != nil {
		return nil, err
	}

	ok, err := s.matches(ctx, priv.PublicKey())
	if err != nil || !ok {
		priv.Wipe()
		if err == nil {
			err = common.ErrWrongPassword
		}
		return nil, err
	}
	return priv, nil
}

func (s *Service) matches(ctx context.Context, candidate *keys.PublicKey) (bool, error) {
	stored, err := s.store.ReadBlob(ctx, common.PublicKeyBlobName)
	if err == nil {
		pub, err := keys.ParsePublicKey(stored)
		if err != nil {
			return false, fmt.Errorf("stored public key: %w", err)
		}
		return pub.Equal(candidate), nil
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return false, fmt.Errorf("read public key blob: %w", err)
	}

	records, err := s.store.Records(ctx)
	if err != nil {
		return false, err
	}
	if len(records) == 0 {
		return true, nil
	}
	for _, r := range records {
		if _, err := record.Verify(r.Body, candidate); err == nil {
			return true, nil
		}
	}
	return false, nil
}

// Unlock checks the master password without keeping the key.
func (s *Service) Unlock(ctx context.Context) error {
	priv, err := s.unlock(ctx)
	if err != nil {
		return err
	}
	priv.Wipe()
	return nil
}

// AddAccount signs a new account record and stores it under the sanitized
// name, replacing an account with the same key. length 0 means the
// configured default.
func (s *Service) AddAccount(ctx context.Context, name string, length int) (*record.Account, error) {
	if length == 0 {
		length = s.cfg.DefaultLength
	}
	account, err := record.NewAccount(name, s.now().Add(s.cfg.DefaultLifetime), length)
	if err != nil {
		return nil, err
	}

	priv, err := s.unlock(ctx)
	if err != nil {
		return nil, err
	}
	defer priv.Wipe()

	text, err := record.Sign(s.rand, account, priv)
	if err != nil {
		return nil, fmt.Errorf("sign account: %w", err)
	}
	if err := s.store.PutRecord(ctx, store.SanitizeName(name), text); err != nil {
		return nil, err
	}
	s.log.Info(ctx, "account added", "name", name, "length", length)

	s.push(ctx, "account "+name+" added")
	return account, nil
}

// Accounts returns the verified accounts whose name contains filter, sorted
// by name. Records that fail to parse or verify are logged and skipped.
func (s *Service) Accounts(ctx context.Context, filter string) ([]*record.Account, error) {
	priv, err := s.unlock(ctx)
	if err != nil {
		return nil, err
	}
	pub := priv.PublicKey()
	priv.Wipe()

	return s.verified(ctx, pub, filter)
}

func (s *Service) verified(ctx context.Context, pub *keys.PublicKey, filter string) ([]*record.Account, error) {
	records, err := s.store.Records(ctx)
	if err != nil {
		return nil, err
	}

	accounts := make([]*record.Account, 0, len(records))
	for _, r := range records {
		a, err := record.Verify(r.Body, pub)
		if err != nil {
			s.log.Warn(ctx, "skipping record", "key", r.Key, "error", err)
			continue
		}
		if strings.Contains(a.Name, filter) {
			accounts = append(accounts, a)
		}
	}

	sort.Slice(accounts, func(i, j int) bool { return accounts[i].Name < accounts[j].Name })
	return accounts, nil
}

// PasswordFor resolves query to an account, preferring an exact name match
// over the first name containing query, and derives its password.
func (s *Service) PasswordFor(ctx context.Context, query string) (*record.Account, string, error) {
	priv, err := s.unlock(ctx)
	if err != nil {
		return nil, "", err
	}
	defer priv.Wipe()

	candidates, err := s.verified(ctx, priv.PublicKey(), query)
	if err != nil {
		return nil, "", err
	}
	if len(candidates) == 0 {
		return nil, "", fmt.Errorf("account %q: %w", query, common.ErrorNotFound)
	}

	account := candidates[0]
	for _, a := range candidates {
		if a.Name == query {
			account = a
			break
		}
	}

	if account.Expired(s.now()) {
		s.log.Warn(ctx, "account expired", "name", account.Name, "expires", account.Expires)
	}

	password, err := record.DerivePassword(priv, account)
	if err != nil {
		return nil, "", err
	}
	return account, password, nil
}

// PublicKey returns the stored public key. Repositories created without one
// are unlocked once and the public key blob is written.
func (s *Service) PublicKey(ctx context.Context) (*keys.PublicKey, error) {
	stored, err := s.store.ReadBlob(ctx, common.PublicKeyBlobName)
	if err == nil {
		return keys.ParsePublicKey(stored)
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, err
	}

	priv, err := s.unlock(ctx)
	if err != nil {
		return nil, err
	}
	pub := priv.PublicKey()
	priv.Wipe()

	if err := s.store.WriteBlob(ctx, common.PublicKeyBlobName, pub.Bytes()); err != nil {
		return nil, err
	}
	return pub, nil
}

// Sync pushes the current state explicitly.
func (s *Service) Sync(ctx context.Context) error {
	return s.sync.Push(ctx, "sync")
}
