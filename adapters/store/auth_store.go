// Package store persists credentials, deposit wallets and the repository
// catalog in embedded sqlite databases via GORM. Credentials and wallets
// share one database so first-time registration can insert both rows in a
// single transaction.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sui-direct/node/core"
	"github.com/sui-direct/node/ports"
)

// AuthStore implements ports.CredentialStore on sqlite.
type AuthStore struct {
	db *gorm.DB
}

// NewAuthStore opens (or creates) the credential database at path and
// migrates its schema.
func NewAuthStore(path string) (*AuthStore, error) {
	db, err := openDB(path)
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&credentialModel{}, &walletModel{}); err != nil {
		return nil, fmt.Errorf("migrating auth schema: %w", err)
	}
	return &AuthStore{db: db}, nil
}

var _ ports.CredentialStore = (*AuthStore)(nil)

func (s *AuthStore) Credential(ctx context.Context, account string) (*core.AccountCredential, error) {
	var m credentialModel
	err := s.db.WithContext(ctx).First(&m, "account = ?", account).Error
	if err != nil {
		return nil, translateErr(err)
	}
	return &core.AccountCredential{
		Account:      m.Account,
		PeerID:       m.PeerID,
		Nonce:        m.Nonce,
		RegisteredAt: m.Timestamp,
	}, nil
}

func (s *AuthStore) AccountByPeer(ctx context.Context, peerID string) (string, error) {
	var m credentialModel
	err := s.db.WithContext(ctx).First(&m, "peerID = ?", peerID).Error
	if err != nil {
		return "", translateErr(err)
	}
	return m.Account, nil
}

// Register inserts the credential and its deposit wallet atomically.
func (s *AuthStore) Register(ctx context.Context, cred core.AccountCredential, wallet core.DepositWallet) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&credentialModel{
			Account:   cred.Account,
			PeerID:    cred.PeerID,
			Nonce:     cred.Nonce,
			Timestamp: cred.RegisteredAt,
		}).Error; err != nil {
			return fmt.Errorf("inserting credential: %w", err)
		}
		if err := tx.Create(&walletModel{
			Account:    wallet.Account,
			PublicKey:  wallet.PublicKey,
			PrivateKey: wallet.PrivateKey,
			Timestamp:  wallet.CreatedAt,
		}).Error; err != nil {
			return fmt.Errorf("inserting deposit wallet: %w", err)
		}
		return nil
	})
}

func (s *AuthStore) UpdateAuth(ctx context.Context, account, peerID string, nonce uint64) error {
	res := s.db.WithContext(ctx).Model(&credentialModel{}).
		Where("account = ?", account).
		Updates(map[string]any{"peerID": peerID, "nonce": nonce})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (s *AuthStore) Wallet(ctx context.Context, account string) (*core.DepositWallet, error) {
	var m walletModel
	err := s.db.WithContext(ctx).First(&m, "account = ?", account).Error
	if err != nil {
		return nil, translateErr(err)
	}
	return &core.DepositWallet{
		Account:    m.Account,
		PublicKey:  m.PublicKey,
		PrivateKey: m.PrivateKey,
		CreatedAt:  m.Timestamp,
	}, nil
}

func openDB(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening database %s: %w", path, err)
	}
	return db, nil
}

func translateErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return core.ErrNotFound
	}
	return err
}
