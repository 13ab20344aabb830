package store

import "time"

// credentialModel mirrors core.AccountCredential. Table and column names
// are pinned so databases created by earlier node versions keep working.
type credentialModel struct {
	Account   string    `gorm:"column:account;primaryKey"`
	PeerID    string    `gorm:"column:peerID;index"`
	Nonce     uint64    `gorm:"column:nonce"`
	Timestamp time.Time `gorm:"column:timestamp"`
}

func (credentialModel) TableName() string { return "auth" }

type walletModel struct {
	Account    string    `gorm:"column:account;primaryKey"`
	PublicKey  string    `gorm:"column:publicKey"`
	PrivateKey string    `gorm:"column:privateKey"`
	Timestamp  time.Time `gorm:"column:timestamp"`
}

func (walletModel) TableName() string { return "wallets" }

type repositoryModel struct {
	BlobID      string    `gorm:"column:blobID;primaryKey"`
	Owner       string    `gorm:"column:owner;index"`
	Name        string    `gorm:"column:name;uniqueIndex"`
	Description string    `gorm:"column:description"`
	Timestamp   time.Time `gorm:"column:timestamp"`
}

func (repositoryModel) TableName() string { return "repositories" }
