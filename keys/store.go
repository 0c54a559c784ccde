package keys

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"wireskip.dev/core/envelope"
)

const (
	LocalConfigFile = "config.local.json"
	PublicKeyFile   = "key.pub"
)

// Store holds the process key files in one directory.
//
// The key pair lives in LocalConfigFile as {"keypair": {...}} so that the
// configuration loader picks it up as an overlay. PublicKeyFile carries only
// the verifying key, encoded as a JSON string.
type Store struct {
	Directory string
}

type localConfig struct {
	Keypair *envelope.KeyPair `json:"keypair"`
}

func NewStore(directory string) (*Store, error) {
	if directory == "" {
		return nil, errors.New("keys: directory is required")
	}
	return &Store{Directory: directory}, nil
}

func (s *Store) LocalConfigPath() string { return filepath.Join(s.Directory, LocalConfigFile) }

func (s *Store) PublicKeyPath() string { return filepath.Join(s.Directory, PublicKeyFile) }

// Exists reports whether the local key file is present.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.LocalConfigPath())
	return err == nil
}

// Initialize writes kp to the local key file and its verifying key to the
// public key file. Without overwrite an existing local key file is an error.
func (s *Store) Initialize(kp envelope.KeyPair, overwrite bool) error {
	if kp.IsZero() {
		return errors.New("keys: refusing to store the zero key pair")
	}
	local, err := json.Marshal(localConfig{Keypair: &kp})
	if err != nil {
		return err
	}
	if err := writeFile(s.LocalConfigPath(), local, 0o600, overwrite); err != nil {
		return err
	}
	return s.WritePublicKey(kp.Public())
}

// WritePublicKey replaces the public key file with pub.
func (s *Store) WritePublicKey(pub envelope.VerifyingKey) error {
	b, err := json.Marshal(pub)
	if err != nil {
		return err
	}
	return writeFile(s.PublicKeyPath(), b, 0o644, true)
}

// Generate creates a fresh key pair from crypto/rand and initializes the store.
func (s *Store) Generate(overwrite bool) (envelope.KeyPair, error) {
	kp, err := envelope.GenerateKeyPair(nil)
	if err != nil {
		return envelope.KeyPair{}, err
	}
	if err := s.Initialize(kp, overwrite); err != nil {
		return envelope.KeyPair{}, err
	}
	return kp, nil
}

// LoadKeyPair reads the key pair from the local key file.
func (s *Store) LoadKeyPair() (envelope.KeyPair, error) {
	b, err := os.ReadFile(s.LocalConfigPath())
	if err != nil {
		return envelope.KeyPair{}, err
	}
	var lc localConfig
	if err := json.Unmarshal(b, &lc); err != nil {
		return envelope.KeyPair{}, fmt.Errorf("keys: %s: %w", LocalConfigFile, err)
	}
	if lc.Keypair == nil {
		return envelope.KeyPair{}, fmt.Errorf("keys: %s: %w", LocalConfigFile, envelope.MissingField("keypair"))
	}
	return *lc.Keypair, nil
}

// LoadPublicKey reads the verifying key from the public key file.
func (s *Store) LoadPublicKey() (envelope.VerifyingKey, error) {
	b, err := os.ReadFile(s.PublicKeyPath())
	if err != nil {
		return envelope.VerifyingKey{}, err
	}
	var pub envelope.VerifyingKey
	if err := json.Unmarshal(b, &pub); err != nil {
		return envelope.VerifyingKey{}, fmt.Errorf("keys: %s: %w", PublicKeyFile, err)
	}
	return pub, nil
}

func writeFile(path string, data []byte, perm os.FileMode, overwrite bool) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	flags := os.O_WRONLY | os.O_CREATE
	if overwrite {
		flags |= os.O_TRUNC
	} else {
		flags |= os.O_EXCL
	}
	file, err := os.OpenFile(path, flags, perm)
	if err != nil {
		return err
	}
	defer file.Close()
	if _, err := file.Write(data); err != nil {
		return err
	}
	return file.Close()
}
