// Package config loads process configuration for wireskip services.
//
// Configuration is the shallow merge, in order, of:
//
//   - config.json (required; written with defaults by Bootstrap)
//   - config.local.json (optional; holds the generated key pair)
//   - WIRESKIP_<KEY> environment variables, mapped to the lowercased
//     top-level key. Values are strings unless they are JSON the target
//     setting accepts (numbers for int settings, objects for keypair).
//
// Service-specific settings live next to the common ones in the same object
// and are decoded into Config.Etc.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"wireskip.dev/core/envelope"
	"wireskip.dev/core/keys"
)

const (
	MainFile       = "config.json"
	EnvPrefix      = "WIRESKIP_"
	DefaultAddress = "127.0.0.1:8080"
)

// Config is the common configuration plus a service-specific block T whose
// fields share the top-level object.
type Config[T any] struct {
	Address string
	Keypair *envelope.KeyPair
	// Root is the directory the configuration was loaded from.
	Root string
	Etc  T
}

type common struct {
	Address string            `json:"address"`
	Keypair *envelope.KeyPair `json:"keypair,omitempty"`
}

// Default returns the configuration written on first run.
func Default[T any](etc T) Config[T] {
	return Config[T]{Address: DefaultAddress, Etc: etc}
}

func (c Config[T]) MarshalJSON() ([]byte, error) {
	obj, err := toObject(common{Address: c.Address, Keypair: c.Keypair})
	if err != nil {
		return nil, err
	}
	etc, err := toObject(c.Etc)
	if err != nil {
		return nil, err
	}
	for k, v := range etc {
		if _, clash := obj[k]; !clash {
			obj[k] = v
		}
	}
	return json.Marshal(obj)
}

func (c *Config[T]) UnmarshalJSON(data []byte) error {
	var base common
	if err := json.Unmarshal(data, &base); err != nil {
		return err
	}
	var etc T
	if err := json.Unmarshal(data, &etc); err != nil {
		return err
	}
	c.Address = base.Address
	c.Keypair = base.Keypair
	c.Etc = etc
	return nil
}

// KeyPair returns the configured key pair. An absent or all-zero key pair is
// a MissingField error.
func (c *Config[T]) KeyPair() (envelope.KeyPair, error) {
	if c.Keypair == nil || c.Keypair.IsZero() {
		return envelope.KeyPair{}, envelope.MissingField("keypair")
	}
	return *c.Keypair, nil
}

// DefaultDir is the directory holding the running executable.
func DefaultDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// Bootstrap prepares dir for first use: it writes config.json from defaults
// when absent and generates the process key pair (config.local.json and
// key.pub) when no local key file exists. An existing key pair is never
// replaced; only key.pub is rewritten when it no longer matches it.
func Bootstrap[T any](dir string, defaults T) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	main := filepath.Join(dir, MainFile)
	if _, err := os.Stat(main); errors.Is(err, os.ErrNotExist) {
		b, err := json.MarshalIndent(Default(defaults), "", "  ")
		if err != nil {
			return err
		}
		if err := os.WriteFile(main, b, 0o644); err != nil {
			return err
		}
		log.Info().Str("path", main).Msg("Wrote default configuration")
	} else if err != nil {
		return err
	}

	ks, err := keys.NewStore(dir)
	if err != nil {
		return err
	}
	if ks.Exists() {
		return syncPublicKey(ks)
	}
	kp, err := ks.Generate(false)
	if err != nil {
		return fmt.Errorf("config: generate key pair: %w", err)
	}
	log.Info().
		Str("public_key", kp.Public().String()).
		Str("path", ks.LocalConfigPath()).
		Msg("Generated key pair")
	return nil
}

// Load reads the configuration from dir with the process environment.
func Load[T any](dir string) (*Config[T], error) {
	return LoadWithEnv[T](dir, os.Environ())
}

// LoadWithEnv is Load with an explicit environment in "KEY=value" form.
func LoadWithEnv[T any](dir string, environ []string) (*Config[T], error) {
	merged, err := readObject(filepath.Join(dir, MainFile), true)
	if err != nil {
		return nil, err
	}
	local, err := readObject(filepath.Join(dir, keys.LocalConfigFile), false)
	if err != nil {
		return nil, err
	}
	for k, v := range local {
		merged[k] = v
	}
	for k, v := range envObject[T](environ) {
		merged[k] = v
	}

	b, err := json.Marshal(merged)
	if err != nil {
		return nil, err
	}
	var cfg Config[T]
	if err := json.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if cfg.Address == "" {
		return nil, fmt.Errorf("config: %w", envelope.MissingField("address"))
	}
	cfg.Root = dir
	log.Info().Str("root", dir).Str("address", cfg.Address).Bool("keypair", cfg.Keypair != nil).Msg("Loaded configuration")
	return &cfg, nil
}

// syncPublicKey rewrites key.pub when it is missing or does not match the
// key pair in the local key file. A local file without a key pair is left
// alone.
func syncPublicKey(ks *keys.Store) error {
	kp, err := ks.LoadKeyPair()
	if envelope.IsKind(err, envelope.KindMissingField) {
		log.Debug().Str("path", ks.LocalConfigPath()).Msg("Local configuration carries no key pair")
		return nil
	}
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if pub, err := ks.LoadPublicKey(); err == nil && pub == kp.Public() {
		return nil
	}
	if err := ks.WritePublicKey(kp.Public()); err != nil {
		return err
	}
	log.Warn().
		Str("public_key", kp.Public().String()).
		Str("path", ks.PublicKeyPath()).
		Msg("Rewrote public key file from local key pair")
	return nil
}

func readObject(path string, required bool) (map[string]json.RawMessage, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if !required && errors.Is(err, os.ErrNotExist) {
			return map[string]json.RawMessage{}, nil
		}
		return nil, err
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(b, &obj); err != nil {
		return nil, fmt.Errorf("config: %s: %w", filepath.Base(path), err)
	}
	if obj == nil {
		obj = map[string]json.RawMessage{}
	}
	return obj, nil
}

// envObject maps WIRESKIP_<KEY>=value onto lowercased top-level keys. A
// value is a string unless it is JSON that the target setting accepts as is:
// WIRESKIP_WORKERS=8 sets an int, while a string setting given 8080 receives
// "8080".
func envObject[T any](environ []string) map[string]json.RawMessage {
	out := map[string]json.RawMessage{}
	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(k, EnvPrefix) || len(k) == len(EnvPrefix) {
			continue
		}
		key := strings.ToLower(strings.TrimPrefix(k, EnvPrefix))
		if v != "null" && json.Valid([]byte(v)) && acceptsLiteral[T](key, json.RawMessage(v)) {
			out[key] = json.RawMessage(v)
			continue
		}
		s, _ := json.Marshal(v)
		out[key] = s
	}
	return out
}

func acceptsLiteral[T any](key string, raw json.RawMessage) bool {
	b, err := json.Marshal(map[string]json.RawMessage{key: raw})
	if err != nil {
		return false
	}
	var trial Config[T]
	return json.Unmarshal(b, &trial) == nil
}

func toObject(v any) (map[string]json.RawMessage, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	obj := map[string]json.RawMessage{}
	if string(b) == "null" {
		return obj, nil
	}
	if err := json.Unmarshal(b, &obj); err != nil {
		return nil, fmt.Errorf("config: settings must encode as a JSON object: %w", err)
	}
	return obj, nil
}
