// Package filestore persists the credential pair in a JSON file so a session
// survives process restarts. When a passphrase is supplied the document is
// sealed with NaCl secretbox under an Argon2id-derived key.
package filestore

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/jrsteele09/social-dashboard/credentials"
	"github.com/jrsteele09/social-dashboard/internal/errors"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/nacl/secretbox"
)

const (
	sealedVersion = 1
	saltLength    = 16
	nonceLength   = 24
	keyLength     = 32

	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
)

var _ credentials.Store = (*Store)(nil)

// sealedFile is the on-disk layout of an encrypted credentials file.
type sealedFile struct {
	Version int    `json:"version"`
	Salt    []byte `json:"salt"`
	Nonce   []byte `json:"nonce"`
	Box     []byte `json:"box"`
}

// Store is a file-backed credentials.Store. Reads are served from the copy
// loaded at Open and kept current by Save and Clear.
type Store struct {
	path       string
	passphrase []byte
	pair       credentials.Pair
	lock       sync.RWMutex
}

// Open loads the credentials file at path. A missing file is an empty store.
// An empty passphrase stores the pair in plain JSON.
func Open(path, passphrase string) (*Store, error) {
	s := &Store{path: path}
	if passphrase != "" {
		s.passphrase = []byte(passphrase)
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "%w: read %s", errors.ErrStorage, path)
	}

	pair, err := s.decode(data)
	if err != nil {
		return nil, errors.Wrapf(err, "%w: decode %s", errors.ErrStorage, path)
	}
	s.pair = pair
	return s, nil
}

func (s *Store) Path() string {
	return s.path
}

func (s *Store) Save(pair credentials.Pair) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	data, err := s.encode(pair)
	if err != nil {
		return errors.Wrapf(err, "%w: encode", errors.ErrStorage)
	}
	if err := writeFileAtomic(s.path, data); err != nil {
		return errors.Wrapf(err, "%w: write %s", errors.ErrStorage, s.path)
	}
	s.pair = pair
	return nil
}

func (s *Store) Clear() error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if err := Remove(s.path); err != nil {
		return err
	}
	s.pair = credentials.Pair{}
	return nil
}

// Remove deletes the credentials file at path without reading it, so an
// unreadable or undecryptable file can still be discarded.
func Remove(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "%w: remove %s", errors.ErrStorage, path)
	}
	return nil
}

func (s *Store) AccessToken() string {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.pair.AccessToken
}

func (s *Store) RefreshToken() string {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.pair.RefreshToken
}

func (s *Store) encode(pair credentials.Pair) ([]byte, error) {
	plain, err := json.Marshal(pair)
	if err != nil {
		return nil, err
	}
	if s.passphrase == nil {
		return plain, nil
	}

	sealed := sealedFile{
		Version: sealedVersion,
		Salt:    make([]byte, saltLength),
		Nonce:   make([]byte, nonceLength),
	}
	if _, err := io.ReadFull(rand.Reader, sealed.Salt); err != nil {
		return nil, errors.Wrapf(err, "generate salt")
	}
	if _, err := io.ReadFull(rand.Reader, sealed.Nonce); err != nil {
		return nil, errors.Wrapf(err, "generate nonce")
	}

	key := s.deriveKey(sealed.Salt)
	var nonce [nonceLength]byte
	copy(nonce[:], sealed.Nonce)
	sealed.Box = secretbox.Seal(nil, plain, &nonce, &key)
	return json.Marshal(sealed)
}

func (s *Store) decode(data []byte) (credentials.Pair, error) {
	var sealed sealedFile
	if err := json.Unmarshal(data, &sealed); err != nil {
		return credentials.Pair{}, err
	}

	payload := data
	if sealed.Box != nil {
		if s.passphrase == nil {
			return credentials.Pair{}, fmt.Errorf("file is encrypted and no passphrase is configured")
		}
		if sealed.Version != sealedVersion || len(sealed.Nonce) != nonceLength {
			return credentials.Pair{}, fmt.Errorf("unsupported sealed file version %d", sealed.Version)
		}
		key := s.deriveKey(sealed.Salt)
		var nonce [nonceLength]byte
		copy(nonce[:], sealed.Nonce)
		opened, ok := secretbox.Open(nil, sealed.Box, &nonce, &key)
		if !ok {
			return credentials.Pair{}, fmt.Errorf("decryption failed: wrong passphrase or corrupt file")
		}
		payload = opened
	}

	var pair credentials.Pair
	if err := json.Unmarshal(payload, &pair); err != nil {
		return credentials.Pair{}, err
	}
	return pair, nil
}

func (s *Store) deriveKey(salt []byte) [keyLength]byte {
	var key [keyLength]byte
	copy(key[:], argon2.IDKey(s.passphrase, salt, argonTime, argonMemory, argonThreads, keyLength))
	return key
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".credentials-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
