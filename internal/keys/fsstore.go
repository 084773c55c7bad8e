package keys

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

var (
	ErrKeyNotFound = errors.New("key not found")
	ErrNoActiveKey = errors.New("no active signing key")
)

// FSStore persiste Material como archivos JSON (<thumbprint>.json) en un
// directorio. Garantías:
//   - Escritura atómica: write tmp → fsync → rename
//   - Las claves retiradas siguen resolviéndose por kid (solo verificación)
//   - Cache en memoria del material parseado para evitar lecturas frecuentes
type FSStore struct {
	dir       string
	namespace string
	mu        sync.Mutex // serializes writes; reads go through the cache
	cache     *gocache.Cache
}

// keyFileData is the on-disk JSON shape of one key.
type keyFileData struct {
	KID           string    `json:"kid"`
	Algorithm     string    `json:"algorithm"`
	PrivateKeyPEM string    `json:"private_key_pem"`
	PublicKeyPEM  string    `json:"public_key_pem"`
	Status        string    `json:"status"` // "active" | "retired"
	CreatedAt     time.Time `json:"created_at"`
}

// NewFSStore opens (creating if needed) a key directory.
func NewFSStore(dir, namespace string) (*FSStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create keys directory: %w", err)
	}
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return &FSStore{
		dir:       dir,
		namespace: namespace,
		cache:     gocache.New(30*time.Second, time.Minute),
	}, nil
}

// Save persists material. Saving an active key retires any previously
// active one: there is exactly one active signing identity per store.
func (s *FSStore) Save(m *Material) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if m.Status == StatusActive {
		if err := s.retireAllLocked(); err != nil {
			return err
		}
	}
	return s.writeLocked(m)
}

// Active returns the current signing material.
func (s *FSStore) Active() (*Material, error) {
	all, err := s.List()
	if err != nil {
		return nil, err
	}
	for _, m := range all {
		if m.Status == StatusActive {
			return m, nil
		}
	}
	return nil, ErrNoActiveKey
}

// ByKID resolves material by key id, active or retired. Retired material
// is what lets us verify tokens issued before a rotation.
func (s *FSStore) ByKID(kid string) (*Material, error) {
	if v, ok := s.cache.Get(kid); ok {
		return v.(*Material), nil
	}

	tp, ok := thumbprintFromKID(kid)
	if !ok {
		return nil, fmt.Errorf("%w: malformed kid %q", ErrKeyNotFound, kid)
	}
	m, err := s.load(filepath.Join(s.dir, tp+".json"))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, kid)
		}
		return nil, err
	}
	if m.KID != kid {
		return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, kid)
	}
	s.cache.SetDefault(kid, m)
	return m, nil
}

// Retire marks the material for kid as retired. Idempotent.
func (s *FSStore) Retire(kid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.ByKID(kid)
	if err != nil {
		return err
	}
	if m.Status == StatusRetired {
		return nil
	}
	cp := *m
	cp.Status = StatusRetired
	return s.writeLocked(&cp)
}

// List returns all material in the store, newest first not guaranteed.
func (s *FSStore) List() ([]*Material, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read keys directory: %w", err)
	}
	var out []*Material
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		m, err := s.load(filepath.Join(s.dir, e.Name()))
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func (s *FSStore) retireAllLocked() error {
	all, err := s.List()
	if err != nil {
		return err
	}
	for _, m := range all {
		if m.Status != StatusActive {
			continue
		}
		cp := *m
		cp.Status = StatusRetired
		if err := s.writeLocked(&cp); err != nil {
			return err
		}
	}
	return nil
}

func (s *FSStore) load(path string) (*Material, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var kd keyFileData
	if err := json.Unmarshal(data, &kd); err != nil {
		return nil, fmt.Errorf("unmarshal key data: %w", err)
	}
	alg, err := ParseAlgorithm(kd.Algorithm)
	if err != nil {
		return nil, err
	}

	m := &Material{Alg: alg, KID: kd.KID, Status: Status(kd.Status)}
	if kd.PrivateKeyPEM != "" {
		priv, pub, err := DecodePrivatePEM([]byte(kd.PrivateKeyPEM))
		if err != nil {
			return nil, err
		}
		m.Private, m.Public = priv, pub
	} else {
		pub, err := DecodePublicPEM([]byte(kd.PublicKeyPEM))
		if err != nil {
			return nil, err
		}
		m.Public = pub
	}
	tp, err := Thumbprint(m.Public)
	if err != nil {
		return nil, err
	}
	m.Thumbprint = tp
	return m, nil
}

func (s *FSStore) writeLocked(m *Material) error {
	pubPEM, err := EncodePublicPEM(m.Public)
	if err != nil {
		return err
	}
	kd := keyFileData{
		KID:          m.KID,
		Algorithm:    string(m.Alg),
		PublicKeyPEM: string(pubPEM),
		Status:       string(m.Status),
		CreatedAt:    time.Now().UTC(),
	}
	if m.Private != nil {
		privPEM, err := EncodePrivatePEM(m.Private)
		if err != nil {
			return err
		}
		kd.PrivateKeyPEM = string(privPEM)
	}

	data, err := json.MarshalIndent(kd, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal key data: %w", err)
	}

	finalPath := filepath.Join(s.dir, m.Thumbprint+".json")
	tmpPath := finalPath + ".tmp"

	f, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("create tmp file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write tmp file: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("sync tmp file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close tmp file: %w", err)
	}
	if err := os.Rename(tmpPath, finalPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("atomic rename: %w", err)
	}

	s.cache.SetDefault(m.KID, m)
	return nil
}

// thumbprintFromKID extracts the trailing thumbprint from
// "<namespace>:x5t#S256:<thumbprint>".
func thumbprintFromKID(kid string) (string, bool) {
	idx := strings.LastIndex(kid, ":")
	if idx < 0 || idx == len(kid)-1 {
		return "", false
	}
	if !strings.Contains(kid[:idx], "x5t#S256") {
		return "", false
	}
	return kid[idx+1:], true
}
