package session

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"hrhub/internal/platform/crypto"
)

const (
	authStorageKey = "auth-storage"
	userProfileKey = "user-profile"
)

// FilePersister stores each session as a directory holding the two fixed keys the browser
// client used for local storage.
type FilePersister struct {
	Dir    string
	Sealer *crypto.Sealer
}

func NewFilePersister(dir string, sealer *crypto.Sealer) (*FilePersister, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}
	return &FilePersister{Dir: dir, Sealer: sealer}, nil
}

func (f *FilePersister) sessionDir(id string) (string, error) {
	if id == "" || strings.ContainsAny(id, `/\.`) {
		return "", ErrNotFound
	}
	return filepath.Join(f.Dir, id), nil
}

func (f *FilePersister) Load(ctx context.Context, id string) (Snapshot, error) {
	dir, err := f.sessionDir(id)
	if err != nil {
		return Snapshot{}, err
	}
	var rec authRecord
	if err := f.readKey(dir, authStorageKey, &rec); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Snapshot{}, ErrNotFound
		}
		return Snapshot{}, err
	}
	var profile *User
	var p User
	if err := f.readKey(dir, userProfileKey, &p); err == nil {
		profile = &p
	} else if !errors.Is(err, os.ErrNotExist) {
		return Snapshot{}, err
	}
	return fromRecord(f.Sealer, rec, profile)
}

func (f *FilePersister) Save(ctx context.Context, snap Snapshot) error {
	dir, err := f.sessionDir(snap.ID)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}
	rec, err := toRecord(f.Sealer, snap)
	if err != nil {
		return err
	}
	if err := f.writeKey(dir, authStorageKey, rec); err != nil {
		return err
	}
	if snap.Profile == nil {
		if err := os.Remove(filepath.Join(dir, userProfileKey)); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
		return nil
	}
	return f.writeKey(dir, userProfileKey, snap.Profile)
}

func (f *FilePersister) Delete(ctx context.Context, id string) error {
	dir, err := f.sessionDir(id)
	if err != nil {
		return nil
	}
	return os.RemoveAll(dir)
}

func (f *FilePersister) Sweep(ctx context.Context, now time.Time) (int, error) {
	entries, err := os.ReadDir(f.Dir)
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if err := ctx.Err(); err != nil {
			return removed, err
		}
		dir := filepath.Join(f.Dir, entry.Name())
		var rec authRecord
		if err := f.readKey(dir, authStorageKey, &rec); err != nil || !rec.ExpiresAt.After(now) {
			if err := os.RemoveAll(dir); err != nil {
				return removed, err
			}
			removed++
		}
	}
	return removed, nil
}

func (f *FilePersister) readKey(dir, key string, out any) error {
	raw, err := os.ReadFile(filepath.Join(dir, key))
	if err != nil {
		return err
	}
	plain, err := f.Sealer.Open(raw)
	if err != nil {
		return err
	}
	return json.Unmarshal(plain, out)
}

func (f *FilePersister) writeKey(dir, key string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	sealed, err := f.Sealer.Seal(payload)
	if err != nil {
		return err
	}
	tmp := filepath.Join(dir, key+".tmp")
	if err := os.WriteFile(tmp, sealed, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, filepath.Join(dir, key))
}
