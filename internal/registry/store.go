// Package registry holds the ordered user collection and mirrors it into a
// single JSON snapshot file on every mutation. The snapshot is the only
// persistence: whole-file overwrite, last writer wins, no versioning.
package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/KaruG1999/roster/internal/types"
)

// Store is the in-memory user collection plus its persisted mirror. All
// mutations run under one mutex, so the snapshot has a single logical writer.
type Store struct {
	mu sync.Mutex

	path          string
	users         []types.User
	favoriteColor string
	nextID        int64
}

// Open creates a store backed by the snapshot file at path, loading the
// existing snapshot when one is present. A malformed snapshot is a startup
// error rather than a deferred fault.
func Open(path string) (*Store, error) {
	s := &Store{
		path:   path,
		nextID: 1,
	}

	data, err := os.ReadFile(filepath.Clean(path))
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading snapshot %s: %w", path, err)
	}

	var snap types.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}

	s.users = snap.Users
	s.favoriteColor = snap.FavoriteColor
	s.nextID = snap.NextID

	// Older snapshots carry no counter; recover it from the highest id so
	// ids stay assignment-once across restarts.
	if s.nextID < 1 {
		s.nextID = 1
		for _, u := range s.users {
			if u.ID >= s.nextID {
				s.nextID = u.ID + 1
			}
		}
	}

	return s, nil
}

// persist rewrites the whole snapshot. Callers must hold s.mu.
func (s *Store) persist() error {
	snap := types.Snapshot{
		Users:         s.users,
		FavoriteColor: s.favoriteColor,
		NextID:        s.nextID,
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSnapshotWrite, err)
	}

	// Write-then-rename keeps a crash from leaving a half-written snapshot.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("%w: %v", ErrSnapshotWrite, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("%w: %v", ErrSnapshotWrite, err)
	}

	return nil
}

// List returns a copy of the user collection in insertion order
func (s *Store) List() []types.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]types.User, len(s.users))
	copy(out, s.users)

	return out
}

// Get returns the user with the given id
func (s *Store) Get(id int64) (types.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.ID == id {
			return u, true
		}
	}

	return types.User{}, false
}

// Add appends a new user with the next stable id and an unchecked verdict,
// then persists the snapshot.
func (s *Store) Add(name string, age int, email string) (types.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user := types.User{
		ID:      s.nextID,
		Name:    name,
		Age:     age,
		Email:   email,
		Verdict: types.Unchecked(),
	}

	s.users = append(s.users, user)
	s.nextID++

	if err := s.persist(); err != nil {
		// Roll back so memory and disk stay in agreement.
		s.users = s.users[:len(s.users)-1]
		s.nextID--
		return types.User{}, err
	}

	return user, nil
}

// Delete removes the user with the given id and persists the snapshot.
// Surviving users keep their ids.
func (s *Store) Delete(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, u := range s.users {
		if u.ID != id {
			continue
		}

		removed := u
		s.users = append(s.users[:i], s.users[i+1:]...)

		if err := s.persist(); err != nil {
			s.users = append(s.users[:i], append([]types.User{removed}, s.users[i:]...)...)
			return err
		}

		return nil
	}

	return ErrUserNotFound
}

// SetVerdict writes the verdict into the user record and persists the
// snapshot, returning the updated record.
func (s *Store) SetVerdict(id int64, v types.Verdict) (types.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.users {
		if s.users[i].ID != id {
			continue
		}

		previous := s.users[i].Verdict
		s.users[i].Verdict = v

		if err := s.persist(); err != nil {
			s.users[i].Verdict = previous
			return types.User{}, err
		}

		return s.users[i], nil
	}

	return types.User{}, ErrUserNotFound
}

// UncheckedIDs returns the ids of users whose email has never been checked,
// in insertion order.
func (s *Store) UncheckedIDs() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	var ids []int64
	for _, u := range s.users {
		if !u.Verdict.Checked() {
			ids = append(ids, u.ID)
		}
	}

	return ids
}

// FavoriteColor returns the stored preference string
func (s *Store) FavoriteColor() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.favoriteColor
}

// SetFavoriteColor stores the freeform preference string and persists the
// snapshot.
func (s *Store) SetFavoriteColor(color string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	previous := s.favoriteColor
	s.favoriteColor = color

	if err := s.persist(); err != nil {
		s.favoriteColor = previous
		return err
	}

	return nil
}
