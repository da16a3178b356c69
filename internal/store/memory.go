package store

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"
)

// MemoryStore is an in-process Store. It backs dry runs that have no target
// database and tests that need no SQL.
type MemoryStore struct {
	mu       sync.Mutex
	accounts []*Account
	profiles []*Profile
	seq      int
}

var _ Store = (*MemoryStore)(nil)

// NewMemory returns an empty MemoryStore.
func NewMemory() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) nextID(prefix string) string {
	m.seq++
	return prefix + "-" + strconv.Itoa(m.seq)
}

func (m *MemoryStore) FindAccountByLegacyID(_ context.Context, legacyID string) (*Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.accounts {
		if a.LegacyID == legacyID {
			cp := *a
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) FindAccountByEmail(_ context.Context, email string) (*Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	email = strings.TrimSpace(email)
	for _, a := range m.accounts {
		if strings.EqualFold(a.Email, email) {
			cp := *a
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) CreateAccount(_ context.Context, a *Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.accounts {
		if (a.LegacyID != "" && existing.LegacyID == a.LegacyID) || strings.EqualFold(existing.Email, a.Email) {
			return ErrDuplicate
		}
	}
	if a.ID == "" {
		a.ID = m.nextID("acct")
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	cp := *a
	m.accounts = append(m.accounts, &cp)
	return nil
}

// DeleteAccountByLegacyID removes the account and any profile it owns.
func (m *MemoryStore) DeleteAccountByLegacyID(_ context.Context, legacyID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, a := range m.accounts {
		if a.LegacyID != legacyID {
			continue
		}
		m.accounts = append(m.accounts[:i], m.accounts[i+1:]...)
		kept := m.profiles[:0]
		for _, p := range m.profiles {
			if p.UserID != a.ID {
				kept = append(kept, p)
			}
		}
		m.profiles = kept
		return true, nil
	}
	return false, nil
}

func (m *MemoryStore) findProfile(match func(*Profile) bool) (*Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.profiles {
		if match(p) {
			cp := *p
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) FindProfileByUserID(_ context.Context, userID string) (*Profile, error) {
	return m.findProfile(func(p *Profile) bool { return p.UserID == userID })
}

func (m *MemoryStore) FindProfileByLegacyID(_ context.Context, legacyID string) (*Profile, error) {
	return m.findProfile(func(p *Profile) bool { return p.LegacyID == legacyID })
}

func (m *MemoryStore) CreateProfile(_ context.Context, p *Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	owner := false
	for _, a := range m.accounts {
		if a.ID == p.UserID {
			owner = true
			break
		}
	}
	if !owner {
		return ErrNotFound
	}
	for _, existing := range m.profiles {
		if existing.UserID == p.UserID || (p.LegacyID != "" && existing.LegacyID == p.LegacyID) {
			return ErrDuplicate
		}
	}
	if p.ID == "" {
		p.ID = m.nextID("prof")
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	cp := *p
	m.profiles = append(m.profiles, &cp)
	return nil
}

func (m *MemoryStore) UpdateProfilePhotos(_ context.Context, profileID string, photos []string, primary *string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.profiles {
		if p.ID == profileID {
			p.Photos = append([]string(nil), photos...)
			p.PrimaryPhoto = primary
			return nil
		}
	}
	return ErrNotFound
}

func (m *MemoryStore) DeleteProfileByLegacyID(_ context.Context, legacyID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, p := range m.profiles {
		if p.LegacyID == legacyID {
			m.profiles = append(m.profiles[:i], m.profiles[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (m *MemoryStore) CountByLegacyIDs(_ context.Context, legacyIDs []string) (int, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	want := make(map[string]bool, len(legacyIDs))
	for _, id := range legacyIDs {
		want[id] = true
	}
	var accounts, profiles int
	for _, a := range m.accounts {
		if want[a.LegacyID] {
			accounts++
		}
	}
	for _, p := range m.profiles {
		if want[p.LegacyID] {
			profiles++
		}
	}
	return accounts, profiles, nil
}

func (m *MemoryStore) Close() error { return nil }
