package admin

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"sync"
	"time"
)

// otpTTL is how long an emailed code stays valid.
const otpTTL = 5 * time.Minute

// otpStore keeps issued codes in memory, one pending code per
// username. A verified or expired code is removed; codes are
// single-use. Process restart drops pending codes, which just means
// the operator requests a new one.
type otpStore struct {
	mu      sync.Mutex
	pending map[string]otpEntry
	now     func() time.Time
}

type otpEntry struct {
	code    string
	expires time.Time
}

func newOTPStore() *otpStore {
	return &otpStore{pending: make(map[string]otpEntry), now: time.Now}
}

// issue creates and remembers a fresh six-digit code for the username,
// replacing any previous one.
func (s *otpStore) issue(username string) (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	entry := otpEntry{
		code:    fmt.Sprintf("%06d", n.Int64()+100000),
		expires: s.now().Add(otpTTL),
	}
	s.pending[username] = entry
	return entry.code, nil
}

// verify checks and consumes the pending code for the username.
func (s *otpStore) verify(username, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.pending[username]
	if !ok {
		return ErrOTPNotRequested
	}
	if s.now().After(entry.expires) {
		delete(s.pending, username)
		return ErrOTPExpired
	}
	if entry.code != code {
		return ErrOTPInvalid
	}

	delete(s.pending, username)
	return nil
}

