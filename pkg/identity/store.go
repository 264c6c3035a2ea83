package identity

import (
	"fmt"
	"net/http"
	"net/url"
	"sync"
)

// Store is the cookie-like persistence the session identity lives in.
// Expiry and eviction belong to the store, not to the Manager.
type Store interface {
	// Get returns the value stored under name, if any.
	Get(name string) (string, bool)
	// Set persists the cookie. Implementations return an error when the
	// value could not be stored.
	Set(cookie *http.Cookie) error
}

// MemoryStore keeps cookies in process memory. The zero value is ready to use.
type MemoryStore struct {
	mu      sync.RWMutex
	cookies map[string]string
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Get(name string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.cookies[name]
	return v, ok
}

func (s *MemoryStore) Set(cookie *http.Cookie) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cookies == nil {
		s.cookies = make(map[string]string)
	}
	s.cookies[cookie.Name] = cookie.Value
	return nil
}

// Clear drops every stored cookie, the equivalent of a browser clearing its
// session cookies.
func (s *MemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cookies = nil
}

// JarStore persists cookies in an http.CookieJar scoped to one site.
type JarStore struct {
	jar  http.CookieJar
	site *url.URL
}

// NewJarStore binds jar to siteURL. Cookies written through the store apply
// to every path of that site.
func NewJarStore(jar http.CookieJar, siteURL string) (*JarStore, error) {
	u, err := url.Parse(siteURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSiteURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSiteURL, siteURL)
	}
	return &JarStore{jar: jar, site: &url.URL{Scheme: u.Scheme, Host: u.Host, Path: "/"}}, nil
}

func (s *JarStore) Get(name string) (string, bool) {
	for _, c := range s.jar.Cookies(s.site) {
		if c.Name == name {
			return c.Value, true
		}
	}
	return "", false
}

// Set hands the cookie to the jar and reads it back; a jar is free to reject
// cookies silently, which is reported as ErrStoreUnavailable.
func (s *JarStore) Set(cookie *http.Cookie) error {
	s.jar.SetCookies(s.site, []*http.Cookie{cookie})
	if v, ok := s.Get(cookie.Name); !ok || v != cookie.Value {
		return fmt.Errorf("%w: cookie %q rejected by jar", ErrStoreUnavailable, cookie.Name)
	}
	return nil
}
