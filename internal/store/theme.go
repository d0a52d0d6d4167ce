package store

import (
	"errors"

	"velora-storefront/internal/domain"
)

// Theme returns the owner's theme preference.
func (s *Store) Theme(ownerID string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if st, ok := s.states[ownerID]; ok && st.theme != "" {
		return st.theme
	}
	return domain.ThemeSystem
}

// SetTheme updates the owner's theme preference.
func (s *Store) SetTheme(ownerID, theme string) error {
	if !domain.ValidTheme(theme) {
		return errors.New("store: invalid theme preference")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state(ownerID).theme = theme
	s.flush(ownerID)
	return nil
}
