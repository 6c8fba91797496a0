package settings

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/dustin/go-humanize"

	"github.com/ErikKalkoken/trailbuddy/internal/app"
)

// MaxLogoSize is the maximum accepted size for an uploaded custom logo.
const MaxLogoSize = 2 * 1024 * 1024

// ErrLogoTooLarge is returned when an uploaded logo exceeds MaxLogoSize.
var ErrLogoTooLarge = fmt.Errorf("logo exceeds maximum size of %s", humanize.Bytes(MaxLogoSize))

// LogoHandle is a transient display handle for the stored logo blob.
//
// The handle is a scoped resource: it is acquired when the blob is loaded or
// updated and must be released when replaced and on service teardown.
// The blob in storage is the persisted artifact, the handle is not.
type LogoHandle struct {
	path string
}

// Path returns the path of the temporary file backing this handle.
func (h *LogoHandle) Path() string {
	return h.path
}

// release removes the backing file. Safe to call on a nil handle.
func (h *LogoHandle) release() {
	if h == nil {
		return
	}
	if err := os.Remove(h.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("settings: failed to release logo handle", "path", h.path, "error", err)
	}
}

func (s *Service) newLogoHandle(content []byte) (*LogoHandle, error) {
	f, err := os.CreateTemp(s.logoDir, "custom-logo-*")
	if err != nil {
		return nil, fmt.Errorf("create logo file: %w", err)
	}
	defer f.Close()
	if _, err := f.Write(content); err != nil {
		os.Remove(f.Name())
		return nil, fmt.Errorf("write logo file: %w", err)
	}
	return &LogoHandle{path: f.Name()}, nil
}

// loadLogoHandle derives a display handle from the stored logo blob.
// It returns nil when no logo is stored or the store is unavailable.
func (s *Service) loadLogoHandle(ctx context.Context) *LogoHandle {
	bb, err := s.st.GetBlob(ctx, keyCustomLogo)
	if errors.Is(err, app.ErrNotFound) {
		return nil
	}
	if err != nil {
		slog.Error("settings: failed to read logo blob", "error", err)
		return nil
	}
	h, err := s.newLogoHandle(bb)
	if err != nil {
		slog.Error("settings: failed to derive logo handle", "error", err)
		return nil
	}
	return h
}

// CustomLogo returns the display handle for the custom logo
// or nil when no logo is set.
func (s *Service) CustomLogo() *LogoHandle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.logo
}

// UpdateCustomLogo replaces the custom logo.
//
// With content the blob is written to storage and a new display handle is
// derived. With nil the stored blob is deleted. The previous handle is
// released in both cases. Concurrent calls are serialized: the operation
// never leaves a dangling handle or an orphaned blob write behind.
func (s *Service) UpdateCustomLogo(ctx context.Context, content []byte) error {
	s.logoMu.Lock()
	defer s.logoMu.Unlock()
	if len(content) > MaxLogoSize {
		return ErrLogoTooLarge
	}
	var logo *LogoHandle
	if content != nil {
		if err := s.st.SetBlob(ctx, keyCustomLogo, content); err != nil {
			return fmt.Errorf("update custom logo: %w", err)
		}
		h, err := s.newLogoHandle(content)
		if err != nil {
			return fmt.Errorf("update custom logo: %w", err)
		}
		logo = h
	} else {
		if err := s.st.DeleteBlob(ctx, keyCustomLogo); err != nil {
			return fmt.Errorf("remove custom logo: %w", err)
		}
	}
	s.mu.Lock()
	old := s.logo
	s.logo = logo
	s.mu.Unlock()
	old.release()
	s.emit("customLogo")
	return nil
}

// Close releases all transient resources held by the service.
func (s *Service) Close() {
	s.mu.Lock()
	old := s.logo
	s.logo = nil
	s.mu.Unlock()
	old.release()
}
