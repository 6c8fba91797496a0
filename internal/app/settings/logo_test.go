package settings_test

import (
	"context"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ErikKalkoken/trailbuddy/internal/app"
	"github.com/ErikKalkoken/trailbuddy/internal/app/settings"
	"github.com/ErikKalkoken/trailbuddy/internal/app/storage/testutil"
)

func TestCustomLogo(t *testing.T) {
	db, st, _ := testutil.New()
	defer db.Close()
	ctx := context.Background()
	newLoaded := func(t *testing.T) *settings.Service {
		s := settings.New(st, t.TempDir())
		s.Load(ctx)
		return s
	}
	t.Run("no logo by default", func(t *testing.T) {
		// given
		testutil.TruncateTables(db)
		s := newLoaded(t)
		// then
		assert.Nil(t, s.CustomLogo())
	})
	t.Run("update stores blob and derives a display handle", func(t *testing.T) {
		// given
		testutil.TruncateTables(db)
		s := newLoaded(t)
		content := []byte{0x89, 0x50, 0x4e, 0x47}
		// when
		err := s.UpdateCustomLogo(ctx, content)
		// then
		require.NoError(t, err)
		h := s.CustomLogo()
		require.NotNil(t, h)
		got, err := os.ReadFile(h.Path())
		require.NoError(t, err)
		assert.Equal(t, content, got)
		stored, err := st.GetBlob(ctx, "custom-logo")
		require.NoError(t, err)
		assert.Equal(t, content, stored)
	})
	t.Run("replacing releases the previous handle", func(t *testing.T) {
		// given
		testutil.TruncateTables(db)
		s := newLoaded(t)
		require.NoError(t, s.UpdateCustomLogo(ctx, []byte("old")))
		oldPath := s.CustomLogo().Path()
		// when
		require.NoError(t, s.UpdateCustomLogo(ctx, []byte("new")))
		// then
		assert.NoFileExists(t, oldPath)
		assert.FileExists(t, s.CustomLogo().Path())
	})
	t.Run("nil clears blob and handle", func(t *testing.T) {
		// given
		testutil.TruncateTables(db)
		s := newLoaded(t)
		require.NoError(t, s.UpdateCustomLogo(ctx, []byte("logo")))
		oldPath := s.CustomLogo().Path()
		// when
		require.NoError(t, s.UpdateCustomLogo(ctx, nil))
		// then
		assert.Nil(t, s.CustomLogo())
		assert.NoFileExists(t, oldPath)
		_, err := st.GetBlob(ctx, "custom-logo")
		assert.ErrorIs(t, err, app.ErrNotFound)
	})
	t.Run("stored logo is rehydrated on load", func(t *testing.T) {
		// given
		testutil.TruncateTables(db)
		s1 := newLoaded(t)
		require.NoError(t, s1.UpdateCustomLogo(ctx, []byte("logo")))
		// when
		s2 := newLoaded(t)
		// then
		h := s2.CustomLogo()
		require.NotNil(t, h)
		got, err := os.ReadFile(h.Path())
		require.NoError(t, err)
		assert.Equal(t, []byte("logo"), got)
	})
	t.Run("close releases the handle", func(t *testing.T) {
		// given
		testutil.TruncateTables(db)
		s := newLoaded(t)
		require.NoError(t, s.UpdateCustomLogo(ctx, []byte("logo")))
		p := s.CustomLogo().Path()
		// when
		s.Close()
		// then
		assert.NoFileExists(t, p)
		assert.Nil(t, s.CustomLogo())
	})
	t.Run("rejects oversized upload", func(t *testing.T) {
		// given
		testutil.TruncateTables(db)
		s := newLoaded(t)
		content := make([]byte, settings.MaxLogoSize+1)
		// when
		err := s.UpdateCustomLogo(ctx, content)
		// then
		assert.ErrorIs(t, err, settings.ErrLogoTooLarge)
		assert.Nil(t, s.CustomLogo())
	})
	t.Run("concurrent updates never leave a dangling handle", func(t *testing.T) {
		// given
		testutil.TruncateTables(db)
		s := newLoaded(t)
		// when
		var wg sync.WaitGroup
		for i := range 8 {
			content := []byte{byte(i)}
			wg.Go(func() {
				assert.NoError(t, s.UpdateCustomLogo(ctx, content))
			})
		}
		wg.Wait()
		// then: exactly the final handle's file remains
		h := s.CustomLogo()
		require.NotNil(t, h)
		assert.FileExists(t, h.Path())
		stored, err := st.GetBlob(ctx, "custom-logo")
		require.NoError(t, err)
		got, err := os.ReadFile(h.Path())
		require.NoError(t, err)
		assert.Equal(t, stored, got)
	})
}
