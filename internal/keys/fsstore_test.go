package keys

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *FSStore {
	t.Helper()
	s, err := NewFSStore(t.TempDir(), "prc")
	require.NoError(t, err)
	return s
}

func TestFSStore_SaveAndResolve(t *testing.T) {
	s := newTestStore(t)

	mat, err := Generate(ES256, "prc")
	require.NoError(t, err)
	require.NoError(t, s.Save(mat))

	active, err := s.Active()
	require.NoError(t, err)
	require.Equal(t, mat.KID, active.KID)
	require.NotNil(t, active.Private, "active material must be able to sign")

	byKID, err := s.ByKID(mat.KID)
	require.NoError(t, err)
	require.Equal(t, mat.Thumbprint, byKID.Thumbprint)
}

func TestFSStore_EmptyDir(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Active()
	require.ErrorIs(t, err, ErrNoActiveKey)

	_, err = s.ByKID("prc:x5t#S256:doesnotexist")
	require.ErrorIs(t, err, ErrKeyNotFound)

	_, err = s.ByKID("garbage")
	require.ErrorIs(t, err, ErrKeyNotFound)
}

// Rotación: guardar una clave activa nueva retira la anterior, pero la
// retirada sigue resolviéndose por kid (verificación de tokens viejos).
func TestFSStore_Rotation(t *testing.T) {
	s := newTestStore(t)

	first, err := Generate(ES256, "prc")
	require.NoError(t, err)
	require.NoError(t, s.Save(first))

	second, err := Generate(ES256, "prc")
	require.NoError(t, err)
	require.NoError(t, s.Save(second))

	active, err := s.Active()
	require.NoError(t, err)
	require.Equal(t, second.KID, active.KID)

	retired, err := s.ByKID(first.KID)
	require.NoError(t, err, "retired material must stay resolvable")
	require.Equal(t, StatusRetired, retired.Status)

	all, err := s.List()
	require.NoError(t, err)
	require.Len(t, all, 2)
}

func TestFSStore_Retire(t *testing.T) {
	s := newTestStore(t)

	mat, err := Generate(ES256, "prc")
	require.NoError(t, err)
	require.NoError(t, s.Save(mat))

	require.NoError(t, s.Retire(mat.KID))
	require.NoError(t, s.Retire(mat.KID), "retire is idempotent")

	_, err = s.Active()
	require.ErrorIs(t, err, ErrNoActiveKey)

	m, err := s.ByKID(mat.KID)
	require.NoError(t, err)
	require.Equal(t, StatusRetired, m.Status)
}

// Reabrir el directorio debe ver las mismas claves (persistencia real,
// no solo cache).
func TestFSStore_Reopen(t *testing.T) {
	dir := t.TempDir()
	s1, err := NewFSStore(dir, "prc")
	require.NoError(t, err)

	mat, err := Generate(ES256, "prc")
	require.NoError(t, err)
	require.NoError(t, s1.Save(mat))

	s2, err := NewFSStore(dir, "prc")
	require.NoError(t, err)
	active, err := s2.Active()
	require.NoError(t, err)
	require.Equal(t, mat.KID, active.KID)

	// La clave cargada de disco firma igual que la original
	require.NotNil(t, active.Private)
	require.Equal(t, mat.Thumbprint, active.Thumbprint)
}

func TestThumbprintFromKID(t *testing.T) {
	tp, ok := thumbprintFromKID("prc:x5t#S256:abc123")
	require.True(t, ok)
	require.Equal(t, "abc123", tp)

	for _, bad := range []string{"", "prc", "prc:", "abc123", "prc:sha1:abc"} {
		_, ok := thumbprintFromKID(bad)
		require.False(t, ok, "kid %q", bad)
	}
}
