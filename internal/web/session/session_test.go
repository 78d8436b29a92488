package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestData_WriteRead(t *testing.T) {
	Init(NewMemoryStorage())

	id, err := GenerateSessionID()
	require.NoError(t, err)
	assert.Len(t, id, 64)

	in := &Data{UserID: 7, Username: "alice"}
	require.NoError(t, in.Write(id, time.Minute))

	out := new(Data)
	require.NoError(t, out.Read(id))
	assert.Equal(t, *in, *out)

	require.NoError(t, Delete(id))

	out = new(Data)
	require.NoError(t, out.Read(id))
	assert.Zero(t, out.UserID, "deleted session must read as empty")
}

func TestMemoryStorage_Expiry(t *testing.T) {
	s := NewMemoryStorage()
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.Set("short", []byte("x"), time.Second))
	require.NoError(t, s.Set("forever", []byte("y"), 0))

	assert.Eventually(t, func() bool {
		v, err := s.Get("short")
		return err == nil && v == nil
	}, 5*time.Second, 100*time.Millisecond)

	v, err := s.Get("forever")
	require.NoError(t, err)
	assert.Equal(t, []byte("y"), v)

	require.NoError(t, s.Reset())

	v, err = s.Get("forever")
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestInit_PanicsOnNilStorage(t *testing.T) {
	assert.Panics(t, func() { Init(nil) })
}
