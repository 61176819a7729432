package servlet

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession() *MockSession {
	return NewMockSession("1", NewMockContext(nil), time.Unix(1000, 0), 30*time.Second)
}

// sessionOperations calls every operation that must fail on an invalidated session.
func sessionOperations(s *MockSession) map[string]error {
	ops := make(map[string]error)
	_, ops["ID"] = s.ID()
	_, ops["CreationTime"] = s.CreationTime()
	_, ops["LastAccessedTime"] = s.LastAccessedTime()
	_, _, ops["Attribute"] = s.Attribute("k")
	ops["SetAttribute"] = s.SetAttribute("k", "v")
	ops["RemoveAttribute"] = s.RemoveAttribute("k")
	_, ops["AttributeNames"] = s.AttributeNames()
	_, ops["IsNew"] = s.IsNew()
	ops["CopyAttributes"] = s.CopyAttributes(newTestSession())
	return ops
}

func TestSessionOperationsSucceedWhileValid(t *testing.T) {
	s := newTestSession()
	for name, err := range sessionOperations(s) {
		assert.NoError(t, err, name)
	}
	assert.True(t, s.IsValid())
}

func TestSessionOperationsFailAfterInvalidate(t *testing.T) {
	s := newTestSession()
	require.NoError(t, s.Invalidate())
	assert.False(t, s.IsValid())
	for name, err := range sessionOperations(s) {
		assert.ErrorIs(t, err, ErrIllegalState, name)
	}
	assert.ErrorIs(t, s.Invalidate(), ErrIllegalState)
}

func TestSessionContextAndIntervalAvailableAfterInvalidate(t *testing.T) {
	s := newTestSession()
	require.NoError(t, s.Invalidate())
	assert.NotNil(t, s.ServletContext())
	s.SetMaxInactiveInterval(time.Minute)
	assert.Equal(t, time.Minute, s.MaxInactiveInterval())
}

func TestSessionAttributes(t *testing.T) {
	s := newTestSession()

	v, ok, err := s.Attribute("k")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, v)

	require.NoError(t, s.SetAttribute("k", 42))
	v, ok, err = s.Attribute("k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 42, v)

	require.NoError(t, s.SetAttribute("a", "x"))
	names, err := s.AttributeNames()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "k"}, names)

	require.NoError(t, s.RemoveAttribute("k"))
	_, ok, err = s.Attribute("k")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.SetAttribute("a", nil))
	names, err = s.AttributeNames()
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestSessionFixedProperties(t *testing.T) {
	s := newTestSession()
	id, err := s.ID()
	require.NoError(t, err)
	assert.Equal(t, "1", id)
	created, err := s.CreationTime()
	require.NoError(t, err)
	assert.Equal(t, time.Unix(1000, 0), created)
	accessed, err := s.LastAccessedTime()
	require.NoError(t, err)
	assert.True(t, accessed.IsZero())
	isNew, err := s.IsNew()
	require.NoError(t, err)
	assert.False(t, isNew)
	assert.Equal(t, 30*time.Second, s.MaxInactiveInterval())
}

func TestCreateMockSessionUsesUniqueIDs(t *testing.T) {
	ctx := NewMockContext(nil)
	s1, s2 := CreateMockSession(ctx), CreateMockSession(ctx)
	id1, _ := s1.ID()
	id2, _ := s2.ID()
	assert.NotEqual(t, id1, id2)
	assert.Equal(t, DefaultMaxInactiveInterval, s1.MaxInactiveInterval())
	assert.Same(t, ctx, s1.ServletContext())
}

// nilValueSession reports an attribute name whose value is nil, which MockSession itself never does.
type nilValueSession struct {
	*MockSession
}

func (s nilValueSession) AttributeNames() ([]string, error) {
	names, err := s.MockSession.AttributeNames()
	return append(names, "nothing"), err
}

func TestCopyMockSession(t *testing.T) {
	src := newTestSession()
	require.NoError(t, src.SetAttribute("user", "alice"))
	require.NoError(t, src.SetAttribute("count", 3))

	copied, err := CopyMockSession(nilValueSession{src})
	require.NoError(t, err)

	id, _ := copied.ID()
	assert.Equal(t, "1", id)
	names, err := copied.AttributeNames()
	require.NoError(t, err)
	assert.Equal(t, []string{"count", "user"}, names)

	require.NoError(t, copied.SetAttribute("user", "bob"))
	v, _, _ := src.Attribute("user")
	assert.Equal(t, "alice", v, "copy must not share attribute storage with the source")
}

func TestCopyMockSessionFromInvalidSession(t *testing.T) {
	src := newTestSession()
	require.NoError(t, src.Invalidate())
	_, err := CopyMockSession(src)
	assert.ErrorIs(t, err, ErrIllegalState)
}

func TestDestroyClearsAttributes(t *testing.T) {
	s := newTestSession()
	require.NoError(t, s.SetAttribute("k", "v"))
	s.Destroy()
	names, err := s.AttributeNames()
	require.NoError(t, err)
	assert.Empty(t, names)
	assert.True(t, s.IsValid())
}

func TestConcurrentAttributeAccess(t *testing.T) {
	s := newTestSession()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("k%d", i)
			for j := 0; j < 100; j++ {
				assert.NoError(t, s.SetAttribute(key, j))
				_, _, err := s.Attribute(key)
				assert.NoError(t, err)
			}
		}(i)
	}
	wg.Wait()
	names, err := s.AttributeNames()
	require.NoError(t, err)
	assert.Len(t, names, 20)
}
