package checks

import (
	"github.com/launchdarkly/mock-ui-environment/mockenv"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func DoSessionChecks(t *T) {
	t.Run("setup publishes current instances", func(t *T) {
		ctx, env := t.SetupEnvironment()

		session := mockenv.CurrentSession(ctx)
		require.NotNil(t, session)
		assert.Same(t, env.Session(), session)
		require.NotNil(t, mockenv.CurrentUI(ctx))
		assert.Same(t, session, mockenv.CurrentUI(ctx).UIBase().Session())
		assert.True(t, mockenv.CurrentUI(ctx).UIBase().IsAttached())
		assert.True(t, session.IsLocked(), "the session lock should be held")
	})

	t.Run("session attributes", func(t *T) {
		ctx, _ := t.SetupEnvironment()

		session := mockenv.CurrentSession(ctx)
		require.NoError(t, session.SetAttribute("check", 42))
		value, found, err := session.Attribute("check")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, 42, value)
	})

	t.Run("teardown clears current instances", func(t *T) {
		ctx, env := t.SetupEnvironment()
		env.Teardown()

		assert.Nil(t, mockenv.CurrentSession(ctx))
		assert.Nil(t, mockenv.CurrentUI(ctx))
		assert.Nil(t, mockenv.CurrentService(ctx))
	})

	t.Run("environments are isolated", func(t *T) {
		ctx1, _ := t.SetupEnvironment()
		ctx2, _ := t.SetupEnvironment()
		assert.NotSame(t, mockenv.CurrentSession(ctx1), mockenv.CurrentSession(ctx2))

		_, _, err := mockenv.Setup(ctx1)
		assert.ErrorIs(t, err, mockenv.ErrAlreadySetUp)
	})
}
