package script

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AndreyAkinshin/skyunit/internal/errors"
)

func TestMemory_FunctionsInAddOrder(t *testing.T) {
	rt := NewMemory().
		Add("FooUnitTest", "TestZ", func(CheckFunc) {}).
		Add("FooUnitTest", "TestA", func(CheckFunc) {}).
		Add("FooUnitTest", "TestM", func(CheckFunc) {})

	fns, err := rt.Functions("FooUnitTest")
	require.NoError(t, err)
	assert.Equal(t, []string{"TestZ", "TestA", "TestM"}, fns)
}

func TestMemory_ReAddKeepsPosition(t *testing.T) {
	rt := NewMemory().
		Add("M", "A", func(CheckFunc) {}).
		Add("M", "B", func(CheckFunc) {}).
		Add("M", "A", func(CheckFunc) {})

	fns, err := rt.Functions("M")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, fns)
}

func TestMemory_UnknownModule(t *testing.T) {
	_, err := NewMemory().Functions("Missing")
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindNotFound))
}

func TestMemory_DispatchUsesRegisteredCheck(t *testing.T) {
	var got []string
	rt := NewMemory()
	rt.Synchronous = true
	rt.Add("M", "TestA", func(check CheckFunc) {
		check(true, "fine")
		check(false, "broken")
	})
	require.NoError(t, rt.Register(CheckFunctionName, func(result bool, msg string) bool {
		if !result {
			got = append(got, msg)
		}
		return result
	}))

	completed := false
	require.NoError(t, rt.Dispatch("M", "TestA", func() { completed = true }))
	assert.True(t, completed)
	assert.Equal(t, []string{"broken"}, got)
}

func TestMemory_DispatchIsAsynchronousByDefault(t *testing.T) {
	release := make(chan struct{})
	done := make(chan struct{})
	rt := NewMemory().Add("M", "TestA", func(CheckFunc) { <-release })

	require.NoError(t, rt.Dispatch("M", "TestA", func() { close(done) }))

	select {
	case <-done:
		t.Fatal("completion fired before the function finished")
	default:
	}
	close(release)

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("completion never fired")
	}
}

func TestMemory_DispatchUnknownFunction(t *testing.T) {
	rt := NewMemory().Add("M", "TestA", func(CheckFunc) {})
	called := false

	err := rt.Dispatch("M", "TestB", func() { called = true })
	require.Error(t, err)
	assert.False(t, called)
}

func TestMemory_RegisterNil(t *testing.T) {
	assert.Error(t, NewMemory().Register(CheckFunctionName, nil))
}
