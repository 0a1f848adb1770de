package bus

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testCommand struct {
	Value   string
	invalid bool
}

func (c testCommand) Validate() error {
	if c.invalid {
		return errors.New("invalid command")
	}
	return nil
}

func TestCommandBus_RegisterAndSend(t *testing.T) {
	b := NewCommandBus()
	var handled testCommand
	handler := CommandHandlerFunc(func(_ context.Context, cmd Command) error {
		handled = cmd.(testCommand)
		return nil
	})
	require.NoError(t, b.Register(testCommand{}, handler))

	err := b.Send(context.Background(), testCommand{Value: "hello"})

	require.NoError(t, err)
	assert.Equal(t, "hello", handled.Value)
}

func TestCommandBus_DuplicateRegistration(t *testing.T) {
	b := NewCommandBus()
	handler := CommandHandlerFunc(func(context.Context, Command) error { return nil })
	require.NoError(t, b.Register(testCommand{}, handler))

	err := b.Register(testCommand{}, handler)

	assert.Error(t, err)
}

func TestCommandBus_Send_NoHandler(t *testing.T) {
	b := NewCommandBus()

	err := b.Send(context.Background(), testCommand{})

	assert.Error(t, err)
}

func TestCommandBus_Send_ValidationFailure(t *testing.T) {
	b := NewCommandBus()
	called := false
	require.NoError(t, b.Register(testCommand{}, CommandHandlerFunc(func(context.Context, Command) error {
		called = true
		return nil
	})))

	err := b.Send(context.Background(), testCommand{invalid: true})

	require.Error(t, err)
	assert.False(t, called, "invalid command must not reach the handler")
}

func TestCommandBus_Send_HandlerError(t *testing.T) {
	b := NewCommandBus()
	want := errors.New("handler failed")
	require.NoError(t, b.Register(testCommand{}, CommandHandlerFunc(func(context.Context, Command) error {
		return want
	})))

	err := b.Send(context.Background(), testCommand{})

	assert.ErrorIs(t, err, want)
}

func TestPipeline_Order(t *testing.T) {
	var order []string
	mw := func(name string) Middleware {
		return func(next CommandHandler) CommandHandler {
			return CommandHandlerFunc(func(ctx context.Context, cmd Command) error {
				order = append(order, name)
				return next.Handle(ctx, cmd)
			})
		}
	}
	pipeline := NewPipeline(mw("outer"), mw("inner"))
	handler := pipeline.Execute(CommandHandlerFunc(func(context.Context, Command) error {
		order = append(order, "handler")
		return nil
	}))

	require.NoError(t, handler.Handle(context.Background(), testCommand{}))
	assert.Equal(t, []string{"outer", "inner", "handler"}, order)
}
