package serrors_test

import (
	"errors"
	"fmt"
	"intake/pkg/serrors"
	"testing"

	"github.com/stretchr/testify/require"
)

type deviceError struct{ device string }

func (e *deviceError) Error() string { return "device " + e.device + " failed" }

func TestKinds(t *testing.T) {
	kinds := []*serrors.Kind{
		serrors.ErrNotFound,
		serrors.ErrUnauthorized,
		serrors.ErrForbidden,
		serrors.ErrBadRequest,
		serrors.ErrConflict,
		serrors.ErrInternal,
		serrors.ErrUnavailable,
		serrors.ErrPermissionDenied,
		serrors.ErrNoCamera,
	}
	codes := map[string]bool{}
	for _, k := range kinds {
		require.False(t, codes[k.Error()], "duplicate code %s", k)
		codes[k.Error()] = true
	}

	// same code, different identity
	require.NotErrorIs(t, serrors.KindOnly(serrors.NewKind("NOT_FOUND")), serrors.ErrNotFound)
}

func TestError_Message(t *testing.T) {
	cause := errors.New("connection reset")

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"message", serrors.With(serrors.ErrNotFound, "product %s not found", "7501"), "product 7501 not found"},
		{"message and cause", serrors.Wrap(serrors.ErrUnavailable, cause, "camera"), "camera: connection reset"},
		{"cause only", serrors.Wrap(serrors.ErrInternal, cause, ""), "connection reset"},
		{"kind only", serrors.KindOnly(serrors.ErrNoCamera), "NO_CAMERA"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.EqualError(t, tt.err, tt.want)
		})
	}
}

func TestError_IsAndAs(t *testing.T) {
	cause := &deviceError{device: "rear"}
	err := fmt.Errorf("start: %w", serrors.Wrap(serrors.ErrPermissionDenied, cause, "camera permission denied"))

	require.ErrorIs(t, err, serrors.ErrPermissionDenied)
	require.ErrorIs(t, err, cause)
	require.NotErrorIs(t, err, serrors.ErrNoCamera)

	var dev *deviceError
	require.ErrorAs(t, err, &dev)
	require.Equal(t, "rear", dev.device)

	var semErr *serrors.Error
	require.ErrorAs(t, err, &semErr)
	require.Equal(t, serrors.ErrPermissionDenied, semErr.Kind())
	require.Equal(t, "camera permission denied", semErr.Message())
	require.Equal(t, cause, semErr.Cause())
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want *serrors.Kind
	}{
		{"semantic error", serrors.With(serrors.ErrConflict, "taken"), serrors.ErrConflict},
		{"wrapped semantic error", fmt.Errorf("store: %w", serrors.KindOnly(serrors.ErrConflict)), serrors.ErrConflict},
		{"bare kind", fmt.Errorf("camera: %w", serrors.ErrNoCamera), serrors.ErrNoCamera},
		{"outermost wins", serrors.Wrap(serrors.ErrUnavailable, serrors.KindOnly(serrors.ErrNotFound), "x"), serrors.ErrUnavailable},
		{"plain", errors.New("plain"), nil},
		{"nil", nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, serrors.KindOf(tt.err))
		})
	}
}
