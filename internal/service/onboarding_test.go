package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/closetquest/closetquest/internal/models"
)

func TestIsFirstLogin(t *testing.T) {
	tests := []struct {
		name string
		data map[string]string
		err  error
		want bool
	}{
		{"read fails", nil, errors.New("service down"), true},
		{"key absent", map[string]string{}, nil, true},
		{"value false", map[string]string{models.OnboardingKey: "false"}, nil, true},
		{"value garbage", map[string]string{models.OnboardingKey: "yes"}, nil, true},
		{"value True wrong case", map[string]string{models.OnboardingKey: "True"}, nil, true},
		{"value true", map[string]string{models.OnboardingKey: "true"}, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gate := NewOnboarding(&mockClient{
				GetUserDataFunc: func(context.Context, string, []string) (map[string]string, error) {
					return tt.data, tt.err
				},
			})
			assert.Equal(t, tt.want, gate.IsFirstLogin(context.Background(), "tok"))
		})
	}
}

func TestMarkComplete_WritesTrueFlag(t *testing.T) {
	var written map[string]string
	gate := NewOnboarding(&mockClient{
		UpdateUserDataFunc: func(_ context.Context, _ string, data map[string]string) error {
			written = data
			return nil
		},
	})

	require.NoError(t, gate.MarkComplete(context.Background(), "tok"))
	assert.Equal(t, models.FlagTrue, written[models.OnboardingKey])
}

func TestMarkComplete_SurfacesWriteFailure(t *testing.T) {
	wantErr := errors.New("write failed")
	gate := NewOnboarding(&mockClient{
		UpdateUserDataFunc: func(context.Context, string, map[string]string) error {
			return wantErr
		},
	})

	err := gate.MarkComplete(context.Background(), "tok")
	require.ErrorIs(t, err, wantErr)
}
