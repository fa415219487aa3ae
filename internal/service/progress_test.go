package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/closetquest/closetquest/internal/models"
)

func testSession() *models.Session {
	return &models.Session{Token: "tok", UserID: "u1", CustomID: "u1_1700000000"}
}

func TestComputeUnlocked_Chain(t *testing.T) {
	stages := models.DefaultStages()
	completed := map[int]bool{1: true, 2: true, 3: true}

	out := ComputeUnlocked(completed, stages)

	require.Len(t, out, 14)
	for _, stage := range out {
		// Stage 1 always; stage N>1 iff stage N-1 completed.
		want := stage.ID == 1 || completed[stage.ID-1]
		assert.Equal(t, want, stage.Unlocked, "stage %d", stage.ID)
	}
	assert.True(t, out[0].Unlocked)
	assert.True(t, out[3].Unlocked, "stage 4 unlocks after stage 3")
	assert.False(t, out[4].Unlocked, "stage 5 stays locked")
}

func TestComputeUnlocked_EmptyRecord(t *testing.T) {
	out := ComputeUnlocked(map[int]bool{}, models.DefaultStages())
	assert.True(t, out[0].Unlocked)
	for _, stage := range out[1:] {
		assert.False(t, stage.Unlocked, "stage %d", stage.ID)
	}
}

func TestComputeUnlocked_PureAndNonMutating(t *testing.T) {
	stages := models.DefaultStages()
	completed := map[int]bool{1: true}

	first := ComputeUnlocked(completed, stages)
	second := ComputeUnlocked(completed, stages)

	assert.Equal(t, first, second)
	for _, stage := range stages {
		assert.False(t, stage.Unlocked, "input list must not be mutated")
	}
}

func TestStages_ReadsStringFlagsAtBoundary(t *testing.T) {
	tracker := NewProgress(&mockClient{
		GetUserDataFunc: func(context.Context, string, []string) (map[string]string, error) {
			return map[string]string{
				models.StageCompleteKey(1): "true",
				models.StageCompleteKey(2): "false",
				models.StageCompleteKey(3): "TRUE",
			}, nil
		},
	}, models.DefaultStages(), zap.NewNop())

	out := tracker.Stages(context.Background(), testSession())
	assert.True(t, out[1].Unlocked, "stage 2 unlocks from the literal \"true\"")
	assert.False(t, out[2].Unlocked, `"false" does not complete a stage`)
	assert.False(t, out[3].Unlocked, `only the exact literal "true" counts`)
}

func TestStages_ReadFailureDefaultsToStageOne(t *testing.T) {
	tracker := NewProgress(&mockClient{
		GetUserDataFunc: func(context.Context, string, []string) (map[string]string, error) {
			return nil, errors.New("service down")
		},
	}, models.DefaultStages(), zap.NewNop())

	out := tracker.Stages(context.Background(), testSession())
	require.Len(t, out, 14)
	assert.True(t, out[0].Unlocked)
	for _, stage := range out[1:] {
		assert.False(t, stage.Unlocked, "stage %d", stage.ID)
	}
}

func TestCompleteStage_WritesFlagAndInvalidatesCache(t *testing.T) {
	reads := 0
	record := map[string]string{}
	client := &mockClient{
		GetUserDataFunc: func(context.Context, string, []string) (map[string]string, error) {
			reads++
			out := make(map[string]string, len(record))
			for k, v := range record {
				out[k] = v
			}
			return out, nil
		},
		UpdateUserDataFunc: func(_ context.Context, _ string, data map[string]string) error {
			for k, v := range data {
				record[k] = v
			}
			return nil
		},
	}
	tracker := NewProgress(client, models.DefaultStages(), zap.NewNop())
	sess := testSession()

	// First read populates the cache; the second is served from it.
	tracker.Stages(context.Background(), sess)
	tracker.Stages(context.Background(), sess)
	assert.Equal(t, 1, reads)

	require.NoError(t, tracker.CompleteStage(context.Background(), sess, 1))
	assert.Equal(t, models.FlagTrue, record[models.StageCompleteKey(1)])

	// The write invalidated the cache; the next read is authoritative.
	out := tracker.Stages(context.Background(), sess)
	assert.Equal(t, 2, reads)
	assert.True(t, out[1].Unlocked, "stage 2 unlocks after stage 1 completion")
}

func TestCompleteStage_UnknownStage(t *testing.T) {
	tracker := NewProgress(&mockClient{}, models.DefaultStages(), zap.NewNop())
	sess := testSession()

	require.ErrorIs(t, tracker.CompleteStage(context.Background(), sess, 0), ErrUnknownStage)
	require.ErrorIs(t, tracker.CompleteStage(context.Background(), sess, 15), ErrUnknownStage)
}

func TestCompleteStage_WriteFailureSurfaced(t *testing.T) {
	wantErr := errors.New("write failed")
	tracker := NewProgress(&mockClient{
		UpdateUserDataFunc: func(context.Context, string, map[string]string) error {
			return wantErr
		},
	}, models.DefaultStages(), zap.NewNop())

	err := tracker.CompleteStage(context.Background(), testSession(), 1)
	require.ErrorIs(t, err, wantErr)
}

func TestSelectStage(t *testing.T) {
	tracker := NewProgress(&mockClient{
		GetUserDataFunc: func(context.Context, string, []string) (map[string]string, error) {
			return map[string]string{models.StageCompleteKey(1): "true"}, nil
		},
	}, models.DefaultStages(), zap.NewNop())
	sess := testSession()

	entry, err := tracker.SelectStage(context.Background(), sess, 2)
	require.NoError(t, err)
	assert.Equal(t, "/closet/2", entry)

	_, err = tracker.SelectStage(context.Background(), sess, 3)
	require.ErrorIs(t, err, ErrStageLocked)

	_, err = tracker.SelectStage(context.Background(), sess, 99)
	require.ErrorIs(t, err, ErrUnknownStage)
}
