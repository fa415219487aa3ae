package service

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/closetquest/closetquest/internal/identity"
	"github.com/closetquest/closetquest/internal/models"
)

// ComputeUnlocked overlays the unlocked state onto a copy of the stage list.
// Stage 1 is always unlocked; stage N>1 is unlocked iff the preceding stage
// is in the completed set. The input list is never mutated.
func ComputeUnlocked(completed map[int]bool, stages []models.Stage) []models.Stage {
	out := make([]models.Stage, len(stages))
	copy(out, stages)
	for i := range out {
		out[i].Unlocked = out[i].ID == 1 || completed[out[i].ID-1]
	}
	return out
}

// decodeRecord converts the string-encoded progress record into a completed
// set. The "true" sentinel stays at this boundary; core logic only sees
// booleans.
func decodeRecord(record map[string]string, stages []models.Stage) map[int]bool {
	completed := make(map[int]bool, len(stages))
	for _, stage := range stages {
		if record[models.StageCompleteKey(stage.ID)] == models.FlagTrue {
			completed[stage.ID] = true
		}
	}
	return completed
}

// Progress computes which stages are selectable for the current user and
// advances progression on completion. Unlock state is authoritative only
// after a read of the persisted record; the per-user cache is a read-through
// convenience invalidated on every write.
type Progress struct {
	client identity.Client
	stages []models.Stage
	log    *zap.Logger

	mu    sync.Mutex
	cache map[string]map[int]bool
}

// NewProgress constructs a Progress tracker over the given stage list.
func NewProgress(client identity.Client, stages []models.Stage, log *zap.Logger) *Progress {
	return &Progress{
		client: client,
		stages: stages,
		log:    log,
		cache:  make(map[string]map[int]bool),
	}
}

// stageKeys returns the completion-flag keys for every stage in the list.
func (p *Progress) stageKeys() []string {
	keys := make([]string, len(p.stages))
	for i, stage := range p.stages {
		keys[i] = models.StageCompleteKey(stage.ID)
	}
	return keys
}

// completedSet returns the user's completed stages, reading through the
// cache. A failed read resolves to the empty set, which leaves only stage 1
// unlocked; the error never reaches the user.
func (p *Progress) completedSet(ctx context.Context, sess *models.Session) map[int]bool {
	p.mu.Lock()
	cached, ok := p.cache[sess.UserID]
	p.mu.Unlock()
	if ok {
		return cached
	}

	record, err := p.client.GetUserData(ctx, sess.Token, p.stageKeys())
	if err != nil {
		p.log.Warn("progress record read failed, defaulting to stage 1 only",
			zap.String("userId", sess.UserID),
			zap.Error(err),
		)
		return map[int]bool{}
	}

	completed := decodeRecord(record, p.stages)
	p.mu.Lock()
	p.cache[sess.UserID] = completed
	p.mu.Unlock()
	return completed
}

// invalidate drops the cached record so the next read is authoritative.
func (p *Progress) invalidate(userID string) {
	p.mu.Lock()
	delete(p.cache, userID)
	p.mu.Unlock()
}

// Stages returns the stage list with per-user unlock state overlaid.
func (p *Progress) Stages(ctx context.Context, sess *models.Session) []models.Stage {
	return ComputeUnlocked(p.completedSet(ctx, sess), p.stages)
}

// CompleteStage persists the completion flag for the given stage and
// invalidates the cached record. The next stage becomes selectable once the
// flag is read back.
func (p *Progress) CompleteStage(ctx context.Context, sess *models.Session, stageID int) error {
	if stageID < 1 || stageID > len(p.stages) {
		return ErrUnknownStage
	}

	err := p.client.UpdateUserData(ctx, sess.Token, map[string]string{
		models.StageCompleteKey(stageID): models.FlagTrue,
	})
	if err != nil {
		return fmt.Errorf("persist stage %d completion: %w", stageID, err)
	}

	p.invalidate(sess.UserID)
	return nil
}

// SelectStage returns the entry path for the given stage, or ErrStageLocked
// when the computed unlock state says it is not selectable.
func (p *Progress) SelectStage(ctx context.Context, sess *models.Session, stageID int) (string, error) {
	if stageID < 1 || stageID > len(p.stages) {
		return "", ErrUnknownStage
	}

	stages := p.Stages(ctx, sess)
	if !stages[stageID-1].Unlocked {
		return "", ErrStageLocked
	}
	return fmt.Sprintf("/closet/%d", stageID), nil
}
