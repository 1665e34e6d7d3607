package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEditSession_CleanCommitReturnsSaved(t *testing.T) {
	session := NewEditSession(simConfig(), 90)

	assert.Equal(t, StateClean, session.State())

	committed, err := session.Commit()
	assert.NoError(t, err)
	assert.Equal(t, simConfig().BasePrice, committed.BasePrice)
}

func TestEditSession_ValidEditBecomesSaveable(t *testing.T) {
	session := NewEditSession(simConfig(), 90)

	session.Apply(func(cfg *PurchaseConfig) {
		cfg.Tiers[1].DiscountPercent = 8
	})

	assert.Equal(t, StateSaveable, session.State())
	assert.True(t, session.CanSave())

	committed, err := session.Commit()
	assert.NoError(t, err)
	assert.Equal(t, int64(920), committed.Tiers[1].EffectivePrice)
	assert.Equal(t, StateClean, session.State())
}

func TestEditSession_ValidationFailureBlocksCommit(t *testing.T) {
	session := NewEditSession(simConfig(), 90)

	session.Apply(func(cfg *PurchaseConfig) {
		cfg.Tiers[1].FromQty = 50 // overlaps tier 1
	})

	assert.Equal(t, StateValidationFailed, session.State())

	_, err := session.Commit()
	var tierErr *TierValidationError
	assert.ErrorAs(t, err, &tierErr)
	assert.NotEmpty(t, tierErr.Violations)
}

func TestEditSession_GuardrailPendingNeedsAcknowledgment(t *testing.T) {
	session := NewEditSession(simConfig(), 90)

	session.Apply(func(cfg *PurchaseConfig) {
		cfg.Tiers[2].DiscountPercent = 15
	})

	assert.Equal(t, StateGuardrailPending, session.State())
	assert.False(t, session.CanSave())

	_, err := session.Commit()
	assert.ErrorIs(t, err, ErrGuardrailNotAcknowledged)

	session.Acknowledge()
	assert.Equal(t, StateSaveable, session.State())

	committed, err := session.Commit()
	assert.NoError(t, err)
	assert.Equal(t, int64(850), committed.Tiers[2].EffectivePrice)
}

func TestEditSession_MutationResetsAcknowledgment(t *testing.T) {
	session := NewEditSession(simConfig(), 90)

	session.Apply(func(cfg *PurchaseConfig) {
		cfg.Tiers[2].DiscountPercent = 15
	})
	session.Acknowledge()
	assert.True(t, session.Acknowledged())

	// any further edit drops the acknowledgment
	session.Apply(func(cfg *PurchaseConfig) {
		cfg.Tiers[2].DiscountPercent = 20
	})

	assert.False(t, session.Acknowledged())
	assert.Equal(t, StateGuardrailPending, session.State())
}

func TestEditSession_AcknowledgeOutsidePendingIsNoop(t *testing.T) {
	session := NewEditSession(simConfig(), 90)

	session.Acknowledge()
	assert.Equal(t, StateClean, session.State())
	assert.False(t, session.Acknowledged())
}

func TestEditSession_DisableNeedsConfirmation(t *testing.T) {
	session := NewEditSession(simConfig(), 90)

	err := session.Disable(false)
	assert.ErrorIs(t, err, ErrDisableNotConfirmed)

	err = session.Disable(true)
	assert.NoError(t, err)
	assert.False(t, session.Draft().Enabled)
	assert.Equal(t, StateSaveable, session.State())
}

func TestEditSession_DiscardRevertsDraft(t *testing.T) {
	session := NewEditSession(simConfig(), 90)

	session.Apply(func(cfg *PurchaseConfig) {
		cfg.BasePrice = 2000
	})
	assert.Equal(t, int64(2000), session.Draft().BasePrice)

	session.Discard()

	assert.Equal(t, StateClean, session.State())
	assert.Equal(t, int64(1000), session.Draft().BasePrice)
	assert.Empty(t, session.Violations())
}

func TestEditSession_DraftIsolatedFromSaved(t *testing.T) {
	saved := simConfig()
	session := NewEditSession(saved, 90)

	session.Apply(func(cfg *PurchaseConfig) {
		cfg.Tiers[0].DiscountPercent = 50
	})

	assert.Equal(t, 0, saved.Tiers[0].DiscountPercent)
}
