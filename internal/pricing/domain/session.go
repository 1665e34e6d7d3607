package domain

// SessionState is the save-workflow state of a single edit session.
type SessionState string

const (
	StateClean            SessionState = "clean"
	StateDirty            SessionState = "dirty"
	StateValidationFailed SessionState = "validation_failed"
	StateGuardrailPending SessionState = "guardrail_pending"
	StateSaveable         SessionState = "saveable"
)

// EditSession owns one in-progress edit of a purchase config. Every
// mutation re-runs the tier validator and the guardrail audit and drops any
// earlier guardrail acknowledgment, so a stale acknowledgment can never
// cover a violation introduced by a later edit. Discarding the session
// reverts to the saved snapshot; committing replaces it.
type EditSession struct {
	saved        PurchaseConfig
	draft        PurchaseConfig
	floorPercent int

	state        SessionState
	violations   []TierViolation
	guardrail    GuardrailReport
	acknowledged bool
}

// NewEditSession opens a clean session over the saved config snapshot.
func NewEditSession(saved PurchaseConfig, floorPercent int) *EditSession {
	return &EditSession{
		saved:        saved,
		draft:        cloneConfig(saved),
		floorPercent: floorPercent,
		state:        StateClean,
	}
}

func (s *EditSession) State() SessionState         { return s.state }
func (s *EditSession) Draft() PurchaseConfig       { return cloneConfig(s.draft) }
func (s *EditSession) Violations() []TierViolation { return s.violations }
func (s *EditSession) Guardrail() GuardrailReport  { return s.guardrail }
func (s *EditSession) Acknowledged() bool          { return s.acknowledged }

// Apply mutates the draft, re-derives effective prices, resets the
// guardrail acknowledgment, and recomputes the workflow state.
func (s *EditSession) Apply(mutate func(*PurchaseConfig)) {
	mutate(&s.draft)
	Recalculate(&s.draft)
	s.acknowledged = false
	s.recompute(StateDirty)
}

// Acknowledge accepts the current guardrail violations for this edit
// session only. It has no effect unless the session is waiting on it.
func (s *EditSession) Acknowledge() {
	if s.state != StateGuardrailPending {
		return
	}
	s.acknowledged = true
	s.state = StateSaveable
}

// Disable flips the enabled gate off. Turning off a previously-enabled
// config is a distinguished transition that needs its own yes/no
// confirmation, separate from the guardrail checkbox.
func (s *EditSession) Disable(confirm bool) error {
	if s.draft.Enabled && !confirm {
		return ErrDisableNotConfirmed
	}
	s.Apply(func(cfg *PurchaseConfig) { cfg.Enabled = false })
	return nil
}

// CanSave reports whether a commit would be accepted right now.
func (s *EditSession) CanSave() bool {
	return s.state == StateSaveable
}

// Commit returns the draft for persistence and resets the session to clean
// around the new snapshot. The caller owns actually writing the config.
func (s *EditSession) Commit() (PurchaseConfig, error) {
	if s.state == StateClean {
		return cloneConfig(s.saved), nil
	}
	if !s.CanSave() {
		if s.state == StateGuardrailPending {
			return PurchaseConfig{}, ErrGuardrailNotAcknowledged
		}
		return PurchaseConfig{}, &TierValidationError{Violations: s.violations}
	}
	s.saved = cloneConfig(s.draft)
	s.state = StateClean
	s.acknowledged = false
	return cloneConfig(s.saved), nil
}

// Discard drops the in-progress edit and reverts to the saved snapshot.
func (s *EditSession) Discard() {
	s.draft = cloneConfig(s.saved)
	s.state = StateClean
	s.acknowledged = false
	s.violations = nil
	s.guardrail = GuardrailReport{}
}

func (s *EditSession) recompute(base SessionState) {
	s.state = base
	s.violations = ValidateTiers(s.draft.Tiers, s.draft.MinTokens)
	if len(s.violations) > 0 {
		s.state = StateValidationFailed
		s.guardrail = GuardrailReport{}
		return
	}

	s.guardrail = AuditGuardrail(s.draft.Tiers, s.draft.BasePrice, s.floorPercent)
	if s.guardrail.Breached() && !s.acknowledged {
		s.state = StateGuardrailPending
		return
	}
	s.state = StateSaveable
}

func cloneConfig(cfg PurchaseConfig) PurchaseConfig {
	out := cfg
	out.Tiers = make([]PricingTier, len(cfg.Tiers))
	copy(out.Tiers, cfg.Tiers)
	return out
}
