// internal/game/timer.go
package game

// armTimer schedules the server-side expiry of the running round. The grace
// period lets the client's own timer_ended arrive first. Caller must hold s.Mu.
func (s *Session) armTimer(r *Round) {
	s.stopTimer()
	number := r.Number
	s.timer = s.clock.AfterFunc(r.Duration+s.grace, func() {
		s.onTimerFired(number)
	})
}

// stopTimer cancels a pending expiry. Caller must hold s.Mu.
func (s *Session) stopTimer() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// onTimerFired expires round number if it is still the running round.
func (s *Session) onTimerFired(number int) {
	s.Mu.Lock()
	defer s.Mu.Unlock()

	r := s.ActiveRound
	if s.closed || r == nil || r.Number != number || r.Phase != PhaseTimerRunning {
		s.logger.Debugf("ignoring stale timer for round %d", number)
		return
	}
	s.timer = nil
	if err := r.endTimer("timer", false); err != nil {
		return
	}
	s.logger.Infof("round %d timer expired on the server", number)
	s.logAction("timer_expired", map[string]interface{}{"round": number, "source": "server"})
	s.fireTimeUp(r)
}
