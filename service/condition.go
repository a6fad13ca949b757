package services

import "encoding/json"

// matches reports whether a rule's trigger condition holds for the given
// event. It is pure and total: malformed or partial config, or a context that
// is missing the fields the trigger needs, yields false rather than an error.
func matches(triggerType string, triggerConfig []byte, ctx EventContext) bool {
	switch triggerType {
	case TriggerStatusChange:
		var cfg StatusChangeTrigger
		if err := json.Unmarshal(triggerConfig, &cfg); err != nil {
			return false
		}
		if cfg.FromStatus == "" || cfg.ToStatus == "" {
			return false
		}
		if ctx.OldStatus == "" && ctx.NewStatus == "" {
			// Not a status event.
			return false
		}
		return ctx.OldStatus == cfg.FromStatus && ctx.NewStatus == cfg.ToStatus

	case TriggerTaskCreated:
		// No filtering condition; being invoked with a task_created event is
		// the whole condition.
		return true

	case TriggerDueDateApproaching:
		// The timing decision belongs to the due-date scanner; by the time we
		// are called the window has already been judged.
		return true

	case TriggerAssignment:
		// Matches only when at least one assignee was newly added. Removals
		// never match.
		previous := make(map[string]bool, len(ctx.PreviousAssignees))
		for _, userID := range ctx.PreviousAssignees {
			previous[userID] = true
		}
		for _, userID := range ctx.NewAssignees {
			if !previous[userID] {
				return true
			}
		}
		return false

	default:
		return false
	}
}
