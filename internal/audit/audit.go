package audit

import (
	"context"

	"github.com/ABIRENIS/Jero-CRM/pkg/log"
)

// Audit actions.
const (
	ActionRegisterEngineer = "engineer.register"
	ActionLogin            = "engineer.login"
	ActionLogout           = "engineer.logout"
	ActionPresenceChange   = "engineer.presence"
	ActionEditMessage      = "chat.edit"
	ActionDeleteMessage    = "chat.delete"
	ActionRetentionSweep   = "chat.retention"
)

// Field constants for audit entries.
const (
	FieldAction = "action"
	FieldDetail = "detail"
)

// Log emits a structured audit log entry via the context logger.
func Log(ctx context.Context, action string, engineerID uint, msg string) {
	l := log.Ctx(ctx)
	l.Info().
		Str(log.FieldLogType, log.LogTypeAudit).
		Str(FieldAction, action).
		Uint(log.FieldEngineerID, engineerID).
		Msg(msg)
}

// LogWithDetail emits an audit log with an extra detail field.
func LogWithDetail(ctx context.Context, action string, engineerID uint, detail string, msg string) {
	l := log.Ctx(ctx)
	l.Info().
		Str(log.FieldLogType, log.LogTypeAudit).
		Str(FieldAction, action).
		Uint(log.FieldEngineerID, engineerID).
		Str(FieldDetail, detail).
		Msg(msg)
}

// LogRetention emits an audit log for a retention sweep.
func LogRetention(ctx context.Context, deleted int64) {
	l := log.Ctx(ctx)
	l.Info().
		Str(log.FieldLogType, log.LogTypeAudit).
		Str(FieldAction, ActionRetentionSweep).
		Int64("deleted", deleted).
		Msg("retention sweep completed")
}

// LogMessage emits an audit log for a chat message mutation.
func LogMessage(ctx context.Context, action string, engineerID, messageID uint, msg string) {
	l := log.Ctx(ctx)
	l.Info().
		Str(log.FieldLogType, log.LogTypeAudit).
		Str(FieldAction, action).
		Uint(log.FieldEngineerID, engineerID).
		Uint(log.FieldMessageID, messageID).
		Msg(msg)
}
