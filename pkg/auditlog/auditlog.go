package auditlog

import (
	"log"

	"github.com/GThiruAishwarya/kristaball/pkg/models"
)

// Store persists audit entries; the concrete implementation lives in
// internal/auditlog.
type Store interface {
	PersistLog(auditLog models.AuditLog, data interface{}) error
}

type Auditlog struct {
	store Store
}

func NewAuditLog(store Store) *Auditlog {
	return &Auditlog{store: store}
}

// Auditable is anything that can describe itself as an audit log entry.
type Auditable interface {
	CreateLogView() models.AuditLog
}

// Log records an action against a resource. Failures are logged and
// swallowed; audit logging never fails the operation it describes.
func (a *Auditlog) Log(action string, data interface{}, item Auditable) {
	auditLog := item.CreateLogView()
	auditLog.Action = action

	if err := a.store.PersistLog(auditLog, data); err != nil {
		log.Println("Unable to create audit log entry for resource", auditLog.ResourceID, ":", err)
		return
	}
}
