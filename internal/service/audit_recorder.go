package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/carewell-health/carewell/internal/domain/entity"
	"github.com/carewell-health/carewell/internal/domain/repository"
	"github.com/carewell-health/carewell/internal/rbac"
)

type AuditRecorder interface {
	RecordRoleChange(ctx context.Context, actor *repository.Session, targetID uuid.UUID, oldRole, newRole rbac.Role)
	RecordRoleChangeDenied(ctx context.Context, actor *repository.Session, targetID uuid.UUID, requested rbac.Role, reason string)
}

type auditRecorder struct {
	log       *logrus.Logger
	auditRepo repository.AuditLogRepository
}

func NewAuditRecorder(log *logrus.Logger, auditRepo repository.AuditLogRepository) AuditRecorder {
	return &auditRecorder{
		log:       log,
		auditRepo: auditRepo,
	}
}

// RecordRoleChange writes a trail entry for a completed role change.
// Audit writes are best effort; a failed write is logged and never
// fails the operation it describes.
func (s *auditRecorder) RecordRoleChange(ctx context.Context, actor *repository.Session, targetID uuid.UUID, oldRole, newRole rbac.Role) {
	actorID := actor.UserID
	auditLog := &entity.AuditLog{
		ActorID:  &actorID,
		TargetID: &targetID,
		Action:   entity.AuditActionRoleChange,
		Metadata: entity.JSON{
			"actor_role": string(actor.ParsedRole()),
			"old_role":   string(oldRole),
			"new_role":   string(newRole),
		},
	}

	if err := s.auditRepo.Create(ctx, auditLog); err != nil {
		s.log.Warnf("Failed to create audit log: %+v", err)
	}
}

// RecordRoleChangeDenied writes a trail entry for a role change the
// authorization checks refused.
func (s *auditRecorder) RecordRoleChangeDenied(ctx context.Context, actor *repository.Session, targetID uuid.UUID, requested rbac.Role, reason string) {
	actorID := actor.UserID
	auditLog := &entity.AuditLog{
		ActorID:  &actorID,
		TargetID: &targetID,
		Action:   entity.AuditActionRoleChangeDenied,
		Metadata: entity.JSON{
			"actor_role":     string(actor.ParsedRole()),
			"requested_role": string(requested),
			"reason":         reason,
		},
	}

	if err := s.auditRepo.Create(ctx, auditLog); err != nil {
		s.log.Warnf("Failed to create audit log: %+v", err)
	}
}
