package storage

import (
	"context"
	stderrors "errors"
	"fmt"

	"gorm.io/gorm"

	domain "support-chat/domain/routing"
	"support-chat/errors"
)

// RoleResolver looks up the stored role for a user coming online without an
// announced kind.
type RoleResolver struct {
	db *gorm.DB
}

func NewRoleResolver(db *gorm.DB) *RoleResolver {
	return &RoleResolver{db: db}
}

func (r *RoleResolver) Resolve(ctx context.Context, userID int64) (domain.OperatorKind, error) {
	var row User
	err := r.db.WithContext(ctx).First(&row, userID).Error
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return "", fmt.Errorf("%w: user %d", errors.ErrUnknownRole, userID)
	}
	if err != nil {
		return "", fmt.Errorf("%w: resolve role: %v", errors.ErrPersistenceFailure, err)
	}
	kind := domain.OperatorKind(row.Role)
	if !kind.Valid() {
		return "", fmt.Errorf("%w: user %d has role %q", errors.ErrUnknownRole, userID, row.Role)
	}
	return kind, nil
}
