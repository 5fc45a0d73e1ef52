package storage

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"support-chat/domain/routing"
	"support-chat/errors"
)

// Store implements the engine's persistence collaborator on Postgres.
type Store struct {
	log *slog.Logger
	db  *gorm.DB
}

func NewStore(db *gorm.DB, log *slog.Logger) *Store {
	return &Store{log: log, db: db}
}

func (s *Store) CreateChat(ctx context.Context, clientID, operatorID int64) (int64, error) {
	chat := Chat{ClientID: clientID, Active: true}
	if operatorID != 0 {
		chat.OperatorID = &operatorID
	}
	if err := s.db.WithContext(ctx).Create(&chat).Error; err != nil {
		return 0, fmt.Errorf("%w: create chat: %v", errors.ErrPersistenceFailure, err)
	}
	return chat.ID, nil
}

func (s *Store) GetChatByID(ctx context.Context, chatID int64) (routing.Chat, error) {
	var row Chat
	err := s.db.WithContext(ctx).First(&row, chatID).Error
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return routing.Chat{}, errors.ErrChatNotFound
	}
	if err != nil {
		return routing.Chat{}, fmt.Errorf("%w: get chat: %v", errors.ErrPersistenceFailure, err)
	}
	out := routing.Chat{ID: row.ID, ClientID: row.ClientID, Active: row.Active}
	if row.OperatorID != nil {
		out.OperatorID = *row.OperatorID
	}
	return out, nil
}

func (s *Store) UpdateChatOperator(ctx context.Context, chatID, operatorID int64) error {
	res := s.db.WithContext(ctx).Model(&Chat{}).
		Where("id = ?", chatID).
		Update("operator_id", operatorID)
	if res.Error != nil {
		return fmt.Errorf("%w: update chat operator: %v", errors.ErrPersistenceFailure, res.Error)
	}
	if res.RowsAffected == 0 {
		return errors.ErrChatNotFound
	}
	return nil
}

func (s *Store) AddParticipant(ctx context.Context, chatID, userID int64, role string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&ChatParticipant{}).
			Where("chat_id = ? AND user_id = ? AND left_at IS NULL", chatID, userID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return nil
		}
		return tx.Create(&ChatParticipant{
			ChatID:   chatID,
			UserID:   userID,
			Role:     role,
			JoinedAt: time.Now().UTC(),
		}).Error
	})
	if err != nil {
		return fmt.Errorf("%w: add participant: %v", errors.ErrPersistenceFailure, err)
	}
	return nil
}

func (s *Store) MarkParticipantLeft(ctx context.Context, chatID, userID int64) error {
	now := time.Now().UTC()
	err := s.db.WithContext(ctx).Model(&ChatParticipant{}).
		Where("chat_id = ? AND user_id = ? AND left_at IS NULL", chatID, userID).
		Update("left_at", &now).Error
	if err != nil {
		return fmt.Errorf("%w: mark participant left: %v", errors.ErrPersistenceFailure, err)
	}
	return nil
}

func (s *Store) RecordTransfer(ctx context.Context, chatID, toOperatorID, fromOperatorID, adminID int64, reason string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&Chat{}).
			Where("id = ? AND active = ?", chatID, true).
			Update("operator_id", toOperatorID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errors.ErrChatNotFound
		}
		if err := tx.Create(&ChatTransfer{
			ChatID:         chatID,
			FromOperatorID: fromOperatorID,
			ToOperatorID:   toOperatorID,
			Reason:         reason,
		}).Error; err != nil {
			return err
		}
		now := time.Now().UTC()
		if err := tx.Model(&ChatParticipant{}).
			Where("chat_id = ? AND user_id = ? AND left_at IS NULL", chatID, fromOperatorID).
			Update("left_at", &now).Error; err != nil {
			return err
		}
		return tx.Create(&ChatParticipant{
			ChatID:   chatID,
			UserID:   toOperatorID,
			Role:     "operator",
			JoinedAt: now,
		}).Error
	})
	if stderrors.Is(err, errors.ErrChatNotFound) {
		return err
	}
	if err != nil {
		return fmt.Errorf("%w: record transfer: %v", errors.ErrPersistenceFailure, err)
	}
	if adminID != 0 {
		s.log.Info("Transfer recorded by admin", "chat_id", chatID, "admin_id", adminID)
	}
	return nil
}

func (s *Store) CloseChat(ctx context.Context, chatID, closedBy int64, reason string) error {
	now := time.Now().UTC()
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&Chat{}).
			Where("id = ? AND active = ?", chatID, true).
			Updates(map[string]any{"active": false, "closed_at": &now})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errors.ErrChatNotFound
		}
		return tx.Model(&ChatParticipant{}).
			Where("chat_id = ? AND left_at IS NULL", chatID).
			Update("left_at", &now).Error
	})
	if stderrors.Is(err, errors.ErrChatNotFound) {
		return err
	}
	if err != nil {
		return fmt.Errorf("%w: close chat: %v", errors.ErrPersistenceFailure, err)
	}
	s.log.Debug("Chat closed", "chat_id", chatID, "closed_by", closedBy, "reason", reason)
	return nil
}

func (s *Store) CreateLawyerAssignment(ctx context.Context, clientID, lawyerID int64) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&LawyerAssignment{}).
			Where("client_id = ? AND active = ?", clientID, true).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return errors.ErrAlreadyAssigned
		}
		var chatID int64
		row := Chat{ClientID: clientID, OperatorID: &lawyerID, Active: true}
		if err := tx.Where("client_id = ? AND operator_id = ? AND active = ?", clientID, lawyerID, true).
			FirstOrCreate(&row).Error; err != nil {
			return err
		}
		chatID = row.ID
		return tx.Create(&LawyerAssignment{
			ClientID: clientID,
			LawyerID: lawyerID,
			ChatID:   chatID,
			Active:   true,
		}).Error
	})
	if stderrors.Is(err, errors.ErrAlreadyAssigned) {
		return err
	}
	if err != nil {
		return fmt.Errorf("%w: create lawyer assignment: %v", errors.ErrPersistenceFailure, err)
	}
	return nil
}

func (s *Store) GetActiveLawyerAssignment(ctx context.Context, clientID int64) (int64, bool, error) {
	var row LawyerAssignment
	err := s.db.WithContext(ctx).
		Where("client_id = ? AND active = ?", clientID, true).
		First(&row).Error
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("%w: get lawyer assignment: %v", errors.ErrPersistenceFailure, err)
	}
	return row.LawyerID, true, nil
}

func (s *Store) GetActiveChatBetween(ctx context.Context, clientID, operatorID int64) (int64, bool, error) {
	var row Chat
	err := s.db.WithContext(ctx).
		Where("client_id = ? AND operator_id = ? AND active = ?", clientID, operatorID, true).
		First(&row).Error
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("%w: get chat between: %v", errors.ErrPersistenceFailure, err)
	}
	return row.ID, true, nil
}
