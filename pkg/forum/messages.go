package forum

import (
	"context"
	"fmt"

	"StudyBud/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostMessage stores a message by actor in the room and adds actor to the
// room's participants. Adding an existing participant is a no-op.
func (s *Store) PostMessage(ctx context.Context, actor *models.User, roomID uint, in MessageInput) (*models.Message, error) {
	if actor == nil {
		return nil, ErrLoginRequired
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	var room models.Room
	if err := s.db.WithContext(ctx).First(&room, roomID).Error; err != nil {
		return nil, notFound(err, "room")
	}

	msg := models.Message{UserID: actor.ID, RoomID: room.ID, Body: in.Body}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&msg).Error; err != nil {
			return fmt.Errorf("failed to create message: %w", err)
		}
		link := models.RoomParticipant{RoomID: room.ID, UserID: actor.ID}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&link).Error; err != nil {
			return fmt.Errorf("failed to add participant: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	msg.User = *actor
	msg.Room = room
	return &msg, nil
}

// GetMessage loads a message with its author and room.
func (s *Store) GetMessage(ctx context.Context, id uint) (*models.Message, error) {
	var msg models.Message
	if err := s.db.WithContext(ctx).Preload("User").Preload("Room").First(&msg, id).Error; err != nil {
		return nil, notFound(err, "message")
	}
	return &msg, nil
}

// MessageForAuthor loads a message the actor may delete.
func (s *Store) MessageForAuthor(ctx context.Context, actor *models.User, id uint) (*models.Message, error) {
	if actor == nil {
		return nil, ErrLoginRequired
	}
	msg, err := s.GetMessage(ctx, id)
	if err != nil {
		return nil, err
	}
	if !msg.AuthoredBy(actor) {
		return nil, ErrForbidden
	}
	return msg, nil
}

// DeleteMessage removes a message written by actor. The room is untouched.
func (s *Store) DeleteMessage(ctx context.Context, actor *models.User, id uint) error {
	msg, err := s.MessageForAuthor(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Delete(&models.Message{}, msg.ID).Error; err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}
	return nil
}

// UserMessages lists the messages a user wrote.
func (s *Store) UserMessages(ctx context.Context, userID uint) ([]models.Message, error) {
	var msgs []models.Message
	err := s.db.WithContext(ctx).
		Preload("User").Preload("Room").Preload("Room.Topic").
		Where("user_id = ?", userID).
		Order(messageOrder).Find(&msgs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load user messages: %w", err)
	}
	return msgs, nil
}
