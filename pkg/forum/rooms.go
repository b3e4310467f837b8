package forum

import (
	"context"
	"fmt"

	"StudyBud/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RoomDetail is the room page bundle.
type RoomDetail struct {
	Room         *models.Room
	RoomMessages []models.Message
	Participants []models.User
}

// GetRoom loads a room with host, topic and participants.
func (s *Store) GetRoom(ctx context.Context, id uint) (*models.Room, error) {
	var room models.Room
	err := s.db.WithContext(ctx).
		Preload("Host").Preload("Topic").Preload("Participants").
		First(&room, id).Error
	if err != nil {
		return nil, notFound(err, "room")
	}
	return &room, nil
}

// RoomDetail returns the room, its messages newest-created first and its
// participants.
func (s *Store) RoomDetail(ctx context.Context, id uint) (*RoomDetail, error) {
	room, err := s.GetRoom(ctx, id)
	if err != nil {
		return nil, err
	}
	var msgs []models.Message
	err = s.db.WithContext(ctx).Preload("User").
		Where("room_id = ?", room.ID).
		Order(roomMessageOrder).Find(&msgs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load room messages: %w", err)
	}
	return &RoomDetail{Room: room, RoomMessages: msgs, Participants: room.Participants}, nil
}

// RoomForHost loads a room the actor may edit or delete.
func (s *Store) RoomForHost(ctx context.Context, actor *models.User, id uint) (*models.Room, error) {
	if actor == nil {
		return nil, ErrLoginRequired
	}
	room, err := s.GetRoom(ctx, id)
	if err != nil {
		return nil, err
	}
	if !room.HostedBy(actor) {
		return nil, ErrForbidden
	}
	return room, nil
}

// CreateRoom get-or-creates the named topic and creates a room hosted by
// host.
func (s *Store) CreateRoom(ctx context.Context, host *models.User, in RoomInput) (*models.Room, error) {
	if host == nil {
		return nil, ErrLoginRequired
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	topic, _, err := s.GetOrCreateTopic(ctx, in.Topic)
	if err != nil {
		return nil, err
	}
	hostID, topicID := host.ID, topic.ID
	room := models.Room{
		HostID:      &hostID,
		TopicID:     &topicID,
		Name:        in.Name,
		Description: in.Description,
	}
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(&room).Error; err != nil {
		return nil, fmt.Errorf("failed to create room: %w", err)
	}
	room.Host = host
	room.Topic = topic
	logf("room %d created by user %d", room.ID, host.ID)
	return &room, nil
}

// UpdateRoom overwrites name, topic and description of a room the actor hosts.
func (s *Store) UpdateRoom(ctx context.Context, actor *models.User, id uint, in RoomInput) (*models.Room, error) {
	room, err := s.RoomForHost(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return room, err
	}
	topic, _, err := s.GetOrCreateTopic(ctx, in.Topic)
	if err != nil {
		return nil, err
	}
	topicID := topic.ID
	room.Name = in.Name
	room.Description = in.Description
	room.TopicID = &topicID
	room.Topic = topic
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Save(room).Error; err != nil {
		return nil, fmt.Errorf("failed to update room: %w", err)
	}
	return room, nil
}

// DeleteRoom removes a room the actor hosts together with its messages and
// participant links.
func (s *Store) DeleteRoom(ctx context.Context, actor *models.User, id uint) error {
	room, err := s.RoomForHost(ctx, actor, id)
	if err != nil {
		return err
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("room_id = ?", room.ID).Delete(&models.Message{}).Error; err != nil {
			return fmt.Errorf("failed to delete room messages: %w", err)
		}
		if err := tx.Where("room_id = ?", room.ID).Delete(&models.RoomParticipant{}).Error; err != nil {
			return fmt.Errorf("failed to clear participants: %w", err)
		}
		if err := tx.Delete(&models.Room{}, room.ID).Error; err != nil {
			return fmt.Errorf("failed to delete room: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	logf("room %d deleted by user %d", room.ID, actor.ID)
	return nil
}

// HostedRooms lists the rooms a user hosts.
func (s *Store) HostedRooms(ctx context.Context, userID uint) ([]models.Room, error) {
	var rooms []models.Room
	err := s.db.WithContext(ctx).
		Preload("Host").Preload("Topic").Preload("Participants").
		Where("host_id = ?", userID).
		Order(roomOrder).Find(&rooms).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load hosted rooms: %w", err)
	}
	return rooms, nil
}
