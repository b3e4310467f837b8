package forum

import (
	"context"
	"fmt"

	"StudyBud/models"
)

// HomeResult is the home/search page bundle.
type HomeResult struct {
	Query        string
	Rooms        []models.Room
	Topics       []models.Topic
	RoomCount    int
	RoomMessages []models.Message
}

// Home returns rooms whose topic name, name or description contains q
// (case-insensitive), the first five topics, the match count and every
// message in a room whose topic name contains q.
func (s *Store) Home(ctx context.Context, q string) (*HomeResult, error) {
	rooms, err := s.SearchRooms(ctx, q)
	if err != nil {
		return nil, err
	}
	topics, err := s.AllTopics(ctx)
	if err != nil {
		return nil, err
	}
	if len(topics) > homeTopicsLimit {
		topics = topics[:homeTopicsLimit]
	}
	msgs, err := s.MessagesByTopic(ctx, q)
	if err != nil {
		return nil, err
	}
	return &HomeResult{
		Query:        q,
		Rooms:        rooms,
		Topics:       topics,
		RoomCount:    len(rooms),
		RoomMessages: msgs,
	}, nil
}

// SearchRooms filters rooms by case-insensitive substring on topic name,
// room name or description. An empty q matches every room.
func (s *Store) SearchRooms(ctx context.Context, q string) ([]models.Room, error) {
	tx := s.db.WithContext(ctx).Model(&models.Room{}).Select("rooms.*").
		Preload("Host").Preload("Topic").Preload("Participants")
	if q != "" {
		p := likePattern(q)
		tx = tx.Joins("LEFT JOIN topics ON topics.id = rooms.topic_id").
			Where("("+ilike("topics.name")+" OR "+ilike("rooms.name")+" OR "+ilike("rooms.description")+")", p, p, p)
	}
	var rooms []models.Room
	if err := tx.Order(roomOrder).Find(&rooms).Error; err != nil {
		return nil, fmt.Errorf("failed to search rooms: %w", err)
	}
	return rooms, nil
}

// MessagesByTopic returns messages of rooms whose topic name contains q.
// Rooms without a topic never match.
func (s *Store) MessagesByTopic(ctx context.Context, q string) ([]models.Message, error) {
	tx := s.db.WithContext(ctx).Model(&models.Message{}).Select("messages.*").
		Joins("JOIN rooms ON rooms.id = messages.room_id").
		Joins("JOIN topics ON topics.id = rooms.topic_id").
		Preload("User").Preload("Room").Preload("Room.Topic")
	if q != "" {
		tx = tx.Where(ilike("topics.name"), likePattern(q))
	}
	var msgs []models.Message
	if err := tx.Order(messageOrder).Find(&msgs).Error; err != nil {
		return nil, fmt.Errorf("failed to load room messages: %w", err)
	}
	return msgs, nil
}

// AllTopics returns every topic in id order. The list is cached and
// invalidated whenever a topic is created or deleted.
func (s *Store) AllTopics(ctx context.Context) ([]models.Topic, error) {
	v, err := s.cache.GetOrLoad(topicsCacheKey, s.topicsTTL, func() (any, error) {
		var topics []models.Topic
		if err := s.db.WithContext(ctx).Order("id").Find(&topics).Error; err != nil {
			return nil, fmt.Errorf("failed to load topics: %w", err)
		}
		return topics, nil
	})
	if err != nil {
		return nil, err
	}
	return cloneTopics(v), nil
}

// Topics returns topics whose name contains q (case-insensitive).
func (s *Store) Topics(ctx context.Context, q string) ([]models.Topic, error) {
	if q == "" {
		return s.AllTopics(ctx)
	}
	var topics []models.Topic
	err := s.db.WithContext(ctx).
		Where(ilike("name"), likePattern(q)).
		Order("id").Find(&topics).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search topics: %w", err)
	}
	return topics, nil
}

// Activity returns every message, most recently updated first.
func (s *Store) Activity(ctx context.Context) ([]models.Message, error) {
	var msgs []models.Message
	err := s.db.WithContext(ctx).
		Preload("User").Preload("Room").Preload("Room.Topic").
		Order(messageOrder).Find(&msgs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load activity: %w", err)
	}
	return msgs, nil
}
