package forum

import (
	"context"
	"errors"
	"fmt"

	"StudyBud/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GetOrCreateTopic returns the topic named exactly name, creating it when
// missing. The insert is an upsert against the unique name index, so
// concurrent callers converge on a single row.
func (s *Store) GetOrCreateTopic(ctx context.Context, name string) (*models.Topic, bool, error) {
	db := s.db.WithContext(ctx)
	topic := models.Topic{Name: name}
	res := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&topic)
	if res.Error != nil {
		return nil, false, fmt.Errorf("failed to create topic: %w", res.Error)
	}
	if res.RowsAffected > 0 && topic.ID != 0 {
		s.invalidateTopics()
		logf("topic %d %q created", topic.ID, topic.Name)
		return &topic, true, nil
	}

	var existing models.Topic
	if err := db.Where("name = ?", name).First(&existing).Error; err != nil {
		return nil, false, notFound(err, "topic")
	}
	return &existing, false, nil
}

// DeleteTopic removes a topic. Rooms that referenced it keep existing with
// no topic.
func (s *Store) DeleteTopic(ctx context.Context, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var topic models.Topic
		if err := tx.First(&topic, id).Error; err != nil {
			return notFound(err, "topic")
		}
		if err := tx.Model(&models.Room{}).Where("topic_id = ?", id).
			UpdateColumn("topic_id", nil).Error; err != nil {
			return fmt.Errorf("failed to detach rooms: %w", err)
		}
		if err := tx.Delete(&models.Topic{}, id).Error; err != nil {
			return fmt.Errorf("failed to delete topic: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.invalidateTopics()
	logf("topic %d deleted", id)
	return nil
}

// FindTopicByName looks a topic up by exact name.
func (s *Store) FindTopicByName(ctx context.Context, name string) (*models.Topic, error) {
	var topic models.Topic
	if err := s.db.WithContext(ctx).Where("name = ?", name).First(&topic).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load topic: %w", err)
	}
	return &topic, nil
}
