package forum

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"StudyBud/models"

	"gorm.io/gorm"
)

// ProfileResult is the profile page bundle.
type ProfileResult struct {
	User         *models.User
	Rooms        []models.Room
	RoomMessages []models.Message
	Topics       []models.Topic
}

// GetUser loads a user by id.
func (s *Store) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, notFound(err, "user")
	}
	return &user, nil
}

// FindUserByUsername looks a user up by exact username.
func (s *Store) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, notFound(err, "user")
	}
	return &user, nil
}

// Profile returns a user with the rooms they host, the messages they wrote
// and the full topic list.
func (s *Store) Profile(ctx context.Context, userID uint) (*ProfileResult, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	rooms, err := s.HostedRooms(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	msgs, err := s.UserMessages(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	topics, err := s.AllTopics(ctx)
	if err != nil {
		return nil, err
	}
	return &ProfileResult{User: user, Rooms: rooms, RoomMessages: msgs, Topics: topics}, nil
}

// Register validates the sign-up form and creates the user with a
// lower-cased username.
func (s *Store) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.FindUserByUsername(ctx, in.Username); err == nil {
		return nil, usernameTaken()
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	user := models.User{Username: in.Username}
	if err := user.SetPassword(in.Password); err != nil {
		return nil, fmt.Errorf("failed to set password: %w", err)
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, usernameTaken()
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	logf("user %d %q registered", user.ID, user.Username)
	return &user, nil
}

func usernameTaken() error {
	ve := &ValidationError{}
	ve.Add("username", "A user with that username already exists.")
	return ve
}

// Authenticate checks credentials. Unknown usernames and wrong passwords
// both yield ErrAuthFailed.
func (s *Store) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" || password == "" {
		return nil, ErrAuthFailed
	}
	user, err := s.FindUserByUsername(ctx, username)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrAuthFailed
	}
	if err != nil {
		return nil, err
	}
	if !user.CheckPassword(password) {
		return nil, ErrAuthFailed
	}
	now := time.Now()
	if err := s.db.WithContext(ctx).Model(user).UpdateColumn("last_login", now).Error; err != nil {
		logf("failed to record last login for user %d: %v", user.ID, err)
	}
	user.LastLogin = &now
	return user, nil
}

// UpdateUser validates and saves profile fields of user.
func (s *Store) UpdateUser(ctx context.Context, user *models.User, in UserInput) error {
	if user == nil {
		return ErrLoginRequired
	}
	if err := in.Validate(); err != nil {
		return err
	}
	if in.Username != user.Username {
		var n int64
		err := s.db.WithContext(ctx).Model(&models.User{}).
			Where("username = ? AND id <> ?", in.Username, user.ID).Count(&n).Error
		if err != nil {
			return fmt.Errorf("failed to check username: %w", err)
		}
		if n > 0 {
			return usernameTaken()
		}
	}

	user.Username = in.Username
	user.Email = in.Email
	user.Name = in.Name
	user.Bio = in.Bio
	if in.AvatarPath != "" {
		user.AvatarPath = in.AvatarPath
	}
	if err := s.db.WithContext(ctx).Save(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return usernameTaken()
		}
		return fmt.Errorf("failed to update profile: %w", err)
	}
	return nil
}

// CreateUser is the admin path for adding an account; it applies the same
// rules as Register.
func (s *Store) CreateUser(ctx context.Context, username, password string) (*models.User, error) {
	return s.Register(ctx, RegisterInput{Username: username, Password: password, Confirm: password})
}

// DeleteUser removes a user. Their messages are deleted, rooms they host
// lose their host and they leave every participant set.
func (s *Store) DeleteUser(ctx context.Context, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, id).Error; err != nil {
			return notFound(err, "user")
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.Message{}).Error; err != nil {
			return fmt.Errorf("failed to delete user messages: %w", err)
		}
		if err := tx.Model(&models.Room{}).Where("host_id = ?", id).
			UpdateColumn("host_id", nil).Error; err != nil {
			return fmt.Errorf("failed to detach hosted rooms: %w", err)
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.RoomParticipant{}).Error; err != nil {
			return fmt.Errorf("failed to leave rooms: %w", err)
		}
		if err := tx.Delete(&models.User{}, id).Error; err != nil {
			return fmt.Errorf("failed to delete user: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	logf("user %d deleted", id)
	return nil
}
