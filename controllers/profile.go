package controllers

import (
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"net/http"

	"StudyBud/middleware"
	"StudyBud/models"
	"StudyBud/pkg/forum"
	"StudyBud/pkg/services"

	"github.com/gin-gonic/gin"
)

// Profile shows a user's hosted rooms and messages.
func Profile(store *forum.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c)
		if !ok {
			return
		}
		res, err := store.Profile(c.Request.Context(), id)
		if err != nil {
			fail(c, err)
			return
		}
		render(c, http.StatusOK, "profile.html", gin.H{
			"title":         res.User.DisplayName(),
			"profile":       res.User,
			"rooms":         res.Rooms,
			"room_messages": res.RoomMessages,
			"topics":        res.Topics,
		})
	}
}

// UpdateUser edits the signed-in user's profile, including an optional
// avatar upload.
func UpdateUser(store *forum.Store, storage *services.ObjectStorageService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)
		if !isPost(c) {
			renderUserForm(c, user, forum.UserInput{
				Username: user.Username,
				Email:    user.Email,
				Name:     user.Name,
				Bio:      user.Bio,
			}, nil)
			return
		}

		var in forum.UserInput
		if err := c.ShouldBind(&in); err != nil {
			c.String(http.StatusBadRequest, "invalid form")
			return
		}

		oldAvatar := user.AvatarPath
		if header, err := c.FormFile("avatar"); err == nil {
			rel, err := saveAvatar(storage, user, header)
			if errors.Is(err, services.ErrInvalidImageType) || errors.Is(err, services.ErrImageTooLarge) {
				ve := &forum.ValidationError{}
				ve.Add("avatar", err.Error())
				renderUserForm(c, user, in, ve)
				return
			}
			if err != nil {
				fail(c, err)
				return
			}
			in.AvatarPath = rel
		} else if !errors.Is(err, http.ErrMissingFile) && !errors.Is(err, http.ErrNotMultipart) {
			c.String(http.StatusBadRequest, "invalid upload")
			return
		}

		err := store.UpdateUser(c.Request.Context(), user, in)
		if err != nil {
			removeAvatar(storage, in.AvatarPath)
			if ve, ok := forum.AsValidation(err); ok {
				renderUserForm(c, user, in, ve)
				return
			}
			fail(c, err)
			return
		}
		if in.AvatarPath != "" && oldAvatar != in.AvatarPath {
			removeAvatar(storage, oldAvatar)
		}
		c.Redirect(http.StatusFound, fmt.Sprintf("/profile/%d", user.ID))
	}
}

func saveAvatar(storage *services.ObjectStorageService, user *models.User, header *multipart.FileHeader) (string, error) {
	f, err := header.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()
	return storage.SaveAvatar(user.ID, f, header)
}

func removeAvatar(storage *services.ObjectStorageService, rel string) {
	if err := storage.DeleteImage(rel); err != nil {
		log.Printf("[storage] failed to remove %s: %v", rel, err)
	}
}

func renderUserForm(c *gin.Context, user *models.User, in forum.UserInput, ve *forum.ValidationError) {
	data := gin.H{"title": "Edit profile", "form": in, "back": fmt.Sprintf("/profile/%d", user.ID)}
	if ve != nil {
		data["errors"] = ve.ByField()
	}
	render(c, http.StatusOK, "update_user.html", data)
}
