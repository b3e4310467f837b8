package controllers

import (
	"fmt"
	"net/http"

	"StudyBud/middleware"
	"StudyBud/models"
	"StudyBud/pkg/forum"

	"github.com/gin-gonic/gin"
)

// Room shows a room with its conversation. POST adds a message from the
// signed-in user and makes them a participant.
func Room(store *forum.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c)
		if !ok {
			return
		}
		ctx := c.Request.Context()

		if isPost(c) {
			user := middleware.CurrentUser(c)
			if user == nil {
				c.Redirect(http.StatusFound, middleware.LoginURL(fmt.Sprintf("/room/%d", id)))
				return
			}
			var in forum.MessageInput
			if err := c.ShouldBind(&in); err != nil {
				c.String(http.StatusBadRequest, "invalid form")
				return
			}
			_, err := store.PostMessage(ctx, user, id, in)
			if ve, ok := forum.AsValidation(err); ok {
				renderRoom(c, store, id, gin.H{"errors": ve.ByField(), "body": in.Body})
				return
			}
			if err != nil {
				fail(c, err)
				return
			}
			c.Redirect(http.StatusFound, fmt.Sprintf("/room/%d", id))
			return
		}

		renderRoom(c, store, id, gin.H{})
	}
}

func renderRoom(c *gin.Context, store *forum.Store, id uint, data gin.H) {
	detail, err := store.RoomDetail(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	data["title"] = detail.Room.Name
	data["room"] = detail.Room
	data["room_messages"] = detail.RoomMessages
	data["participants"] = detail.Participants
	render(c, http.StatusOK, "room.html", data)
}

// CreateRoom shows the room form and creates a room hosted by the user.
func CreateRoom(store *forum.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)
		if !isPost(c) {
			renderRoomForm(c, store, nil, forum.RoomInput{}, nil)
			return
		}

		var in forum.RoomInput
		if err := c.ShouldBind(&in); err != nil {
			c.String(http.StatusBadRequest, "invalid form")
			return
		}
		_, err := store.CreateRoom(c.Request.Context(), user, in)
		if ve, ok := forum.AsValidation(err); ok {
			renderRoomForm(c, store, nil, in, ve)
			return
		}
		if err != nil {
			fail(c, err)
			return
		}
		c.Redirect(http.StatusFound, "/")
	}
}

// UpdateRoom edits a room. Only its host may open or submit the form.
func UpdateRoom(store *forum.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c)
		if !ok {
			return
		}
		user := middleware.CurrentUser(c)
		if !isPost(c) {
			room, err := store.RoomForHost(c.Request.Context(), user, id)
			if err != nil {
				fail(c, err)
				return
			}
			in := forum.RoomInput{Name: room.Name, Description: room.Description}
			if room.Topic != nil {
				in.Topic = room.Topic.Name
			}
			renderRoomForm(c, store, room, in, nil)
			return
		}

		var in forum.RoomInput
		if err := c.ShouldBind(&in); err != nil {
			c.String(http.StatusBadRequest, "invalid form")
			return
		}
		room, err := store.UpdateRoom(c.Request.Context(), user, id, in)
		if ve, ok := forum.AsValidation(err); ok {
			renderRoomForm(c, store, room, in, ve)
			return
		}
		if err != nil {
			fail(c, err)
			return
		}
		c.Redirect(http.StatusFound, "/")
	}
}

func renderRoomForm(c *gin.Context, store *forum.Store, room *models.Room, in forum.RoomInput, ve *forum.ValidationError) {
	topics, err := store.AllTopics(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	data := gin.H{"title": "Create room", "form": in, "topics": topics, "action": "/create-room", "back": "/"}
	if room != nil {
		data["title"] = "Update room"
		data["room"] = room
		data["action"] = fmt.Sprintf("/update-room/%d", room.ID)
		data["back"] = fmt.Sprintf("/room/%d", room.ID)
	}
	if ve != nil {
		data["errors"] = ve.ByField()
	}
	render(c, http.StatusOK, "room_form.html", data)
}

// DeleteRoom asks for confirmation and deletes a room the user hosts.
func DeleteRoom(store *forum.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c)
		if !ok {
			return
		}
		ctx := c.Request.Context()
		user := middleware.CurrentUser(c)

		if isPost(c) {
			if err := store.DeleteRoom(ctx, user, id); err != nil {
				fail(c, err)
				return
			}
			c.Redirect(http.StatusFound, "/")
			return
		}

		room, err := store.RoomForHost(ctx, user, id)
		if err != nil {
			fail(c, err)
			return
		}
		render(c, http.StatusOK, "delete.html", gin.H{
			"title":  "Delete room",
			"obj":    room.Name,
			"action": fmt.Sprintf("/delete-room/%d", room.ID),
			"back":   fmt.Sprintf("/room/%d", room.ID),
		})
	}
}
