package controllers

import (
	"errors"
	"net/http"

	"StudyBud/models"
	"StudyBud/pkg/forum"

	"github.com/gin-gonic/gin"
)

// APIRoutes lists the read-only JSON endpoints.
func APIRoutes() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, []string{
			"GET /api",
			"GET /api/rooms",
			"GET /api/rooms/:id",
		})
	}
}

// APIRooms returns rooms matching ?q= as JSON.
func APIRooms(store *forum.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		rooms, err := store.SearchRooms(c.Request.Context(), c.Query("q"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"msg": "failed to load rooms"})
			return
		}
		out := make([]gin.H, 0, len(rooms))
		for i := range rooms {
			out = append(out, roomJSON(&rooms[i]))
		}
		c.JSON(http.StatusOK, out)
	}
}

// APIRoom returns a single room as JSON.
func APIRoom(store *forum.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := parseID(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"msg": "Room not found"})
			return
		}
		room, err := store.GetRoom(c.Request.Context(), id)
		if errors.Is(err, forum.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"msg": "Room not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"msg": "failed to load room"})
			return
		}
		c.JSON(http.StatusOK, roomJSON(room))
	}
}

func roomJSON(r *models.Room) gin.H {
	participants := make([]uint, 0, len(r.Participants))
	for _, p := range r.Participants {
		participants = append(participants, p.ID)
	}
	return gin.H{
		"id":           r.ID,
		"host":         r.HostID,
		"topic":        r.TopicID,
		"name":         r.Name,
		"description":  r.Description,
		"participants": participants,
		"updated":      r.UpdatedAt,
		"created":      r.CreatedAt,
	}
}
