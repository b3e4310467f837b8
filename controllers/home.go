package controllers

import (
	"net/http"

	"StudyBud/pkg/forum"

	"github.com/gin-gonic/gin"
)

// Home lists rooms matching ?q= with the topic sidebar and recent activity.
func Home(store *forum.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := store.Home(c.Request.Context(), c.Query("q"))
		if err != nil {
			fail(c, err)
			return
		}
		render(c, http.StatusOK, "home.html", gin.H{
			"q":             res.Query,
			"rooms":         res.Rooms,
			"topics":        res.Topics,
			"room_count":    res.RoomCount,
			"room_messages": res.RoomMessages,
		})
	}
}

// Topics lists topics whose name contains ?q=.
func Topics(store *forum.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		q := c.Query("q")
		topics, err := store.Topics(c.Request.Context(), q)
		if err != nil {
			fail(c, err)
			return
		}
		render(c, http.StatusOK, "topics.html", gin.H{"title": "Topics", "q": q, "topics": topics})
	}
}

// Activity lists every message, most recently updated first.
func Activity(store *forum.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		msgs, err := store.Activity(c.Request.Context())
		if err != nil {
			fail(c, err)
			return
		}
		render(c, http.StatusOK, "activity.html", gin.H{"title": "Activity", "room_messages": msgs})
	}
}
