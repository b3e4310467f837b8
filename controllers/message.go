package controllers

import (
	"fmt"
	"net/http"

	"StudyBud/middleware"
	"StudyBud/pkg/forum"

	"github.com/gin-gonic/gin"
)

// DeleteMessage asks for confirmation and deletes a message the user wrote.
func DeleteMessage(store *forum.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c)
		if !ok {
			return
		}
		ctx := c.Request.Context()
		user := middleware.CurrentUser(c)

		if isPost(c) {
			if err := store.DeleteMessage(ctx, user, id); err != nil {
				fail(c, err)
				return
			}
			c.Redirect(http.StatusFound, "/")
			return
		}

		msg, err := store.MessageForAuthor(ctx, user, id)
		if err != nil {
			fail(c, err)
			return
		}
		render(c, http.StatusOK, "delete.html", gin.H{
			"title":  "Delete message",
			"obj":    msg.Preview(),
			"action": fmt.Sprintf("/delete-message/%d", msg.ID),
			"back":   fmt.Sprintf("/room/%d", msg.RoomID),
		})
	}
}
