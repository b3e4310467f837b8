package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"StudyBud/pkg/forum"

	"github.com/spf13/cobra"
)

const adminTimeout = 30 * time.Second

var createUserPassword string

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(adminTimeout, func(ctx context.Context, store *forum.Store) error {
			fmt.Printf("migrated %s\n", dbInfo(store.DB()))
			return nil
		})
	},
}

var createUserCmd = &cobra.Command{
	Use:   "createuser <username>",
	Short: "Create a user account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(adminTimeout, func(ctx context.Context, store *forum.Store) error {
			user, err := store.CreateUser(ctx, args[0], createUserPassword)
			if err != nil {
				return err
			}
			fmt.Printf("created user %d %s\n", user.ID, user.Username)
			return nil
		})
	},
}

var deleteUserCmd = &cobra.Command{
	Use:   "deleteuser <username>",
	Short: "Delete a user, their messages and their room memberships",
	Long:  `Delete a user account. Their messages are removed and rooms they host are kept without a host.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(adminTimeout, func(ctx context.Context, store *forum.Store) error {
			username := strings.ToLower(strings.TrimSpace(args[0]))
			user, err := store.FindUserByUsername(ctx, username)
			if err != nil {
				return fmt.Errorf("user %q: %w", username, err)
			}
			if err := store.DeleteUser(ctx, user.ID); err != nil {
				return err
			}
			fmt.Printf("deleted user %d %s\n", user.ID, user.Username)
			return nil
		})
	},
}

var deleteTopicCmd = &cobra.Command{
	Use:   "deletetopic <name|id>",
	Short: "Delete a topic; its rooms are kept without a topic",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(adminTimeout, func(ctx context.Context, store *forum.Store) error {
			topic, err := store.FindTopicByName(ctx, args[0])
			if err != nil {
				id, perr := strconv.ParseUint(args[0], 10, 64)
				if perr != nil {
					return fmt.Errorf("topic %q: %w", args[0], err)
				}
				if err := store.DeleteTopic(ctx, uint(id)); err != nil {
					return fmt.Errorf("topic %d: %w", id, err)
				}
				fmt.Printf("deleted topic %d\n", id)
				return nil
			}
			if err := store.DeleteTopic(ctx, topic.ID); err != nil {
				return err
			}
			fmt.Printf("deleted topic %d %s\n", topic.ID, topic.Name)
			return nil
		})
	},
}

func init() {
	createUserCmd.Flags().StringVarP(&createUserPassword, "password", "p", "", "account password")
	_ = createUserCmd.MarkFlagRequired("password")

	rootCmd.AddCommand(migrateCmd, createUserCmd, deleteUserCmd, deleteTopicCmd)
}
