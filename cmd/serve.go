package cmd

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"StudyBud/pkg/config"
	"StudyBud/pkg/services"
	"StudyBud/routes"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if config.IsProduction && !config.Debug {
			gin.SetMode(gin.ReleaseMode)
		}

		store, closeDB, err := openStore()
		if err != nil {
			return err
		}
		defer closeDB()
		log.Printf("[db] connected to %s", dbInfo(store.DB()))

		tokens, closeTokens, err := openTokens(ctx)
		if err != nil {
			return err
		}
		defer closeTokens()

		storage, err := services.NewObjectStorageService(config.UploadDir, config.UploadBaseURL)
		if err != nil {
			return err
		}

		r, err := routes.NewRouter(routes.Deps{Store: store, Tokens: tokens, Storage: storage})
		if err != nil {
			return err
		}

		srv := &http.Server{
			Addr:              ":" + config.Port,
			Handler:           r,
			ReadHeaderTimeout: 10 * time.Second,
		}
		errCh := make(chan error, 1)
		go func() {
			log.Printf("[http] listening on %s", srv.Addr)
			errCh <- srv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		case <-ctx.Done():
		}

		log.Printf("[http] shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
