package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/alshwehdya-source/quiz/internal/selfupdate"
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update quiz to the latest release",
	RunE: func(cmd *cobra.Command, args []string) error {
		checker := selfupdate.NewChecker(selfupdate.WithTimeout(2 * time.Minute))

		err := checker.Update(context.Background(), &selfupdate.UpdateInput{
			CurrentVersion: version,
		}, func(p selfupdate.UpdateProgress) {
			fmt.Println(p.Message)
		})

		switch {
		case errors.Is(err, selfupdate.ErrDevBuild):
			fmt.Println("Running a development build; install a release to use self-update.")
			return nil
		case errors.Is(err, selfupdate.ErrAlreadyLatest):
			fmt.Printf("quiz %s is already the latest version.\n", version)
			return nil
		case errors.Is(err, os.ErrPermission):
			return fmt.Errorf("permission denied writing the binary; try: sudo quiz update")
		case err != nil:
			return err
		}
		return nil
	},
}
