package main

import (
	"github.com/spf13/cobra"

	"champtimer/internal/announce"
	"champtimer/internal/results"
)

func newResultsCommand(ctx *commandContext) *cobra.Command {
	var sessionFlag string
	var fileFlag string

	cmd := &cobra.Command{
		Use:   "results",
		Short: "Show recorded sessions and races",
		RunE: func(cmd *cobra.Command, args []string) error {
			announcer := announce.New(cmd.OutOrStdout())

			if fileFlag != "" {
				records, err := results.ReadRaceLog(fileFlag)
				if err != nil {
					return err
				}
				announcer.Races(records)
				return nil
			}

			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			if sessionFlag != "" {
				records, err := store.RacesBySession(cmd.Context(), sessionFlag)
				if err != nil {
					return err
				}
				announcer.Races(records)
				return nil
			}

			sessions, err := store.Sessions(cmd.Context())
			if err != nil {
				return err
			}
			announcer.Sessions(sessions)
			return nil
		},
	}

	cmd.Flags().StringVarP(&sessionFlag, "session", "s", "", "Show races for one session ID")
	cmd.Flags().StringVarP(&fileFlag, "file", "f", "", "Read races from a CSV race log instead of the database")
	return cmd
}
