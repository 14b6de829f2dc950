package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Belphemur/ShowFinder/internal/client"
	"github.com/Belphemur/ShowFinder/internal/config"
	"github.com/Belphemur/ShowFinder/internal/models"
	"github.com/Belphemur/ShowFinder/internal/render"
	"github.com/Belphemur/ShowFinder/internal/services"
)

func newSearchCommand() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "search <term>",
		Short: "Search shows and print one fragment (or record) per result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tvmaze := client.NewClient(config.GetConfig())
			defer tvmaze.Close()

			res := services.SearchShows(cmd.Context(), tvmaze, args[0])
			if !res.OK() {
				return res.Err
			}
			return printRecords(cmd.OutOrStdout(), res.Records, asJSON, render.ShowFragment)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print records as JSON instead of markup")
	return cmd
}

func newEpisodesCommand() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "episodes <show-id>",
		Short: "List a show's episodes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			showID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid show id %q", args[0])
			}

			tvmaze := client.NewClient(config.GetConfig())
			defer tvmaze.Close()

			res := services.GetEpisodes(cmd.Context(), tvmaze, showID)
			if !res.OK() {
				return res.Err
			}
			return printRecords(cmd.OutOrStdout(), res.Records, asJSON, render.EpisodeFragment)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print records as JSON instead of markup")
	return cmd
}

func printRecords[T models.Show | models.Episode](w io.Writer, records []T, asJSON bool, fragment func(T) (string, error)) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}
	for _, record := range records {
		f, err := fragment(record)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w, f); err != nil {
			return err
		}
	}
	return nil
}
