package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	velocityCmd := &cobra.Command{
		Use:   "velocity USER_ID",
		Short: "XP velocity metrics for a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := doGet("/api/users/"+args[0]+"/velocity", nil)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	rootCmd.AddCommand(velocityCmd)

	genresCmd := &cobra.Command{
		Use:   "genres USER_ID",
		Short: "Genre engagement and recommendations for a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := doGet("/api/users/"+args[0]+"/genres", nil)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	rootCmd.AddCommand(genresCmd)
}
