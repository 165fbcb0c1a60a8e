package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	dashboardCmd := &cobra.Command{Use: "dashboard", Short: "Dashboard aggregates"}

	var days, school, classroom string
	for _, section := range []string{"activity", "cards", "heatmap", "assignments", "summary"} {
		section := section
		cmd := &cobra.Command{
			Use:   section,
			Short: fmt.Sprintf("Dashboard %s section", section),
			RunE: func(cmd *cobra.Command, args []string) error {
				query := map[string]string{}
				if days != "" {
					query["days"] = days
				}
				if school != "" {
					query["schoolId"] = school
				}
				if classroom != "" {
					query["classroomId"] = classroom
				}
				data, err := doGet("/api/dashboard/"+section, query)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintln(os.Stdout, string(data))
				return nil
			},
		}
		dashboardCmd.AddCommand(cmd)
	}
	dashboardCmd.PersistentFlags().StringVarP(&days, "days", "d", "", "Window in days, or 'all'")
	dashboardCmd.PersistentFlags().StringVarP(&school, "school", "s", "", "Filter by school ID")
	dashboardCmd.PersistentFlags().StringVarP(&classroom, "classroom", "c", "", "Filter by classroom ID")

	rootCmd.AddCommand(dashboardCmd)
}
