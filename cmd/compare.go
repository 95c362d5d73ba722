package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare the skills of two resumes",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return compare(cmd)
	},
}

func init() {
	rootCmd.AddCommand(compareCmd)

	compareCmd.Flags().String("first", "", "first resume file")
	compareCmd.Flags().String("second", "", "second resume file, used as the reference")
	compareCmd.Flags().StringP("output", "o", outputText, "output format: text or json")

	compareCmd.MarkFlagRequired("first")
	compareCmd.MarkFlagRequired("second")
}

func compare(cmd *cobra.Command) error {
	ctx := cmd.Context()

	format, _ := cmd.Flags().GetString("output")
	if err := validateOutput(format); err != nil {
		return err
	}

	config, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	firstPath, _ := cmd.Flags().GetString("first")
	secondPath, _ := cmd.Flags().GetString("second")

	first, err := readDocument(firstPath)
	if err != nil {
		return err
	}
	second, err := readDocument(secondPath)
	if err != nil {
		return err
	}

	service, err := newAnalysisService(ctx, config.AI, log)
	if err != nil {
		return err
	}

	log.Debug("comparing resumes", zap.String("first", first.Name), zap.String("second", second.Name))

	return writeReport(cmd.OutOrStdout(), format, service.CompareResumes(ctx, first, second))
}
