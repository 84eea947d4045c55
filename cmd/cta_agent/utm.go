package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mwhitman/cta-engine/internal/composing"
	"github.com/mwhitman/cta-engine/internal/types"
)

var utmCommand = &cobra.Command{
	Use:   "utm",
	Short: "Print a UTM-tracked URL for the given campaign parameters",
	Long:  "Builds the tracked URL the splicer would embed, without running any part of the pipeline. Useful for verifying campaign tagging.",
	RunE:  runUTMCmd,
}

var (
	utmBaseURL    string
	utmCampaign   string
	utmKeyword    string
	utmCompetitor string
)

func init() {
	utmCommand.Flags().StringVarP(&utmBaseURL, "base-url", "u", "", "Offer destination URL (required)")
	utmCommand.Flags().StringVar(&utmCampaign, "campaign", "", "Campaign type: blog_creator, reddit_content_creator, or competitor_conquesting")
	utmCommand.Flags().StringVar(&utmKeyword, "target-keyword", "", "Target keyword for utm_term")
	utmCommand.Flags().StringVar(&utmCompetitor, "competitor", "", "Competitor name for conquesting campaigns")
	_ = utmCommand.MarkFlagRequired("base-url")

	rootCmd.AddCommand(utmCommand)
}

func runUTMCmd(_ *cobra.Command, _ []string) error {
	tracked, err := composing.GenerateUTMURL(utmBaseURL, composing.UTMOptions{
		CampaignType:   types.CampaignType(utmCampaign),
		TargetKeyword:  utmKeyword,
		CompetitorName: utmCompetitor,
	})
	if err != nil {
		return err
	}

	fmt.Println(tracked)
	return nil
}
