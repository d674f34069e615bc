package cmd

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/privatecounsel/leadsite/configs"
	"github.com/privatecounsel/leadsite/frontend"
)

// sitemapsCmd represents the sitemaps command
var sitemapsCmd = &cobra.Command{
	Use:   "sitemaps",
	Short: "Build sitemaps",
	Long:  `Regenerates sitemap.xml for each site without starting the server`,
	Run: func(cmd *cobra.Command, args []string) {
		sitemaps()
	},
}

func init() {
	rootCmd.AddCommand(sitemapsCmd)
}

func sitemaps() {

	// Read in the site configs
	websiteConfigs, err := configs.ReadWebsiteConfigs(ProdMode)
	if err != nil {
		log.Fatalf("Failed to load site configs: %v", err)
	}

	log.Println("building sitemaps...")
	for _, websiteConfig := range websiteConfigs {

		templateConfigs, err := configs.ReadTemplateConfigs(websiteConfig.Directory)
		if err != nil {
			log.Fatalf("Failed to load template configs: %v", err)
		}

		website := &frontend.Website{
			WebsiteConfig:   &websiteConfig,
			TemplateConfigs: &templateConfigs,
		}

		if err := website.GenerateSitemap(); err != nil {
			log.Fatalf("Failed to generate sitemap for [%s]: %v", websiteConfig.SiteName, err)
		}
	}
}
