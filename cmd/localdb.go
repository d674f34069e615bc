package cmd

import (
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"

	"github.com/privatecounsel/leadsite/configs"
	"github.com/privatecounsel/leadsite/database"
)

// localdbCmd represents the localdb command
var localdbCmd = &cobra.Command{
	Use:   "localdb",
	Short: "Start localdb",
	Long:  `Starts an in-memory mysql engine with a leads archive for each site`,
	Run: func(cmd *cobra.Command, args []string) {
		localdb()
	},
}

func init() {
	rootCmd.AddCommand(localdbCmd)
}

func localdb() {

	// Read in the env config
	envConfig, err := configs.ReadEnvironmentConfig(ProdMode, false)
	if err != nil {
		log.Fatalf("Failed to load the environment config: %v", err)
	}

	// Read in the site configs
	websiteConfigs, err := configs.ReadWebsiteConfigs(ProdMode)
	if err != nil {
		log.Fatalf("Failed to load site configs: %v", err)
	}

	if ProdMode || envConfig.Database.Host != "localhost" {
		log.Fatalf("localdb only runs in dev mode against localhost")
	}

	// Create in-memory mysql engine
	database.SetupLocalDB(envConfig.Database.Host, envConfig.Database.Port, envConfig.Database.Name)

	// Connect to the root database
	rootConn := &database.DBConnection{}
	err = rootConn.Connect(envConfig.Database.User, envConfig.Database.Password, envConfig.Database.Host, envConfig.Database.Port, envConfig.Database.Name, 30*time.Second)
	if err != nil {
		log.Fatalf("Failed to connect to the database: %v", err)
	}
	if rootConn.Connected {
		defer rootConn.Database.Close()
	}

	// Create each site's archive database and its leads table
	for _, websiteConfig := range websiteConfigs {
		if websiteConfig.Database.Name == "" {
			continue
		}

		_, err = rootConn.Database.Exec(fmt.Sprintf("CREATE DATABASE IF NOT EXISTS `%s`", websiteConfig.Database.Name))
		if err != nil {
			log.Fatalf("Failed to create database [%s]: %v", websiteConfig.Database.Name, err)
		}

		siteConn := &database.DBConnection{}
		err = siteConn.Connect(envConfig.Database.User, envConfig.Database.Password, envConfig.Database.Host, envConfig.Database.Port, websiteConfig.Database.Name, 30*time.Second)
		if err != nil {
			log.Fatalf("Failed to connect to the database: %v", err)
		}

		if err := siteConn.InitLeadsTable(); err != nil {
			log.Fatalf("Failed to initialize leads table for [%s]: %v", websiteConfig.SiteName, err)
		}
		siteConn.Database.Close()
	}

	log.Println("Database Ready!")
	blockForever()
}

func blockForever() {
	select {}
}
