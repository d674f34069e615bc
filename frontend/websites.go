package frontend

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/privatecounsel/leadsite/configs"
	"github.com/privatecounsel/leadsite/database"
	"github.com/privatecounsel/leadsite/email"
	"github.com/privatecounsel/leadsite/leadlog"
	"github.com/privatecounsel/leadsite/ratelimit"
)

// Website represents an individual site variant
type Website struct {
	EnvironmentConfig *configs.EnvironmentConfig
	WebsiteConfig     *configs.WebsiteConfig
	TemplateConfigs   *[]configs.TemplateConfig
	DBConn            *database.DBConnection
	Limiter           *ratelimit.Limiter
	Logbook           *leadlog.Writer
	Mailer            *email.Service
	Log               *logrus.Logger
	JSFiles           AssetFiles
	CSSFiles          AssetFiles
	Hash              string
}

// NewWebsite creates a new Website instance
func NewWebsite(
	envConfig configs.EnvironmentConfig,
	websiteConfig configs.WebsiteConfig,
	limiter *ratelimit.Limiter,
	logbook *leadlog.Writer,
	mailer *email.Service,
	logger *logrus.Logger,
) (*Website, error) {

	// Optional lead archive database
	dbConn := &database.DBConnection{}
	err := dbConn.Connect(envConfig.Database.User, envConfig.Database.Password, envConfig.Database.Host, envConfig.Database.Port, websiteConfig.Database.Name, 10*time.Second)
	if err != nil {
		// the archive is best-effort, leads still land in the logbook
		log.Printf("Lead archive unavailable: %v", err)
	}
	if dbConn.Connected {
		if err := dbConn.InitLeadsTable(); err != nil {
			return nil, err
		}
	}

	// Read in the template configs
	templateConfigs, err := configs.ReadTemplateConfigs(websiteConfig.Directory)
	if err != nil {
		log.Fatalf("Failed to load template configs: %v", err)
	}

	website := &Website{
		EnvironmentConfig: &envConfig,
		WebsiteConfig:     &websiteConfig,
		TemplateConfigs:   &templateConfigs,
		DBConn:            dbConn,
		Limiter:           limiter,
		Logbook:           logbook,
		Mailer:            mailer,
		Log:               logger,
	}

	// Load the JS Files
	website.JSFiles, err = website.LoadJS("")
	if err != nil {
		log.Fatalf("Error loading JS files %v", err)
	}

	// Load the CSS Files
	website.CSSFiles, err = website.LoadCSS("")
	if err != nil {
		log.Fatalf("Error loading CSS files %v", err)
	}

	// Generate the sitemap for crawlable pages
	if err := website.GenerateSitemap(); err != nil {
		log.Printf("Error generating sitemap: %v", err)
	}

	// Store the hash of the website public directory
	website.Hash, err = MD5All(fmt.Sprintf("%s/public/", websiteConfig.Directory))
	if err != nil {
		log.Fatalf("Error generating hash of public directory %v", err)
	}

	return website, nil
}

// ReloadConfig re-reads the website config from disk (dev watcher)
func (website *Website) ReloadConfig(prodMode bool) error {
	websiteConfigs, err := configs.ReadWebsiteConfigs(prodMode)
	if err != nil {
		return err
	}
	for i := range websiteConfigs {
		if websiteConfigs[i].Directory == website.WebsiteConfig.Directory {
			*website.WebsiteConfig = websiteConfigs[i]
			return nil
		}
	}
	return fmt.Errorf("config for %s not found", website.WebsiteConfig.Directory)
}

func MD5All(root string) (string, error) {
	var combinedHash [md5.Size]byte

	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		data, err := ioutil.ReadFile(path)
		if err != nil {
			return err
		}
		fileHash := md5.Sum(data)
		// Combine the current file's hash with the accumulated hash
		for i := 0; i < md5.Size; i++ {
			combinedHash[i] += fileHash[i]
		}
		return nil
	})

	if err != nil {
		return "", err
	}

	return hex.EncodeToString(combinedHash[:]), nil
}
