package frontend

import (
	"encoding/xml"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"
)

type URL struct {
	XMLName    xml.Name `xml:"url"`
	Loc        string   `xml:"loc"`
	LastMod    string   `xml:"lastmod"`
	ChangeFreq string   `xml:"changefreq"`
	Priority   string   `xml:"priority"`
}

type URLSet struct {
	XMLName xml.Name `xml:"urlset"`
	Xmlns   string   `xml:"xmlns,attr"`
	URLs    []URL    `xml:"url"`
}

// GenerateSitemap writes sitemap.xml from the template configs flagged
// for inclusion. The site is static, so the sitemap is rebuilt on boot
// rather than tracked in the database.
func (website *Website) GenerateSitemap() error {

	var urls []URL
	now := time.Now().Format("2006-01-02T15:04:05-07:00")

	for _, tpl := range *website.TemplateConfigs {
		if !tpl.Sitemap || tpl.Path == "" {
			continue
		}

		url := URL{
			Loc:        "https://" + website.WebsiteConfig.SiteName + tpl.Path,
			LastMod:    now,
			ChangeFreq: "weekly",
			Priority:   "0.5",
		}

		if tpl.Path == "/" {
			url.Priority = "1.0"
		}

		urls = append(urls, url)
	}

	if len(urls) < 1 {
		log.Printf("No sitemap pages configured for site: [%s]", website.WebsiteConfig.SiteName)
		return nil
	}

	urlSet := URLSet{
		Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}

	output, err := xml.MarshalIndent(urlSet, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to marshal XML sitemap file: %v", err)
	}

	output = []byte(xml.Header + string(output))

	// Create the 'sitemaps' directory if it doesn't exist
	sitemapsDir := filepath.Join(website.WebsiteConfig.Directory, "sitemaps")
	if err := os.MkdirAll(sitemapsDir, os.ModePerm); err != nil {
		return fmt.Errorf("error creating 'sitemaps' directory: %v", err)
	}

	filename := filepath.Join(sitemapsDir, "sitemap.xml")

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create sitemap file: %v", err)
	}
	defer file.Close()

	_, err = file.Write(output)
	if err != nil {
		return fmt.Errorf("failed to write sitemap file: %v", err)
	}

	log.Printf("Sitemap [%s] generated successfully.", filename)

	return nil
}
