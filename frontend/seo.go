package frontend

import (
	"encoding/json"
	"fmt"

	"github.com/privatecounsel/leadsite/configs"
	"github.com/privatecounsel/leadsite/structs"
)

// SEOData carries the per-page head metadata and structured data
type SEOData struct {
	Title       string
	Description string
	Canonical   string
	Schema      string
}

func (website *Website) BuildSEOData(tpl configs.TemplateConfig) SEOData {
	baseURL := "https://" + website.WebsiteConfig.SiteName

	seo := SEOData{
		Title:       website.WebsiteConfig.SiteName,
		Description: website.WebsiteConfig.Description,
		Canonical:   baseURL + tpl.Path,
	}

	if tpl.Path == "/" {
		seo.Schema = GenerateServiceSchema(website.WebsiteConfig.Plans, *website.WebsiteConfig)
	}

	return seo
}

// GenerateServiceSchema generates schema.org Service structured data
// with the consultation plans as offers
func GenerateServiceSchema(plans []structs.Plan, siteConfig configs.WebsiteConfig) string {
	baseURL := "https://" + siteConfig.SiteName

	schema := map[string]interface{}{
		"@context": "https://schema.org",
		"@type":    "Service",
		"name":     siteConfig.SiteName,
		"url":      baseURL,
	}

	if siteConfig.Description != "" {
		schema["description"] = siteConfig.Description
	}

	var offers []map[string]interface{}
	for _, plan := range plans {
		offer := map[string]interface{}{
			"@type": "Offer",
			"name":  plan.DisplayName,
			"url":   baseURL + "/register",
			"price": fmt.Sprintf("%d", plan.Price),
		}

		if plan.Currency != "" {
			offer["priceCurrency"] = plan.Currency
		}

		offers = append(offers, offer)
	}

	if len(offers) > 0 {
		schema["offers"] = offers
	}

	schema["provider"] = map[string]interface{}{
		"@type": "Organization",
		"name":  siteConfig.SiteName,
	}

	jsonBytes, err := json.Marshal(schema)
	if err != nil {
		return ""
	}

	return string(jsonBytes)
}
