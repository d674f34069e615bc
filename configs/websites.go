package configs

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"

	"github.com/privatecounsel/leadsite/structs"
)

// FormConfig captures everything that used to vary between the
// hand-copied deployments of the submit handler: which fields are
// mandatory, what the honeypot input is called, and whether the
// submitter gets an automatic reply.
type FormConfig struct {
	RequiredFields []string `json:"requiredFields"`
	HoneypotField  string   `json:"honeypotField"`
	AutoReply      bool     `json:"autoReply"`
	DefaultFocus   string   `json:"defaultFocus"`
}

type WebsiteConfig struct {
	SiteName    string `json:"siteName"`
	APIVersion  int    `json:"apiVersion"`
	Description string `json:"description"`
	HTTP        struct {
		Address string `json:"address"`
	} `json:"http"`
	Email struct {
		FromAddress string `json:"fromAddress"`
		FromName    string `json:"fromName"`
		Operator    string `json:"operator"` // where lead notifications go
	} `json:"email"`
	Form            FormConfig               `json:"form"`
	Plans           []structs.Plan           `json:"plans"`
	LegacyPlanRules []structs.LegacyPlanRule `json:"legacyPlanRules"`
	Payment         struct {
		LinkBase string `json:"linkBase"` // e.g. "https://paypal.me/privatecounsel"
	} `json:"payment"`
	DefaultLang  string                       `json:"defaultLang"`
	Languages    []string                     `json:"languages"`
	Translations map[string]map[string]string `json:"translations"` // key -> lang -> text
	Database     struct {
		Name string `json:"name"`
	} `json:"database"`
	Directory string
}

// OperatorAddress returns the site operator address, falling back to
// the environment-level one.
func (websiteConfig *WebsiteConfig) OperatorAddress(envConfig *EnvironmentConfig) string {
	if websiteConfig.Email.Operator != "" {
		return websiteConfig.Email.Operator
	}
	return envConfig.Email.Operator
}

// Translate looks up a label for the given language, falling back to
// the default language, then to the key itself.
func (websiteConfig *WebsiteConfig) Translate(key, lang string) string {
	byLang, ok := websiteConfig.Translations[key]
	if !ok {
		return key
	}
	if text, ok := byLang[lang]; ok && text != "" {
		return text
	}
	if text, ok := byLang[websiteConfig.DefaultLang]; ok && text != "" {
		return text
	}
	return key
}

func ReadWebsiteConfigs(prodMode bool) ([]WebsiteConfig, error) {
	var websiteConfigs []WebsiteConfig

	configName := "config-dev.json"
	if prodMode {
		configName = "config-prod.json"
	}

	baseDir := "websites"
	err := filepath.Walk(baseDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			configPath := filepath.Join(path, configName)
			configFile, err := os.Open(configPath)
			if err != nil {
				if os.IsNotExist(err) {
					return nil // Continue searching
				}
				return fmt.Errorf("failed to open config file in directory %s: %v", path, err)
			}

			configData, err := ioutil.ReadAll(configFile)
			if err != nil {
				configFile.Close()
				return fmt.Errorf("failed to read config file in directory %s: %v", path, err)
			}

			var websiteConfig WebsiteConfig
			err = json.Unmarshal(configData, &websiteConfig)
			if err != nil {
				configFile.Close()
				return fmt.Errorf("failed to parse config file in directory %s: %v", path, err)
			}

			websiteConfig.Directory = path
			applyWebsiteDefaults(&websiteConfig)
			websiteConfigs = append(websiteConfigs, websiteConfig)

			log.Printf("Found website config file in: [%s]", websiteConfig.Directory)

			configFile.Close()
		}

		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to walk through directories: %v", err)
	}

	return websiteConfigs, nil
}

func applyWebsiteDefaults(websiteConfig *WebsiteConfig) {
	if websiteConfig.APIVersion == 0 {
		websiteConfig.APIVersion = 1
	}
	if len(websiteConfig.Form.RequiredFields) == 0 {
		websiteConfig.Form.RequiredFields = []string{"name", "email"}
	}
	if websiteConfig.Form.HoneypotField == "" {
		websiteConfig.Form.HoneypotField = "honeypot"
	}
	if websiteConfig.Form.DefaultFocus == "" {
		websiteConfig.Form.DefaultFocus = "General"
	}
	if websiteConfig.DefaultLang == "" {
		websiteConfig.DefaultLang = "en"
	}
	if len(websiteConfig.Languages) == 0 {
		websiteConfig.Languages = []string{websiteConfig.DefaultLang}
	}
	if len(websiteConfig.Plans) == 0 {
		websiteConfig.Plans = []structs.Plan{
			{ID: "free", DisplayName: "Initial Dialogue (Free)", Price: 0, Currency: "USD"},
			{ID: "continuous", DisplayName: "Continuous Counsel ($710)", Price: 710, Currency: "USD"},
		}
	}
	if len(websiteConfig.LegacyPlanRules) == 0 {
		websiteConfig.LegacyPlanRules = []structs.LegacyPlanRule{
			{Contains: "710", PlanID: "continuous"},
			{Contains: "continuous", PlanID: "continuous"},
		}
	}
}
