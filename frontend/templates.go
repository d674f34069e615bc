package frontend

import (
	"bytes"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig"

	"github.com/privatecounsel/leadsite/configs"
	"github.com/privatecounsel/leadsite/structs"
)

type PageData struct {
	ProdMode         bool
	HideErrors       bool
	StatusCode       int
	Lang             string
	Languages        []string
	Plans            []structs.Plan
	Form             configs.FormConfig
	Template         configs.TemplateConfig
	SEO              SEOData
	ErrorString      string
	ErrorDescription string
}

// NewPageData seeds page data with the site's plan table, form policy
// and language settings.
func (website *Website) NewPageData() PageData {
	return PageData{
		ProdMode:   website.EnvironmentConfig.ProdMode,
		HideErrors: website.EnvironmentConfig.HideErrors,
		StatusCode: 200,
		Lang:       website.WebsiteConfig.DefaultLang,
		Languages:  website.WebsiteConfig.Languages,
		Plans:      website.WebsiteConfig.Plans,
		Form:       website.WebsiteConfig.Form,
	}
}

// GetRoute builds the handler for a named page template
func (website *Website) GetRoute(name string) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {

		tpl := website.GetTemplate(name)

		pageData := website.NewPageData()
		pageData.SEO = website.BuildSEOData(tpl)

		if lang := r.URL.Query().Get("lang"); lang != "" {
			for _, known := range website.WebsiteConfig.Languages {
				if lang == known {
					pageData.Lang = lang
				}
			}
		}

		website.ExecuteTemplate(w, tpl, pageData)
	}
}

func (website *Website) ExecuteTemplate(w http.ResponseWriter, tpl configs.TemplateConfig, pageData PageData) {

	pageData.Template = tpl

	if pageData.StatusCode != 200 {
		website.RenderError(w, pageData)
		return
	}

	funcMap := website.funcMap()

	// Load the template file
	tplName := fmt.Sprintf("%s.tpl", tpl.Name)
	tplPath := fmt.Sprintf("%s/%s", tpl.Directory, tplName)
	tmpl, err := template.New(tplName).Funcs(funcMap).ParseFiles(tplPath)

	if err != nil {
		if tpl.Name != "error" {
			pageData.ErrorString = err.Error()
			pageData.StatusCode = 500
			website.RenderError(w, pageData)
			return
		}
		log.Println(err)
		return
	}

	// Load any required template files
	if len(tpl.Requires) > 0 {
		var requiredFiles []string
		for _, required := range tpl.Requires {

			walkFn := func(path string, fileInfo os.FileInfo, inErr error) (err error) {
				if inErr == nil && !fileInfo.IsDir() && strings.HasSuffix(strings.ToLower(fileInfo.Name()), ".tpl") {
					requiredFiles = append(requiredFiles, path)
				}
				return
			}

			reqTpl := website.GetTemplate(required)
			err = filepath.Walk(reqTpl.Directory, walkFn)
			if err != nil {
				pageData.ErrorString = err.Error()
				pageData.StatusCode = 500
				website.RenderError(w, pageData)
				return
			}
		}

		if len(requiredFiles) > 0 {
			tmpl, err = tmpl.ParseFiles(requiredFiles...)
			if err != nil {
				pageData.ErrorString = err.Error()
				pageData.StatusCode = 500
				website.RenderError(w, pageData)
				return
			}
		}
	}

	// Execute the template with the pageData into a buffer
	var buffer bytes.Buffer
	err = tmpl.Execute(&buffer, pageData)
	if err != nil {
		if tpl.Name != "error" {
			pageData.ErrorString = err.Error()
			pageData.StatusCode = 502
			website.RenderError(w, pageData)
			return
		}
	}

	if tpl.MimeType != "" {
		w.Header().Set("Content-Type", tpl.MimeType)
	} else {
		w.Header().Set("Content-Type", "text/html")
	}

	if tpl.NoCache {
		w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate;")
		w.Header().Set("pragma", "no-cache")
	} else {
		expiration := 2592000
		if tpl.CacheTime > 0 {
			expiration = tpl.CacheTime
		}
		w.Header().Set("Cache-Control", fmt.Sprintf("public, s-maxage=%d, max-age=0", expiration))
	}

	w.WriteHeader(pageData.StatusCode)
	_, err = buffer.WriteTo(w)
	if err != nil {
		log.Println(err)
	}
}

func (website *Website) funcMap() template.FuncMap {
	funcMap := sprig.TxtFuncMap()
	funcMap["sitename"] = func() string {
		return website.WebsiteConfig.SiteName
	}
	funcMap["hash"] = func() string {
		return website.Hash
	}
	funcMap["t"] = func(key, lang string) string {
		return website.WebsiteConfig.Translate(key, lang)
	}
	funcMap["mediaproxy"] = func(width int, file string) string {
		return fmt.Sprintf("/media-proxy/width/%d?file=%s", width, file)
	}
	return funcMap
}

func (website *Website) RenderError(w http.ResponseWriter, pageData PageData) {

	funcMap := website.funcMap()

	if pageData.ProdMode == false && pageData.HideErrors == false {
		tmpl := template.New("devError").Funcs(funcMap)
		tmpl, _ = tmpl.Parse(devErrTemplate)
		w.WriteHeader(pageData.StatusCode)
		tmpl.Execute(w, pageData)
		return
	}

	// Load the template file
	tpl := website.GetTemplate("error")
	tplName := fmt.Sprintf("%s.tpl", tpl.Name)
	tplPath := fmt.Sprintf("%s/%s", tpl.Directory, tplName)
	tmpl, err := template.New(tplName).Funcs(funcMap).ParseFiles(tplPath)

	if err != nil {
		log.Println(err.Error())
		http.Error(w, http.StatusText(pageData.StatusCode), pageData.StatusCode)
		return
	}

	w.WriteHeader(pageData.StatusCode)
	tmpl.Execute(w, pageData)
}

var devErrTemplate = `
	<!DOCTYPE html>
	<html lang="en">
	<head>
		<meta charset="UTF-8">
		<meta name="viewport" content="width=device-width, initial-scale=1.0">
		<title>Error {{ .StatusCode }} - {{ .ErrorString }}</title>
		<style>
			body {
				font-family: 'Helvetica', sans-serif;
				color: #ffffff;
				background-color: #101010;
				margin: 0;
			}

			.error-container {
				display: flex;
				flex-direction: column;
				justify-content: center;
				align-items: center;
				text-align: center;
				min-height: 100vh;
			}

			.error-code {
				font-size: 6rem;
				font-weight: bold;
				letter-spacing: -3px;
			}

			.error-message {
				font-size: 2rem;
				font-weight: bold;
				text-transform: uppercase;
				margin: 50px;
			}
		</style>
	</head>
	<body>
		<div class="error-container">
			<div class="error-code">ERROR {{ .StatusCode }}</div>
			<div class="error-message">{{ .ErrorString }}</div>
			<div class="error-description">{{ .ErrorDescription }}</div>
		</div>
	</body>
	</html>`

func (website *Website) GetTemplate(name string) configs.TemplateConfig {
	for _, template := range *website.TemplateConfigs {
		if template.Name == name {
			return template
		}
	}
	return configs.TemplateConfig{}
}
