package frontend

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/privatecounsel/leadsite/api"
	"github.com/privatecounsel/leadsite/configs"
	"github.com/privatecounsel/leadsite/media"
)

type NoListFile struct {
	http.File
}

type NoListFileSystem struct {
	base http.FileSystem
}

func (website *Website) GetRouter() func() chi.Router {

	log.Printf("Building routes for: [%s]", website.WebsiteConfig.SiteName)
	router := func() chi.Router {
		r := chi.NewRouter()

		// Unmatched routes fall back to the landing page for
		// client-side navigation
		r.NotFound(website.NotFoundHandler)

		// Page routes from the template configs
		for _, template := range *website.TemplateConfigs {
			if template.Path != "" {
				fmt.Printf("			> Setting up route: %s%s\n", website.WebsiteConfig.SiteName, template.Path)
				r.Get(template.Path, website.GetRoute(template.Name))
			}
		}

		// Submission API
		if website.WebsiteConfig.APIVersion == 1 {
			apiV1 := api.NewAPIV1(
				website.EnvironmentConfig,
				website.WebsiteConfig,
				website.Limiter,
				website.Logbook,
				website.Mailer,
				website.DBConn,
				website.Log,
			)
			r.Mount("/api", apiV1.APIRouter(website.WebsiteConfig.SiteName))
		}

		workDir, _ := os.Getwd()

		// add /public directory
		publicDir := filepath.Join(workDir, website.WebsiteConfig.Directory, "public")
		fmt.Printf("			> Setting up public folder: %s\n", publicDir)
		FileServer(r, "/public/", http.Dir(publicDir))

		// add /sitemaps directory
		sitemapsDir := http.Dir(filepath.Join(workDir, website.WebsiteConfig.Directory, "sitemaps"))
		fmt.Printf("			> Setting up sitemaps folder: %s\n", sitemapsDir)
		FileServer(r, "/sitemaps/", sitemapsDir)

		// width-resizing proxy for carousel/landing images
		r.Get("/media-proxy/width/{width}", func(w http.ResponseWriter, r *http.Request) {
			file := r.URL.Query().Get("file")

			widthStr := chi.URLParam(r, "width")
			width, err := strconv.Atoi(widthStr)
			if err != nil || width <= 0 {
				http.Error(w, "Invalid width parameter", http.StatusBadRequest)
				return
			}

			if file == "" {
				http.Error(w, "Missing 'file' parameter", http.StatusBadRequest)
				return
			}

			err = media.ResizeLocalImage(publicDir, file, width, w)
			if err != nil {
				http.Error(w, "Error resizing image", http.StatusInternalServerError)
				return
			}
		})

		return r
	}
	return router
}

// NotFoundHandler serves the landing template so deep links into
// client-side views still load the site.
func (website *Website) NotFoundHandler(w http.ResponseWriter, r *http.Request) {

	// direct asset misses stay 404s
	if strings.HasPrefix(r.URL.Path, "/public/") ||
		strings.HasPrefix(r.URL.Path, "/api/") ||
		strings.HasPrefix(r.URL.Path, "/sitemaps/") ||
		strings.HasPrefix(r.URL.Path, "/media-proxy/") {
		http.NotFound(w, r)
		return
	}

	landing := website.LandingTemplate()
	if landing.Name == "" {
		pageData := website.NewPageData()
		pageData.ErrorString = "Page Not Found!"
		pageData.StatusCode = 404
		website.RenderError(w, pageData)
		return
	}

	website.GetRoute(landing.Name)(w, r)
}

// LandingTemplate returns the template registered at "/"
func (website *Website) LandingTemplate() configs.TemplateConfig {
	for _, template := range *website.TemplateConfigs {
		if template.Path == "/" {
			return template
		}
	}
	return configs.TemplateConfig{}
}

// FileServer conveniently sets up a http.FileServer handler to serve
// static files from a http.FileSystem.
func FileServer(r chi.Router, path string, root http.FileSystem) {
	if strings.ContainsAny(path, "{}*") {
		panic("FileServer does not permit any URL parameters.")
	}

	if path != "/" && path[len(path)-1] != '/' {
		r.Get(path, http.RedirectHandler(path+"/", 301).ServeHTTP)
		path += "/"
	}
	path += "*"

	r.Get(path, func(w http.ResponseWriter, r *http.Request) {
		rctx := chi.RouteContext(r.Context())
		pathPrefix := strings.TrimSuffix(rctx.RoutePattern(), "/*")
		nlfs := NoListFileSystem{root}
		fs := http.StripPrefix(pathPrefix, http.FileServer(nlfs))
		fs.ServeHTTP(w, r)
	})
}

func (f NoListFile) Readdir(count int) ([]os.FileInfo, error) {
	return nil, nil
}

func (fs NoListFileSystem) Open(name string) (http.File, error) {
	f, err := fs.base.Open(name)
	if err != nil {
		return nil, err
	}
	return NoListFile{f}, nil
}
