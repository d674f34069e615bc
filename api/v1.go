package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/privatecounsel/leadsite/configs"
	"github.com/privatecounsel/leadsite/database"
	"github.com/privatecounsel/leadsite/leadlog"
	"github.com/privatecounsel/leadsite/ratelimit"
	"github.com/privatecounsel/leadsite/structs"
)

// Notifier dispatches the operator notification and the optional
// auto-reply for an accepted submission.
type Notifier interface {
	SendLeadNotification(siteConfig *configs.WebsiteConfig, sub structs.Submission) (string, error)
	SendAutoReply(siteConfig *configs.WebsiteConfig, sub structs.Submission) (string, error)
}

// APIV1 wires the submission pipeline components behind the V1 routes.
type APIV1 struct {
	Routes []Route

	envConfig  *configs.EnvironmentConfig
	siteConfig *configs.WebsiteConfig
	limiter    *ratelimit.Limiter
	logbook    *leadlog.Writer
	mailer     Notifier
	archive    *database.DBConnection
	log        *logrus.Logger
}

// NewAPIV1 creates and returns a new instance of the V1 API.
func NewAPIV1(
	envConfig *configs.EnvironmentConfig,
	siteConfig *configs.WebsiteConfig,
	limiter *ratelimit.Limiter,
	logbook *leadlog.Writer,
	mailer Notifier,
	archive *database.DBConnection,
	log *logrus.Logger,
) *APIV1 {
	api := &APIV1{
		Routes:     make([]Route, 0),
		envConfig:  envConfig,
		siteConfig: siteConfig,
		limiter:    limiter,
		logbook:    logbook,
		mailer:     mailer,
		archive:    archive,
		log:        log,
	}

	api.initRoutesV1()

	return api
}

// initRoutesV1 initializes the routes for V1 API.
func (api *APIV1) initRoutesV1() {
	api.addRoute("/submit", "POST", api.submitLead, "submit")
	// legacy frontends post to /api/submit-form
	api.addRoute("/submit-form", "POST", api.submitLead, "submit")

	api.addRoute("/plans", "GET", api.getPlans, "plans")
}

func (api *APIV1) addRoute(path, method string, handler http.HandlerFunc, name string) {
	api.Routes = append(api.Routes, Route{
		Path:        path,
		Method:      method,
		HTTPHandler: handler,
		Name:        name,
	})
}

func (api *APIV1) APIRouter(siteName string) chi.Router {
	r := chi.NewRouter()
	r.NotFound(api.NotFoundHandler)

	for _, route := range api.Routes {
		fmt.Printf("			> Setting up API route: %s %s/api%s\n", route.Method, siteName, route.Path)
		switch route.Method {
		case "GET":
			r.Get(route.Path, route.HTTPHandler)
		case "POST":
			r.Post(route.Path, route.HTTPHandler)
		case "PUT":
			r.Put(route.Path, route.HTTPHandler)
		case "DELETE":
			r.Delete(route.Path, route.HTTPHandler)
		}
	}
	return r
}

func (api *APIV1) NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, ErrorResponse{
		StatusCode:  http.StatusNotFound,
		ErrorString: "not found",
	})
}

// getPlans returns the canonical plan table, which the registration
// form uses to render its options.
func (api *APIV1) getPlans(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "public, s-maxage=300, max-age=0")
	writeJSON(w, http.StatusOK, api.siteConfig.Plans)
}
