package middleware

import (
	"net/http"
	"regexp"
	"sort"
	"time"

	"github.com/labstack/echo/v4"
)

// APIVersion describes one published version of the API.
type APIVersion struct {
	Version    string     `json:"version"`
	Status     string     `json:"status"` // active | deprecated
	SunsetDate *time.Time `json:"sunset_date,omitempty"`
	Message    string     `json:"message,omitempty"`
}

type VersionMiddleware struct {
	versions       map[string]APIVersion
	defaultVersion string
}

var versionPrefix = regexp.MustCompile(`^/(v[0-9]+)(/|$)`)

func NewVersionMiddleware() *VersionMiddleware {
	return &VersionMiddleware{
		versions: map[string]APIVersion{
			"v1": {Version: "v1", Status: "active", Message: "Current stable API version"},
		},
		defaultVersion: "v1",
	}
}

// VersionHeader stamps responses of a version group and warns on deprecated
// versions.
func (vm *VersionMiddleware) VersionHeader(version string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()
			h.Set("X-API-Version", version)
			if ver, ok := vm.versions[version]; ok {
				if ver.Status == "deprecated" {
					h.Set("X-API-Deprecated", "true")
					if ver.SunsetDate != nil {
						h.Set("X-API-Sunset", ver.SunsetDate.Format(time.RFC3339))
						h.Set("Warning", `299 clinicalfresh "This API version will be removed on `+ver.SunsetDate.Format("2006-01-02")+`"`)
					}
				}
				h.Set("X-API-Message", ver.Message)
			}
			return next(c)
		}
	}
}

// APIVersionResolver rejects unknown version prefixes and stores the
// resolved version under "api_version".
func (vm *VersionMiddleware) APIVersionResolver() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			version := vm.defaultVersion
			if m := versionPrefix.FindStringSubmatch(c.Request().URL.Path); m != nil {
				if _, ok := vm.versions[m[1]]; !ok {
					return c.JSON(http.StatusNotFound, map[string]any{
						"error":              "Unsupported API version",
						"supported_versions": vm.Supported(),
					})
				}
				version = m[1]
			}
			c.Set("api_version", version)
			return next(c)
		}
	}
}

func (vm *VersionMiddleware) Supported() []string {
	out := make([]string, 0, len(vm.versions))
	for v := range vm.versions {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// Deprecate marks version as deprecated from now on.
func (vm *VersionMiddleware) Deprecate(version, message string, sunset *time.Time) {
	vm.versions[version] = APIVersion{
		Version:    version,
		Status:     "deprecated",
		SunsetDate: sunset,
		Message:    message,
	}
}
