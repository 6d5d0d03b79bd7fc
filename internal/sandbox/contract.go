package sandbox

import (
	"context"
	_ "embed"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/labstack/echo/v4"
)

//go:embed openapi.yaml
var openapiDoc []byte

// Finding is a difference between the served routes and the API document.
type Finding struct {
	Code    string
	Method  string
	Path    string
	Message string
}

// Finding codes
const (
	FindingMissingPath   = "MISSING_API_PATH"
	FindingMissingMethod = "MISSING_API_METHOD"
	FindingUnserved      = "UNSERVED_API_OPERATION"
)

// Contract is the reservation API document.
type Contract struct {
	doc *openapi3.T
}

// LoadContract parses and validates the embedded API document.
func LoadContract() (*Contract, error) {
	return parseContract(openapiDoc)
}

func parseContract(data []byte) (*Contract, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load API document: %w", err)
	}
	if err := doc.Validate(context.Background()); err != nil {
		return nil, fmt.Errorf("invalid API document: %w", err)
	}
	return &Contract{doc: doc}, nil
}

// Document returns the raw YAML document.
func (c *Contract) Document() []byte {
	return openapiDoc
}

// Operations lists "METHOD /path" for every documented operation, sorted.
func (c *Contract) Operations() []string {
	var ops []string
	for path, item := range c.doc.Paths.Map() {
		for method := range item.Operations() {
			ops = append(ops, method+" "+path)
		}
	}
	sort.Strings(ops)
	return ops
}

// Drift compares served routes with the document. Routes are echo routes
// relative to the /api group, e.g. "GET /slots/station/:id".
func (c *Contract) Drift(routes []*echo.Route) []Finding {
	var findings []Finding
	served := make(map[string]bool)

	for _, r := range routes {
		if !isAPIMethod(r.Method) || !strings.HasPrefix(r.Path, apiPrefix) {
			continue
		}
		path := templatePath(strings.TrimPrefix(r.Path, apiPrefix))

		item := c.doc.Paths.Find(path)
		if item == nil {
			findings = append(findings, Finding{
				Code:    FindingMissingPath,
				Method:  r.Method,
				Path:    path,
				Message: fmt.Sprintf("served route is not documented: %s %s", r.Method, path),
			})
			continue
		}
		if item.GetOperation(r.Method) == nil {
			findings = append(findings, Finding{
				Code:    FindingMissingMethod,
				Method:  r.Method,
				Path:    path,
				Message: fmt.Sprintf("served method is not documented: %s %s", r.Method, path),
			})
			continue
		}
		served[r.Method+" "+normalizeTemplate(path)] = true
	}

	for path, item := range c.doc.Paths.Map() {
		for method := range item.Operations() {
			if !served[method+" "+normalizeTemplate(path)] {
				findings = append(findings, Finding{
					Code:    FindingUnserved,
					Method:  method,
					Path:    path,
					Message: fmt.Sprintf("documented operation is not served: %s %s", method, path),
				})
			}
		}
	}

	sort.Slice(findings, func(i, j int) bool {
		if findings[i].Path != findings[j].Path {
			return findings[i].Path < findings[j].Path
		}
		return findings[i].Method < findings[j].Method
	})
	return findings
}

const apiPrefix = "/api"

func isAPIMethod(m string) bool {
	switch m {
	case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

// templatePath turns "/slots/station/:id/" into "/slots/station/{id}".
func templatePath(path string) string {
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}
	segments := strings.Split(path, "/")
	for i, s := range segments {
		if strings.HasPrefix(s, ":") {
			segments[i] = "{" + s[1:] + "}"
		}
	}
	return strings.Join(segments, "/")
}

// normalizeTemplate blanks parameter names so "/x/{id}" and "/x/{token}"
// compare equal.
func normalizeTemplate(path string) string {
	segments := strings.Split(path, "/")
	for i, s := range segments {
		if strings.HasPrefix(s, "{") && strings.HasSuffix(s, "}") {
			segments[i] = "{}"
		}
	}
	return strings.Join(segments, "/")
}
