package handler

import (
	"bytes"
	"html/template"
	"net/http"

	"github.com/p0t4t0sandwich/bee-name-generator/internal/logger"
)

// RepositoryURL is linked from the landing page
const RepositoryURL = "https://github.com/p0t4t0sandwich/bee-name-generator"

// BeeNameRoot is the route prefix of the bee name API
const BeeNameRoot = "/api/v1/bee-name-generator"

var landingTemplate = template.Must(template.New("landing").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>Bee Name Generator</title>
    <style>
        body {
            font-family: Arial, Helvetica, sans-serif;
        }
    </style>
</head>
<body>
    <h1>Bee Name Generator</h1>
    <a href="{{.RepositoryURL}}">GitHub Repository</a>
    <br>
    {{range .Endpoints}}
    <p>{{.Description}}{{if .Auth}} (Authentication Required){{end}}: </p>
    <a href="{{.Path}}">{{.Method}} {{.Path}}</a>
    <br>
    {{end}}
    <iframe name="dummyframe" id="dummyframe" style="display: none;"></iframe>
    <p>Submit a bee name (it can make sense, or you can be punny with it): </p>
    <form action="{{.Root}}/suggestion" method="post" target="dummyframe">
        <input type="text" name="name" placeholder="Bee Name">
        <input type="submit" value="Submit">
    </form>
    <p>API documentation: <a href="/swagger/index.html">/swagger/index.html</a></p>
</body>
</html>
`))

type landingEndpoint struct {
	Method      string
	Path        string
	Description string
	Auth        bool
}

type landingPage struct {
	RepositoryURL string
	Root          string
	Endpoints     []landingEndpoint
}

// HandleLanding renders the HTML index listing the bee name endpoints
func HandleLanding() http.HandlerFunc {
	page := landingPage{
		RepositoryURL: RepositoryURL,
		Root:          BeeNameRoot,
		Endpoints: []landingEndpoint{
			{Method: http.MethodGet, Path: BeeNameRoot + "/name", Description: "Get a bee name"},
			{Method: http.MethodPost, Path: BeeNameRoot + "/name", Description: "Upload a bee name", Auth: true},
			{Method: http.MethodGet, Path: BeeNameRoot + "/suggestion", Description: "Get bee name suggestions", Auth: true},
			{Method: http.MethodPut, Path: BeeNameRoot + "/suggestion", Description: "Accept a bee name suggestion", Auth: true},
			{Method: http.MethodDelete, Path: BeeNameRoot + "/suggestion", Description: "Reject a bee name suggestion", Auth: true},
		},
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var buf bytes.Buffer
		if err := landingTemplate.Execute(&buf, page); err != nil {
			logger.FromContext(r.Context()).Error(LogMsgLandingRenderFail, "error", err)
			http.Error(w, ErrMsgGenericServerError, http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = buf.WriteTo(w)
	}
}
