package handler

import (
	"html/template"
	"net/http"
)

// redirectDelaySeconds is the fixed countdown before navigating to the
// resolved destination.
const redirectDelaySeconds = 2

// Minimal server-rendered shells; the real presentation layer lives
// elsewhere and talks to the JSON API.
var pages = template.Must(template.New("pages").Parse(`
{{define "home"}}<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>LINKY</title></head>
<body>
<h1>LINKY</h1>
<p>Better links for better brands. Use the API under /api/v1 to shorten and manage links.</p>
</body>
</html>{{end}}

{{define "redirect"}}<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>Redirecting&hellip;</title></head>
<body>
<h1>Link Securely Verified</h1>
<p>Redirecting you to your destination&hellip;</p>
<p><strong>{{.Destination}}</strong></p>
</body>
</html>{{end}}

{{define "notfound"}}<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>Link not found</title></head>
<body>
<h1>Link not found</h1>
<p>No link matches the code <strong>{{.Code}}</strong>. It may have been deleted.</p>
</body>
</html>{{end}}
`))

func renderPage(w http.ResponseWriter, status int, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_ = pages.ExecuteTemplate(w, name, data)
}
