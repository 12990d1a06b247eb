package server

import (
	"html/template"
	"log/slog"
	"net/http"
)

var indexTemplate = template.Must(template.New("index").Funcs(template.FuncMap{
	"fitness": formatFitness,
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Mountain car jobs</title>
<style>
body { font-family: sans-serif; margin: 2rem; }
table { border-collapse: collapse; }
th, td { padding: 0.3rem 0.8rem; border-bottom: 1px solid #ddd; text-align: left; }
.completed { color: #2a7; } .failed { color: #c33; } .cancelled { color: #888; }
</style>
</head>
<body>
<h1>Mountain car jobs</h1>
{{if .}}
<table>
<tr><th>ID</th><th>State</th><th>Generation</th><th>Best fitness</th><th>Initial fitness</th><th>Started</th></tr>
{{range .}}
<tr>
<td><a href="/api/v1/jobs/{{.ID}}/status">{{.ID}}</a></td>
<td class="{{.State}}">{{.State}}{{if .Error}} ({{.Error}}){{end}}</td>
<td>{{.Generation}} / {{.Config.GA.MaxGenerations}}</td>
<td>{{fitness .BestFitness}}</td>
<td>{{fitness .InitialFitness}}</td>
<td>{{.StartTime.Format "2006-01-02 15:04:05"}}</td>
</tr>
{{end}}
</table>
{{else}}
<p>No jobs yet. Create one with <code>POST /api/v1/jobs</code>.</p>
{{end}}
</body>
</html>
`))

// handleIndex handles GET /
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	if err := indexTemplate.Execute(w, s.jobManager.ListJobs()); err != nil {
		slog.Error("Failed to render index", "error", err)
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
	}
}
