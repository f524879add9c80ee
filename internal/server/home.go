package server

import (
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/notifyhub/notifications-dispatch/pkg/db"
	"github.com/notifyhub/notifications-dispatch/pkg/dispatcher"
	"github.com/notifyhub/notifications-dispatch/pkg/resolver"
)

// homePageTemplate is the HTML for the service home page (white bg, black/blue text).
const homePageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>Notifications Dispatch</title>
  <style>
    * { box-sizing: border-box; }
    body { background: #fff; color: #000; font-family: system-ui, sans-serif; margin: 0; padding: 2rem; line-height: 1.5; }
    a { color: #0066cc; }
    h1, h2 { color: #0066cc; }
    .status-healthy { color: #0066cc; font-weight: bold; }
    .status-unhealthy { color: #cc0000; font-weight: bold; }
    table { border-collapse: collapse; width: 100%; max-width: 900px; margin-top: 0.5rem; }
    th, td { text-align: left; padding: 0.5rem 0.75rem; border: 1px solid #ccc; }
    th { background: #f0f4f8; color: #0066cc; }
    .meta { color: #333; font-size: 0.9rem; margin-top: 1rem; }
    section { margin-bottom: 2rem; }
    .error { color: #cc0000; }
    .disabled { color: #777; }
  </style>
</head>
<body>
  <h1>Notifications Dispatch</h1>
  <p class="meta">Dispatch service health and registered handler endpoints.</p>

  <section>
    <h2>Health</h2>
    <p>Status: <span class="status-{{.Health.Status}}">{{.Health.Status}}</span></p>
    <p>Database: {{if index .Health.Checks "database"}}OK{{else}}<span class="error">Failed</span>{{end}}</p>
    <p>COMMS: {{if index .Health.Checks "comms"}}OK{{else}}<span class="error">Failed</span>{{end}}</p>
    <p>Timestamp: {{.Health.Timestamp}}</p>
  </section>

  <section>
    <h2>Active handler</h2>
    {{if .Active}}
    <p>Action <code>{{.Action}}</code> resolves to <strong>{{.Active.Name}}</strong> (subject {{.Active.Subject}}, protocol {{.Active.Protocol}}).</p>
    {{else}}
    <p class="error">No handler currently resolvable for <code>{{.Action}}</code>; envelopes are dropped.</p>
    {{end}}
  </section>

  <section>
    <h2>Registered endpoints</h2>
    {{if .EndpointsError}}
    <p class="error">Could not load endpoints: {{.EndpointsError}}</p>
    {{else}}
    {{if not .Endpoints}}
    <p>No endpoints registered.</p>
    {{else}}
    <table>
      <thead>
        <tr><th>Name</th><th>Action</th><th>Subject</th><th>Protocol</th><th>Enabled</th><th>Registered</th></tr>
      </thead>
      <tbody>
        {{range .Endpoints}}
        <tr{{if not .Enabled}} class="disabled"{{end}}>
          <td>{{.Name}}</td>
          <td>{{.Action}}</td>
          <td>{{.Subject}}</td>
          <td>{{.Protocol}}</td>
          <td>{{.Enabled}}</td>
          <td>{{.Registered}}</td>
        </tr>
        {{end}}
      </tbody>
    </table>
    {{end}}
    {{end}}
  </section>
</body>
</html>
`

// homeData is the data passed to the home page template.
type homeData struct {
	Health         *HealthOutput
	Action         string
	Active         *resolver.Endpoint
	Endpoints      []db.HandlerEndpoint
	EndpointsError string
}

// handleHome returns an HTTP handler for the service home page.
func (s *Server) handleHome() http.HandlerFunc {
	tmpl := template.Must(template.New("home").Parse(homePageTemplate))
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), s.cfg.HealthCheckTimeout)
		defer cancel()

		data := homeData{
			Health: s.health(ctx),
			Action: dispatcher.EventAction,
		}

		if active, err := s.resolver.Resolve(ctx, dispatcher.EventAction); err == nil {
			data.Active = active
		}

		endpoints, err := s.repo.ListEndpoints(ctx)
		if err != nil {
			data.EndpointsError = err.Error()
		} else {
			data.Endpoints = endpoints
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := tmpl.Execute(w, data); err != nil {
			slog.Error(fmt.Sprintf("%s - home template execute: %v", logPrefix, err))
			http.Error(w, "internal error", http.StatusInternalServerError)
		}
	}
}
