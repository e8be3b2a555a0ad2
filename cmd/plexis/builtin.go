package main

import (
	"encoding/json"
	"net/http"

	"github.com/plexis-cms/plexis"
)

// errorPage builds a controller of the error module. actionIndex renders
// html; actionAjax answers ajax requests with a JSON message.
func errorPage(name string, status int, html, message string) plexis.Controller {
	return plexis.Controller{
		Name: name,
		Actions: map[string]plexis.Action{
			"actionIndex": {Handle: func(c *plexis.Context) (plexis.Result, error) {
				resp := c.Response()
				if err := resp.SetStatus(status); err != nil {
					return plexis.Result{}, err
				}
				resp.SetBody(html)
				return plexis.Terminate(resp), nil
			}},
			"actionAjax": {Handle: func(c *plexis.Context) (plexis.Result, error) {
				resp := c.Response()
				if err := resp.SetStatus(status); err != nil {
					return plexis.Result{}, err
				}
				data, err := json.Marshal(map[string]string{"message": message})
				if err != nil {
					return plexis.Result{}, err
				}
				resp.SetHeader("Content-Type", "application/json")
				resp.SetBody(string(data))
				return plexis.Terminate(resp), nil
			}},
		},
	}
}

func errorControllers() []plexis.Controller {
	return []plexis.Controller{
		errorPage("Show404", http.StatusNotFound,
			"<h1>404 Page Not Found</h1><p>The page you requested does not exist.</p>",
			"Page Not Found"),
		errorPage("Show403", http.StatusForbidden,
			"<h1>403 Forbidden</h1><p>You are not allowed to view this page.</p>",
			"Forbidden"),
		errorPage("ShowOffline", http.StatusServiceUnavailable,
			"<h1>Site is currently offline</h1>",
			"Site is currently offline"),
	}
}

// welcomeController is the default module's landing page. Sites replace the
// welcome module with their own; until then the root answers 404.
func welcomeController() plexis.Controller {
	return plexis.Controller{
		Name: "Welcome",
		Actions: map[string]plexis.Action{
			"actionIndex": {Handle: func(c *plexis.Context) (plexis.Result, error) {
				return c.Forward("error/404")
			}},
		},
	}
}
