package sessiongate

import "github.com/gofiber/template/django/v3"

// NewViewEngine builds the django view engine the portfolio app renders the
// login, signup, and dashboard templates with.
func NewViewEngine(dir string) *django.Engine {
	engine := django.New(dir, ".html")
	return engine
}
