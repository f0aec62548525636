package viewmodel

import "github.com/gofiber/fiber/v2"

type Layout struct {
	Page    string
	Theme   string
	IsError bool
	Msg     fiber.Map
	IsDev   bool
	CSRF    string
}
