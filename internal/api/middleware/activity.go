package middleware

import "github.com/labstack/echo/v4"

// Toucher receives interaction signals; the inactivity monitor implements it.
type Toucher interface {
	Touch()
}

// Activity treats every request on a guarded route as an interaction signal,
// resetting the idle countdown. With a nil Toucher (inactivity logout
// disabled) it is a pass-through.
func Activity(t Toucher) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if t != nil {
				t.Touch()
			}
			return next(c)
		}
	}
}
