package log

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

var (
	mu     sync.RWMutex
	logger = newLogger(os.Stdout)
)

func newLogger(w io.Writer) zerolog.Logger {
	return zerolog.New(w)
}

// SetOutput redirects every subsequent entry to w.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	logger = newLogger(w)
}

// Identity is satisfied by the staff user stored in c.Locals("user").
type Identity interface {
	GetID() string
}

func write(level string, c *fiber.Ctx, action string, err error, fields map[string]any) {
	mu.RLock()
	l := logger
	mu.RUnlock()

	e := l.Log().
		Str("ts", time.Now().UTC().Format(time.RFC3339)).
		Str("level", level).
		Str("action", action)
	if c != nil {
		e = e.Str("ip", c.IP()).
			Str("method", c.Method()).
			Str("path", c.Path())
		if st := c.Response().StatusCode(); st != 0 {
			e = e.Int("status", st)
		}
		if rid, ok := c.Locals("requestid").(string); ok && rid != "" {
			e = e.Str("req_id", rid)
		}
		if u, ok := c.Locals("user").(Identity); ok && u != nil {
			e = e.Str("user_id", u.GetID())
		}
	}
	if err != nil {
		e = e.Str("err", err.Error())
	}
	if len(fields) > 0 {
		e = e.Interface("fields", fields)
	}
	e.Send()
}

func Info(c *fiber.Ctx, action string, fields map[string]any) {
	write("info", c, action, nil, fields)
}
func Audit(c *fiber.Ctx, action string, fields map[string]any) {
	write("audit", c, action, nil, fields)
}
func Security(c *fiber.Ctx, action string, fields map[string]any) {
	write("warn", c, action, nil, fields)
}
func Error(c *fiber.Ctx, action string, err error, fields map[string]any) {
	write("error", c, action, err, fields)
}
