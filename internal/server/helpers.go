package server

import (
	"log/slog"
	"strconv"

	"trailhaven/internal/models"

	"github.com/gofiber/fiber/v2"
)

const (
	flashErrorKey   = "flash_error"
	flashSuccessKey = "flash_success"
)

// SessionLoader resolves the session cookie once per request and exposes the
// authenticated identity (if any) through locals.
func (s *Server) SessionLoader() fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := s.sessions.Get(c)
		if err != nil {
			return c.Next()
		}
		if userID, ok := sess.Get(sessionUserIDKey).(uint); ok && userID > 0 {
			c.Locals("user_id", userID)
			if username, ok := sess.Get(sessionUsernameKey).(string); ok {
				c.Locals("username", username)
			}
		}
		return c.Next()
	}
}

// currentUserID returns the logged-in user's id, or 0 when anonymous.
func currentUserID(c *fiber.Ctx) uint {
	if userID, ok := c.Locals("user_id").(uint); ok {
		return userID
	}
	return 0
}

func currentUsername(c *fiber.Ctx) string {
	if username, ok := c.Locals("username").(string); ok {
		return username
	}
	return ""
}

// establishSession records the user's identity, logging them in.
func (s *Server) establishSession(c *fiber.Ctx, user *models.User) error {
	sess, err := s.sessions.Get(c)
	if err != nil {
		return err
	}
	sess.Set(sessionUserIDKey, user.ID)
	sess.Set(sessionUsernameKey, user.Username)
	return sess.Save()
}

// destroySession logs the user out.
func (s *Server) destroySession(c *fiber.Ctx) {
	sess, err := s.sessions.Get(c)
	if err != nil {
		return
	}
	if err := sess.Destroy(); err != nil {
		logWarn(c, "session destroy failed", err)
	}
}

func logWarn(c *fiber.Ctx, msg string, err error) {
	slog.WarnContext(c.Context(), msg, slog.String("error", err.Error()))
}

// flashError stores a one-shot error message shown on the next rendered page.
func (s *Server) flashError(c *fiber.Ctx, msg string) {
	s.flash(c, flashErrorKey, msg)
}

// flashSuccess stores a one-shot success message shown on the next rendered page.
func (s *Server) flashSuccess(c *fiber.Ctx, msg string) {
	s.flash(c, flashSuccessKey, msg)
}

func (s *Server) flash(c *fiber.Ctx, key, msg string) {
	sess, err := s.sessions.Get(c)
	if err != nil {
		return
	}
	sess.Set(key, msg)
	if err := sess.Save(); err != nil {
		logWarn(c, "flash save failed", err)
	}
}

// popFlashes consumes pending flash messages.
func (s *Server) popFlashes(c *fiber.Ctx) (errMsg, successMsg string) {
	sess, err := s.sessions.Get(c)
	if err != nil {
		return "", ""
	}
	if v, ok := sess.Get(flashErrorKey).(string); ok {
		errMsg = v
		sess.Delete(flashErrorKey)
	}
	if v, ok := sess.Get(flashSuccessKey).(string); ok {
		successMsg = v
		sess.Delete(flashSuccessKey)
	}
	if errMsg != "" || successMsg != "" {
		if err := sess.Save(); err != nil {
			logWarn(c, "flash consume failed", err)
		}
	}
	return errMsg, successMsg
}

// render draws a view with the shared bindings every template expects:
// the current user identity and any pending flash messages. Explicit
// Error/Success values in bind win over flashes.
func (s *Server) render(c *fiber.Ctx, name string, bind fiber.Map) error {
	if bind == nil {
		bind = fiber.Map{}
	}
	flashErr, flashSuccess := s.popFlashes(c)
	if _, ok := bind["Error"]; !ok {
		bind["Error"] = flashErr
	}
	if _, ok := bind["Success"]; !ok {
		bind["Success"] = flashSuccess
	}
	bind["CurrentUserID"] = currentUserID(c)
	bind["CurrentUsername"] = currentUsername(c)
	return c.Render(name, bind)
}

// renderError shows the generic error page with a message. The page itself
// responds 200; the failure is communicated in the body.
func (s *Server) renderError(c *fiber.Ctx, msg string) error {
	return s.render(c, "error", fiber.Map{"Error": msg})
}

// redirectBack sends the browser to the page it came from, falling back when
// no Referer header is present.
func redirectBack(c *fiber.Ctx, fallback string) error {
	if ref := c.Get(fiber.HeaderReferer); ref != "" {
		return c.Redirect(ref)
	}
	return c.Redirect(fallback)
}

// parseID parses a numeric route parameter.
func parseID(c *fiber.Ctx, param string) (uint, error) {
	raw := c.Params(param)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, models.NewValidationError("invalid id: " + raw)
	}
	return uint(id), nil
}
