package server

import (
	"errors"
	"log/slog"

	"trailhaven/internal/imagehost"
	"trailhaven/internal/middleware"
	"trailhaven/internal/models"
	"trailhaven/internal/validation"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

// Landing handles the public landing page. Members go straight to the
// listings.
func (s *Server) Landing(c *fiber.Ctx) error {
	if currentUserID(c) != 0 {
		return c.Redirect("/campgrounds")
	}
	return s.render(c, "landing", fiber.Map{})
}

// About handles the about page
func (s *Server) About(c *fiber.Ctx) error {
	return s.render(c, "about", fiber.Map{})
}

// ShowRegister renders the signup form
func (s *Server) ShowRegister(c *fiber.Ctx) error {
	if currentUserID(c) != 0 {
		return c.Redirect("/campgrounds")
	}
	return s.render(c, "register", fiber.Map{
		"Username": "", "Email": "", "FullName": "", "Phone": "",
	})
}

// Register handles new account creation, with an optional avatar upload.
func (s *Server) Register(c *fiber.Ctx) error {
	username := c.FormValue("username")
	password := c.FormValue("password")
	email := c.FormValue("email")

	// Validation failures re-render the form inline so the visitor keeps
	// what they typed.
	rerender := func(msg string) error {
		return s.render(c, "register", fiber.Map{
			"Error":    msg,
			"Username": username,
			"Email":    email,
			"FullName": c.FormValue("fullName"),
			"Phone":    c.FormValue("phone"),
		})
	}

	if err := validation.ValidateUsername(username); err != nil {
		return rerender(err.Error())
	}
	if err := validation.ValidatePassword(password); err != nil {
		return rerender(err.Error())
	}
	if email != "" {
		if err := validation.ValidateEmail(email); err != nil {
			return rerender(err.Error())
		}
	}

	user := &models.User{
		Username: username,
		Email:    email,
		Phone:    c.FormValue("phone"),
		FullName: c.FormValue("fullName"),
	}

	// Avatar is optional; when present it must be an image and must be
	// hosted before the account record exists.
	if file, err := c.FormFile("image"); err == nil && file != nil {
		if !imagehost.AllowedImageFile(file.Filename) {
			return rerender("Only image files (jpg, jpeg, png, gif) are allowed")
		}
		src, err := file.Open()
		if err != nil {
			return rerender("Could not read the uploaded file")
		}
		defer src.Close()

		upload, err := s.images.Upload(c.Context(), src, file.Filename, imagehost.AvatarPreset)
		if err != nil {
			middleware.Logger.ErrorContext(c.Context(), "avatar upload failed",
				slog.String("error", err.Error()))
			s.flashError(c, err.Error())
			return redirectBack(c, "/register")
		}
		user.Image = upload.URL
		user.ImageID = upload.PublicID
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return rerender("Something went wrong, please try again")
	}
	user.Password = string(hash)

	if err := s.userRepo.Create(c.Context(), user); err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) {
			return rerender(appErr.Message)
		}
		middleware.Logger.ErrorContext(c.Context(), "user create failed",
			slog.String("error", err.Error()))
		return rerender("Something went wrong, please try again")
	}

	if err := s.establishSession(c, user); err != nil {
		middleware.Logger.ErrorContext(c.Context(), "session create failed",
			slog.String("error", err.Error()))
	}
	s.flashSuccess(c, "Welcome to Trailhaven, "+user.Username+"!")
	return c.Redirect("/campgrounds")
}

// ShowLogin renders the login form
func (s *Server) ShowLogin(c *fiber.Ctx) error {
	if currentUserID(c) != 0 {
		return c.Redirect("/campgrounds")
	}
	return s.render(c, "login", fiber.Map{})
}

// Login authenticates a returning user against the stored bcrypt hash.
func (s *Server) Login(c *fiber.Ctx) error {
	username := c.FormValue("username")
	password := c.FormValue("password")

	user, err := s.userRepo.GetByUsername(c.Context(), username)
	if err != nil {
		middleware.Logger.ErrorContext(c.Context(), "login lookup failed",
			slog.String("error", err.Error()))
		s.flashError(c, "Something went wrong, please try again")
		return c.Redirect("/login")
	}
	if user == nil || bcrypt.CompareHashAndPassword(
		[]byte(user.Password), []byte(password)) != nil {
		s.flashError(c, "Invalid username or password")
		return c.Redirect("/login")
	}

	if err := s.establishSession(c, user); err != nil {
		middleware.Logger.ErrorContext(c.Context(), "session create failed",
			slog.String("error", err.Error()))
		s.flashError(c, "Something went wrong, please try again")
		return c.Redirect("/login")
	}

	s.flashSuccess(c, "Welcome back, "+user.Username+"!")
	return c.Redirect("/campgrounds")
}

// Logout clears the session and returns to the landing page.
func (s *Server) Logout(c *fiber.Ctx) error {
	s.destroySession(c)
	s.flashSuccess(c, "Logged you out")
	return c.Redirect("/")
}
