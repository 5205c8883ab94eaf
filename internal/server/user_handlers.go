package server

import (
	"log/slog"
	"strconv"

	"trailhaven/internal/imagehost"
	"trailhaven/internal/middleware"
	"trailhaven/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// ShowProfile renders a public profile with everything the user authored.
func (s *Server) ShowProfile(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return s.renderError(c, "This user doesn't exist")
	}

	user, err := s.userRepo.GetByID(c.Context(), id)
	if err != nil {
		return s.renderError(c, "This user doesn't exist")
	}

	campgrounds, err := s.campgroundRepo.ListByAuthor(c.Context(), user.ID)
	if err != nil {
		middleware.Logger.ErrorContext(c.Context(), "profile campgrounds failed",
			slog.String("error", err.Error()))
		return s.renderError(c, "Something went wrong, please try again")
	}

	comments, err := s.commentRepo.ListByAuthor(c.Context(), user.ID)
	if err != nil {
		middleware.Logger.ErrorContext(c.Context(), "profile comments failed",
			slog.String("error", err.Error()))
		return s.renderError(c, "Something went wrong, please try again")
	}

	return s.render(c, "users/show", fiber.Map{
		"User":        user,
		"Campgrounds": campgrounds,
		"Reviews":     comments,
	})
}

// EditProfile renders the account settings form.
func (s *Server) EditProfile(c *fiber.Ctx) error {
	user, err := s.userRepo.GetByID(c.Context(), currentUserID(c))
	if err != nil {
		return s.renderError(c, "This user doesn't exist")
	}
	return s.render(c, "users/edit", fiber.Map{
		"User": user,
	})
}

// UpdateProfile applies contact-detail edits with an optional new avatar.
// The previous avatar is destroyed before the replacement uploads.
func (s *Server) UpdateProfile(c *fiber.Ctx) error {
	user, err := s.userRepo.GetByID(c.Context(), currentUserID(c))
	if err != nil {
		return s.renderError(c, "This user doesn't exist")
	}
	profilePath := "/users/" + strconv.Itoa(int(user.ID))

	if file, ferr := c.FormFile("image"); ferr == nil && file != nil {
		if !imagehost.AllowedImageFile(file.Filename) {
			s.flashError(c, "Only image files (jpg, jpeg, png, gif) are allowed")
			return redirectBack(c, profilePath+"/edit")
		}
		if user.ImageID != "" {
			if err := s.images.Destroy(c.Context(), user.ImageID); err != nil {
				s.flashError(c, err.Error())
				return redirectBack(c, profilePath+"/edit")
			}
		}
		upload, err := s.uploadFile(c, file, imagehost.AvatarPreset)
		if err != nil {
			s.flashError(c, err.Error())
			return redirectBack(c, profilePath+"/edit")
		}
		user.Image = upload.URL
		user.ImageID = upload.PublicID
	}

	email := c.FormValue("email")
	if email != "" {
		if err := validation.ValidateEmail(email); err != nil {
			s.flashError(c, err.Error())
			return redirectBack(c, profilePath+"/edit")
		}
	}
	// Contact fields are overwritten with whatever was submitted, blanks
	// included.
	user.Email = email
	user.Phone = c.FormValue("phone")
	user.FullName = c.FormValue("fullName")

	if err := s.userRepo.Update(c.Context(), user); err != nil {
		middleware.Logger.ErrorContext(c.Context(), "profile update failed",
			slog.String("error", err.Error()))
		s.flashError(c, "Something went wrong, please try again")
		return redirectBack(c, profilePath+"/edit")
	}

	s.flashSuccess(c, "Updated your profile!")
	return c.Redirect(profilePath)
}

// DeleteProfile removes the account. The avatar is destroyed first; when
// that fails the account stays, matching how campground deletion behaves.
// Authored campgrounds and comments are left in place with their snapshotted
// author name.
func (s *Server) DeleteProfile(c *fiber.Ctx) error {
	user, err := s.userRepo.GetByID(c.Context(), currentUserID(c))
	if err != nil {
		return s.renderError(c, "This user doesn't exist")
	}

	if user.ImageID != "" {
		if err := s.images.Destroy(c.Context(), user.ImageID); err != nil {
			middleware.Logger.ErrorContext(c.Context(), "avatar destroy failed",
				slog.Uint64("user_id", uint64(user.ID)),
				slog.String("error", err.Error()))
			return s.renderError(c, err.Error())
		}
	}

	if err := s.userRepo.Delete(c.Context(), user.ID); err != nil {
		middleware.Logger.ErrorContext(c.Context(), "account delete failed",
			slog.String("error", err.Error()))
		s.flashError(c, "Something went wrong, please try again")
		return redirectBack(c, "/users/"+strconv.Itoa(int(user.ID)))
	}

	s.destroySession(c)
	return c.Redirect("/")
}
