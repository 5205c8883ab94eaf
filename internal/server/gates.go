package server

import (
	"github.com/gofiber/fiber/v2"
)

// RequireLogin redirects anonymous visitors to the login page.
func (s *Server) RequireLogin(c *fiber.Ctx) error {
	if currentUserID(c) == 0 {
		s.flashError(c, "You need to be logged in to do that")
		return c.Redirect("/login")
	}
	return c.Next()
}

// RequireCampgroundOwner loads the campground for the :id parameter and
// only lets the request through when the logged-in user authored it. A
// missing campground is handled the same way as one owned by someone else:
// flash and redirect, never a bare error page.
func (s *Server) RequireCampgroundOwner(c *fiber.Ctx) error {
	userID := currentUserID(c)
	if userID == 0 {
		s.flashError(c, "You need to be logged in to do that")
		return c.Redirect("/login")
	}

	id, err := parseID(c, "id")
	if err != nil {
		s.flashError(c, "Campground not found")
		return redirectBack(c, "/campgrounds")
	}

	campground, err := s.campgroundRepo.GetByID(c.Context(), id)
	if err != nil {
		s.flashError(c, "Campground not found")
		return redirectBack(c, "/campgrounds")
	}

	if campground.AuthorID != userID {
		s.flashError(c, "You don't have permission to do that")
		return redirectBack(c, "/campgrounds")
	}

	c.Locals("campground", campground)
	return c.Next()
}

// RequireCommentOwner mirrors RequireCampgroundOwner for the :commentId
// parameter.
func (s *Server) RequireCommentOwner(c *fiber.Ctx) error {
	userID := currentUserID(c)
	if userID == 0 {
		s.flashError(c, "You need to be logged in to do that")
		return c.Redirect("/login")
	}

	commentID, err := parseID(c, "commentId")
	if err != nil {
		s.flashError(c, "Comment not found")
		return redirectBack(c, "/campgrounds")
	}

	comment, err := s.commentRepo.GetByID(c.Context(), commentID)
	if err != nil {
		s.flashError(c, "Comment not found")
		return redirectBack(c, "/campgrounds")
	}

	if comment.AuthorID != userID {
		s.flashError(c, "You don't have permission to do that")
		return redirectBack(c, "/campgrounds")
	}

	c.Locals("comment", comment)
	return c.Next()
}

// RequireProfileOwner restricts profile mutations to the account holder.
func (s *Server) RequireProfileOwner(c *fiber.Ctx) error {
	userID := currentUserID(c)
	if userID == 0 {
		s.flashError(c, "You need to be logged in to do that")
		return c.Redirect("/login")
	}

	id, err := parseID(c, "id")
	if err != nil || id != userID {
		s.flashError(c, "You don't have permission to do that")
		return redirectBack(c, "/campgrounds")
	}

	return c.Next()
}
