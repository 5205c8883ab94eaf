package server

import (
	"log/slog"
	"strconv"

	"trailhaven/internal/middleware"
	"trailhaven/internal/models"
	"trailhaven/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// NewComment renders the review form for a campground.
func (s *Server) NewComment(c *fiber.Ctx) error {
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

	return s.render(c, "comments/new", fiber.Map{
		"Campground": campground,
	})
}

// CreateComment adds a review to a campground. The author's username is
// copied onto the comment so listings never need a join back to users.
func (s *Server) CreateComment(c *fiber.Ctx) error {
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

	rating, _ := strconv.Atoi(c.FormValue("rating"))
	if err := validation.ValidateRating(rating); err != nil {
		s.flashError(c, err.Error())
		return redirectBack(c, "/campgrounds/"+strconv.Itoa(int(campground.ID)))
	}

	comment := &models.Comment{
		Text:           c.FormValue("text"),
		Rating:         rating,
		AuthorID:       currentUserID(c),
		AuthorUsername: currentUsername(c),
		CampgroundID:   campground.ID,
	}

	if err := s.commentRepo.Create(c.Context(), comment); err != nil {
		middleware.Logger.ErrorContext(c.Context(), "comment create failed",
			slog.String("error", err.Error()))
		s.flashError(c, "Something went wrong, please try again")
		return redirectBack(c, "/campgrounds/"+strconv.Itoa(int(campground.ID)))
	}

	s.flashSuccess(c, "Successfully added comment")
	return c.Redirect("/campgrounds/" + strconv.Itoa(int(campground.ID)))
}

// EditComment renders the edit form for an owned comment.
func (s *Server) EditComment(c *fiber.Ctx) error {
	comment := c.Locals("comment").(*models.Comment)
	return s.render(c, "comments/edit", fiber.Map{
		"Comment":      comment,
		"CampgroundID": c.Params("id"),
	})
}

// UpdateComment applies edits to an owned comment.
func (s *Server) UpdateComment(c *fiber.Ctx) error {
	comment := c.Locals("comment").(*models.Comment)
	showPath := "/campgrounds/" + c.Params("id")

	rating, _ := strconv.Atoi(c.FormValue("rating"))
	if err := validation.ValidateRating(rating); err != nil {
		s.flashError(c, err.Error())
		return redirectBack(c, showPath)
	}

	comment.Text = c.FormValue("text")
	comment.Rating = rating

	if err := s.commentRepo.Update(c.Context(), comment); err != nil {
		middleware.Logger.ErrorContext(c.Context(), "comment update failed",
			slog.String("error", err.Error()))
		s.flashError(c, "Something went wrong, please try again")
		return redirectBack(c, showPath)
	}

	s.flashSuccess(c, "Comment updated")
	return c.Redirect(showPath)
}

// DeleteComment removes an owned comment. The campground's cached rating
// catches up the next time its show page loads.
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	comment := c.Locals("comment").(*models.Comment)
	showPath := "/campgrounds/" + c.Params("id")

	if err := s.commentRepo.Delete(c.Context(), comment.ID); err != nil {
		middleware.Logger.ErrorContext(c.Context(), "comment delete failed",
			slog.String("error", err.Error()))
		s.flashError(c, "Something went wrong, please try again")
		return redirectBack(c, showPath)
	}

	s.flashSuccess(c, "Comment deleted")
	return c.Redirect(showPath)
}
