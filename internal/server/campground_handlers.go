package server

import (
	"log/slog"
	"mime/multipart"
	"strconv"

	"trailhaven/internal/imagehost"
	"trailhaven/internal/middleware"
	"trailhaven/internal/models"
	"trailhaven/internal/repository"
	"trailhaven/internal/search"

	"github.com/gofiber/fiber/v2"
)

// ListCampgrounds renders the index. A search query takes precedence over a
// sort parameter; without either the listing uses the default ordering.
func (s *Server) ListCampgrounds(c *fiber.Ctx) error {
	if query := c.Query("search"); query != "" {
		all, err := s.campgroundRepo.List(c.Context())
		if err != nil {
			middleware.Logger.ErrorContext(c.Context(), "campground list failed",
				slog.String("error", err.Error()))
			return s.renderError(c, "Something went wrong, please try again")
		}
		results := search.Campgrounds(query, all)
		noMatch := ""
		if len(results) == 0 {
			noMatch = query
		}
		return s.render(c, "campgrounds/index", fiber.Map{
			"Campgrounds": results,
			"NoMatch":     noMatch,
			"Search":      query,
		})
	}

	if sortBy := c.Query("sortby"); sortBy != "" {
		campgrounds, err := s.campgroundRepo.ListSorted(
			c.Context(), repository.CampgroundSort(sortBy))
		if err != nil {
			middleware.Logger.ErrorContext(c.Context(), "campground list failed",
				slog.String("error", err.Error()))
			return s.renderError(c, "Something went wrong, please try again")
		}
		return s.render(c, "campgrounds/index", fiber.Map{
			"Campgrounds": campgrounds,
			"SortBy":      sortBy,
			"Search":      "",
		})
	}

	campgrounds, err := s.campgroundRepo.List(c.Context())
	if err != nil {
		middleware.Logger.ErrorContext(c.Context(), "campground list failed",
			slog.String("error", err.Error()))
		return s.renderError(c, "Something went wrong, please try again")
	}
	return s.render(c, "campgrounds/index", fiber.Map{
		"Campgrounds": campgrounds,
		"Search":      "",
	})
}

// NewCampground renders the creation form
func (s *Server) NewCampground(c *fiber.Ctx) error {
	return s.render(c, "campgrounds/new", fiber.Map{})
}

// CreateCampground uploads the image, geocodes the location, and inserts the
// record, in that order. A geocode or insert failure after a successful
// upload leaves the hosted image orphaned; that is accepted rather than
// attempting rollback against the external host.
func (s *Server) CreateCampground(c *fiber.Ctx) error {
	file, err := c.FormFile("image")
	if err != nil || file == nil {
		s.flashError(c, "Please attach an image of your campground")
		return redirectBack(c, "/campgrounds/new")
	}
	if !imagehost.AllowedImageFile(file.Filename) {
		s.flashError(c, "Only image files (jpg, jpeg, png, gif) are allowed")
		return redirectBack(c, "/campgrounds/new")
	}

	upload, err := s.uploadFile(c, file, imagehost.CampgroundPreset)
	if err != nil {
		return s.renderError(c, err.Error())
	}

	location := c.FormValue("location")
	lat, lng, err := s.geocoder.Geocode(c.Context(), location)
	if err != nil {
		s.flashError(c, "Invalid address")
		return redirectBack(c, "/campgrounds/new")
	}

	price, _ := strconv.ParseFloat(c.FormValue("price"), 64)
	campground := &models.Campground{
		Name:           c.FormValue("name"),
		Description:    c.FormValue("description"),
		Image:          upload.URL,
		ImageID:        upload.PublicID,
		Price:          price,
		Location:       location,
		Lat:            lat,
		Lng:            lng,
		AuthorID:       currentUserID(c),
		AuthorUsername: currentUsername(c),
		Tags:           models.ParseTagList(c.FormValue("tags")),
		BookingStart:   c.FormValue("bookingStart"),
		BookingEnd:     c.FormValue("bookingEnd"),
	}

	if err := s.campgroundRepo.Create(c.Context(), campground); err != nil {
		middleware.Logger.ErrorContext(c.Context(), "campground create failed",
			slog.String("error", err.Error()))
		return s.renderError(c, "Something went wrong, please try again")
	}

	s.flashSuccess(c, "Successfully added your campground!")
	return c.Redirect("/campgrounds")
}

// ShowCampground renders the detail page. The cached rating is recomputed
// from the loaded comments and written back, so a stale cache self-heals on
// the next view.
func (s *Server) ShowCampground(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return s.renderError(c, "Sorry, that campground does not exist!")
	}

	campground, err := s.campgroundRepo.GetWithComments(c.Context(), id)
	if err != nil {
		return s.renderError(c, "Sorry, that campground does not exist!")
	}

	campground.RecomputeRating()
	if err := s.campgroundRepo.UpdateRating(
		c.Context(), campground.ID, campground.RateAvg, campground.RateCount); err != nil {
		// The page still renders with the freshly computed values.
		middleware.Logger.WarnContext(c.Context(), "rating persist failed",
			slog.Uint64("campground_id", uint64(campground.ID)),
			slog.String("error", err.Error()))
	}

	return s.render(c, "campgrounds/show", fiber.Map{
		"Campground": campground,
	})
}

// EditCampground renders the edit form for an owned campground.
func (s *Server) EditCampground(c *fiber.Ctx) error {
	campground := c.Locals("campground").(*models.Campground)
	return s.render(c, "campgrounds/edit", fiber.Map{
		"Campground": campground,
	})
}

// UpdateCampground re-geocodes the submitted location and applies the form
// fields. When a replacement image is attached the old image is destroyed
// before the new one uploads.
func (s *Server) UpdateCampground(c *fiber.Ctx) error {
	campground := c.Locals("campground").(*models.Campground)

	location := c.FormValue("location")
	lat, lng, err := s.geocoder.Geocode(c.Context(), location)
	if err != nil {
		s.flashError(c, "Invalid address")
		return redirectBack(c, "/campgrounds/"+strconv.Itoa(int(campground.ID))+"/edit")
	}

	if file, ferr := c.FormFile("image"); ferr == nil && file != nil {
		if !imagehost.AllowedImageFile(file.Filename) {
			s.flashError(c, "Only image files (jpg, jpeg, png, gif) are allowed")
			return redirectBack(c, "/campgrounds/"+strconv.Itoa(int(campground.ID))+"/edit")
		}
		if campground.ImageID != "" {
			if err := s.images.Destroy(c.Context(), campground.ImageID); err != nil {
				return s.renderError(c, err.Error())
			}
		}
		upload, err := s.uploadFile(c, file, imagehost.CampgroundPreset)
		if err != nil {
			return s.renderError(c, err.Error())
		}
		campground.Image = upload.URL
		campground.ImageID = upload.PublicID
	}

	price, _ := strconv.ParseFloat(c.FormValue("price"), 64)
	campground.Name = c.FormValue("name")
	campground.Description = c.FormValue("description")
	campground.Price = price
	campground.Location = location
	campground.Lat = lat
	campground.Lng = lng
	campground.Tags = models.ParseTagList(c.FormValue("tags"))
	campground.BookingStart = c.FormValue("bookingStart")
	campground.BookingEnd = c.FormValue("bookingEnd")

	if err := s.campgroundRepo.Update(c.Context(), campground); err != nil {
		middleware.Logger.ErrorContext(c.Context(), "campground update failed",
			slog.String("error", err.Error()))
		s.flashError(c, "Something went wrong, please try again")
		return redirectBack(c, "/campgrounds")
	}

	s.flashSuccess(c, "Successfully updated your campground!")
	return c.Redirect("/campgrounds/" + strconv.Itoa(int(campground.ID)))
}

// DeleteCampground destroys the hosted image first and only deletes the
// record when that succeeds, so a listing never points at a dead image while
// the reverse (an orphaned hosted image) cannot happen through this path.
func (s *Server) DeleteCampground(c *fiber.Ctx) error {
	campground := c.Locals("campground").(*models.Campground)

	if campground.ImageID != "" {
		if err := s.images.Destroy(c.Context(), campground.ImageID); err != nil {
			middleware.Logger.ErrorContext(c.Context(), "image destroy failed",
				slog.Uint64("campground_id", uint64(campground.ID)),
				slog.String("error", err.Error()))
			return s.renderError(c, err.Error())
		}
	}

	if err := s.campgroundRepo.Delete(c.Context(), campground.ID); err != nil {
		middleware.Logger.ErrorContext(c.Context(), "campground delete failed",
			slog.String("error", err.Error()))
		s.flashError(c, "Something went wrong, please try again")
		return redirectBack(c, "/campgrounds")
	}

	s.flashSuccess(c, "Campground deleted")
	return c.Redirect("/campgrounds")
}

// uploadFile opens a multipart file and sends it to the image host.
func (s *Server) uploadFile(c *fiber.Ctx, file *multipart.FileHeader, preset imagehost.Preset) (*imagehost.Upload, error) {
	src, err := file.Open()
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	defer src.Close()

	upload, err := s.images.Upload(c.Context(), src, file.Filename, preset)
	if err != nil {
		middleware.Logger.ErrorContext(c.Context(), "image upload failed",
			slog.String("filename", file.Filename),
			slog.String("error", err.Error()))
		return nil, err
	}
	return upload, nil
}
