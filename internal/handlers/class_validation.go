package handlers

import (
	"math"
	"net/url"
	"strings"
)

func validateCreateClassRequest(req createClassRequest) string {
	if strings.TrimSpace(req.Name) == "" {
		return "name is required"
	}
	if strings.TrimSpace(req.InstructorName) == "" {
		return "instructor_name is required"
	}
	if err := validatePrice(req.Price); err != "" {
		return err
	}
	if req.AvailableSeats < 0 {
		return "available_seats must not be negative"
	}
	if req.Image != nil {
		return validateImageURL(*req.Image)
	}
	return ""
}

func validateUpdateClassRequest(req updateClassRequest) string {
	if req.Name == nil && req.Image == nil && req.Price == nil {
		return "at least one of name, image or price is required"
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return "name must not be empty"
	}
	if req.Price != nil {
		if err := validatePrice(*req.Price); err != "" {
			return err
		}
	}
	if req.Image != nil {
		return validateImageURL(*req.Image)
	}
	return ""
}

func validatePrice(price float64) string {
	if math.IsNaN(price) || math.IsInf(price, 0) || price < 0 {
		return "price must be a non-negative number"
	}
	return ""
}

func validateImageURL(raw string) string {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return "image must be an absolute http(s) url"
	}
	return ""
}
