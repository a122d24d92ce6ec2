package event

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/campuseats/freefood-backend/internal/domain"
)

// MaxTitleLength bounds the trimmed event title.
const MaxTitleLength = 100

// CreateEventInput holds the parameters for posting an event.
type CreateEventInput struct {
	Title         string
	Description   string
	Location      domain.GeoPoint
	LocationLabel string
	StartTime     time.Time
	EndTime       time.Time
	Tags          []domain.Tag

	CreatedBy        string
	CreatorAccountID uuid.UUID
}

// Validate checks all fields and collects all errors.
func (i CreateEventInput) Validate() error {
	var errs []domain.FieldError

	title := strings.TrimSpace(i.Title)
	if title == "" {
		errs = append(errs, domain.FieldError{Field: "title", Message: "required"})
	}
	if len(title) > MaxTitleLength {
		errs = append(errs, domain.FieldError{Field: "title", Message: fmt.Sprintf("max %d characters", MaxTitleLength)})
	}

	if strings.TrimSpace(i.Description) == "" {
		errs = append(errs, domain.FieldError{Field: "description", Message: "required"})
	}
	if strings.TrimSpace(i.LocationLabel) == "" {
		errs = append(errs, domain.FieldError{Field: "location_label", Message: "required"})
	}

	if i.Location.Lat < -90 || i.Location.Lat > 90 || i.Location.Lng < -180 || i.Location.Lng > 180 {
		errs = append(errs, domain.FieldError{Field: "location", Message: "coordinates out of range"})
	}
	if i.Location == (domain.GeoPoint{}) {
		errs = append(errs, domain.FieldError{Field: "location", Message: "unresolved location"})
	}

	if !i.EndTime.After(i.StartTime) {
		errs = append(errs, domain.FieldError{Field: "end_time", Message: "must be after start time"})
	}

	if len(i.Tags) > domain.MaxTags {
		errs = append(errs, domain.FieldError{Field: "tags", Message: fmt.Sprintf("max %d tags", domain.MaxTags)})
	}
	for _, tag := range i.Tags {
		if !domain.IsValidTag(tag) {
			errs = append(errs, domain.FieldError{Field: "tags", Message: fmt.Sprintf("unknown tag %q", tag)})
		}
	}

	if strings.TrimSpace(i.CreatedBy) == "" {
		errs = append(errs, domain.FieldError{Field: "created_by", Message: "required"})
	}
	if i.CreatorAccountID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "creator_account_id", Message: "required"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}
