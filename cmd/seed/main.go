// Command seed populates the store with demo campus accounts and events.
// It is intended for local development and demos, not production. Re-running
// it is safe: accounts and usernames that already exist are skipped.
//
// Flags:
//
//	--events-per-user  how many events to post per demo user (default 2)
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/campuseats/freefood-backend/internal/app"
	"github.com/campuseats/freefood-backend/internal/config"
	"github.com/campuseats/freefood-backend/internal/domain"
	"github.com/campuseats/freefood-backend/internal/service/event"
)

type demoUser struct {
	email    string
	username string
	events   []demoEvent
}

type demoEvent struct {
	title       string
	description string
	label       string
	point       domain.GeoPoint
	tags        []domain.Tag
	startIn     time.Duration
	duration    time.Duration
}

const demoPassword = "freefood1demo"

func main() {
	eventsPerUser := flag.Int("events-per-user", 2, "events to post per demo user")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("assemble application", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer a.Close(ctx)

	if err := seed(ctx, a, *eventsPerUser); err != nil {
		logger.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("seed completed")
}

func seed(ctx context.Context, a *app.App, eventsPerUser int) error {
	for _, user := range demoUsers() {
		accountID, username, err := ensureUser(ctx, a, user)
		if err != nil {
			return fmt.Errorf("user %s: %w", user.email, err)
		}

		posted := 0
		for _, de := range user.events {
			if posted >= eventsPerUser {
				break
			}
			start := time.Now().Add(de.startIn)
			_, err := a.Events.Create(ctx, event.CreateEventInput{
				Title:            de.title,
				Description:      de.description,
				Location:         de.point,
				LocationLabel:    de.label,
				StartTime:        start,
				EndTime:          start.Add(de.duration),
				Tags:             de.tags,
				CreatedBy:        username,
				CreatorAccountID: accountID,
			})
			if err != nil {
				return fmt.Errorf("event %q: %w", de.title, err)
			}
			posted++
		}

		a.Log.Info("seeded user",
			slog.String("username", username),
			slog.Int("events", posted))
	}
	return nil
}

// ensureUser signs the demo user up, verifies the email with the token the
// signup returned, and reserves the username. Existing users are reused.
func ensureUser(ctx context.Context, a *app.App, user demoUser) (accountID uuid.UUID, username string, err error) {
	signup, err := a.Identity.SignUp(ctx, user.email, demoPassword)
	if err == nil {
		if _, err := a.Identity.VerifyEmail(ctx, signup.VerificationToken); err != nil {
			return uuid.Nil, "", err
		}
		res, err := a.Identity.SetUsername(ctx, signup.AccountID, user.username)
		if err != nil {
			return uuid.Nil, "", err
		}
		return res.Account.ID, res.Account.Username, nil
	}
	if !errors.Is(err, domain.ErrAlreadyExists) {
		return uuid.Nil, "", err
	}

	// Already seeded on a previous run.
	signin, err := a.Identity.SignIn(ctx, user.email, demoPassword)
	if err != nil {
		return uuid.Nil, "", err
	}
	return signin.AccountID, signin.Username, nil
}

func demoUsers() []demoUser {
	return []demoUser{
		{
			email:    "csdept@berkeley.edu",
			username: "CSDepartment",
			events: []demoEvent{
				{
					title:       "Free pizza after the systems seminar",
					description: "Four boxes left over in the lounge, first come first served.",
					label:       "Soda Hall, 4th floor lounge",
					point:       domain.GeoPoint{Lat: 37.8756, Lng: -122.2588},
					tags:        []domain.Tag{domain.TagPizza, domain.TagLeftovers},
					startIn:     30 * time.Minute,
					duration:    2 * time.Hour,
				},
				{
					title:       "Cookies at the faculty mixer",
					description: "Open to students once the talk wraps up.",
					label:       "Soda Hall, Wozniak Lounge",
					point:       domain.GeoPoint{Lat: 37.8757, Lng: -122.2585},
					tags:        []domain.Tag{domain.TagDessert, domain.TagSnacks},
					startIn:     3 * time.Hour,
					duration:    time.Hour,
				},
			},
		},
		{
			email:    "library@berkeley.edu",
			username: "LibraryStaff",
			events: []demoEvent{
				{
					title:       "Coffee and donuts for finals week",
					description: "Fuel up before your morning exams, while supplies last.",
					label:       "Moffitt Library entrance",
					point:       domain.GeoPoint{Lat: 37.8726, Lng: -122.2608},
					tags:        []domain.Tag{domain.TagCoffee, domain.TagDessert},
					startIn:     time.Hour,
					duration:    90 * time.Minute,
				},
				{
					title:       "Vegan snack bar",
					description: "Granola, fruit and oat milk lattes on the terrace.",
					label:       "Doe Library north terrace",
					point:       domain.GeoPoint{Lat: 37.8723, Lng: -122.2595},
					tags:        []domain.Tag{domain.TagVegan, domain.TagSnacks, domain.TagDrinks},
					startIn:     26 * time.Hour,
					duration:    2 * time.Hour,
				},
			},
		},
		{
			email:    "eecs-social@berkeley.edu",
			username: "eecs_social",
			events: []demoEvent{
				{
					title:       "Boba on Sproul",
					description: "Celebrating the end of recruiting season.",
					label:       "Sproul Plaza, west side",
					point:       domain.GeoPoint{Lat: 37.8697, Lng: -122.2595},
					tags:        []domain.Tag{domain.TagDrinks},
					startIn:     45 * time.Minute,
					duration:    time.Hour,
				},
			},
		},
	}
}
