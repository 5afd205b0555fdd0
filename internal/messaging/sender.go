package messaging

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

var (
	ErrLaunchFailed    = errors.New("could not open link")
	ErrInvalidPhone    = errors.New("invalid destination phone number")
	ErrUnknownPlatform = errors.New("unknown social platform")
)

// Launcher opens URLs on the device
type Launcher interface {
	CanOpen(ctx context.Context, url string) bool
	Open(ctx context.Context, url string) error
}

// Delivery describes how a message left the device
type Delivery struct {
	URL     string `json:"url"`
	ViaApp  bool   `json:"viaApp"`
	Channel string `json:"channel"`
}

// Sender hands a text to a messaging channel
type Sender interface {
	Send(ctx context.Context, text string) (Delivery, error)
}

type whatsAppSender struct {
	phone    string
	launcher Launcher
	logger   *zap.Logger
}

// NewWhatsAppSender creates a Sender that opens a WhatsApp chat with phone.
func NewWhatsAppSender(phone string, launcher Launcher, logger *zap.Logger) Sender {
	return &whatsAppSender{
		phone:    phone,
		launcher: launcher,
		logger:   logger,
	}
}

func (s *whatsAppSender) Send(ctx context.Context, text string) (Delivery, error) {
	if !ValidatePhoneNumber(s.phone) {
		return Delivery{}, fmt.Errorf("%w: %q", ErrInvalidPhone, s.phone)
	}

	link := Links(s.phone, text)
	delivery, err := open(ctx, s.launcher, link)
	if err != nil {
		s.logger.Warn("Failed to open WhatsApp", zap.Error(err))
		return Delivery{}, err
	}
	delivery.Channel = "whatsapp"

	s.logger.Info("Order handed to WhatsApp",
		zap.Bool("via_app", delivery.ViaApp),
		zap.Int("length", len(text)),
	)
	return delivery, nil
}

// open tries the app scheme first and falls back to the web URL.
func open(ctx context.Context, launcher Launcher, link Link) (Delivery, error) {
	if launcher.CanOpen(ctx, link.App) {
		if err := launcher.Open(ctx, link.App); err != nil {
			return Delivery{}, fmt.Errorf("%w: %v", ErrLaunchFailed, err)
		}
		return Delivery{URL: link.App, ViaApp: true}, nil
	}

	if err := launcher.Open(ctx, link.Web); err != nil {
		return Delivery{}, fmt.Errorf("%w: %v", ErrLaunchFailed, err)
	}
	return Delivery{URL: link.Web}, nil
}

// Social profiles of the business
var socialProfiles = map[string]Link{
	"tiktok": {
		App: "tiktok://user?username=rodrigojavierpint7",
		Web: "https://www.tiktok.com/@rodrigojavierpint7",
	},
	"instagram": {
		App: "instagram://user?username=amber_infusion",
		Web: "https://www.instagram.com/amber_infusion/",
	},
}

// SocialLink returns the profile links for a platform.
func SocialLink(platform string) (Link, error) {
	link, ok := socialProfiles[strings.ToLower(platform)]
	if !ok {
		return Link{}, fmt.Errorf("%w: %q", ErrUnknownPlatform, platform)
	}
	return link, nil
}

// OpenSocial opens the business profile on platform, app first.
func OpenSocial(ctx context.Context, launcher Launcher, platform string) (Delivery, error) {
	link, err := SocialLink(platform)
	if err != nil {
		return Delivery{}, err
	}
	delivery, err := open(ctx, launcher, link)
	if err != nil {
		return Delivery{}, err
	}
	delivery.Channel = strings.ToLower(platform)
	return delivery, nil
}
