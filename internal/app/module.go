package app

import (
	"time"

	"go.uber.org/fx"

	"github.com/fatflowers/vcard/internal/app/api/server"
	"github.com/fatflowers/vcard/internal/app/service/analytics"
	"github.com/fatflowers/vcard/internal/app/service/contact"
	"github.com/fatflowers/vcard/internal/app/service/profile"
	"github.com/fatflowers/vcard/internal/app/service/sharing"
	"github.com/fatflowers/vcard/internal/app/service/subscription"
	"github.com/fatflowers/vcard/internal/platform/db"
	"github.com/fatflowers/vcard/pkg/config"
	"github.com/fatflowers/vcard/pkg/logger"
)

const (
	DefaultStartTimeout = 15 * time.Second
	DefaultStopTimeout  = 10 * time.Second
)

var Module = fx.Options(
	logger.Module,
	config.Module,
	db.Module,
	server.Module,
	subscription.Module,
	profile.Module,
	analytics.Module,
	contact.Module,
	sharing.Module,
)
