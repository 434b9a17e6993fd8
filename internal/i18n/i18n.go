// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"time"

	"github.com/Xuanwo/go-locale"
	"github.com/vorlif/humanize"
	"github.com/vorlif/humanize/locale/de"
	"github.com/vorlif/spreak"
	"github.com/vorlif/spreak/localize"
	"golang.org/x/text/language"
)

//go:embed locale/*
var locales embed.FS

// Translator bundles the message localizer with a humanizer for the same language.
type Translator struct {
	*spreak.Localizer
	humanizer *humanize.Humanizer
}

func New(loc string) (*Translator, error) {
	tag := language.Make(loc)
	var err error
	if loc == "" {
		tag, err = locale.Detect()
		if err != nil {
			tag = language.English // Unable to detect locale, fallback to English
		}
	}

	localeFS, err := fs.Sub(locales, "locale")
	if err != nil {
		return nil, fmt.Errorf("failed to load locales: %w", err)
	}

	bundle, err := spreak.NewBundle(
		spreak.WithSourceLanguage(language.English),
		spreak.WithFallbackLanguage(language.English),
		spreak.WithDomainFs("", localeFS),
		spreak.WithLanguage(tag),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create i18n bundle: %w", err)
	}

	collection := humanize.MustNew(humanize.WithLocale(de.New()))
	return &Translator{
		Localizer: spreak.NewLocalizer(bundle, tag),
		humanizer: collection.CreateHumanizer(tag),
	}, nil
}

// Text translates a message ID, falling back to the ID itself.
func (t *Translator) Text(msg localize.MsgID) string {
	return t.Get(msg)
}

// Clock formats the time-of-day part of val in the translator's language.
func (t *Translator) Clock(val time.Time) string {
	return t.humanizer.FormatTime(val, humanize.TimeFormat)
}
