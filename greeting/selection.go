package greeting

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/jim-barber-he/aa-greeting/webex"
)

// Menu names as given on the command line.
const (
	MenuBusiness   = "business"
	MenuAfterHours = "after_hours"

	// DefaultGreeting restores the system greeting instead of uploading a file.
	DefaultGreeting = "default"
)

var errIsDirectory = errors.New("is a directory")

// ParseMenu maps a menu name from the command line to the API's menu.
func ParseMenu(menu string) (webex.MenuKind, error) {
	switch strings.ToLower(menu) {
	case MenuBusiness:
		return webex.BusinessHoursMenu, nil
	case MenuAfterHours:
		return webex.AfterHoursMenu, nil
	default:
		return "", NewInvalidMenuError(menu)
	}
}

// Selection is the greeting to apply: the system default, or a custom one from an audio file.
type Selection struct {
	// Path of the audio file. Empty for the default greeting.
	Path string
	// MediaFileType of the audio file, e.g. WAV.
	MediaFileType string
}

// ParseSelection checks the greeting argument, which is either "default" or the path of an existing audio file.
func ParseSelection(arg string) (Selection, error) {
	if strings.EqualFold(arg, DefaultGreeting) {
		return Selection{}, nil
	}

	info, err := os.Stat(arg)
	if err != nil {
		return Selection{}, NewGreetingFileError(arg, err)
	}
	if info.IsDir() {
		return Selection{}, NewGreetingFileError(arg, errIsDirectory)
	}

	mediaType, err := webex.MediaFileType(arg)
	if err != nil {
		return Selection{}, NewGreetingFileError(arg, err)
	}

	return Selection{Path: arg, MediaFileType: mediaType}, nil
}

// IsDefault reports whether the system default greeting was selected.
func (s Selection) IsDefault() bool {
	return s.Path == ""
}

// FileName is the base name of the audio file.
func (s Selection) FileName() string {
	if s.IsDefault() {
		return ""
	}
	return filepath.Base(s.Path)
}

// Greeting is the value the menu's greeting field is set to.
func (s Selection) Greeting() webex.Greeting {
	if s.IsDefault() {
		return webex.GreetingDefault
	}
	return webex.GreetingCustom
}

func (s Selection) String() string {
	if s.IsDefault() {
		return DefaultGreeting
	}
	return s.FileName()
}
