package settings

import "errors"

var ErrSettingsNotFound = errors.New("Settings not found")
