package render

import "errors"

var (
	ErrBrowser         = errors.New("browser session failed")
	ErrNavigation      = errors.New("navigation failed")
	ErrSelectorTimeout = errors.New("selector did not appear")
	ErrSnapshot        = errors.New("DOM snapshot failed")
)
