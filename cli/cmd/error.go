package cmd

import "github.com/ardnew/jidelnicek/pkg"

// Predefined errors (sentinel values).
var (
	ErrNoCafeteria = pkg.NewError("no cafeteria selected (use --cafeteria or --source)")
	ErrReadSource  = pkg.NewError("read feed document")
	ErrWriteConfig = pkg.NewError("write configuration file")
	ErrFileExists  = pkg.NewError("file exists (use --force to overwrite)")
	ErrNoContext   = pkg.NewError("command context not initialized")
)
