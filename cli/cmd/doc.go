// Package cmd implements the jidelnicek subcommands.
//
// Commands read the global feed and output flags from the context prepared
// by package cli ([WithFeed], [WithOutput], [WithStdio]) and write their
// results through package format.
package cmd

var (
	// ConfigIdentifier is the kong variable identifier containing the path of
	// the configuration file written by init.
	ConfigIdentifier = "config"

	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"
)
