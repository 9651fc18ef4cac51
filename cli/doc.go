// Package cli contains the command line interface for jidelnicek.
//
// # Usage
//
//	jidelnicek --cafeteria 12345                 # whole menu
//	jidelnicek -c 12345 closest -o text          # first listed day
//	jidelnicek -c 12345 date 23-06-2025 --names  # one date, allergen names
//	jidelnicek -s saved.xml search "svíčková"    # fuzzy search a saved feed
//	jidelnicek allergens 01a,07                  # decode allergen codes
//	jidelnicek serve --listen :8080              # JSON HTTP API
//
// # Configuration
//
// Flag values are taken, from lowest to highest precedence, from defaults,
// JIDELNICEK_* environment variables, the configuration files, and the
// command line. Environment variables may also be placed in ./.env or in
// the file env inside the configuration directory.
//
// Configuration files live in the user configuration directory (e.g.
// ~/.config/jidelnicek) as config.json, config.toml or config.yaml. Keys are
// flag names; nested tables join their keys with a hyphen:
//
//	cafeteria: 12345
//	format: yaml
//	log:
//	  level: debug
//
// The init command writes config.yaml from the current flag values.
//
// # Profiling Options
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory
//
// Profiling flags are only available when built with the pprof build tag:
//
//	go build -tags pprof
package cli
