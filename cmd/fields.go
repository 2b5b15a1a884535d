package main

import (
	"context"
	"fmt"

	"github.com/opencouncil/finsight/internal/shared"
	"github.com/urfave/cli/v3"
)

// FieldOptions fetches the option set for a list-kind field.
func (r *Runner) FieldOptions(ctx context.Context, cmd *cli.Command) error {
	key := cmd.StringArg("key")
	if key == "" {
		return fmt.Errorf("%w: field key is required", shared.ErrMissingArgument)
	}

	r.logger.Info("fetching field options", "field", key)

	opts, err := r.fields.Options(ctx, key)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(opts, true)
	}

	if !opts.Select {
		r.writePlain("%s: free text", key)
		if opts.Placeholder != "" {
			r.writePlain(" (e.g. %s)", opts.Placeholder)
		}
		return r.writePlain("\n")
	}

	r.writePlainHeader(fmt.Sprintf("Options for %s", key))
	for _, opt := range opts.Options {
		if opt.Label != "" && opt.Label != opt.Value {
			r.writePlain("%s  (%s)\n", opt.Value, opt.Label)
		} else {
			r.writePlain("%s\n", opt.Value)
		}
	}
	return nil
}
