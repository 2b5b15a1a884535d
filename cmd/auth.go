package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/opencouncil/finsight/internal/shared"
	"github.com/urfave/cli/v3"
)

// AuthImport parses a saved "Copy as cURL" file, attaches the session to the
// client, and stores a copy at the configured auth file path.
//
// A parsed command without a CSRF token is rejected: the backend refuses
// state-changing requests without one, so importing it would only defer the
// failure to the first submission.
func (r *Runner) AuthImport(ctx context.Context, cmd *cli.Command) error {
	filePath := cmd.StringArg("path")
	if filePath == "" {
		return fmt.Errorf("%w: path to a saved cURL file is required", shared.ErrMissingArgument)
	}

	r.logger.Info("parsing cURL command for session headers", "path", filePath)

	auth, err := shared.ParseCurlFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to parse cURL file: %w", err)
	}

	if auth.Cookie == "" {
		return fmt.Errorf("%w: no Cookie header found in cURL command", shared.ErrMissingAuth)
	}
	if auth.CSRFToken() == "" {
		return fmt.Errorf("%w: save the cURL from a logged-in page request", shared.ErrMissingCSRFToken)
	}

	r.client.SetAuth(auth)

	if !cmd.Bool("no-verify") {
		r.logger.Info("verifying session against backend")
		if err := r.client.Ping(ctx); err != nil {
			return fmt.Errorf("session verification failed: %w", err)
		}
	}

	destPath := r.config.API.AuthFile
	if destPath != "" && destPath != filePath {
		data, err := os.ReadFile(filePath)
		if err != nil {
			return fmt.Errorf("failed to read cURL file: %w", err)
		}
		if dir := filepath.Dir(destPath); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("failed to create auth directory: %w", err)
			}
		}
		if err := os.WriteFile(destPath, data, 0600); err != nil {
			return fmt.Errorf("failed to save auth file: %w", err)
		}
		r.logger.Info("auth file saved", "path", destPath)
	}

	r.writePlain("✓ Session imported\n")
	if destPath != "" {
		r.writePlain("Auth file: %s\n", destPath)
	}
	return nil
}

// AuthStatus checks the current session state against the backend.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	r.logger.Info("checking auth status")

	if err := r.client.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
	}

	r.writePlain("✓ Backend is reachable\n")
	if r.client.Authenticated() {
		r.writePlain("Session: ✓ headers attached\n")
		if r.client.CSRFToken() != "" {
			r.writePlain("CSRF token: ✓ present\n")
		} else {
			r.writePlain("CSRF token: ✗ missing (submissions will be rejected)\n")
		}
	} else {
		r.writePlain("Session: ✗ not imported (run 'finsight auth import <file>')\n")
	}
	return nil
}
