package main

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"
)

// ModerateApprove approves a pending contribution.
func (r *Runner) ModerateApprove(ctx context.Context, cmd *cli.Command) error {
	id := cmd.String("id")

	r.logger.Info("approving contribution", "id", id)

	if err := r.moderation.Approve(ctx, id); err != nil {
		return err
	}
	return r.writePlain("✓ Approved %s\n", id)
}

// ModerateReject rejects a pending contribution.
func (r *Runner) ModerateReject(ctx context.Context, cmd *cli.Command) error {
	id := cmd.String("id")
	reason := cmd.String("reason")

	r.logger.Info("rejecting contribution", "id", id, "reason", reason)

	if err := r.moderation.Reject(ctx, id, reason); err != nil {
		return err
	}
	return r.writePlain("✓ Rejected %s\n", id)
}

// ModerateDelete permanently deletes a contribution after confirmation.
//
// Deletion cannot be undone server-side, so this is the one action that
// blocks on an explicit yes.
func (r *Runner) ModerateDelete(ctx context.Context, cmd *cli.Command) error {
	id := cmd.String("id")

	if !cmd.Bool("yes") {
		ok, err := r.confirm(fmt.Sprintf("Permanently delete contribution %s? This cannot be undone.", id))
		if err != nil {
			return err
		}
		if !ok {
			return r.writePlain("Aborted.\n")
		}
	}

	r.logger.Info("deleting contribution", "id", id)

	if err := r.moderation.Delete(ctx, id); err != nil {
		return err
	}
	return r.writePlain("✓ Deleted %s\n", id)
}

// confirm prompts on the runner's input and returns true only for an
// explicit yes.
func (r *Runner) confirm(prompt string) (bool, error) {
	r.writePlain("%s [y/N]: ", prompt)

	line, err := bufio.NewReader(r.input).ReadString('\n')
	if err != nil {
		return false, fmt.Errorf("could not read confirmation (pass --yes to skip): %w", err)
	}

	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}
