package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/joshuapare/txfs/pkg/txfs"
)

var (
	applyDryRun  bool
	applyBackend string
)

func init() {
	cmd := newApplyCmd()
	cmd.Flags().BoolVar(&applyDryRun, "dry-run", false, "Validate and enqueue the plan, then roll back instead of committing")
	cmd.Flags().StringVar(&applyBackend, "backend", "auto", "Transaction backend: auto, deferred, or native")
	rootCmd.AddCommand(cmd)
}

func newApplyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply <plan.yaml>",
		Short: "Apply a plan of filesystem operations in one transaction",
		Long: `The apply command reads a YAML plan and applies every operation in it
as a single transaction, in plan order.

Example plan:

  ops:
    - op: move
      source: staging/app.bin
      target: current/app.bin
    - op: remove
      target: current/app.bin.sig

Example:
  txfsctl apply upgrade.yaml
  txfsctl apply upgrade.yaml --dry-run
  txfsctl apply upgrade.yaml --backend deferred`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApply(args[0])
		},
	}
	return cmd
}

func runApply(planPath string) error {
	log := newLogger().With("run_id", uuid.NewString())

	plan, err := loadPlan(planPath)
	if err != nil {
		return err
	}
	log.Debug("plan loaded", "path", planPath, "ops", len(plan.Ops))

	backend, err := parseBackend(applyBackend)
	if err != nil {
		return err
	}
	tx, err := txfs.New(txfs.Options{Backend: backend})
	if err != nil {
		return err
	}

	for _, op := range plan.Ops {
		var opErr error
		switch op.Op {
		case "move":
			opErr = tx.Move(op.Source, op.Target)
		case "copy":
			opErr = tx.Copy(op.Source, op.Target)
		case "remove":
			opErr = tx.Remove(op.Target)
		}
		if opErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("enqueue %s %s: %w", op.Op, op.Target, opErr)
		}
		log.Debug("enqueued", "op", op.Op, "source", op.Source, "target", op.Target)
	}

	if applyDryRun {
		if err := tx.Rollback(); err != nil {
			return err
		}
		log.Info("dry run: plan validated, nothing applied", "ops", len(plan.Ops))
		return nil
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	log.Info("plan applied", "ops", len(plan.Ops))
	return nil
}

// parseBackend maps the --backend flag onto transaction options.
func parseBackend(name string) (txfs.Backend, error) {
	switch name {
	case "auto":
		return txfs.BackendAuto, nil
	case "deferred":
		return txfs.BackendDeferred, nil
	case "native":
		return txfs.BackendNative, nil
	default:
		return 0, fmt.Errorf("unknown backend %q (want auto, deferred, or native)", name)
	}
}
