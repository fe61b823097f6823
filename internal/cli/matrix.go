package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/MacroPower/xgoimages/pkg/matrix"
	"github.com/MacroPower/xgoimages/pkg/state"
	"github.com/MacroPower/xgoimages/pkg/vcs"
)

const (
	matrixDesc = `This command prints the CI job matrix for the release versions saved by
the generate command. Only the JSON document is written to stdout.
`
	matrixExample = `  # Print the matrix from .golang_version
  xgoimages matrix

  # Also report whether the HEAD commit touched the base image
  xgoimages matrix --with_base_changed
`
)

// NewMatrixCmd returns the matrix command.
func NewMatrixCmd(arg *RootArgs) *cobra.Command {
	args := NewMatrixArgs(arg)

	cmd := &cobra.Command{
		Use:          "matrix",
		Short:        "Print the CI job matrix",
		Long:         matrixDesc,
		Example:      matrixExample,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cc *cobra.Command, _ []string) error {
			cfg, err := loadConfig(args.root)
			if err != nil {
				return err
			}

			flags := cc.Flags()
			if flags.Changed("version_file") {
				cfg.VersionFile = *args.versionFile
			}
			if flags.Changed("base_prefix") {
				cfg.BasePrefix = *args.basePrefix
			}
			if flags.Changed("name") {
				cfg.MatrixName = *args.name
			}

			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("%w: %w", ErrInvalidArgument, err)
			}

			st, err := state.NewStore(cfg.VersionFile, cfg.HashFile).Load()
			if err != nil {
				return err
			}

			opts := matrix.Options{Name: cfg.MatrixName}

			if *args.withBaseChanged {
				changed, err := baseChanged(*args.repoDir, cfg.BasePrefix)
				if err != nil {
					return err
				}

				opts.BaseChanged = &changed
			}

			d, err := matrix.New(st.Versions, opts)
			if err != nil {
				return err
			}

			return matrix.Write(cc.OutOrStdout(), d)
		},
	}

	cmd.Flags().StringVar(args.versionFile, "version_file", "", "File to read release versions from")
	cmd.Flags().StringVar(args.name, "name", "", "Name of the matrix entry")
	cmd.Flags().BoolVar(args.withBaseChanged, "with_base_changed", false,
		"Report whether the HEAD commit changed the base image sources")
	cmd.Flags().StringVar(args.basePrefix, "base_prefix", "", "Path prefix of the base image sources")
	cmd.Flags().StringVar(args.repoDir, "repo", ".", "Path inside the git repository to inspect")

	must(cmd.MarkFlagFilename("version_file"))
	must(cmd.MarkFlagDirname("repo"))

	return cmd
}

func baseChanged(dir, prefix string) (bool, error) {
	repo, err := vcs.Open(dir)
	if err != nil {
		return false, err
	}

	files, err := repo.ChangedFiles()
	if err != nil {
		return false, err
	}

	changed := matrix.BaseChanged(files, prefix)

	slog.Info("checked base image changes",
		slog.String("prefix", prefix),
		slog.Bool("changed", changed),
	)

	return changed, nil
}

type MatrixArgs struct {
	root            *RootArgs
	versionFile     *string
	name            *string
	basePrefix      *string
	repoDir         *string
	withBaseChanged *bool
}

func NewMatrixArgs(root *RootArgs) *MatrixArgs {
	return &MatrixArgs{
		root:            root,
		versionFile:     new(string),
		name:            new(string),
		basePrefix:      new(string),
		repoDir:         new(string),
		withBaseChanged: new(bool),
	}
}
